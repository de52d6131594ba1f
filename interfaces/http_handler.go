package interfaces

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jobly/domain"
)

// Dependencies are the collaborators the route layer needs.
type Dependencies struct {
	Companies domain.CompanyRepository
	Jobs      domain.JobRepository
	Users     domain.UserRepository
	Tokens    domain.TokenIssuer
	Notifier  domain.ApplicationNotifier
	Log       *logrus.Logger

	// Ping reports store health for GET /health. Nil means always healthy.
	Ping func(context.Context) error

	// AuthRatePerMinute limits /auth requests per client IP; 0 disables it.
	AuthRatePerMinute int
}

type HTTPHandler struct {
	companies domain.CompanyRepository
	jobs      domain.JobRepository
	users     domain.UserRepository
	tokens    domain.TokenIssuer
	notifier  domain.ApplicationNotifier
	log       *logrus.Logger
	ping      func(context.Context) error
}

// NewHTTPHandler installs middleware and routes on router.
func NewHTTPHandler(router *gin.Engine, deps Dependencies) *HTTPHandler {
	setupValidation()

	h := &HTTPHandler{
		companies: deps.Companies,
		jobs:      deps.Jobs,
		users:     deps.Users,
		tokens:    deps.Tokens,
		notifier:  deps.Notifier,
		log:       deps.Log,
		ping:      deps.Ping,
	}

	router.Use(requestID(), requestLogger(h.log), recovery(h.log), h.authenticateJWT)
	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not Found")
	})

	router.GET("/health", h.health)

	auth := router.Group("/auth", rateLimit(deps.AuthRatePerMinute))
	auth.POST("/token", h.createToken)
	auth.POST("/register", h.register)

	companies := router.Group("/companies")
	companies.POST("", ensureAdmin, h.createCompany)
	companies.GET("", h.listCompanies)
	companies.GET("/:handle", h.getCompany)
	companies.PATCH("/:handle", ensureAdmin, h.updateCompany)
	companies.DELETE("/:handle", ensureAdmin, h.deleteCompany)

	jobs := router.Group("/jobs")
	jobs.POST("", ensureAdmin, h.createJob)
	jobs.GET("", h.listJobs)
	jobs.GET("/:id", h.getJob)
	jobs.PATCH("/:id", ensureAdmin, h.updateJob)
	jobs.DELETE("/:id", ensureAdmin, h.deleteJob)

	users := router.Group("/users")
	users.POST("", ensureAdmin, h.createUser)
	users.GET("", ensureAdmin, h.listUsers)
	users.GET("/:username", ensureCorrectUserOrAdmin, h.getUser)
	users.PATCH("/:username", ensureCorrectUserOrAdmin, h.updateUser)
	users.DELETE("/:username", ensureCorrectUserOrAdmin, h.deleteUser)
	users.POST("/:username/jobs/:id", ensureCorrectUserOrAdmin, h.applyToJob)

	return h
}

func (h *HTTPHandler) health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			h.log.WithError(err).Warn("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
