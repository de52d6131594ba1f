package interfaces

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"jobly/domain"
)

const (
	requestIDKey = "request_id"
	claimsKey    = "claims"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request")
			return
		}
		entry.Info("request")
	}
}

func recovery(log *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"panic":      recovered,
		}).Error("panic recovered")
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error")
	})
}

// authenticateJWT stores the claims of a valid bearer token on the
// context. A missing or invalid token is not an error here; the route
// guards decide.
func (h *HTTPHandler) authenticateJWT(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if ok && token != "" {
		if claims, err := h.tokens.Verify(strings.TrimSpace(token)); err == nil {
			c.Set(claimsKey, claims)
		}
	}
	c.Next()
}

func currentUser(c *gin.Context) *domain.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*domain.Claims)
	return claims
}

func ensureAdmin(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil || !claims.IsAdmin {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	c.Next()
}

// ensureCorrectUserOrAdmin allows admins and the user named in :username.
func ensureCorrectUserOrAdmin(c *gin.Context) {
	claims := currentUser(c)
	if claims == nil || (!claims.IsAdmin && claims.Username != c.Param("username")) {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	c.Next()
}

// limiterIdleTTL is how long a client IP may go quiet before its bucket
// is dropped.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP and sweeps idle ones.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(limit rate.Limit, burst int, idleTTL time.Duration) *ipLimiter {
	return &ipLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep drops clients idle for at least idleTTL. Callers hold mu.
func (l *ipLimiter) sweep(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTTL {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

func rateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	l := newIPLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute, limiterIdleTTL)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			abortWithError(c, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		c.Next()
	}
}
