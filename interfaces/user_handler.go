package interfaces

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobly/domain"
)

// createUser handles POST /users (admin). Unlike /auth/register it can
// create admins.
func (h *HTTPHandler) createUser(c *gin.Context) {
	var req domain.UserRegister
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	token, err := h.tokens.Sign(*user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *HTTPHandler) listUsers(c *gin.Context) {
	users, err := h.users.FindAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *HTTPHandler) getUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// updateUser handles PATCH /users/:username. Only admins may change
// isAdmin.
func (h *HTTPHandler) updateUser(c *gin.Context) {
	var req domain.UserUpdate
	if !h.bindJSON(c, &req) {
		return
	}
	if req.IsAdmin != nil && !currentUser(c).IsAdmin {
		abortWithError(c, http.StatusUnauthorized, "Only admins can change admin status")
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("username"), req.Fields())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *HTTPHandler) deleteUser(c *gin.Context) {
	username := c.Param("username")
	if err := h.users.Remove(c.Request.Context(), username); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// applyToJob handles POST /users/:username/jobs/:id. The notification is
// best effort; the application row is already committed.
func (h *HTTPHandler) applyToJob(c *gin.Context) {
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	username := c.Param("username")

	if err := h.users.ApplyToJob(c.Request.Context(), username, id); err != nil {
		h.respondError(c, err)
		return
	}

	event := domain.ApplicationEvent{Username: username, JobID: id, AppliedAt: time.Now().UTC()}
	if err := h.notifier.PublishApplication(c.Request.Context(), event); err != nil {
		h.log.WithError(err).
			WithField("request_id", c.GetString(requestIDKey)).
			Warn("publish application event")
	}

	c.JSON(http.StatusCreated, gin.H{"applied": id})
}
