package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/domain"
)

// createToken handles POST /auth/token: {username, password} => {token}.
func (h *HTTPHandler) createToken(c *gin.Context) {
	var req domain.Credentials
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondToken(c, http.StatusOK, *user)
}

// register handles POST /auth/register. Self-registered users are never
// admins.
func (h *HTTPHandler) register(c *gin.Context) {
	var req domain.UserRegister
	if !h.bindJSON(c, &req) {
		return
	}
	req.IsAdmin = false

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondToken(c, http.StatusCreated, *user)
}

func (h *HTTPHandler) respondToken(c *gin.Context, status int, user domain.User) {
	token, err := h.tokens.Sign(user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"token": token})
}
