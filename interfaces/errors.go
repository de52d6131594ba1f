package interfaces

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"jobly/apperror"
)

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"message": message, "status": status},
	})
}

// respondError maps err to a response. Anything that is not an
// apperror is logged and hidden behind a 500.
func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	status := apperror.StatusOf(err)
	if status == http.StatusInternalServerError {
		h.log.WithError(err).
			WithField("request_id", c.GetString(requestIDKey)).
			Error("request failed")
		abortWithError(c, status, "Internal Server Error")
		return
	}
	abortWithError(c, status, err.Error())
}

// bindJSON decodes the body into dst and validates it, writing a 400 on
// failure.
func (h *HTTPHandler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, bindErrorMessage(err))
		return false
	}
	return true
}

func bindErrorMessage(err error) string {
	if errors.Is(err, io.EOF) {
		return "Request body is required"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldErrorMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}

func fieldErrorMessage(fe validator.FieldError) string {
	if translator == nil {
		return fe.Error()
	}
	return fe.Translate(translator)
}
