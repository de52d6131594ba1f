// Package apperror defines the error kinds shared by the store and route
// layers. Every kind carries the HTTP status the route layer responds with.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a client-facing failure with a message safe to return in a response.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind so callers can use errors.Is(err, ErrNotFound).
func (e *Error) Unwrap() error { return e.kind }

func BadRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...), kind: ErrBadRequest}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Message: fmt.Sprintf(format, args...), kind: ErrNotFound}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...), kind: ErrUnauthorized}
}

// StatusOf returns the HTTP status for err, 500 for anything not raised by
// this package.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
