package utils

import (
	"errors"
	"net/http"

	"ufmarketplace_go/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies a domain error. The request boundary maps each kind to
// a fixed HTTP status.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// AppError is a typed domain error with a user-safe message. The wrapped
// cause (store errors and the like) is logged server-side, never serialized.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation/domain-input error (400).
func ErrInvalidInput(message string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message}
}

// ErrUnauthenticated creates an authentication error (401).
func ErrUnauthenticated(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

// ErrForbidden creates an authorization error (403).
func ErrForbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// ErrNotFound creates a missing-entity error (404).
func ErrNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// ErrConflict creates a duplicate-unique-key error (409).
func ErrConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// ErrInternal creates an internal error (500). message is what the client
// sees; err is the cause kept for the logs.
func ErrInternal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind ErrorKind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes the error response for a failed request. Internal causes
// are logged and replaced by the user-safe message.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = ErrInternal("Internal server error", err)
	}

	if appErr.Kind == KindInternal {
		middleware.ErrorLogger("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(statusOf(appErr.Kind), gin.H{"error": appErr.Message})
}
