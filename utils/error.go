package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies service failures so transports can map them.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindChainCorruption ErrorKind = "chain_corruption"
	KindInternal        ErrorKind = "internal"
)

// AppError is the error type returned by the service layer.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(kind ErrorKind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) error {
	return newAppError(KindValidation, format, args...)
}

func NewForbiddenError(format string, args ...any) error {
	return newAppError(KindForbidden, format, args...)
}

func NewNotFoundError(format string, args ...any) error {
	return newAppError(KindNotFound, format, args...)
}

func NewConflictError(format string, args ...any) error {
	return newAppError(KindConflict, format, args...)
}

func NewChainCorruptionError(format string, args ...any) error {
	return newAppError(KindChainCorruption, format, args...)
}

// WrapInternal marks err as an unexpected failure while keeping it unwrappable.
func WrapInternal(err error, message string) error {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
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

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Code:    string(KindInternal),
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details), zap.Int("status", status))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError writes err using the status of its kind. Internal details are not exposed.
func RespondError(c *gin.Context, err error) {
	kind := KindOf(err)
	status := HTTPStatus(kind)
	if kind == KindInternal {
		GetLogger().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(status, ErrorResponse{Code: string(kind), Message: "Internal Server Error"})
		return
	}
	var appErr *AppError
	errors.As(err, &appErr)
	if kind == KindChainCorruption {
		GetLogger().Error("booking chain corrupted", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Code: string(kind), Message: appErr.Message})
}
