// Package errors defines the structured application error taxonomy and the
// mapping from error types to HTTP status codes.
package errors

import (
	"fmt"
	"net/http"

	"github.com/xpress-inn/feedback-api/logger"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	InvalidIDError  ErrorType = "INVALID_ID"
	NotFoundError   ErrorType = "NOT_FOUND"
	DatabaseError   ErrorType = "DATABASE_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
	RateLimitError  ErrorType = "RATE_LIMIT_ERROR"
)

// AppError represents a structured application error.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the HTTP status for the error, falling back to the
// type's default mapping when no explicit status was set.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError with the default status for its type.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap attaches AppError context to a raw error.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// ValidationFailed reports a client payload that violates a field constraint.
// The message is safe to surface to the caller verbatim.
func ValidationFailed(message string, detail string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidID reports a path parameter that is not a well-formed record
// identifier. Detected before any store access.
func InvalidID(id string) *AppError {
	return &AppError{
		Type:       InvalidIDError,
		Message:    "Invalid feedback ID",
		Detail:     fmt.Sprintf("ID: %s", id),
		HTTPStatus: http.StatusBadRequest,
	}
}

// FeedbackNotFound reports a well-formed identifier with no matching record.
func FeedbackNotFound(id string) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    "Feedback not found",
		Detail:     fmt.Sprintf("ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewDatabaseError logs the raw error with full detail and returns a
// sanitized error for the caller.
func NewDatabaseError(err error) *AppError {
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// InternalServerError reports an unexpected failure with a generic message.
func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// RateLimited reports a request rejected by the rate limiter.
func RateLimited() *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    "Too many requests",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError, InvalidIDError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case RateLimitError:
		return http.StatusTooManyRequests
	case DatabaseError, ServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
