// Package errors provides structured error handling for the application
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"

	// Entitlement denials. These are business outcomes, not faults; the code
	// is surfaced to the caller so the UI can react (upsell vs. limit banner).
	CodeLimitReached    ErrorCode = "LIMIT_REACHED"
	CodePremiumRequired ErrorCode = "PREMIUM_REQUIRED"

	// Server errors (5xx)
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeConfig        ErrorCode = "CONFIG_ERROR"
	CodeAIUnavailable ErrorCode = "AI_UNAVAILABLE"
	CodeAIBadResponse ErrorCode = "AI_BAD_RESPONSE"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// AppError is an application error carrying a code, a user-facing message,
// and an optional cause.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the error code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeLimitReached, CodePremiumRequired:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeAIUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsDenial reports whether the error is an entitlement denial whose code
// belongs in the response body.
func (e *AppError) IsDenial() bool {
	return e.Code == CodeLimitReached || e.Code == CodePremiumRequired
}

// WithCause attaches a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates an application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewBadRequest creates a validation/bad-input error
func NewBadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// NewUnauthorized creates an authentication error
func NewUnauthorized(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return New(CodeUnauthorized, message)
}

// NewNotFound creates a not-found error
func NewNotFound(message string) *AppError {
	if message == "" {
		message = "Resource not found"
	}
	return New(CodeNotFound, message)
}

// NewConfig creates a configuration error. Missing required configuration
// fails the request rather than degrading silently.
func NewConfig(message string) *AppError {
	return New(CodeConfig, message)
}

// NewInternal creates an internal error wrapping a cause
func NewInternal(message string, cause error) *AppError {
	return New(CodeInternal, message).WithCause(cause)
}

// FromError coerces any error into an AppError, defaulting to internal.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternal("Unexpected error", err)
}
