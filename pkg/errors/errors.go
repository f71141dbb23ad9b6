// Package errors provides structured error handling for the application.
package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode classifies an error for API clients and status mapping.
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// AlreadyExists covers duplicate relation rows (second favorite,
	// second follow). The API surfaces these in the 400 class, matching
	// the remove-side validation errors.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Server errors (5xx)
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// AppError is the structured error carried from services to the HTTP
// boundary.
type AppError struct {
	Code    ErrorCode           `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Cause   error               `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, ", "))
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode maps the error code to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed, CodeAlreadyExists:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WithCause attaches the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates an application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// NewUnauthorized creates an authentication-required error.
func NewUnauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return New(CodeUnauthorized, message)
}

// NewForbidden creates a permission-denied error.
func NewForbidden(message string) *AppError {
	if message == "" {
		message = "you do not have permission to perform this action"
	}
	return New(CodeForbidden, message)
}

// NewNotFound creates a not-found error for the named resource.
func NewNotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewAlreadyExists creates a duplicate-relation error.
func NewAlreadyExists(message string) *AppError {
	return New(CodeAlreadyExists, message)
}

// NewValidation creates a validation error without field detail.
func NewValidation(message string) *AppError {
	return New(CodeValidationFailed, message)
}

// NewFieldValidation creates a validation error keyed by field. Every
// violated field carries all of its messages.
func NewFieldValidation(fields map[string][]string) *AppError {
	err := New(CodeValidationFailed, "validation failed")
	err.Fields = fields
	return err
}

// NewInternal creates an internal server error.
func NewInternal(message string) *AppError {
	if message == "" {
		message = "an unexpected error occurred"
	}
	return New(CodeInternal, message)
}

// NewDatabase wraps a storage failure.
func NewDatabase(operation string, cause error) *AppError {
	return New(CodeDatabaseError, fmt.Sprintf("failed to %s", operation)).WithCause(cause)
}

// Wrap converts err into an AppError, passing existing AppErrors through.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternal(message).WithCause(err)
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the code from an error, defaulting to internal.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}
