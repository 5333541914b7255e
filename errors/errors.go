package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  isRetryableCode(code),
	}
}

// NotFound creates an AppError for a path no route matches.
func NotFound(path string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("No function is registered at %s.", path),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"path": path},
	}
}

// MethodNotAllowed creates an AppError for a route called with the wrong method.
func MethodNotAllowed(method string, allowed ...string) *AppError {
	return &AppError{
		Code: ErrCodeMethodNotAllowed, Message: fmt.Sprintf("Method %s is not allowed.", method),
		HTTPStatus: http.StatusMethodNotAllowed,
		Details:    map[string]any{"method": method, "allowed": allowed},
	}
}

// InvalidConfig creates an AppError for an invalid configuration value.
func InvalidConfig(field, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("Invalid configuration for %s: %s", field, reason),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"field": field},
	}
}

// ExporterUnavailable creates an AppError for a telemetry exporter that could
// not be constructed.
func ExporterUnavailable(signal string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExporterUnavailable, Message: fmt.Sprintf("The %s exporter could not be created.", signal),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"signal": signal}, Cause: cause,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
