// Package apperrors provides structured application errors with stable
// codes, following the same shape as the rest of the fleet's services:
// an error carries a machine-readable Code, a human Message, an optional
// wrapped cause, and a details map for extra context.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap one of these with Wrap to preserve
// errors.Is matching while attaching a code and message.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("resource not found")
	ErrExternalService  = errors.New("external service error")
	ErrInternal         = errors.New("internal error")
)

// AppError is a structured application error.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with no wrapped cause.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message, Details: make(map[string]interface{})}
}

// Wrap wraps an existing error with a code and message.
func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err, Details: make(map[string]interface{})}
}

// WithDetail attaches a detail key/value and returns the same error for
// chaining.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	e.Details[key] = value
	return e
}

// ValidationError builds a field-level validation error.
func ValidationError(message, field string, value interface{}) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Err:     ErrValidationFailed,
		Details: map[string]interface{}{"field": field, "value": value},
	}
}

// NotFoundError builds a not-found error for a resource lookup.
func NotFoundError(resourceType, identifier string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resourceType),
		Err:     ErrNotFound,
		Details: map[string]interface{}{"resource_type": resourceType, "identifier": identifier},
	}
}

// ExternalServiceError wraps a failure from a collaborator (geocoder,
// router, broker, database).
func ExternalServiceError(service string, err error) *AppError {
	return &AppError{
		Code:    "EXTERNAL_SERVICE_ERROR",
		Message: fmt.Sprintf("external service error: %s", service),
		Err:     fmt.Errorf("%w: %w", ErrExternalService, err),
		Details: map[string]interface{}{"service": service},
	}
}

// InternalError wraps an invariant violation or other bug-class failure.
func InternalError(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrInternal, err),
		Details: make(map[string]interface{}),
	}
}
