// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal         = "INTERNAL_ERROR"
	CodeSubmission       = "SUBMISSION_FAILED"
	CodeCatalogNotLoaded = "CATALOG_NOT_LOADED"

	// Validation errors (400)
	CodeValidation = "VALIDATION_FAILED"

	// Superseded async result (409). Never shown to the user.
	CodeStaleSelection = "STALE_SELECTION"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the platform.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field name, offending value, ...)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// Field returns the "field" detail, or "" if the error does not name one.
func (e *AppError) Field() string {
	if f, ok := e.Details["field"].(string); ok {
		return f
	}
	return ""
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewFieldRequired creates a validation error naming the missing field.
func NewFieldRequired(field string) *AppError {
	return NewValidation(fmt.Sprintf("%s is required", field)).
		WithDetail("field", field)
}

// NewStaleSelection reports an async result issued for a superseded state.
func NewStaleSelection(issued, current uint64) *AppError {
	return &AppError{
		Code:       CodeStaleSelection,
		Message:    "result belongs to a superseded selection",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"issued": issued, "current": current},
	}
}

// NewSubmissionFailed wraps a collaborator failure. The collaborator's
// message is kept verbatim.
func NewSubmissionFailed(err error) *AppError {
	msg := "order submission failed"
	if err != nil {
		msg = err.Error()
	}
	return &AppError{
		Code:       CodeSubmission,
		Message:    msg,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewCatalogNotLoaded is returned when an operation needs the catalog before its first load.
func NewCatalogNotLoaded() *AppError {
	return &AppError{
		Code:       CodeCatalogNotLoaded,
		Message:    "product catalog is not loaded yet",
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }

// IsStaleSelection checks if error is CodeStaleSelection
func IsStaleSelection(err error) bool { return HasCode(err, CodeStaleSelection) }

// IsSubmissionFailed checks if error is CodeSubmission
func IsSubmissionFailed(err error) bool { return HasCode(err, CodeSubmission) }

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }
