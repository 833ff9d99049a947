package errors

import (
	"errors"
	"fmt"
)

// Error codes
const (
	CodeUpstream   = "UPSTREAM_ERROR"
	CodeStorage    = "STORAGE_ERROR"
	CodeNotReady   = "NOT_READY"
	CodeAuth       = "AUTH_ERROR"
	CodeValidation = "VALIDATION_ERROR"
)

type DashboardError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DashboardError) Unwrap() error {
	return e.Cause
}

func (e *DashboardError) HTTPStatus() int {
	return e.StatusCode
}

func (e *DashboardError) ErrorCode() string {
	return e.Code
}

func (e *DashboardError) WithCause(cause error) *DashboardError {
	e.Cause = cause
	return e
}

// UpstreamError covers YouTube API failures: missing credentials, fetch
// errors, timeouts. Fatal to the request that needed the data.
type UpstreamError struct {
	*DashboardError
}

func NewUpstreamError(message string, cause error) *UpstreamError {
	return &UpstreamError{
		DashboardError: &DashboardError{
			Message:    message,
			Code:       CodeUpstream,
			StatusCode: 502,
			Cause:      cause,
		},
	}
}

// StorageError covers snapshot store read/write failures.
type StorageError struct {
	*DashboardError
	Operation string
	Date      string
}

func NewStorageError(message, operation, date string, cause error) *StorageError {
	return &StorageError{
		DashboardError: &DashboardError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"date":      date,
			},
			Cause: cause,
		},
		Operation: operation,
		Date:      date,
	}
}

// NotReadyError means no snapshot has ever been produced, so there is no
// dashboard payload to serve yet. Distinct from a generic failure.
type NotReadyError struct {
	*DashboardError
}

func NewNotReadyError(message string) *NotReadyError {
	return &NotReadyError{
		DashboardError: &DashboardError{
			Message:    message,
			Code:       CodeNotReady,
			StatusCode: 503,
		},
	}
}

type AuthError struct {
	*DashboardError
}

func NewAuthError(message string) *AuthError {
	return &AuthError{
		DashboardError: &DashboardError{
			Message:    message,
			Code:       CodeAuth,
			StatusCode: 401,
		},
	}
}

type ValidationError struct {
	*DashboardError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		DashboardError: &DashboardError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// IsNotReady reports whether err wraps a NotReadyError.
func IsNotReady(err error) bool {
	var nre *NotReadyError
	return errors.As(err, &nre)
}

// StatusOf extracts the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var hs interface{ HTTPStatus() int }
	if errors.As(err, &hs) && hs.HTTPStatus() != 0 {
		return hs.HTTPStatus()
	}
	return 500
}

// CodeOf extracts the error code for err, empty when err carries none.
func CodeOf(err error) string {
	var ec interface{ ErrorCode() string }
	if errors.As(err, &ec) {
		return ec.ErrorCode()
	}
	return ""
}
