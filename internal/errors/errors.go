// Package errors provides the structured error type used across the Branhox API.
// Services return AppError values so handlers can answer with a stable code and
// a client-safe message; the wrapped internal error is only ever logged.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAgentInactive      = &AppError{Code: "AGENT_INACTIVE", Message: "This agent account is inactive", StatusCode: http.StatusForbidden}
	ErrAuthProvider       = &AppError{Code: "AUTH_PROVIDER_ERROR", Message: "Authentication service unavailable", StatusCode: http.StatusBadGateway}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Business errors.
var (
	ErrBusinessNotFound = &AppError{Code: "BUSINESS_NOT_FOUND", Message: "Business not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail   = &AppError{Code: "DUPLICATE_EMAIL", Message: "A business with this email already exists", StatusCode: http.StatusConflict}
)

// Agent errors.
var (
	ErrAgentNotFound     = &AppError{Code: "AGENT_NOT_FOUND", Message: "Agent not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "This username is already taken", StatusCode: http.StatusConflict}
	ErrPasswordTooShort  = &AppError{Code: "INVALID_INPUT", Message: "Password must be at least 6 characters", StatusCode: http.StatusBadRequest}
	ErrPasswordTooLong   = &AppError{Code: "INVALID_INPUT", Message: "Password must be at most 72 bytes", StatusCode: http.StatusBadRequest}
)

// Entry errors.
var (
	ErrEntryNotFound = &AppError{Code: "ENTRY_NOT_FOUND", Message: "Entry not found", StatusCode: http.StatusNotFound}
)

// Settings errors.
var (
	ErrSettingNotFound  = &AppError{Code: "SETTING_NOT_FOUND", Message: "Setting value not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSetting = &AppError{Code: "DUPLICATE_SETTING", Message: "This value already exists", StatusCode: http.StatusConflict}
)

// Report & export errors.
var (
	ErrNoDataToExport = &AppError{Code: "NO_DATA_TO_EXPORT", Message: "No data to export", StatusCode: http.StatusUnprocessableEntity}
	ErrAIUnavailable  = &AppError{Code: "AI_UNAVAILABLE", Message: "Could not generate AI insight", StatusCode: http.StatusBadGateway}
)
