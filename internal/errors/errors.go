// Package errors provides custom error types for the powcost API.
// Service-layer failures that reach a caller are AppErrors so that handlers
// can render consistent responses without leaking internal details.
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

// General errors.
var (
	ErrInvalidAPIKey  = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Catalog errors.
var (
	ErrItemNotFound = &AppError{Code: "ITEM_NOT_FOUND", Message: "Item not found", StatusCode: http.StatusNotFound}
)

// Project errors.
var (
	ErrProjectNotFound     = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound}
	ErrProjectItemNotFound = &AppError{Code: "PROJECT_ITEM_NOT_FOUND", Message: "Project item not found", StatusCode: http.StatusNotFound}
)

// Storage errors.
var (
	ErrStorageWrite          = &AppError{Code: "STORAGE_WRITE_FAILED", Message: "Failed to save data", StatusCode: http.StatusInternalServerError}
	ErrStorageQuotaExceeded  = &AppError{Code: "STORAGE_QUOTA_EXCEEDED", Message: "Storage capacity exceeded", StatusCode: http.StatusInsufficientStorage}
	ErrFileSystemUnavailable = &AppError{Code: "FILE_SYSTEM_UNAVAILABLE", Message: "File system storage is not enabled", StatusCode: http.StatusConflict}
	ErrBackupNotFound        = &AppError{Code: "BACKUP_NOT_FOUND", Message: "Backup not found or unreadable", StatusCode: http.StatusNotFound}
	ErrInvalidImportFile     = &AppError{Code: "INVALID_IMPORT_FILE", Message: "Import file could not be read", StatusCode: http.StatusBadRequest}
)

// Remote store errors.
var (
	ErrRemoteNotConfigured = &AppError{Code: "REMOTE_NOT_CONFIGURED", Message: "Remote store credentials are not configured", StatusCode: http.StatusConflict}
	ErrRemoteRequest       = &AppError{Code: "REMOTE_REQUEST_FAILED", Message: "Remote store request failed", StatusCode: http.StatusBadGateway}
)
