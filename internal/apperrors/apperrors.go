// Package apperrors provides coded application errors for the EduSafe core.
package apperrors

import (
	"errors"
	"fmt"
)

// Code is a stable error code surfaced to the UI layer.
type Code string

const (
	// General errors
	ErrInternal Code = "INTERNAL_ERROR"
	ErrInvalid  Code = "INVALID_INPUT"
	ErrNotFound Code = "NOT_FOUND"

	// Database errors
	ErrDatabase  Code = "DATABASE_ERROR"
	ErrMigration Code = "MIGRATION_FAILED"

	// Record errors
	ErrDocumentNotFound   Code = "DOCUMENT_NOT_FOUND"
	ErrAssignmentNotFound Code = "ASSIGNMENT_NOT_FOUND"
	ErrSettingNotFound    Code = "SETTING_NOT_FOUND"

	// Sync errors
	ErrSyncOffline        Code = "SYNC_OFFLINE"
	ErrSyncInProgress     Code = "SYNC_IN_PROGRESS"
	ErrSyncDeliveryFailed Code = "SYNC_DELIVERY_FAILED"

	// Import errors
	ErrImportUnsupported Code = "IMPORT_UNSUPPORTED_TYPE"
	ErrImportFailed      Code = "IMPORT_FAILED"
)

// AppError carries a code alongside a message and optional cause.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with a code.
func Wrap(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of err, or ErrInternal if it carries none.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
