// Package errors provides structured error types for playbookforge.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code]. The CLI prints [UserMessage]; the HTTP server maps codes to status
// values with [HTTPStatus] and reports the code as the error_type field.
//
// # Error Codes
//
// Codes follow a flat naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource lookups that came back empty
//   - *_TOO_LARGE: Configured limits exceeded
//   - STORAGE, INTERNAL_ERROR: Backend and unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "load playbook %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeEmptyContent        Code = "EMPTY_CONTENT"
	ErrCodeInvalidExportFormat Code = "INVALID_EXPORT_FORMAT"
	ErrCodeInvalidGraph        Code = "INVALID_GRAPH"

	// Limit errors
	ErrCodeInputTooLarge Code = "INPUT_TOO_LARGE"
	ErrCodeGraphTooLarge Code = "GRAPH_TOO_LARGE"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodePlaybookNotFound Code = "PLAYBOOK_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
// Unknown codes map to 500.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeEmptyContent, ErrCodeInvalidInput, ErrCodeInvalidExportFormat:
		return http.StatusBadRequest
	case ErrCodeInvalidFormat, ErrCodeInvalidGraph:
		return http.StatusUnprocessableEntity
	case ErrCodeInputTooLarge, ErrCodeGraphTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeNotFound, ErrCodePlaybookNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
