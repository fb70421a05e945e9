// Package errors provides structured error types for pngicons.
//
// Errors fall into two tiers:
//   - Fatal failures (RENDERER_NOT_FOUND, FILE_NOT_FOUND, INVALID_INPUT,
//     INVALID_SVG) abort the run.
//   - Per-icon failures (RENDER_FAILED, INVALID_OUTPUT) are reported for
//     the icon at hand and the run moves on.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFileNotFound, "icons.svg not found: %s", path)
//	if errors.Is(err, errors.ErrCodeFileNotFound) {
//	    // abort
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailed, origErr, "%s", stderr)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal errors
	ErrCodeRendererNotFound Code = "RENDERER_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidSVG       Code = "INVALID_SVG"

	// Per-icon errors
	ErrCodeRenderFailed  Code = "RENDER_FAILED"
	ErrCodeInvalidOutput Code = "INVALID_OUTPUT"
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

// IsFatal reports whether err must abort the whole run rather than a single icon.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeRendererNotFound, ErrCodeFileNotFound, ErrCodeInvalidInput, ErrCodeInvalidSVG:
		return true
	}
	return false
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
