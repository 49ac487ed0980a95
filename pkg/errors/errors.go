// Package errors provides structured error types for shinier.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server and the library
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The graph builder surfaces three codes of its own:
//   - NOT_FOUND: a path (or a symlink target) does not exist
//   - UNSUPPORTED_PATH: the resolved target is neither a file nor a directory
//   - NOT_A_MODULE: module derivation was asked for a non-module path
//
// The remaining codes belong to the collaborators around the builder
// (configuration, serialization, the HTTP server).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "path does not exist: %s", path)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing path
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNotFound, statErr, "stat %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Traversal errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeUnsupportedPath Code = "UNSUPPORTED_PATH"
	ErrCodeNotAModule      Code = "NOT_A_MODULE"
	ErrCodeLimitExceeded   Code = "LIMIT_EXCEEDED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Source inspection errors
	ErrCodeParseFailed Code = "PARSE_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // Filesystem path the error is about (optional)
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

// WithPath records the filesystem path the error refers to and returns e.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
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

// PathOf returns the path attached to the first *Error in the chain.
func PathOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
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
