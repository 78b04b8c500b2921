// Package errors provides structured error types for gridnet.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the partition core, scenario runner and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND_*: Resource not found
//   - *_MISMATCH, *_VIOLATION: Broken contracts inside the partition core
//   - INTERNAL_*: Unexpected internal errors
//
// # Fatal Codes
//
// [ErrCodeTypeMismatch] and [ErrCodeInvariantViolation] signal programming
// errors. The partition core panics with an *Error carrying one of these
// codes; they are never returned from a public call. Use [IsFatal] after
// recovering to tell them apart from ordinary failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidScenario, "unknown node %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidScenario) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidScenario Code = "INVALID_SCENARIO"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Partition core contract errors (fatal)
	ErrCodeTypeMismatch       Code = "TYPE_MISMATCH"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"

	// Scenario and output errors
	ErrCodeExpectationFailed Code = "EXPECTATION_FAILED"
	ErrCodeRender            Code = "RENDER_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsFatal reports whether err carries one of the codes the partition core
// panics with.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeTypeMismatch, ErrCodeInvariantViolation:
		return true
	}
	return false
}

// FromPanic converts a recovered panic value into an error. Values that are
// already errors keep their chain; anything else becomes an
// [ErrCodeInternal] error. Returns nil for a nil value.
func FromPanic(v any) error {
	switch p := v.(type) {
	case nil:
		return nil
	case error:
		return p
	default:
		return New(ErrCodeInternal, "panic: %v", p)
	}
}
