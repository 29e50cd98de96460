// Package errors provides structured error types for framegraph.
//
// Every failure that a caller may want to branch on carries a machine-readable
// [Code]. The table-graph taxonomy is:
//   - MISSING_COLUMN: a column role names a column absent from the table
//   - WRONG_GRAPH_KIND: edge_key accessed on a non-multigraph
//   - INVALID_GRAPH: the table does not currently qualify as a graph
//   - COPY_REQUIRED: a view was requested without copying but flags mismatch
//   - UNSUPPORTED: a graph view was constructed from an incompatible input
//   - NOT_IMPLEMENTED: an engine declines an algorithm for the given arguments
//   - UNKNOWN_ALGORITHM: the requested algorithm is not registered
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingColumn, "table does not have column %q", name)
//	if errors.Is(err, errors.ErrCodeMissingColumn) {
//	    // Handle stale column reference
//	}
//
//	// Wrap existing errors, keeping the cause reachable through errors.As
//	err := errors.Wrap(errors.ErrCodeInvalidGraph, cause, "table has no attribute %q", attr)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Table-graph errors
	ErrCodeMissingColumn    Code = "MISSING_COLUMN"
	ErrCodeWrongGraphKind   Code = "WRONG_GRAPH_KIND"
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeCopyRequired     Code = "COPY_REQUIRED"
	ErrCodeUnsupported      Code = "UNSUPPORTED"
	ErrCodeNotImplemented   Code = "NOT_IMPLEMENTED"
	ErrCodeUnknownAlgorithm Code = "UNKNOWN_ALGORITHM"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

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
// Only the outermost *Error in the chain is inspected, so an INVALID_GRAPH
// error caused by a MISSING_COLUMN error reports INVALID_GRAPH. Use [Cause]
// to reach the chained error.
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

// Cause returns the direct cause of the outermost *Error in err's chain,
// or nil if there is none.
func Cause(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Cause
	}
	return nil
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
