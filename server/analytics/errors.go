package analytics

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type for analytics operations.
type ErrorCode string

const (
	// ErrCodeNotFound indicates the requested user does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid request parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInternal indicates a query failure against either store.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error is a structured error for analytics operations. Query failures are
// never partially tolerated: one failed store call fails the whole request,
// because silently zero-filled aggregates are worse than an explicit error.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFound creates a not-found error.
func NotFound(msg string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: msg}
}

// InvalidArgument creates an invalid-argument error.
func InvalidArgument(msg string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: msg}
}

// Internal wraps a store failure.
func Internal(msg string, cause error) *Error {
	return &Error{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// MessageOf returns the caller-facing message of err without the code prefix
// or any wrapped cause.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// CodeOf returns the error code of err, or ErrCodeInternal for plain errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
