package errors

import (
	"errors"
	"fmt"
)

// Error is a coded registry error. Every precondition violation in the
// registry surfaces as one of these, carrying the machine-readable code
// alongside the human-readable message.
type Error struct {
	code    string
	message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() string {
	return e.code
}

// Message returns the human-readable message without the cause chain.
func (e *Error) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error.
func New(code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

// Code extracts the code from an error, or CodeInternal if the error does not
// carry one. A nil error yields an empty string.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return Code(err) == code
}
