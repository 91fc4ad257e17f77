// Package domainerrors defines the coded error type shared across services.
// Services translate sentinel infrastructure errors into these codes; the
// transport layer translates codes into HTTP statuses exactly once.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure. Codes are part of the public API: they
// appear verbatim in JSON error envelopes.
type Code string

const (
	CodeInvalidInput     Code = "invalid_input"
	CodeNotFound         Code = "not_found"
	CodeExpiredOrMissing Code = "expired_or_missing"
	CodeInvalidCode      Code = "invalid_code"
	CodeTooManyRequests  Code = "too_many_requests"
	CodeUnauthorized     Code = "unauthorized"
	CodeUnavailable      Code = "service_unavailable"
	CodeDeletionFailed   Code = "deletion_failed"
	CodeInternal         Code = "internal_error"
)

// Error carries a code and a human-readable message, optionally wrapping an
// underlying cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, defaulting to CodeInternal for
// uncoded errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the wire status. Unknown codes are treated
// as internal failures.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeExpiredOrMissing, CodeInvalidCode:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeUnavailable, CodeDeletionFailed, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
