// Package domainerrors defines the error taxonomy shared by every service.
// Stores and services return these so transport layers can translate them
// into HTTP responses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for transport mapping.
type Code string

const (
	// CodeInvalidInput marks malformed or missing request fields.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnauthorized marks missing/invalid tokens and key mismatches.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks a valid identity lacking the required role.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeUpstream marks a failed downstream send (mail, notification).
	CodeUpstream Code = "upstream_unavailable"
	// CodeInternal is the catch-all for unexpected failures.
	CodeInternal Code = "internal_error"
)

// Error carries a code plus a client-safe message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds a coded error with a client-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err (or anything it wraps) carries the given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
