package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error so the HTTP boundary can map it
// to a status code without inspecting messages.
type Kind int

const (
	// KindInternal is the fallback for unexpected failures.
	KindInternal Kind = iota
	// KindValidation covers missing or malformed input.
	KindValidation
	// KindConflict covers duplicate-resource attempts (e.g. registered email).
	KindConflict
	// KindUnauthorized covers bad credentials and missing or invalid tokens.
	KindUnauthorized
	// KindForbidden covers acting on another user's resource.
	KindForbidden
	// KindNotFound covers missing entities.
	KindNotFound
	// KindExpired covers elapsed OTP windows.
	KindExpired
	// KindProvider covers failures of external providers (email, image store).
	KindProvider
)

// Error is an application error carrying a kind and a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an Error of the given kind.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind that wraps an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation builds a validation error.
func Validation(message string) *Error { return E(KindValidation, message) }

// Conflict builds a conflict error.
func Conflict(message string) *Error { return E(KindConflict, message) }

// Unauthorized builds an unauthorized error.
func Unauthorized(message string) *Error { return E(KindUnauthorized, message) }

// Forbidden builds a forbidden error.
func Forbidden(message string) *Error { return E(KindForbidden, message) }

// NotFound builds a not-found error.
func NotFound(message string) *Error { return E(KindNotFound, message) }

// Expired builds an expired error.
func Expired(message string) *Error { return E(KindExpired, message) }

// Provider builds a provider-failure error wrapping the provider's cause.
func Provider(message string, err error) *Error {
	return Wrap(KindProvider, message, err)
}

// HTTPStatus maps an error to an HTTP status code. Validation, conflict
// and expired OTP windows all surface as 400; anything unclassified is a 500.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindConflict, KindExpired:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for an error. Unclassified errors
// are not leaked to clients.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
