// Package apperrors defines the error taxonomy shared by the service layer
// and the HTTP surface.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable, machine-readable class of an error.
type Kind string

// Error kinds.
const (
	KindMissingCredential Kind = "missing_credential"
	KindInvalidCredential Kind = "invalid_credential"
	KindInvalidIdentifier Kind = "invalid_identifier"
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation_error"
	KindStore             Kind = "store_error"
	KindConflict          Kind = "conflict"
	KindBadRequest        Kind = "bad_request"
	KindRateLimited       Kind = "rate_limited"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindMissingCredential, KindInvalidCredential:
		return http.StatusUnauthorized
	case KindInvalidIdentifier, KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error. Two errors match under errors.Is
// when their kinds are equal.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Status returns the HTTP status code for the error.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// Standard errors. Unknown and disabled credentials share one value so
// callers can never tell the two apart.
var (
	ErrMissingCredential = &Error{Kind: KindMissingCredential, Message: "Missing API key"}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential, Message: "Invalid or expired API key"}
	ErrInvalidIdentifier = &Error{Kind: KindInvalidIdentifier, Message: "Invalid identifier format"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "Resource not found"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "One or more fields failed validation"}
	ErrStore             = &Error{Kind: KindStore, Message: "An internal error occurred"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "Resource already exists"}
	ErrBadRequest        = &Error{Kind: KindBadRequest, Message: "Invalid request body"}
	ErrRateLimited       = &Error{Kind: KindRateLimited, Message: "Too many requests. Please try again later."}
)

// NotFound returns a not found error naming the resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// InvalidIdentifier returns an identifier error naming the resource.
func InvalidIdentifier(resource string) *Error {
	return &Error{Kind: KindInvalidIdentifier, Message: fmt.Sprintf("Invalid %s ID format", resource)}
}

// Validation returns a validation error carrying field -> reason details.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: ErrValidation.Message, Details: fields}
}

// Conflict returns a conflict error with a custom message.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// BadRequest returns a bad request error with a custom message.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Store wraps a persistence failure. The cause is kept for logging only.
func Store(err error) *Error {
	return &Error{Kind: KindStore, Message: ErrStore.Message, Err: err}
}

// From classifies err. Unclassified errors become store errors so that
// internal details never reach a client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Store(err)
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
