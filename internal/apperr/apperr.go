package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error. Its string value is used as the
// "error" label in the JSON error envelope.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found"
	KindMalformedID  Kind = "malformed_id"
	KindAuthRequired Kind = "auth_required"
	KindAuthInvalid  Kind = "auth_invalid"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindInternal     Kind = "internal_error"
)

// HTTPStatus maps an error kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindMalformedID:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthRequired, KindAuthInvalid:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is a single field-level validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error. Cause is kept for server-side
// logging only and never serialized into a response.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation builds a collect-all validation error from field violations.
func Validation(details []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Details: details}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func MalformedID(msg string) *Error {
	return &Error{Kind: KindMalformedID, Message: msg}
}

func AuthRequired(msg string) *Error {
	return &Error{Kind: KindAuthRequired, Message: msg}
}

func AuthInvalid(msg string) *Error {
	return &Error{Kind: KindAuthInvalid, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func RateLimited(msg string) *Error {
	return &Error{Kind: KindRateLimited, Message: msg}
}

// Internal wraps an unexpected collaborator failure. The client only ever
// sees the generic message; the cause stays in the logs.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "An unexpected error occurred", Cause: cause}
}

// From returns err as an *Error, classifying anything unrecognized as
// internal so raw collaborator error shapes never leak to a client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
