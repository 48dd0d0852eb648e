// Package apperror defines the error kinds shared by every domain service.
package apperror

import (
	"errors"
	"strings"
)

// Kind classifies an error so transports can translate it without knowing
// the domain that produced it.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindValidation Kind = "validation_error"
	KindInternal   Kind = "internal"

	KindRateLimited Kind = "rate_limited"
	KindUnavailable Kind = "service_unavailable"
)

// Error is a classified error with a stable snake_case code.
type Error struct {
	Kind  Kind
	Code  string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Code + ": " + e.cause.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches errors of the same kind and code, so a wrapped sentinel still
// satisfies errors.Is against the bare sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Field derives the offending field name from validation codes such as
// "invalid_fee_value".
func (e *Error) Field() string {
	if strings.HasPrefix(e.Code, "invalid_") {
		return strings.TrimPrefix(e.Code, "invalid_")
	}
	return ""
}

func NotFound(code string) *Error   { return &Error{Kind: KindNotFound, Code: code} }
func Conflict(code string) *Error   { return &Error{Kind: KindConflict, Code: code} }
func Validation(code string) *Error { return &Error{Kind: KindValidation, Code: code} }
func Internal(code string) *Error   { return &Error{Kind: KindInternal, Code: code} }

func RateLimited(code string) *Error { return &Error{Kind: KindRateLimited, Code: code} }
func Unavailable(code string) *Error { return &Error{Kind: KindUnavailable, Code: code} }

// Wrap attaches a cause to a sentinel while keeping its kind and code.
func Wrap(sentinel *Error, cause error) error {
	if sentinel == nil {
		return cause
	}
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, cause: cause}
}

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf reports the code of err, or "internal_error" for unclassified errors.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Code
	}
	return "internal_error"
}
