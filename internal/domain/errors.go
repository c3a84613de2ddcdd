package domain

import (
	"errors"
	"fmt"
)

// Error kinds form the closed taxonomy every handler maps failures into.
// Validation keeps the session alive, Conflict and NotFound terminate the
// flow, Unavailable preserves the session so the step can be retried, and
// Unauthorized rejects before any session is created.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindConflict     ErrorKind = "CONFLICT"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindUnavailable  ErrorKind = "SERVICE_UNAVAILABLE"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
)

// Error is a classified domain failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// Code reports the machine-readable error class for log summaries.
func (e *Error) Code() string { return string(e.Kind) }

// NewError builds a classified error wrapping an optional cause.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// ErrValidation marks bad user input.
func ErrValidation(message string) *Error {
	return NewError(KindValidation, message, nil)
}

// ErrConflict marks duplicate currency or user registrations.
func ErrConflict(message string) *Error {
	return NewError(KindConflict, message, nil)
}

// ErrNotFound marks a missing currency, user, or role target.
func ErrNotFound(message string) *Error {
	return NewError(KindNotFound, message, nil)
}

// ErrUnavailable marks a failed or timed-out downstream call.
func ErrUnavailable(message string, cause error) *Error {
	return NewError(KindUnavailable, message, cause)
}

// ErrUnauthorized marks a non-admin invoking an admin-only command.
func ErrUnauthorized(message string) *Error {
	return NewError(KindUnauthorized, message, nil)
}

// KindOf classifies an arbitrary error, defaulting to Unavailable for
// unclassified transport failures.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnavailable
}

// IsKind reports whether err belongs to the given taxonomy class.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
