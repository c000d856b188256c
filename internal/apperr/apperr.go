// Package apperr defines the error kinds surfaced by core operations.
// Handlers translate kinds to transport status codes; anything without a
// kind is an unexpected failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	// KindUnauthenticated marks a caller without valid credentials.
	KindUnauthenticated Kind = "unauthenticated"
)

// Error is a classified error with a user-visible message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a missing or invalid input field.
func Validation(format string, args ...any) error {
	return newf(KindValidation, format, args...)
}

// Forbidden reports an actor without the role or ownership an action needs.
func Forbidden(format string, args ...any) error {
	return newf(KindAuthorization, format, args...)
}

// NotFound reports a referenced record that does not exist.
func NotFound(format string, args ...any) error {
	return newf(KindNotFound, format, args...)
}

// Conflict reports a record in the wrong state for the requested change.
func Conflict(format string, args ...any) error {
	return newf(KindConflict, format, args...)
}

// Unauthenticated reports missing, invalid or revoked credentials.
func Unauthenticated(format string, args ...any) error {
	return newf(KindUnauthenticated, format, args...)
}

// Wrap attaches kind and message to an underlying error.
func Wrap(kind Kind, err error, message string) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain,
// or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-visible message of a classified error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
