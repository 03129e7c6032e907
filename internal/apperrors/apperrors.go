// Package apperrors defines the typed error taxonomy shared by all core
// services. The API layer maps each kind to a client-facing status.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindConflict
	KindValidation
	KindPreconditionFailed
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindInvalidState:
		return "invalid_state"
	}
	return "unknown"
}

// Error carries a kind, a message and an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, so sentinel-style comparison with
// errors.Is works against any error produced by the same constructor.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func PreconditionFailed(format string, args ...any) *Error {
	return newError(KindPreconditionFailed, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return newError(KindInvalidState, format, args...)
}

// Wrap attaches a cause to a taxonomy error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	e := newError(kind, format, args...)
	e.Err = err
	return e
}

func isKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func IsNotFound(err error) bool           { return isKind(err, KindNotFound) }
func IsForbidden(err error) bool          { return isKind(err, KindForbidden) }
func IsConflict(err error) bool           { return isKind(err, KindConflict) }
func IsValidation(err error) bool         { return isKind(err, KindValidation) }
func IsPreconditionFailed(err error) bool { return isKind(err, KindPreconditionFailed) }
func IsInvalidState(err error) bool       { return isKind(err, KindInvalidState) }
