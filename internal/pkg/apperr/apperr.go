// Package apperr is the error taxonomy shared by all core components.
// Every error that crosses a component boundary is an *Error carrying a kind
// and a caller-safe message; internal details (storage keys, SQL) stay in the
// wrapped cause and never reach the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindStore      Kind = "store"
	KindConflict   Kind = "conflict"
)

// Error is a kinded application error.
type Error struct {
	Kind    Kind
	Message string
	// Fields lists every offending field of a validation error, not just
	// the first one encountered.
	Fields []string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a new kinded error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// NotFound reports that the named entity does not exist.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Forbidden reports an ownership violation.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Validation reports a single invalid input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// MissingFields reports every absent required field at once.
func MissingFields(fields []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// Store reports a blob-store transport failure.
func Store(message string, cause error) *Error {
	return &Error{Kind: KindStore, Message: message, cause: cause}
}

// KindOf extracts the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
