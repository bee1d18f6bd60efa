// Package apperror defines the operational error taxonomy shared by services
// and the HTTP error adapter.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is a stable error category.
type Kind string

const (
	KindValidation         Kind = "validation_failed"
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindInvalidArgument    Kind = "invalid_argument"
	KindInternal           Kind = "internal"
)

// FieldError describes one failing validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error is an operational error: expected, tagged, and safe to show to clients.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error { return e.Err }

// StatusFor maps a kind to its HTTP status code.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation, KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Status: StatusFor(kind), Message: message}
}

// Wrap attaches kind and message to an underlying error.
func Wrap(err error, kind Kind, message string) *Error {
	e := New(kind, message)
	e.Err = err
	return e
}

// Validation aggregates field failures into one error.
func Validation(fields ...FieldError) *Error {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	e := New(KindValidation, "Validation failed: "+strings.Join(msgs, ", "))
	e.Fields = fields
	return e
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }

func InvalidCredentials(message string) *Error { return New(KindInvalidCredentials, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func InvalidArgument(message string) *Error { return New(KindInvalidArgument, message) }

// Internal wraps a programming or infrastructure failure. The message is
// generic; the cause is only exposed outside production.
func Internal(err error) *Error {
	return Wrap(err, KindInternal, "Internal Server Error")
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}
