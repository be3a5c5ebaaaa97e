// Package errors provides the structured error type shared by the discovery
// components.
package errors

// Import as perr to keep the standard library errors package usable.

import (
	stderrs "errors"
	"fmt"
)

// Kind classifies a failure so call sites can decide how to surface it.
// Values are stable; add sparingly.
type Kind uint8

const (
	// KindUnknown is for unclassified errors
	KindUnknown Kind = iota

	// KindValidation is for missing required input, raised before any network call
	KindValidation

	// KindFetch is for transport and HTTP failures
	KindFetch

	// KindFormat is for response bodies with an unexpected shape
	KindFormat

	// KindNotFound is for well-formed "no result" responses
	KindNotFound

	// KindGeneration is for service-reported devotion generation failures
	KindGeneration

	// KindBusy is for triggers rejected because the operation is already loading
	KindBusy
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindFetch:
		return "FetchError"
	case KindFormat:
		return "FormatError"
	case KindNotFound:
		return "NotFoundError"
	case KindGeneration:
		return "GenerationError"
	case KindBusy:
		return "BusyError"
	default:
		return "UnknownError"
	}
}

// Error is the structured error type.
// msg is user facing; kind is machine facing; op is an optional operation tag;
// orig is the wrapped cause.
type Error struct {
	orig error
	msg  string
	kind Kind
	op   string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Kind returns the error kind
func (e *Error) Kind() Kind { return e.kind }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Message returns the user-facing message without the wrapped cause
func (e *Error) Message() string { return e.msg }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf extracts the Kind from any error, defaulting to KindUnknown
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool { return err != nil && KindOf(err) == kind }

// Message returns the text to show a user for err. Foreign errors fall back to
// their Error() string.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.msg
	}
	return err.Error()
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// New returns a new *Error with the given kind and message
func New(kind Kind, msg string) error { return &Error{kind: kind, msg: msg} }

// Newf returns a new *Error with kind and formatted message
func Newf(kind Kind, format string, a ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with kind and message
func Wrap(orig error, kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with kind and formatted message
func Wrapf(orig error, kind Kind, format string, a ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(KindValidation, format, a...) }

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(KindNotFound, format, a...) }

// Formatf returns a format error
func Formatf(format string, a ...any) error { return Newf(KindFormat, format, a...) }

// Busyf returns a busy error
func Busyf(format string, a ...any) error { return Newf(KindBusy, format, a...) }
