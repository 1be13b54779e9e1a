// Package apperr defines the error type shared by the client-side
// synchronization layer. Every failure carries an explicit Kind so callers
// branch on structure rather than on message text.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a bad user input rejected before any network call.
	KindValidation
	// KindHTTP is a non-2xx response from a remote API.
	KindHTTP
	// KindTransport is a network failure or an unreadable response body.
	KindTransport
	// KindPrecondition is a missing local prerequisite, such as AI settings.
	KindPrecondition
)

// String returns the bare kind name. Use (*Error).Tag for the status-qualified
// form of HTTP errors.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	case KindPrecondition:
		return "precondition"
	}
	return "unknown"
}

// Op names the operation that failed. It selects the fallback message of
// transport errors.
type Op string

const (
	OpLoad   Op = "load"
	OpSave   Op = "save"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Error is a classified failure with a user-facing message.
type Error struct {
	Kind Kind
	// Status is the HTTP status code for KindHTTP.
	Status int
	// Message is safe to show to the user.
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Tag renders the kind with the status code for HTTP errors, e.g. "http:404".
func (e *Error) Tag() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("http:%d", e.Status)
	}
	return e.Kind.String()
}

// Validation returns a validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Precondition returns a precondition error.
func Precondition(message string) *Error {
	return &Error{Kind: KindPrecondition, Message: message}
}

// HTTP returns an error for a non-2xx response. The response body is the
// message; an empty body falls back to the status code.
func HTTP(status int, body string) *Error {
	msg := strings.TrimSpace(body)
	if msg == "" {
		msg = fmt.Sprintf("Server error: %d", status)
	}
	return &Error{Kind: KindHTTP, Status: status, Message: msg}
}

// Transport returns a transport error with a generic message. Entity
// stores replace the message with a per-operation fallback via Describe.
func Transport(cause error) *Error {
	return &Error{Kind: KindTransport, Message: "Unable to reach the server. Please try again.", Cause: cause}
}

// Describe returns err with the stable fallback message for op on the named
// entity when err is a transport error. Other errors are returned as is.
func Describe(err error, op Op, singular, plural string) error {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindTransport {
		return err
	}
	return &Error{Kind: KindTransport, Message: Fallback(op, singular, plural), Cause: e.Cause}
}

// Fallback returns the stable message shown for a transport failure.
func Fallback(op Op, singular, plural string) string {
	switch op {
	case OpLoad:
		return fmt.Sprintf("Unable to load %s. Please check your connection and try again.", plural)
	case OpSave:
		return fmt.Sprintf("Unable to save %s. Please try again.", singular)
	case OpUpdate:
		return fmt.Sprintf("Unable to update %s. Please try again.", singular)
	case OpDelete:
		return fmt.Sprintf("Unable to delete %s. Please try again.", singular)
	}
	return "Something went wrong. Please try again."
}

// As returns the *Error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the user-facing message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if e := As(err); e != nil {
		return e.Message
	}
	return err.Error()
}
