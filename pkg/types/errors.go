// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ErrorKind classifies every error a user can see.
type ErrorKind string

const (
	KindInvalidType     ErrorKind = "invalid_type"
	KindTooLarge        ErrorKind = "too_large"
	KindNoFileSelected  ErrorKind = "no_file_selected"
	KindUnsupportedFile ErrorKind = "unsupported_file"
	KindRequestFailed   ErrorKind = "request_failed"
	KindTransportError  ErrorKind = "transport_error"
)

// Inline reports whether errors of this kind are shown next to the input
// that caused them instead of in an error panel.
func (k ErrorKind) Inline() bool {
	switch k {
	case KindInvalidType, KindTooLarge, KindNoFileSelected:
		return true
	}
	return false
}

// Error is the typed error carried through validation, flows and the backend
// client. Message is user-facing; Err is the underlying cause, if any.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidType     = &Error{Kind: KindInvalidType}
	ErrTooLarge        = &Error{Kind: KindTooLarge}
	ErrNoFileSelected  = &Error{Kind: KindNoFileSelected}
	ErrUnsupportedFile = &Error{Kind: KindUnsupportedFile}
	ErrRequestFailed   = &Error{Kind: KindRequestFailed}
	ErrTransportError  = &Error{Kind: KindTransportError}
)

// NewError builds an *Error of the given kind.
func NewError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
