package chat

import (
	"errors"
	"fmt"
)

// Error kinds. Every rejected precondition unwraps to exactly one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)

// Error is a client-visible failure. Field names the offending input for
// bad requests.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func badRequest(field, msg string) error {
	return &Error{Kind: ErrBadRequest, Field: field, Message: msg}
}
