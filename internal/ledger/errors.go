package ledger

import (
	"errors"
	"fmt"
)

// Error kinds used with errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrStateConflict          = errors.New("state conflict")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// Error carries the failing operation and a user-facing message alongside its kind.
type Error struct {
	Op      string
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap exposes the kind for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation builds a validation error.
func Validation(op, message string) *Error {
	return &Error{Op: op, Kind: ErrValidation, Message: message}
}

// NotFound builds a not-found error.
func NotFound(op, message string) *Error {
	return &Error{Op: op, Kind: ErrNotFound, Message: message}
}

// Conflict builds a state conflict error.
func Conflict(op, message string) *Error {
	return &Error{Op: op, Kind: ErrStateConflict, Message: message}
}

// Message returns the user-facing message of a ledger error, or fallback when err is not one.
func Message(err error, fallback string) string {
	var ledgerErr *Error
	if errors.As(err, &ledgerErr) && ledgerErr.Message != "" {
		return ledgerErr.Message
	}
	return fallback
}
