package store

import "fmt"

// Error is a store error with a user-facing message.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Message: e.Message,
		Err:     err,
	}
}

// Is matches errors by message so that wrapped copies of a sentinel still
// compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == e.Message
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Message: "invalid input",
	}

	ErrParentCycle = &Error{
		Message: "menu item cannot be nested under itself or its descendants",
	}
)
