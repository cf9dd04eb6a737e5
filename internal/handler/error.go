package handler

import (
	"errors"
	"fmt"
)

// ErrQuit is returned by Execute when the user asked to leave.
var ErrQuit = errors.New("quit")

// UserError is an error type that is used to represent
// an error that should be displayed to the user.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

var _ error = (*UserError)(nil)

func userErrorf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// UsageError reports a command invoked with the wrong arguments.
type UsageError struct {
	Command string
	Usage   string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s %s", e.Command, e.Usage)
}

var _ error = (*UsageError)(nil)
