package errorsink

import (
	"errors"
	"runtime/debug"
)

type stackError struct {
	err   error
	stack string
}

func (e *stackError) Error() string { return e.err.Error() }
func (e *stackError) Unwrap() error { return e.err }

// WithStack attaches the current goroutine stack to err.
// Errors that already carry a stack are returned unchanged.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	var se *stackError
	if errors.As(err, &se) {
		return err
	}
	return &stackError{err: err, stack: string(debug.Stack())}
}

// StackOf returns the stack attached by WithStack, or an empty string.
func StackOf(err error) string {
	var se *stackError
	if errors.As(err, &se) {
		return se.stack
	}
	return ""
}
