package lifecycle

import "errors"

var (
	// ErrStartup is returned when the process cannot reach the Listening state.
	ErrStartup = errors.New("startup failed")
	// ErrAlreadyStarted is returned when Run is called more than once.
	ErrAlreadyStarted = errors.New("lifecycle already started")
)
