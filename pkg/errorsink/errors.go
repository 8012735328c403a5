package errorsink

import "errors"

var (
	// ErrWriteRecord wraps failures of the side-channel record writer.
	// It is logged and never surfaces to the client.
	ErrWriteRecord = errors.New("failed to write error record")

	// ErrPanic marks errors recovered from a panicking handler.
	ErrPanic = errors.New("handler panicked")
)
