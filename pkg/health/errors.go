package health

import "errors"

var (
	// ErrCheckTimeout replaces a check's own error when the check ran past
	// the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckPanic is reported for a check that panicked.
	ErrCheckPanic = errors.New("health: check panicked")
)
