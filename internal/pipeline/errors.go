package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrAborted is returned when the run context is cancelled. Any output
	// written so far is incomplete.
	ErrAborted = errors.New("conversion aborted")

	// ErrIndexOverflow is returned when another instance would push face
	// indices past the 32-bit range.
	ErrIndexOverflow = errors.New("mesh index range exceeded")
)

// IOError reports a failure reading the source or writing the destination.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
