package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDragging is returned for a PointerMove with no drag in progress.
	ErrNotDragging = errors.New("no drag in progress")

	// ErrUnknownSignal is returned for a Signal type the session cannot apply.
	ErrUnknownSignal = errors.New("unknown signal")

	// ErrClosed is returned by Enqueue once the session has stopped.
	ErrClosed = errors.New("session closed")
)

// SignalError records a signal that was rejected and left the snapshot
// unchanged.
type SignalError struct {
	Signal   Signal
	Revision int64
	Err      error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("%s rejected at revision %d: %v", e.Signal.Kind(), e.Revision, e.Err)
}

func (e *SignalError) Unwrap() error {
	return e.Err
}
