package engine

import (
	"errors"
	"fmt"
)

// Failure kinds. Callers distinguish them with errors.Is / errors.As;
// the transport boundary reduces everything to message text.
var (
	// ErrNotConnected means no session is active.
	ErrNotConnected = errors.New("no app connected; call connect_app first")

	// ErrNotFound means a selector, menu item, or list item matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrTimedOut means the bounded executor abandoned the operation.
	// Distinguished because it often indicates an uninspected modal
	// dialog rather than a true failure.
	ErrTimedOut = errors.New("operation timed out")

	// ErrUnsupported means the operation is invalid for the current
	// target, e.g. keyboard input while a modal dialog is up.
	ErrUnsupported = errors.New("operation not supported")

	// ErrWindowGone means the connected window no longer exists;
	// the caller must reconnect.
	ErrWindowGone = errors.New("connected window no longer exists")

	// ErrWindowMinimized means the target window must be restored first.
	ErrWindowMinimized = errors.New("window is minimized; restore it before performing operations")
)

// OutOfRangeError reports an index outside the valid 0-based range.
type OutOfRangeError struct {
	What    string // e.g. "row index", "window index"
	Index   int
	Max     int
	Subject string // what was being indexed, "" if not applicable
}

func (e *OutOfRangeError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s %d out of range (0-%d) in %s", e.What, e.Index, e.Max, e.Subject)
	}
	return fmt.Sprintf("%s %d out of range (0-%d)", e.What, e.Index, e.Max)
}
