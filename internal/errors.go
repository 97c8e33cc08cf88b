package internal

import (
	"errors"
	"fmt"
)

// Sentinel errors for the persistence and codec layers. Callers match with
// errors.Is; lower layers wrap them with context via fmt.Errorf and %w.
var (
	// ErrDecode indicates malformed audio bytes or portable text.
	ErrDecode = errors.New("decode error")

	// ErrHandleInvalid indicates a transient asset handle that is unknown
	// or has already been revoked.
	ErrHandleInvalid = errors.New("invalid asset handle")

	// ErrStoreUnavailable indicates the project database could not be opened.
	// Persistence commands are disabled but generation still works.
	ErrStoreUnavailable = errors.New("project store unavailable")

	// ErrValidation indicates an imported project file missing required fields.
	ErrValidation = errors.New("invalid project file")

	// ErrCorruptData indicates stored audio text that cannot be decoded on load.
	ErrCorruptData = errors.New("corrupt project audio data")

	// ErrPreconditionNotMet indicates a save/delete was attempted without the
	// required inputs or before the store was ready.
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrBusy indicates a generation was requested while another is in flight.
	ErrBusy = errors.New("a generation is already in progress")
)

// WorkflowError marks a failure of one generation stage. The underlying
// message is surfaced verbatim to the user.
type WorkflowError struct {
	Stage string
	Err   error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}
