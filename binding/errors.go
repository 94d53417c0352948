package binding

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/observable/change"
)

var (
	ErrSequenceMismatch = errors.New("target contents do not match source")
	ErrAlreadyBound     = errors.New("target already bound to source")
	ErrUnbindNotAllowed = errors.New("binding does not allow unbind")
	ErrNilSource        = errors.New("source is nil")
	ErrNilTarget        = errors.New("target is nil")
	ErrOutOfSync        = errors.New("target out of sync with source")
)

// ReplicationError is the failure of one target to replay one event. The
// source mutation and the replay into other targets are unaffected.
type ReplicationError struct {
	Source uuid.UUID
	Target uuid.UUID
	Action change.Action
	Index  int
	Err    error
}

// Error implements the error interface.
func (e *ReplicationError) Error() string {
	return fmt.Sprintf("replicate %s @%d from %s to %s: %v", e.Action, e.Index, e.Source, e.Target, e.Err)
}

// Unwrap enables error unwrapping for errors.Is and errors.As.
func (e *ReplicationError) Unwrap() error {
	return e.Err
}
