package scheduling

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a session operation is called
// from a step that does not permit it.
var ErrInvalidTransition = errors.New("operation not allowed in current step")

// ValidationError flags a malformed field. The flow never advances past
// one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failed store operation. The booking that hit
// it can be retried; nothing was committed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
