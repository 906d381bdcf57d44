package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotLinked    = errors.New("flow is not linked")
	ErrUnknownNode  = errors.New("node not found in flow")
	ErrNotTrackable = errors.New("level does not track completion")
)

// PersistError wraps a storage failure after a result was computed. The
// result is discarded; nothing from the operation was stored.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: persisting failed: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

func formatValidationErrors(what string, errs []error) error {
	msg := fmt.Sprintf("%s validation failed (%d errors):", what, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
