package infra

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provisioning failures for the operator.
type ErrorKind string

const (
	// KindInvalid marks a bad spec or variables. Not retryable.
	KindInvalid ErrorKind = "invalid"

	// KindTransient marks a cloud API hiccup. Retrying the run may succeed.
	KindTransient ErrorKind = "transient"

	// KindConflict marks state drift or a held lock. Operator
	// intervention required; the underlying error is surfaced verbatim.
	KindConflict ErrorKind = "conflict"
)

// Error is a provisioning failure with its classification.
type Error struct {
	Kind ErrorKind
	Op   string // "init", "apply", "output", "verify" or "destroy"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provision %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or "" if err is not a
// provisioning error.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
