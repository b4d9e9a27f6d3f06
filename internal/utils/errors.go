package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// PipelineError is the single fault kind raised by the validation pipeline.
// Op names the boundary where the fault was caught; Err keeps the original
// cause together with the stack captured at that boundary.
type PipelineError struct {
	Op  string
	Err error
}

// WrapError wraps err with the operation context. Nil stays nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{Op: op, Err: errors.WithStack(err)}
}

// NewError creates a fault that has no underlying cause.
func NewError(op, message string) error {
	return &PipelineError{Op: op, Err: errors.New(message)}
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Format prints the origin stack with %+v.
func (e *PipelineError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s: %+v", e.Op, e.Err)
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}
