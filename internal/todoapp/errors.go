package todoapp

import (
	"errors"
	"fmt"
)

// Kind classifies a failed remote call.
type Kind int

const (
	FetchFailure Kind = iota + 1
	CreateFailure
	UpdateFailure
	DeleteFailure
	ComputeFailure
)

func (k Kind) String() string {
	switch k {
	case FetchFailure:
		return "fetching todos"
	case CreateFailure:
		return "creating todo"
	case UpdateFailure:
		return "updating todo"
	case DeleteFailure:
		return "deleting todo"
	case ComputeFailure:
		return "adding numbers"
	}
	return "unknown operation"
}

// OpError wraps the error of a failed remote call with its Kind.
type OpError struct {
	Kind Kind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or 0 when err is not an OpError.
func KindOf(err error) Kind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return 0
}
