package domain

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrCascadeDepthExceeded means the rule set re-entered the engine more times
	// than allowed. It indicates a cyclic rule configuration.
	ErrCascadeDepthExceeded = errors.New("workflow cascade depth exceeded")
)

// TransitionError carries the human-readable rejection for a design status change.
type TransitionError struct {
	From    DesignStatus
	To      DesignStatus
	Message string
}

func (e *TransitionError) Error() string { return e.Message }

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
