package orchestrator

import (
	"errors"
	"fmt"

	"github.com/younwookim/stagehand/internal/application/state"
)

var (
	// ErrTransitionRejected is returned when an action arrives while another
	// transition is in flight. The action has no effect.
	ErrTransitionRejected = errors.New("transition rejected: another transition is in flight")

	// ErrIllegalTransition is returned when the current state has no edge for the action.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrNotBooted is returned before Boot has published the first scene.
	ErrNotBooted = errors.New("orchestrator not booted")

	// ErrAlreadyBooted is returned by a second Boot.
	ErrAlreadyBooted = errors.New("orchestrator already booted")
)

// TransitionError reports a failed transition. The application stays in From
// and the same action can be retried.
type TransitionError struct {
	From   state.ApplicationState
	To     state.ApplicationState
	Action state.Action
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s (%s): %v", e.From, e.To, e.Action, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
