// Package orchestratortest provides a recording orchestrator.Host for builder tests.
package orchestratortest

import (
	"sync"

	"github.com/younwookim/stagehand/internal/application/state"
)

// Host records dispatched actions and prebuild requests
type Host struct {
	mu       sync.Mutex
	actions  []state.Action
	prebuilt []state.ApplicationState

	// Answers, when set, is consumed in order by Dispatch. Nil entries accept.
	Answers []error
}

// Dispatch records action unless the next queued answer is an error
func (h *Host) Dispatch(action state.Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var err error
	if len(h.Answers) > 0 {
		err = h.Answers[0]
		h.Answers = h.Answers[1:]
	}
	if err == nil {
		h.actions = append(h.actions, action)
	}
	return err
}

// Prebuild records target
func (h *Host) Prebuild(target state.ApplicationState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prebuilt = append(h.prebuilt, target)
}

// Actions returns the accepted actions in order
func (h *Host) Actions() []state.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]state.Action(nil), h.actions...)
}

// Prebuilt returns the prebuild requests in order
func (h *Host) Prebuilt() []state.ApplicationState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]state.ApplicationState(nil), h.prebuilt...)
}
