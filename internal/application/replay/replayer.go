package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/state"
)

// Dispatcher accepts replayed actions
type Dispatcher interface {
	Dispatch(action state.Action) error
}

type step struct {
	frame  int64
	action state.Action
}

// Replayer dispatches journal entries when their frame comes up
type Replayer struct {
	steps []step
	next  int
}

// NewReplayer creates a replayer from a journal
func NewReplayer(data Journal) (*Replayer, error) {
	steps := make([]step, 0, len(data.Entries))
	for i, e := range data.Entries {
		a, err := state.ParseAction(e.A)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		steps = append(steps, step{frame: e.F, action: a})
	}
	return &Replayer{steps: steps}, nil
}

// LoadJournal loads journal data from a file
func LoadJournal(filename string) (*Journal, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data Journal
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode journal: %w", err)
	}

	return &data, nil
}

// Step dispatches every action due at or before frame.
// An action rejected because a transition is still running is retried on the
// next call; any other outcome consumes it.
func (r *Replayer) Step(frame int64, d Dispatcher) int {
	n := 0
	for r.next < len(r.steps) && r.steps[r.next].frame <= frame {
		err := d.Dispatch(r.steps[r.next].action)
		if orchestrator.IsRejected(err) {
			break
		}
		r.next++
		n++
	}
	return n
}

// Done reports whether every entry has been dispatched
func (r *Replayer) Done() bool {
	return r.next >= len(r.steps)
}

// Position returns the index of the next entry
func (r *Replayer) Position() int {
	return r.next
}

// Total returns the number of entries
func (r *Replayer) Total() int {
	return len(r.steps)
}

// Reset rewinds the replayer to the beginning
func (r *Replayer) Reset() {
	r.next = 0
}
