package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/younwookim/stagehand/internal/application/orchestrator"
)

const journalVersion = "1.0"

// Recorder collects finished transitions into a journal
type Recorder struct {
	mu        sync.Mutex
	data      Journal
	recording bool
}

// NewRecorder creates a recorder that is recording
func NewRecorder() *Recorder {
	return &Recorder{
		data: Journal{
			Version:   journalVersion,
			StartTime: time.Now().Format(time.RFC3339),
			Entries:   make([]Entry, 0, 16),
		},
		recording: true,
	}
}

// Observe records ev. It is meant to be passed to Orchestrator.Subscribe.
func (r *Recorder) Observe(ev orchestrator.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.data.Entries = append(r.data.Entries, Entry{
		F:  ev.Frame,
		A:  ev.Action.String(),
		To: ev.To.String(),
		OK: ev.Err == nil,
	})
}

// Save writes the journal to a file
func (r *Recorder) Save(filename string) error {
	data := r.Data()
	if len(data.Entries) == 0 {
		return fmt.Errorf("no actions to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode journal: %w", err)
	}

	return nil
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Len returns the number of recorded entries
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data.Entries)
}

// Data returns a copy of the journal
func (r *Recorder) Data() Journal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.data
	out.Entries = make([]Entry, len(r.data.Entries))
	copy(out.Entries, r.data.Entries)
	return out
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("journal_%s.json", time.Now().Format("20060102_150405"))
}
