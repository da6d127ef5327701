// Package replay records the actions dispatched to the orchestrator and feeds
// them back at the same frames.
package replay

// Entry records one dispatched action
type Entry struct {
	F  int64  `json:"f"`            // Frame the action was dispatched on
	A  string `json:"a"`            // Action name
	To string `json:"to,omitempty"` // Target state
	OK bool   `json:"ok"`           // Transition completed
}

// Journal contains all data needed to replay a session
type Journal struct {
	Version   string  `json:"version"`
	StartTime string  `json:"startTime"`
	Entries   []Entry `json:"entries"`
}
