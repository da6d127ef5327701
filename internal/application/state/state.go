package state

import "fmt"

// ApplicationState represents the top-level state of the application
type ApplicationState int

const (
	StateStart ApplicationState = iota
	StateCutscene
	StateGame
	StateLose
)

// String returns the string representation of the application state
func (s ApplicationState) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateCutscene:
		return "Cutscene"
	case StateGame:
		return "Game"
	case StateLose:
		return "Lose"
	default:
		return "Unknown"
	}
}

// Action is a user- or timer-triggered request to leave the current state
type Action int

const (
	ActionPlay Action = iota
	ActionNext
	ActionLose
	ActionMainMenu
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionPlay:
		return "play"
	case ActionNext:
		return "next"
	case ActionLose:
		return "lose"
	case ActionMainMenu:
		return "main-menu"
	default:
		return "unknown"
	}
}

// ParseAction converts the string form produced by Action.String back into an Action
func ParseAction(s string) (Action, error) {
	switch s {
	case "play":
		return ActionPlay, nil
	case "next":
		return ActionNext, nil
	case "lose":
		return ActionLose, nil
	case "main-menu":
		return ActionMainMenu, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Edge is a directed transition between two states triggered by an action
type Edge struct {
	From   ApplicationState
	Action Action
	To     ApplicationState
}

var edges = []Edge{
	{From: StateStart, Action: ActionPlay, To: StateCutscene},
	{From: StateCutscene, Action: ActionNext, To: StateGame},
	{From: StateGame, Action: ActionLose, To: StateLose},
	{From: StateLose, Action: ActionMainMenu, To: StateStart},
}

// Next returns the state reached by applying action in from.
// ok is false when no such edge exists.
func Next(from ApplicationState, action Action) (to ApplicationState, ok bool) {
	for _, e := range edges {
		if e.From == from && e.Action == action {
			return e.To, true
		}
	}
	return from, false
}

// Edges returns a copy of the transition table
func Edges() []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
