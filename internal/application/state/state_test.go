package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationState_String(t *testing.T) {
	tests := []struct {
		state    ApplicationState
		expected string
	}{
		{StateStart, "Start"},
		{StateCutscene, "Cutscene"},
		{StateGame, "Game"},
		{StateLose, "Lose"},
		{ApplicationState(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestApplicationStateConstants(t *testing.T) {
	// Verify the iota ordering
	assert.Equal(t, ApplicationState(0), StateStart)
	assert.Equal(t, ApplicationState(1), StateCutscene)
	assert.Equal(t, ApplicationState(2), StateGame)
	assert.Equal(t, ApplicationState(3), StateLose)
}

func TestParseAction_RoundTrip(t *testing.T) {
	for _, a := range []Action{ActionPlay, ActionNext, ActionLose, ActionMainMenu} {
		parsed, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	_, err := ParseAction("jump")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Action(42).String())
}

func TestNext_ValidEdges(t *testing.T) {
	tests := []struct {
		from   ApplicationState
		action Action
		to     ApplicationState
	}{
		{StateStart, ActionPlay, StateCutscene},
		{StateCutscene, ActionNext, StateGame},
		{StateGame, ActionLose, StateLose},
		{StateLose, ActionMainMenu, StateStart},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.action.String(), func(t *testing.T) {
			to, ok := Next(tt.from, tt.action)
			require.True(t, ok)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestNext_RejectsEverythingElse(t *testing.T) {
	allowed := 0
	for _, from := range []ApplicationState{StateStart, StateCutscene, StateGame, StateLose} {
		for _, a := range []Action{ActionPlay, ActionNext, ActionLose, ActionMainMenu} {
			to, ok := Next(from, a)
			if ok {
				allowed++
				continue
			}
			assert.Equal(t, from, to, "rejected action keeps the state")
		}
	}
	assert.Equal(t, len(Edges()), allowed)
}

func TestEdges_ReturnsCopy(t *testing.T) {
	e := Edges()
	e[0].To = StateLose

	to, ok := Next(StateStart, ActionPlay)
	require.True(t, ok)
	assert.Equal(t, StateCutscene, to)
}
