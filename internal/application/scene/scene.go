// Package scene defines the Scene handle shared by the orchestrator and the render loop.
//
// A Scene is owned by the engine. Builders populate it while it is being
// constructed; afterwards only the orchestrator (attach, detach, dispose) and
// the render loop (Update, Draw) touch it.
package scene

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/stagehand/internal/application/state"
)

// Scene represents a self-contained renderable and interactive graph
// (camera, lights, meshes, GUI layer).
//
// The game loop delegates Update and Draw calls to the current scene.
// Transitions between scenes are sequenced by the orchestrator.
type Scene interface {
	// ID uniquely identifies this scene instance.
	ID() string

	// Name is the human readable name given at creation.
	Name() string

	// WhenReady blocks until every queued resource has finished loading.
	// It returns the first resource error, or ctx.Err().
	WhenReady(ctx context.Context) error

	// Update advances per-frame logic.
	// dt is the delta time in seconds (typically 1/60).
	// Input is only routed to controls while control is attached.
	Update(dt float64, in Input)

	// Draw renders one frame of the scene to the screen.
	Draw(screen *ebiten.Image)

	// AttachControl enables input routing to this scene.
	AttachControl()

	// DetachControl disables input routing to this scene.
	DetachControl()

	// ControlAttached reports whether input is routed to this scene.
	ControlAttached() bool

	// Dispose releases the scene. Only the first call has an effect.
	Dispose()

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

// Input is the per-frame input snapshot collected by the render loop
type Input struct {
	CursorX, CursorY int
	PointerPressed   bool // pointer went down this frame

	// Movement axes in [-1, 1]
	MoveX, MoveZ float64
}

// ConstructionError reports a violated builder precondition
type ConstructionError struct {
	State  state.ApplicationState
	Reason string
	Err    error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("construct %s scene: %s: %v", e.State, e.Reason, e.Err)
	}
	return fmt.Sprintf("construct %s scene: %s", e.State, e.Reason)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
