package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/younwookim/stagehand/internal/application/scene"
)

// InputState holds the raw input of one frame
type InputState struct {
	Left  bool
	Right bool
	Up    bool
	Down  bool

	MouseX     int
	MouseY     int
	MouseClick bool

	// DebugChord is Shift+Ctrl+Alt with I just pressed
	DebugChord bool
}

// ReadInput reads the current input state from ebiten
func ReadInput() InputState {
	mx, my := ebiten.CursorPosition()
	modifiers := ebiten.IsKeyPressed(ebiten.KeyShift) &&
		ebiten.IsKeyPressed(ebiten.KeyControl) &&
		ebiten.IsKeyPressed(ebiten.KeyAlt)
	return InputState{
		Left:       ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:      ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Up:         ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:       ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		MouseX:     mx,
		MouseY:     my,
		MouseClick: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		DebugChord: modifiers && inpututil.IsKeyJustPressed(ebiten.KeyI),
	}
}

// SceneInput converts the raw state into the snapshot routed to the scene
func (s InputState) SceneInput() scene.Input {
	in := scene.Input{
		CursorX:        s.MouseX,
		CursorY:        s.MouseY,
		PointerPressed: s.MouseClick,
	}
	if s.Left {
		in.MoveX--
	}
	if s.Right {
		in.MoveX++
	}
	if s.Up {
		in.MoveZ++
	}
	if s.Down {
		in.MoveZ--
	}
	return in
}
