// Package lose provides the game over scene.
package lose

import (
	"context"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/engine"
)

// Control names
const (
	ButtonMainMenu = "mainmenu"
)

var colorWreck = color.RGBA{200, 60, 60, 255}

// Builder constructs the Lose scene
type Builder struct {
	Engine *engine.Engine
	Logger *log.Logger
}

// Build implements orchestrator.Builder
func (b *Builder) Build(ctx context.Context, host orchestrator.Host) (scene.Scene, error) {
	s := b.Engine.CreateScene("lose")
	s.ClearColor = color.RGBA{30, 8, 8, 255}

	cam := s.CreateFreeCamera("camera1", mgl32.Vec3{0, 3, -8})
	cam.SetTarget(mgl32.Vec3{0, 0, 0})
	s.CreateHemisphericLight("light1", mgl32.Vec3{0, 1, 0})

	wreck := s.CreateMesh("wreck", engine.BoxData("wreck", 2))
	wreck.Color = colorWreck
	wreck.Node.Rotation = mgl32.QuatRotate(mgl32.DegToRad(25), mgl32.Vec3{0, 0, 1})

	ui := engine.NewFullscreenUI(s, "UI")
	menu := engine.NewSimpleButton(ButtonMainMenu, "MAIN MENU")
	menu.Top = -14
	menu.VerticalAlignment = engine.AlignBottom
	menu.OnActivated(func() {
		if err := host.Dispatch(state.ActionMainMenu); err != nil {
			b.Logger.Debug("main menu ignored", "err", err)
		}
	})
	ui.AddControl(menu)

	if err := ctx.Err(); err != nil {
		return s, err
	}
	return s, nil
}
