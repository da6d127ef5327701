// Package start provides the title scene.
package start

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
	ButtonPlay = "start"
)

const sphereSpin = 0.6 // radians per second

// Builder constructs the Start scene
type Builder struct {
	Engine *engine.Engine
	Logger *log.Logger
}

// Build implements orchestrator.Builder
func (b *Builder) Build(ctx context.Context, host orchestrator.Host) (scene.Scene, error) {
	s := b.Engine.CreateScene("start")
	s.ClearColor = color.RGBA{0, 0, 0, 255}

	cam := s.CreateFreeCamera("camera1", mgl32.Vec3{0, 1, -4})
	cam.SetTarget(mgl32.Vec3{0, 0, 0})
	s.CreateHemisphericLight("light1", mgl32.Vec3{1, 1, 0})

	sphere := s.CreateMesh("sphere", engine.SphereData("sphere", 1, 16))
	var angle float32
	s.OnBeforeRender(func(dt float64, _ scene.Input) {
		angle += float32(dt) * sphereSpin
		sphere.Node.Rotation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})
	})

	ui := engine.NewFullscreenUI(s, "UI")
	play := engine.NewSimpleButton(ButtonPlay, "PLAY")
	play.Top = -14
	play.VerticalAlignment = engine.AlignBottom
	play.OnActivated(func() {
		if err := host.Dispatch(state.ActionPlay); err != nil {
			b.Logger.Debug("play ignored", "err", err)
		}
	})
	ui.AddControl(play)

	if err := ctx.Err(); err != nil {
		return s, err
	}
	return s, nil
}
