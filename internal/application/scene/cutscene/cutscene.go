// Package cutscene provides the intro scene shown while the game assets load.
//
// Building the scene starts the game asset preparation and asks the host to
// pre-build the Game scene, so both overlap with the cutscene itself.
package cutscene

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/younwookim/stagehand/internal/application/assets"
	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/engine"
)

// Control names
const (
	ButtonNext = "next"
)

const (
	boxCount    = 6
	orbitRadius = 4
	orbitSpeed  = 0.5 // radians per second
)

var colorBox = color.RGBA{120, 170, 255, 255}

// Builder constructs the Cutscene scene
type Builder struct {
	Engine *engine.Engine
	Slot   *assets.Slot
	// AutoAdvance dispatches Next once after this long on screen. Zero disables it.
	AutoAdvance time.Duration
	Logger      *log.Logger
}

// Build implements orchestrator.Builder
func (b *Builder) Build(ctx context.Context, host orchestrator.Host) (scene.Scene, error) {
	s := b.Engine.CreateScene("cutscene")
	s.ClearColor = color.RGBA{10, 10, 24, 255}

	cam := s.CreateFreeCamera("camera1", mgl32.Vec3{0, 6, -12})
	cam.SetTarget(mgl32.Vec3{0, 0, 0})
	s.CreateHemisphericLight("light1", mgl32.Vec3{1, 1, 0})

	pivot := s.CreateNode("orbit")
	for i := 0; i < boxCount; i++ {
		name := fmt.Sprintf("box%d", i)
		box := s.CreateMesh(name, engine.BoxData(name, 1))
		box.Color = colorBox
		a := 2 * math.Pi * float64(i) / boxCount
		box.Node.Position = mgl32.Vec3{
			float32(math.Cos(a)) * orbitRadius,
			0,
			float32(math.Sin(a)) * orbitRadius,
		}
		box.Node.SetParent(pivot)
	}

	var angle float32
	var onScreen time.Duration
	advanced := false
	s.OnBeforeRender(func(dt float64, _ scene.Input) {
		angle += float32(dt) * orbitSpeed
		pivot.Rotation = mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})

		if b.AutoAdvance <= 0 || advanced {
			return
		}
		onScreen += time.Duration(dt * float64(time.Second))
		if onScreen < b.AutoAdvance {
			return
		}
		err := host.Dispatch(state.ActionNext)
		// A rejection means the transition into this scene is still settling.
		advanced = !orchestrator.IsRejected(err)
		if err == nil {
			b.Logger.Info("cutscene auto advance", "after", onScreen)
		}
	})

	ui := engine.NewFullscreenUI(s, "UI")
	next := engine.NewSimpleButton(ButtonNext, "NEXT")
	next.Top = -14
	next.VerticalAlignment = engine.AlignBottom
	next.OnActivated(func() {
		if err := host.Dispatch(state.ActionNext); err != nil {
			b.Logger.Debug("next ignored", "err", err)
		}
	})
	ui.AddControl(next)

	if err := ctx.Err(); err != nil {
		return s, err
	}

	b.Slot.Prepare()
	host.Prebuild(state.StateGame)
	return s, nil
}
