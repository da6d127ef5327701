// Package game provides the ebiten render loop over the state orchestrator.
package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/younwookim/stagehand/internal/application/replay"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
	"github.com/younwookim/stagehand/internal/engine"
)

var colorOverlayBG = color.RGBA{0, 0, 0, 160}

// Stage is the orchestrator surface the render loop drives
type Stage interface {
	Tick(dt float64, in scene.Input)
	Draw(screen *ebiten.Image)
	Dispatch(action state.Action) error
	Frame() int64
	State() state.ApplicationState
	Current() scene.Scene
	InFlight() bool
	Pending() []state.ApplicationState
}

// LiveGauge receives the number of live scenes once per frame
type LiveGauge interface {
	SetLiveScenes(n int)
}

// Config configures a Game
type Config struct {
	Stage  Stage
	Engine *engine.Engine
	// Replayer, when set, feeds recorded actions back into the stage.
	Replayer *replay.Replayer
	// Overlay shows the debug overlay from the first frame.
	Overlay bool
	Gauge   LiveGauge
	Logger  *log.Logger
}

// Game implements ebiten.Game on top of a Stage
type Game struct {
	stage    Stage
	engine   *engine.Engine
	replayer *replay.Replayer
	gauge    LiveGauge
	logger   *log.Logger

	overlay   bool
	readInput func() InputState
	dt        float64
}

// New creates a new Game
func New(cfg Config) *Game {
	return &Game{
		stage:     cfg.Stage,
		engine:    cfg.Engine,
		replayer:  cfg.Replayer,
		gauge:     cfg.Gauge,
		logger:    cfg.Logger,
		overlay:   cfg.Overlay,
		readInput: ReadInput,
		dt:        1.0 / 60.0, // Default to 60 FPS
	}
}

// Update collects input and runs one frame on the current scene.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	in := g.readInput()
	if in.DebugChord {
		g.overlay = !g.overlay
		g.logger.Debug("debug overlay toggled", "visible", g.overlay)
	}

	if g.replayer != nil && !g.replayer.Done() {
		// Actions are recorded with the frame number of the tick that dispatched them.
		g.replayer.Step(g.stage.Frame()+1, g.stage)
	}

	g.stage.Tick(g.dt, in.SceneInput())

	if g.gauge != nil {
		g.gauge.SetLiveScenes(g.engine.LiveScenes())
	}
	return nil
}

// Draw renders the current scene, then the loading and debug overlays.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen)
	g.engine.DrawLoadingUI(screen)
	if g.overlay {
		g.drawOverlay(screen)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	lines := g.overlayLines()
	vector.DrawFilledRect(screen, 0, 0, 320, float32(16*len(lines)+8), colorOverlayBG, false)
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
}

func (g *Game) overlayLines() []string {
	id := "-"
	if s := g.stage.Current(); s != nil {
		id = s.ID()
	}
	pending := make([]string, 0, 2)
	for _, st := range g.stage.Pending() {
		pending = append(pending, st.String())
	}
	return []string{
		fmt.Sprintf("state: %s", g.stage.State()),
		fmt.Sprintf("scene: %s", id),
		fmt.Sprintf("in flight: %t", g.stage.InFlight()),
		fmt.Sprintf("pending: %s", strings.Join(pending, ",")),
		fmt.Sprintf("live scenes: %d", g.engine.LiveScenes()),
		fmt.Sprintf("FPS: %.1f TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
	}
}

// Layout tracks the window size so the scene and GUI follow resizes.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := g.engine.Size(); w != outsideWidth || h != outsideHeight {
		g.engine.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// SetDT sets the delta time used for updates.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}

// OverlayVisible reports whether the debug overlay is shown
func (g *Game) OverlayVisible() bool {
	return g.overlay
}
