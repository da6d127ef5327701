// Package engine is a small ebiten-backed scene graph: nodes, cameras, lights,
// wireframe meshes, a fullscreen GUI layer and the loading overlay.
package engine

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var colorLoadingBG = color.RGBA{0, 0, 0, 220}

// Engine owns scene creation and the loading overlay
type Engine struct {
	logger *log.Logger
	face   *text.GoTextFaceSource

	width  atomic.Int32
	height atomic.Int32

	loading      atomic.Bool
	loadingFrame atomic.Int64
	live         atomic.Int32
}

// New creates an engine with the given logical screen size
func New(width, height int, logger *log.Logger) (*Engine, error) {
	face, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load ui font: %w", err)
	}
	e := &Engine{
		logger: logger,
		face:   face,
	}
	e.Resize(width, height)
	return e, nil
}

// CreateScene returns an empty scene owned by the caller
func (e *Engine) CreateScene(name string) *Scene {
	s := newScene(e, name)
	e.live.Add(1)
	e.logger.Debug("scene created", "scene", name, "id", s.ID())
	return s
}

// LiveScenes returns the number of created and not yet disposed scenes
func (e *Engine) LiveScenes() int {
	return int(e.live.Load())
}

// Resize updates the logical screen size
func (e *Engine) Resize(width, height int) {
	e.width.Store(int32(width))
	e.height.Store(int32(height))
}

// Size returns the logical screen size
func (e *Engine) Size() (int, int) {
	return int(e.width.Load()), int(e.height.Load())
}

// DisplayLoadingUI shows the loading overlay
func (e *Engine) DisplayLoadingUI() {
	if e.loading.CompareAndSwap(false, true) {
		e.loadingFrame.Store(0)
	}
}

// HideLoadingUI hides the loading overlay
func (e *Engine) HideLoadingUI() {
	e.loading.Store(false)
}

// LoadingUIVisible reports whether the loading overlay is shown
func (e *Engine) LoadingUIVisible() bool {
	return e.loading.Load()
}

// DrawLoadingUI draws the overlay on top of the frame when visible
func (e *Engine) DrawLoadingUI(screen *ebiten.Image) {
	if !e.loading.Load() {
		return
	}
	frame := e.loadingFrame.Add(1)

	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), colorLoadingBG, false)

	dots := strings.Repeat(".", int(frame/20%4))
	face := &text.GoTextFace{Source: e.face, Size: 28}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(b.Dx())/2, float64(b.Dy())/2)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, "LOADING"+dots, face, op)
}
