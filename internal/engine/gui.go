package engine

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// VerticalAlignment positions a control relative to the screen
type VerticalAlignment int

const (
	AlignCenter VerticalAlignment = iota
	AlignTop
	AlignBottom
)

// Button is a clickable text control
type Button struct {
	Name  string
	Label string

	// Width is a fraction of the screen width when <= 1, pixels otherwise.
	Width float64
	// Height and Top are in pixels at the layer's ideal height.
	Height    float64
	Top       float64
	Color     color.RGBA
	Thickness float64

	VerticalAlignment VerticalAlignment

	mu       sync.Mutex
	handlers []func()
}

// NewSimpleButton creates a button with a centred text label
func NewSimpleButton(name, label string) *Button {
	return &Button{
		Name:   name,
		Label:  label,
		Width:  0.2,
		Height: 40,
		Color:  color.RGBA{255, 255, 255, 255},
	}
}

// OnActivated subscribes fn to the button's activation
func (b *Button) OnActivated(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

// Activate fires every activation handler
func (b *Button) Activate() {
	b.mu.Lock()
	handlers := make([]func(), len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Rect returns the button bounds on a screen of the given size
func (b *Button) Rect(screenW, screenH int, scale float64) image.Rectangle {
	w := b.Width
	if w <= 1 {
		w *= float64(screenW)
	}
	h := b.Height * scale
	top := b.Top * scale

	var y float64
	switch b.VerticalAlignment {
	case AlignTop:
		y = top
	case AlignBottom:
		y = float64(screenH) - h + top
	default:
		y = (float64(screenH)-h)/2 + top
	}
	x := (float64(screenW) - w) / 2
	return image.Rect(int(x), int(y), int(x+w), int(y+h))
}

// GUILayer is a fullscreen overlay of controls attached to one scene
type GUILayer struct {
	Name        string
	IdealHeight float64

	face     *text.GoTextFaceSource
	controls []*Button
}

// NewFullscreenUI creates the scene's GUI layer
func NewFullscreenUI(s *Scene, name string) *GUILayer {
	l := &GUILayer{
		Name:        name,
		IdealHeight: 720,
		face:        s.engine.face,
	}
	s.gui = l
	return l
}

// AddControl appends a control to the layer
func (l *GUILayer) AddControl(b *Button) {
	l.controls = append(l.controls, b)
}

// Controls returns the layer controls in insertion order
func (l *GUILayer) Controls() []*Button {
	return l.controls
}

// Control returns the control with the given name, or nil
func (l *GUILayer) Control(name string) *Button {
	for _, c := range l.controls {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (l *GUILayer) scale(screenH int) float64 {
	if l.IdealHeight <= 0 {
		return 1
	}
	return float64(screenH) / l.IdealHeight
}

// handlePointer activates the topmost control under the pointer
func (l *GUILayer) handlePointer(x, y, screenW, screenH int) bool {
	pt := image.Pt(x, y)
	scale := l.scale(screenH)
	for i := len(l.controls) - 1; i >= 0; i-- {
		c := l.controls[i]
		if pt.In(c.Rect(screenW, screenH, scale)) {
			c.Activate()
			return true
		}
	}
	return false
}

func (l *GUILayer) draw(screen *ebiten.Image) {
	b := screen.Bounds()
	scale := l.scale(b.Dy())
	for _, c := range l.controls {
		r := c.Rect(b.Dx(), b.Dy(), scale)
		if c.Thickness > 0 {
			vector.StrokeRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), float32(c.Thickness), c.Color, false)
		}
		if l.face == nil {
			continue
		}
		face := &text.GoTextFace{Source: l.face, Size: 24 * scale}
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(r.Min.X+r.Dx()/2), float64(r.Min.Y+r.Dy()/2))
		op.ColorScale.ScaleWithColor(c.Color)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(screen, c.Label, face, op)
	}
}
