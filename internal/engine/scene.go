package engine

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/stagehand/internal/application/scene"
)

// ErrSceneDisposed is returned when waiting on a disposed scene
var ErrSceneDisposed = errors.New("scene disposed")

// Scene is the engine's scene graph. It implements scene.Scene.
type Scene struct {
	id     string
	name   string
	engine *Engine
	logger *log.Logger

	ClearColor color.RGBA

	camera *Camera
	lights []*Light
	meshes []*Mesh
	gui    *GUILayer

	beforeRender []func(dt float64, in scene.Input)
	onDispose    []func()

	// resource queue
	ctx     context.Context
	cancel  context.CancelFunc
	resMu   sync.Mutex
	pending int
	resErr  error
	idle    chan struct{}

	attached atomic.Bool
	disposed atomic.Bool
}

var _ scene.Scene = (*Scene)(nil)

func newScene(e *Engine, name string) *Scene {
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	s := &Scene{
		id:         uuid.NewString(),
		name:       name,
		engine:     e,
		logger:     e.logger.With("scene", name),
		ClearColor: color.RGBA{51, 51, 76, 255},
		ctx:        ctx,
		cancel:     cancel,
		idle:       idle,
	}
	s.attached.Store(true)
	return s
}

// ID returns the scene's unique id
func (s *Scene) ID() string { return s.id }

// Name returns the scene name given at creation
func (s *Scene) Name() string { return s.name }

// Engine returns the owning engine
func (s *Scene) Engine() *Engine { return s.engine }

// Enqueue schedules resource work that WhenReady waits for.
// fn runs on its own goroutine with a context cancelled on Dispose.
func (s *Scene) Enqueue(name string, fn func(ctx context.Context) error) {
	s.resMu.Lock()
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	s.resMu.Unlock()

	go func() {
		err := fn(s.ctx)

		s.resMu.Lock()
		defer s.resMu.Unlock()
		if err != nil && s.resErr == nil {
			s.resErr = fmt.Errorf("resource %s: %w", name, err)
		}
		s.pending--
		if s.pending == 0 {
			close(s.idle)
		}
	}()
}

// WhenReady blocks until all queued resources are done
func (s *Scene) WhenReady(ctx context.Context) error {
	if s.disposed.Load() {
		return ErrSceneDisposed
	}
	s.resMu.Lock()
	idle := s.idle
	s.resMu.Unlock()

	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.disposed.Load() {
		return ErrSceneDisposed
	}
	s.resMu.Lock()
	defer s.resMu.Unlock()
	return s.resErr
}

// CreateNode adds a plain transform node
func (s *Scene) CreateNode(name string) *Node {
	return NewNode(name)
}

// CreateMesh instantiates data under a new node and queues its upload
func (s *Scene) CreateMesh(name string, data *MeshData) *Mesh {
	m := &Mesh{
		Name:    name,
		Node:    NewNode(name),
		Data:    data,
		Color:   color.RGBA{220, 220, 220, 255},
		Visible: true,
	}
	s.meshes = append(s.meshes, m)
	s.Enqueue("mesh:"+name, func(context.Context) error {
		if err := data.Validate(); err != nil {
			return err
		}
		data.BuildEdges()
		return nil
	})
	return m
}

// CreateFreeCamera adds a camera at position and makes it active
// when the scene has none yet.
func (s *Scene) CreateFreeCamera(name string, position mgl32.Vec3) *Camera {
	n := NewNode(name)
	n.Position = position
	c := newCamera(name, n)
	if s.camera == nil {
		s.camera = c
	}
	return c
}

// CreateCamera adds a camera driven by an existing node
func (s *Scene) CreateCamera(name string, node *Node) *Camera {
	c := newCamera(name, node)
	if s.camera == nil {
		s.camera = c
	}
	return c
}

// SetActiveCamera selects the camera used to render
func (s *Scene) SetActiveCamera(c *Camera) {
	s.camera = c
}

// ActiveCamera returns the rendering camera
func (s *Scene) ActiveCamera() *Camera {
	return s.camera
}

// CreateHemisphericLight adds a sky light
func (s *Scene) CreateHemisphericLight(name string, direction mgl32.Vec3) *Light {
	l := &Light{Name: name, Kind: LightHemispheric, Direction: direction, Intensity: 0.7}
	s.lights = append(s.lights, l)
	return l
}

// CreateDirectionalLight adds a sun light
func (s *Scene) CreateDirectionalLight(name string, direction mgl32.Vec3) *Light {
	l := &Light{Name: name, Kind: LightDirectional, Direction: direction, Intensity: 0.8}
	s.lights = append(s.lights, l)
	return l
}

// Lights returns the scene lights
func (s *Scene) Lights() []*Light { return s.lights }

// Meshes returns the scene meshes
func (s *Scene) Meshes() []*Mesh { return s.meshes }

// Mesh returns the first mesh with the given name
func (s *Scene) Mesh(name string) *Mesh {
	for _, m := range s.meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// GUI returns the fullscreen UI layer, or nil
func (s *Scene) GUI() *GUILayer { return s.gui }

// OnBeforeRender registers a per-frame observer run from Update
func (s *Scene) OnBeforeRender(fn func(dt float64, in scene.Input)) {
	s.beforeRender = append(s.beforeRender, fn)
}

// OnDispose registers cleanup run once on Dispose
func (s *Scene) OnDispose(fn func()) {
	s.onDispose = append(s.onDispose, fn)
}

// Update runs per-frame observers and routes input to the GUI
func (s *Scene) Update(dt float64, in scene.Input) {
	if s.disposed.Load() {
		return
	}
	if !s.attached.Load() {
		in = scene.Input{}
	}
	for _, fn := range s.beforeRender {
		fn(dt, in)
	}
	if s.gui != nil && in.PointerPressed {
		w, h := s.engine.Size()
		s.gui.handlePointer(in.CursorX, in.CursorY, w, h)
	}
}

// Draw renders the scene
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.disposed.Load() {
		return
	}
	screen.Fill(s.ClearColor)
	drawMeshes(screen, s.camera, s.lights, s.meshes)
	if s.gui != nil {
		s.gui.draw(screen)
	}
}

// AttachControl enables input routing
func (s *Scene) AttachControl() { s.attached.Store(true) }

// DetachControl disables input routing
func (s *Scene) DetachControl() { s.attached.Store(false) }

// ControlAttached reports whether input is routed to the scene
func (s *Scene) ControlAttached() bool { return s.attached.Load() }

// Dispose releases the scene once; later calls are no-ops
func (s *Scene) Dispose() {
	if !s.disposed.CompareAndSwap(false, true) {
		return
	}
	s.attached.Store(false)
	s.cancel()
	for _, fn := range s.onDispose {
		fn()
	}
	s.meshes = nil
	s.lights = nil
	s.gui = nil
	s.engine.live.Add(-1)
	s.logger.Debug("scene disposed", "id", s.id)
}

// Disposed reports whether Dispose has been called
func (s *Scene) Disposed() bool { return s.disposed.Load() }
