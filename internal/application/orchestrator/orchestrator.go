// Package orchestrator drives the application state machine.
//
// It owns the current scene and sequences every transition:
//
//  1. detach control from the outgoing scene
//  2. show the loading overlay
//  3. build the target scene, or take the one pre-built for it
//  4. wait for the target to be ready
//  5. hide the loading overlay
//  6. publish the target as current, wait for in-flight frames, dispose the outgoing scene
//  7. attach control to the new scene
//
// Only one transition runs at a time. The render loop reads the current scene
// through Tick and Draw and never observes a scene that is not ready.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/stagehand/internal/application/scene"
	"github.com/younwookim/stagehand/internal/application/state"
)

// LoadingUI is the engine-level loading overlay
type LoadingUI interface {
	DisplayLoadingUI()
	HideLoadingUI()
}

// Host is the part of the orchestrator visible to builders and their controls
type Host interface {
	// Dispatch requests a transition without blocking.
	Dispatch(action state.Action) error
	// Prebuild constructs the scene for target in the background so the next
	// transition to target can reuse it.
	Prebuild(target state.ApplicationState)
}

// Builder constructs the scene of one application state
type Builder interface {
	Build(ctx context.Context, host Host) (scene.Scene, error)
}

// BuilderFunc adapts a function to Builder
type BuilderFunc func(ctx context.Context, host Host) (scene.Scene, error)

// Build calls f
func (f BuilderFunc) Build(ctx context.Context, host Host) (scene.Scene, error) {
	return f(ctx, host)
}

// Metrics receives transition outcomes
type Metrics interface {
	ObserveTransition(from, to state.ApplicationState, d time.Duration, err error)
	IncRejected()
}

// Event describes a finished transition
type Event struct {
	Frame    int64
	From     state.ApplicationState
	To       state.ApplicationState
	Action   state.Action
	SceneID  string
	Duration time.Duration
	Err      error
}

// Config configures an Orchestrator
type Config struct {
	Loading  LoadingUI
	Builders map[state.ApplicationState]Builder
	Logger   *log.Logger
	Metrics  Metrics
}

type current struct {
	scene scene.Scene
	state state.ApplicationState
}

type pendingScene struct {
	done  chan struct{}
	scene scene.Scene
	err   error
}

type transition struct {
	frame  int64
	from   *current
	to     state.ApplicationState
	action state.Action
	start  time.Time
}

// Orchestrator is the application state machine
type Orchestrator struct {
	cfg    Config
	logger *log.Logger

	cur   atomic.Pointer[current]
	gate  sync.RWMutex // read-held for the duration of a frame
	busy  atomic.Bool
	frame atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	inflight   sync.WaitGroup
	background sync.WaitGroup

	pendMu  sync.Mutex
	pending map[state.ApplicationState]*pendingScene
	closed  bool

	subMu       sync.Mutex
	subscribers []func(Event)
}

// New creates an orchestrator. Boot must be called before the render loop starts.
func New(cfg Config) *Orchestrator {
	if cfg.Logger == nil {
		panic("orchestrator: nil logger")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:     cfg,
		logger:  cfg.Logger.WithPrefix("orchestrator"),
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[state.ApplicationState]*pendingScene),
	}
}

// Boot builds the Start scene behind the loading overlay and makes it current
func (o *Orchestrator) Boot(ctx context.Context) error {
	if o.cur.Load() != nil {
		return ErrAlreadyBooted
	}
	if !o.busy.CompareAndSwap(false, true) {
		return ErrTransitionRejected
	}
	defer o.busy.Store(false)

	o.cfg.Loading.DisplayLoadingUI()
	s, err := o.obtain(ctx, state.StateStart)
	if err == nil {
		err = s.WhenReady(ctx)
	}
	o.cfg.Loading.HideLoadingUI()
	if err != nil {
		if s != nil {
			s.Dispose()
		}
		return fmt.Errorf("boot: %w", err)
	}

	o.publish(s, state.StateStart)
	s.AttachControl()
	o.logger.Info("booted", "state", state.StateStart, "scene", s.ID())
	return nil
}

// State returns the current application state
func (o *Orchestrator) State() state.ApplicationState {
	if c := o.cur.Load(); c != nil {
		return c.state
	}
	return state.StateStart
}

// Current returns the current scene, or nil before Boot
func (o *Orchestrator) Current() scene.Scene {
	if c := o.cur.Load(); c != nil {
		return c.scene
	}
	return nil
}

// InFlight reports whether a transition is running
func (o *Orchestrator) InFlight() bool {
	return o.busy.Load()
}

// Frame returns the number of ticks processed
func (o *Orchestrator) Frame() int64 {
	return o.frame.Load()
}

// Subscribe registers fn for every finished transition.
// fn runs on the transition goroutine.
func (o *Orchestrator) Subscribe(fn func(Event)) {
	o.subMu.Lock()
	defer o.subMu.Unlock()
	o.subscribers = append(o.subscribers, fn)
}

// Dispatch starts a transition and returns without waiting for it.
// The guard and the detach of the outgoing scene happen before it returns.
func (o *Orchestrator) Dispatch(action state.Action) error {
	t, err := o.begin(action)
	if err != nil {
		return err
	}
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		_ = o.run(o.ctx, t)
	}()
	return nil
}

// Transition runs a transition to completion on the calling goroutine.
// It must not be called from Tick or Draw.
func (o *Orchestrator) Transition(ctx context.Context, action state.Action) error {
	t, err := o.begin(action)
	if err != nil {
		return err
	}
	return o.run(ctx, t)
}

// Wait blocks until every dispatched transition has finished
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

func (o *Orchestrator) begin(action state.Action) (*transition, error) {
	if o.cur.Load() == nil {
		return nil, ErrNotBooted
	}
	if !o.busy.CompareAndSwap(false, true) {
		if o.cfg.Metrics != nil {
			o.cfg.Metrics.IncRejected()
		}
		o.logger.Debug("action ignored, transition in flight", "action", action)
		return nil, ErrTransitionRejected
	}

	from := o.cur.Load()
	to, ok := state.Next(from.state, action)
	if !ok {
		o.busy.Store(false)
		o.logger.Debug("action ignored, no edge", "state", from.state, "action", action)
		return nil, fmt.Errorf("%w: %s has no %s action", ErrIllegalTransition, from.state, action)
	}

	from.scene.DetachControl()

	return &transition{
		frame:  o.frame.Load(),
		from:   from,
		to:     to,
		action: action,
		start:  time.Now(),
	}, nil
}

func (o *Orchestrator) run(ctx context.Context, t *transition) error {
	o.logger.Info("transition started", "from", t.from.state, "to", t.to, "action", t.action)
	o.cfg.Loading.DisplayLoadingUI()

	next, err := o.obtain(ctx, t.to)
	if err == nil {
		err = next.WhenReady(ctx)
	}

	o.cfg.Loading.HideLoadingUI()

	if err != nil {
		if next != nil {
			next.Dispose()
		}
		t.from.scene.AttachControl()
		o.busy.Store(false)
		return o.fail(t, err)
	}

	outgoing := t.from.scene
	o.publish(next, t.to)
	o.fence()
	outgoing.Dispose()
	next.AttachControl()
	o.busy.Store(false)

	d := time.Since(t.start)
	o.logger.Info("transition complete", "from", t.from.state, "to", t.to, "scene", next.ID(), "elapsed", d)
	if o.cfg.Metrics != nil {
		o.cfg.Metrics.ObserveTransition(t.from.state, t.to, d, nil)
	}
	o.notify(Event{
		Frame:    t.frame,
		From:     t.from.state,
		To:       t.to,
		Action:   t.action,
		SceneID:  next.ID(),
		Duration: d,
	})
	return nil
}

func (o *Orchestrator) fail(t *transition, err error) error {
	d := time.Since(t.start)
	terr := &TransitionError{From: t.from.state, To: t.to, Action: t.action, Err: err}
	o.logger.Error("transition failed", "from", t.from.state, "to", t.to, "err", err)
	if o.cfg.Metrics != nil {
		o.cfg.Metrics.ObserveTransition(t.from.state, t.to, d, err)
	}
	o.notify(Event{
		Frame:    t.frame,
		From:     t.from.state,
		To:       t.to,
		Action:   t.action,
		Duration: d,
		Err:      terr,
	})
	return terr
}

// obtain returns the pre-built scene for target, or builds a new one
func (o *Orchestrator) obtain(ctx context.Context, target state.ApplicationState) (scene.Scene, error) {
	if p := o.takePending(target); p != nil {
		select {
		case <-p.done:
			if p.err != nil {
				return nil, p.err
			}
			return p.scene, nil
		case <-ctx.Done():
			// Nobody owns the pre-built scene any more.
			go func() {
				<-p.done
				if p.scene != nil {
					p.scene.Dispose()
				}
			}()
			return nil, ctx.Err()
		}
	}
	return o.build(ctx, target)
}

func (o *Orchestrator) build(ctx context.Context, target state.ApplicationState) (scene.Scene, error) {
	b, ok := o.cfg.Builders[target]
	if !ok {
		return nil, &scene.ConstructionError{State: target, Reason: "no builder registered"}
	}
	s, err := b.Build(ctx, o)
	if err != nil {
		if s != nil {
			s.Dispose()
		}
		return nil, err
	}
	if s == nil {
		panic(fmt.Sprintf("orchestrator: %s builder returned a nil scene", target))
	}
	return s, nil
}

// Prebuild implements Host
func (o *Orchestrator) Prebuild(target state.ApplicationState) {
	o.pendMu.Lock()
	if o.closed {
		o.pendMu.Unlock()
		return
	}
	if _, ok := o.pending[target]; ok {
		o.pendMu.Unlock()
		return
	}
	p := &pendingScene{done: make(chan struct{})}
	o.pending[target] = p
	o.pendMu.Unlock()

	o.background.Add(1)
	go func() {
		defer o.background.Done()
		s, err := o.build(o.ctx, target)
		if err == nil {
			err = s.WhenReady(o.ctx)
			if err != nil {
				s.Dispose()
				s = nil
			}
		}
		if err != nil {
			o.logger.Warn("prebuild failed", "state", target, "err", err)
		} else {
			o.logger.Debug("prebuild ready", "state", target, "scene", s.ID())
		}
		p.scene, p.err = s, err
		close(p.done)
	}()
}

// Pending returns the states with a pre-built scene held
func (o *Orchestrator) Pending() []state.ApplicationState {
	o.pendMu.Lock()
	defer o.pendMu.Unlock()
	out := make([]state.ApplicationState, 0, len(o.pending))
	for st := range o.pending {
		out = append(out, st)
	}
	return out
}

func (o *Orchestrator) takePending(target state.ApplicationState) *pendingScene {
	o.pendMu.Lock()
	defer o.pendMu.Unlock()
	p := o.pending[target]
	delete(o.pending, target)
	return p
}

func (o *Orchestrator) publish(s scene.Scene, st state.ApplicationState) {
	if s == nil || s.Disposed() {
		panic("orchestrator: publishing a nil or disposed scene")
	}
	o.cur.Store(&current{scene: s, state: st})
}

// fence waits for every frame that may still hold the previous snapshot
func (o *Orchestrator) fence() {
	o.gate.Lock()
	o.gate.Unlock()
}

func (o *Orchestrator) notify(ev Event) {
	o.subMu.Lock()
	subs := make([]func(Event), len(o.subscribers))
	copy(subs, o.subscribers)
	o.subMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Tick runs one frame of logic on the current scene
func (o *Orchestrator) Tick(dt float64, in scene.Input) {
	o.gate.RLock()
	defer o.gate.RUnlock()

	o.frame.Add(1)
	c := o.cur.Load()
	if c == nil {
		return
	}
	c.scene.Update(dt, in)
}

// Draw renders the current scene
func (o *Orchestrator) Draw(screen *ebiten.Image) {
	o.gate.RLock()
	defer o.gate.RUnlock()

	if c := o.cur.Load(); c != nil {
		c.scene.Draw(screen)
	}
}

// Close stops background work and disposes every scene the orchestrator owns
func (o *Orchestrator) Close() {
	o.pendMu.Lock()
	o.closed = true
	o.pendMu.Unlock()

	o.cancel()
	o.inflight.Wait()
	o.background.Wait()

	o.pendMu.Lock()
	for st, p := range o.pending {
		if p.scene != nil {
			p.scene.Dispose()
		}
		delete(o.pending, st)
	}
	o.pendMu.Unlock()

	if c := o.cur.Load(); c != nil {
		c.scene.Dispose()
	}
	o.logger.Info("closed")
}

// IsRejected reports whether err means the action was dropped by the guard
func IsRejected(err error) bool {
	return errors.Is(err, ErrTransitionRejected)
}
