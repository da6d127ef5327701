package assets

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/younwookim/stagehand/internal/engine"
	"golang.org/x/sync/errgroup"
)

// Observer receives the outcome of every preparation
type Observer interface {
	ObserveAssetPrepare(d time.Duration, err error)
}

// PreparerConfig configures a Preparer
type PreparerConfig struct {
	Importer Importer
	// PlayerModel is required
	PlayerModel string
	// EnvironmentModel is optional
	EnvironmentModel string

	Logger   *log.Logger
	Observer Observer
}

// Preparer runs the "set up game" step in the background
type Preparer struct {
	cfg PreparerConfig
	now func() time.Time
}

// NewPreparer creates a preparer
func NewPreparer(cfg PreparerConfig) *Preparer {
	return &Preparer{cfg: cfg, now: time.Now}
}

// Start launches a preparation and returns its future immediately
func (p *Preparer) Start(ctx context.Context) *Future {
	f := newFuture()
	go func() {
		start := p.now()
		a, err := p.prepare(ctx)
		if p.cfg.Observer != nil {
			p.cfg.Observer.ObserveAssetPrepare(p.now().Sub(start), err)
		}
		if err != nil {
			p.cfg.Logger.Warn("game asset preparation failed", "err", err)
		} else {
			p.cfg.Logger.Info("game assets prepared", "player", a.Player.Name, "elapsed", p.now().Sub(start))
		}
		f.resolve(a, err)
	}()
	return f
}

func (p *Preparer) prepare(ctx context.Context) (*GameAssets, error) {
	var player, env *engine.MeshData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := p.load(gctx, p.cfg.PlayerModel)
		player = m
		return err
	})
	if p.cfg.EnvironmentModel != "" {
		g.Go(func() error {
			m, err := p.load(gctx, p.cfg.EnvironmentModel)
			env = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &GameAssets{
		Player:      player,
		Collision:   engine.BoundingBoxData(player.Name+"_collision", player),
		Environment: env,
		PreparedAt:  p.now(),
	}, nil
}

func (p *Preparer) load(ctx context.Context, path string) (*engine.MeshData, error) {
	m, err := p.cfg.Importer.LoadModel(ctx, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := m.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// Slot holds at most one in-flight preparation until the Game builder takes it
type Slot struct {
	mu       sync.Mutex
	ctx      context.Context
	preparer *Preparer
	future   *Future
}

// NewSlot creates a slot whose preparations run under ctx
func NewSlot(ctx context.Context, p *Preparer) *Slot {
	return &Slot{ctx: ctx, preparer: p}
}

// Prepare starts a preparation unless one is already held, and returns it
func (s *Slot) Prepare() *Future {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.future == nil {
		s.future = s.preparer.Start(s.ctx)
	}
	return s.future
}

// Take hands the held preparation to the caller and empties the slot.
// It returns nil when nothing was prepared.
func (s *Slot) Take() *Future {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.future
	s.future = nil
	return f
}

// Pending reports whether a preparation is held
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.future != nil
}
