// Package assets prepares the resources the Game scene needs and hands them
// over to the Game builder exactly once.
package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/younwookim/stagehand/internal/engine"
)

// Importer loads model files
type Importer interface {
	LoadModel(ctx context.Context, path string) (*engine.MeshData, error)
}

// LoadError reports an import or resource upload failure
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load asset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// GameAssets is the prepared input of the Game scene builder
type GameAssets struct {
	// Player is the visual mesh of the player entity
	Player *engine.MeshData
	// Collision is the player's collision proxy
	Collision *engine.MeshData
	// Environment is the optional imported environment model
	Environment *engine.MeshData

	PreparedAt time.Time
}

// Future resolves once with the result of a preparation
type Future struct {
	done   chan struct{}
	assets *GameAssets
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(a *GameAssets, err error) {
	f.assets = a
	f.err = err
	close(f.done)
}

// Done is closed when the preparation has finished
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the preparation finishes or ctx is done
func (f *Future) Await(ctx context.Context) (*GameAssets, error) {
	select {
	case <-f.done:
		return f.assets, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolved returns a future that is already complete.
func Resolved(a *GameAssets, err error) *Future {
	f := newFuture()
	f.resolve(a, err)
	return f
}
