package assets

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/younwookim/stagehand/internal/engine"
)

// CachingImporter memoizes successful imports by path.
// Callers always receive a private copy.
type CachingImporter struct {
	next Importer

	mu      sync.Mutex
	entries map[string]*engine.MeshData
}

// NewCachingImporter wraps next
func NewCachingImporter(next Importer) *CachingImporter {
	return &CachingImporter{
		next:    next,
		entries: make(map[string]*engine.MeshData),
	}
}

// LoadModel implements Importer
func (c *CachingImporter) LoadModel(ctx context.Context, path string) (*engine.MeshData, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	m, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return m.Clone(), nil
	}

	m, err := c.next.LoadModel(ctx, path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = m
	c.mu.Unlock()
	return m.Clone(), nil
}

// Invalidate drops the entry for path
func (c *CachingImporter) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, filepath.Clean(path))
}

// Len returns the number of cached entries
func (c *CachingImporter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
