package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingInvalidator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestAssetWatcher_InvalidatesRelativePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "player.gltf")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	inv := &recordingInvalidator{}
	w, err := New(dir, inv, log.New(io.Discard))
	require.NoError(t, err)

	seen := make(chan string, 16)
	w.OnInvalidate = func(rel string) { seen <- rel }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(file, []byte(`{"asset":{}}`), 0o644))

	select {
	case rel := <-seen:
		assert.Equal(t, "player.gltf", rel)
	case <-time.After(5 * time.Second):
		t.Fatal("no invalidation after write")
	}
	assert.Contains(t, inv.Paths(), "player.gltf")
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), &recordingInvalidator{}, log.New(io.Discard))
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), &recordingInvalidator{}, log.New(io.Discard))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
