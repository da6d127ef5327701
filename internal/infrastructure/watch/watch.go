// Package watch invalidates cached model imports when files under the asset
// directory change, so the next game preparation re-reads them.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Invalidator drops a cached entry by its path relative to the watched directory
type Invalidator interface {
	Invalidate(path string)
}

// AssetWatcher forwards write, create, rename and remove events to an Invalidator
type AssetWatcher struct {
	dir    string
	fs     *fsnotify.Watcher
	target Invalidator
	logger *log.Logger

	// OnInvalidate is called after every invalidation. Tests use it to sync.
	OnInvalidate func(rel string)
}

// New starts watching dir. Run must be called to process events.
func New(dir string, target Invalidator, logger *log.Logger) (*AssetWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &AssetWatcher{
		dir:    dir,
		fs:     w,
		target: target,
		logger: logger.WithPrefix("watch"),
	}, nil
}

// Run processes events until ctx is done, then closes the watcher
func (w *AssetWatcher) Run(ctx context.Context) {
	defer w.fs.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

func (w *AssetWatcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(w.dir, ev.Name)
	if err != nil {
		return
	}
	w.target.Invalidate(rel)
	w.logger.Debug("asset changed", "path", rel, "op", ev.Op.String())
	if w.OnInvalidate != nil {
		w.OnInvalidate(rel)
	}
}
