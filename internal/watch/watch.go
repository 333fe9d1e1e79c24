// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs a handler when response files change on disk.
// Rapid saves of the same file are coalesced into one call.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultDebounce = 300 * time.Millisecond
	tickInterval    = 50 * time.Millisecond
)

// Handler is called with the path of a file that settled after a change.
type Handler func(ctx context.Context, path string)

// Watcher watches a set of files. Their parent directories are watched
// so editors that save by rename are still seen.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New returns a Watcher for files. debounce <= 0 uses the default.
func New(files []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files given")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		logger:   logger,
		pending:  make(map[string]time.Time),
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.files[abs] = true
	}
	return w, nil
}

// Run blocks until ctx is done, calling h once per settled change.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", d))
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.record(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-ticker.C:
			for _, path := range w.settled(time.Now()) {
				h(ctx, path)
			}
		}
	}
}

func (w *Watcher) record(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return
	}
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
	w.logger.Debug("file changed", zap.String("path", path), zap.String("op", event.Op.String()))
}

// settled returns, sorted, the pending paths quiet for the debounce
// window and forgets them.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			out = append(out, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(out)
	return out
}
