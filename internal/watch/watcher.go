// Package watch regenerates thumbnails as photos are added or edited.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dtnitsch/portfolio-thumbs/internal/generate"
	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
	"github.com/fsnotify/fsnotify"
)

// Watcher feeds changed source files in one directory to a Batch.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	logger      *slog.Logger
	batch       *generate.Batch
	dir         string
	debounceDur time.Duration
	pending     map[string]time.Time

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events      int
	Regenerated int
	Failed      int
	Errors      int
}

// New creates a Watcher for dir. Nothing is watched until Run.
func New(dir string, batch *generate.Batch, logger *slog.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		watcher:     fw,
		logger:      logger,
		batch:       batch,
		dir:         dir,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
	}, nil
}

// Run watches until ctx is cancelled, then closes the underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("error closing watcher", "error", err)
		}
	}()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("Watching for photo changes", "input_dir", w.dir, "debounce", w.debounceDur)

	tick := w.debounceDur / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !photos.IsSource(name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Events++

	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.pending[name] = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, name)
		w.logger.Info("Source removed, thumbnail left in place", "file", name,
			"thumbnail", photos.ThumbName(name))
	}
}

// flush regenerates every pending source that has been quiet for the
// debounce duration.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	var ready []photos.Source
	now := time.Now()
	for name, last := range w.pending {
		if now.Sub(last) < w.debounceDur {
			continue
		}
		delete(w.pending, name)

		path := filepath.Join(w.dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		idx, _ := photos.Index(name)
		ready = append(ready, photos.Source{Name: name, Path: path, Index: idx})
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}
	ready = w.dropShadowed(ready)
	if len(ready) == 0 {
		return
	}
	photos.Sort(ready)

	results, err := w.batch.Run(ctx, ready)
	if err != nil {
		w.logger.Warn("regeneration finished with failures", "error", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range results {
		if r.Error != nil {
			w.stats.Failed++
		} else {
			w.stats.Regenerated++
		}
	}
}

// dropShadowed removes sources whose thumbnail belongs to a later source in
// the directory, matching what a full generate run would produce.
func (w *Watcher) dropShadowed(ready []photos.Source) []photos.Source {
	all, err := photos.List(w.dir)
	if err != nil {
		return ready
	}
	winners := photos.Expected(all)

	kept := ready[:0]
	for _, src := range ready {
		if winner, ok := winners[photos.ThumbName(src.Name)]; ok && winner.Path != src.Path {
			w.logger.Warn("Sources share a thumbnail, keeping the later one", "file", src.Name, "kept", winner.Name)
			continue
		}
		kept = append(kept, src)
	}
	return kept
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
