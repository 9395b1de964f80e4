// Package watch re-runs a callback when annotated sources or manifests
// change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Config controls which files trigger a run and how events are batched.
type Config struct {
	// Debounce is the quiet period after the last event before a batch runs.
	Debounce time.Duration
	// Extensions lists the file extensions that trigger a run.
	Extensions []string
	// Ignore lists base names that never trigger a run, such as generated output.
	Ignore []string
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{
		Debounce:   300 * time.Millisecond,
		Extensions: []string{".go", ".yaml", ".yml"},
		Ignore:     []string{"derive_gen.go"},
	}
}

// Callback receives the sorted, de-duplicated paths changed in one batch.
type Callback func(ctx context.Context, changed []string) error

// Stats counts watcher activity.
type Stats struct {
	Events  int
	Batches int
	Errors  int
	LastRun time.Time
}

// Watcher batches filesystem events for a set of directories.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a watcher. A nil logger disables logging.
func New(config Config, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if config.Debounce <= 0 {
		config.Debounce = DefaultConfig().Debounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{config: config, watcher: fw, logger: logger}, nil
}

// Add starts watching dirs. Subdirectories are not watched.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}

		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	return nil
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.stats
}

// Close releases the watcher. It is only needed when Run is never called.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run delivers batches to fn until ctx is canceled, then closes the
// watcher. A failing callback is logged and does not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn Callback) error {
	defer func() {
		if err := w.Close(); err != nil {
			w.logger.Warn("error closing watcher", zap.Error(err))
		}
	}()

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()

	defer timer.Stop()

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopped", zap.Error(ctx.Err()))
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}

			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("change detected", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			w.count(func(s *Stats) { s.Events++ })

			pending[event.Name] = struct{}{}

			timer.Reset(w.config.Debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}

			w.logger.Error("watcher error", zap.Error(err))
			w.count(func(s *Stats) { s.Errors++ })

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}

			slices.Sort(changed)
			clear(pending)

			w.count(func(s *Stats) {
				s.Batches++
				s.LastRun = time.Now()
			})

			if err := fn(ctx, changed); err != nil {
				w.logger.Error("run failed", zap.Strings("changed", changed), zap.Error(err))
				w.count(func(s *Stats) { s.Errors++ })
			}
		}
	}
}

// relevant reports whether event should trigger a run.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	if slices.Contains(w.config.Ignore, base) {
		return false
	}

	return slices.Contains(w.config.Extensions, filepath.Ext(base))
}

func (w *Watcher) count(update func(*Stats)) {
	w.mu.Lock()
	update(&w.stats)
	w.mu.Unlock()
}
