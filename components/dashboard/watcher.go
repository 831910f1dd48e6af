package dashboard

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const defaultWatchDebounce = 300 * time.Millisecond

var errMissingReloader = errors.New("dashboard: watcher requires reloader")

// SourceReloader refetches a single source.
type SourceReloader interface {
	Reload(ctx context.Context, id SourceID) error
}

// SourceWatcherOptions configures a SourceWatcher.
type SourceWatcherOptions struct {
	Dir      string
	Catalog  *SourceCatalog
	Reloader SourceReloader
	Debounce time.Duration
	Logger   logrus.FieldLogger
}

// SourceWatcher reloads sources whose files change in the data directory.
// Bursts of writes to one file collapse into a single reload.
type SourceWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	opts     SourceWatcherOptions
	pending  map[SourceID]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	reloads  int
	failures int
}

// NewSourceWatcher creates a watcher; call Start to begin watching.
func NewSourceWatcher(opts SourceWatcherOptions) (*SourceWatcher, error) {
	if opts.Reloader == nil {
		return nil, errMissingReloader
	}
	if opts.Catalog == nil {
		return nil, errors.New("dashboard: watcher requires catalog")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultWatchDebounce
	}
	opts.Logger = normalizeLogger(opts.Logger)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &SourceWatcher{
		watcher: watcher,
		opts:    opts,
		pending: make(map[SourceID]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start watches the data directory in the background.
func (w *SourceWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.opts.Dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	for _, dir := range w.sourceDirs() {
		if err := w.watcher.Add(filepath.Join(w.opts.Dir, filepath.FromSlash(dir))); err != nil {
			w.opts.Logger.WithError(err).WithField("dir", dir).Warn("cannot watch source directory")
		}
	}
	w.opts.Logger.WithField("dir", w.opts.Dir).Info("watching data directory")
	go w.run(ctx)
	return nil
}

// sourceDirs lists the subdirectories of Dir that catalogued sources live in.
func (w *SourceWatcher) sourceDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for _, def := range w.opts.Catalog.Definitions() {
		if !fs.ValidPath(def.Path) {
			continue
		}
		dir := path.Dir(def.Path)
		if dir == "." || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// Stop ends the watch loop and releases the watcher.
func (w *SourceWatcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.opts.Logger.WithError(err).Warn("closing watcher failed")
	}
}

// Stats reports how many reloads ran and how many failed.
func (w *SourceWatcher) Stats() (reloads, failures int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads, w.failures
}

func (w *SourceWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.opts.Debounce / 3
	if tick <= 0 {
		tick = w.opts.Debounce
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.opts.Logger.WithError(err).Warn("watcher error")
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *SourceWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}
	rel, err := filepath.Rel(w.opts.Dir, event.Name)
	if err != nil {
		return
	}
	id, ok := w.opts.Catalog.SourceForPath(filepath.ToSlash(rel))
	if !ok {
		return
	}
	w.mu.Lock()
	w.pending[id] = time.Now()
	w.mu.Unlock()
}

func (w *SourceWatcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var due []SourceID
	for id, seen := range w.pending {
		if now.Sub(seen) >= w.opts.Debounce {
			due = append(due, id)
			delete(w.pending, id)
		}
	}
	w.mu.Unlock()

	for _, id := range due {
		err := w.opts.Reloader.Reload(ctx, id)
		w.mu.Lock()
		w.reloads++
		if err != nil {
			w.failures++
		}
		w.mu.Unlock()
		if err != nil {
			w.opts.Logger.WithError(err).WithField("source", id).Warn("reload after change failed")
			continue
		}
		w.opts.Logger.WithField("source", id).Info("source reloaded after change")
	}
}
