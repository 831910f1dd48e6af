package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrSourceLoadFailed is returned when a source could not be fetched or parsed.
	ErrSourceLoadFailed = errors.New("dashboard: source load failed")
	// ErrUnknownSource is returned for source ids missing from the catalog.
	ErrUnknownSource = errors.New("dashboard: unknown source")

	errMissingFetcher = errors.New("dashboard: fetcher not configured")
)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Store       *Store
	Catalog     *SourceCatalog
	Fetcher     Fetcher
	Validator   SourceValidator
	Dispatcher  *Dispatcher
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Logger      logrus.FieldLogger
	// MaxConcurrent caps in-flight fetches during LoadAll; zero means no cap.
	MaxConcurrent int
}

// Loader fetches sources, writes them into the Store and notifies dependents.
type Loader struct {
	opts LoaderOptions

	mu         sync.Mutex
	dependents map[SourceID]map[int]func()
	nextDep    int
}

// NewLoader builds a Loader with safe defaults.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if opts.Catalog == nil {
		opts.Catalog, _ = NewSourceCatalog(DefaultSources(LayoutsVariantSample)...)
	}
	if opts.Validator == nil {
		opts.Validator = noopSourceValidator{}
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = normalizeLogger(opts.Logger)
	return &Loader{
		opts:       opts,
		dependents: make(map[SourceID]map[int]func()),
	}
}

// Store exposes the store the loader writes to.
func (l *Loader) Store() *Store { return l.opts.Store }

// Catalog exposes the source catalog.
func (l *Loader) Catalog() *SourceCatalog { return l.opts.Catalog }

// RegisterDependent runs fn on the dispatcher after every successful load of
// id. The returned func removes the registration.
func (l *Loader) RegisterDependent(id SourceID, fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := l.nextDep
	l.nextDep++
	if l.dependents[id] == nil {
		l.dependents[id] = make(map[int]func())
	}
	l.dependents[id][key] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.dependents[id], key)
	}
}

func (l *Loader) dependentsOf(id SourceID) []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]int, 0, len(l.dependents[id]))
	for key := range l.dependents[id] {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	out := make([]func(), 0, len(keys))
	for _, key := range keys {
		out = append(out, l.dependents[id][key])
	}
	return out
}

// Load fetches and parses one source. On success the payload replaces the
// stored one and every dependent runs; on failure the source is marked failed
// and dependents are left alone.
func (l *Loader) Load(ctx context.Context, id SourceID) error {
	def, ok := l.opts.Catalog.Definition(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	if l.opts.Fetcher == nil {
		return l.failed(ctx, id, errMissingFetcher)
	}
	raw, err := l.opts.Fetcher.Fetch(ctx, def.Path)
	if err != nil {
		return l.failed(ctx, id, fmt.Errorf("fetch %s: %w", def.Path, err))
	}
	if err := l.opts.Validator.Validate(def, raw); err != nil {
		return l.failed(ctx, id, err)
	}
	payload, err := def.Decode(raw)
	if err != nil {
		return l.failed(ctx, id, fmt.Errorf("decode %s: %w", def.Path, err))
	}
	err = l.commit(ctx, func() {
		l.opts.Store.put(id, payload, raw)
		for _, fn := range l.dependentsOf(id) {
			fn()
		}
	})
	if err != nil {
		return err
	}
	l.opts.Logger.WithFields(logrus.Fields{
		"source": id,
		"bytes":  len(raw),
	}).Info("source loaded")
	l.opts.Telemetry.Record(ctx, "dashboard.source.loaded", map[string]any{
		"source": string(id),
		"bytes":  len(raw),
	})
	l.notify(ctx, DashboardEvent{Kind: EventSourceLoaded, Source: id})
	return nil
}

// LoadAll starts every catalogued source at once. Loads never cancel each
// other; the joined error lists every source that failed.
func (l *Loader) LoadAll(ctx context.Context) error {
	var (
		group    errgroup.Group
		mu       sync.Mutex
		failures []error
	)
	if l.opts.MaxConcurrent > 0 {
		group.SetLimit(l.opts.MaxConcurrent)
	}
	for _, id := range l.opts.Catalog.IDs() {
		group.Go(func() error {
			if err := l.Load(ctx, id); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = group.Wait()
	return errors.Join(failures...)
}

func (l *Loader) failed(ctx context.Context, id SourceID, cause error) error {
	l.opts.Logger.WithFields(logrus.Fields{
		"source": id,
		"error":  cause,
	}).Error("source load failed")
	if err := l.commit(ctx, func() { l.opts.Store.fail(id, cause) }); err != nil {
		l.opts.Store.fail(id, cause)
	}
	l.opts.Telemetry.Record(ctx, "dashboard.source.failed", map[string]any{
		"source": string(id),
		"error":  cause.Error(),
	})
	l.notify(ctx, DashboardEvent{Kind: EventSourceFailed, Source: id, Error: cause.Error()})
	return fmt.Errorf("%w: %s: %w", ErrSourceLoadFailed, id, cause)
}

// commit runs fn on the dispatcher, or inline when none is configured.
func (l *Loader) commit(ctx context.Context, fn func()) error {
	if l.opts.Dispatcher == nil {
		fn()
		return nil
	}
	return l.opts.Dispatcher.Do(ctx, func() error {
		fn()
		return nil
	})
}

func (l *Loader) notify(ctx context.Context, event DashboardEvent) {
	if err := l.opts.RefreshHook.DashboardUpdated(ctx, event); err != nil {
		l.opts.Logger.WithError(err).WithField("source", event.Source).Warn("refresh hook failed")
	}
}
