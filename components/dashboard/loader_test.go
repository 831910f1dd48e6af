package dashboard

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoaderLoadAllPopulatesStore(t *testing.T) {
	defer goleak.VerifyNone(t)

	hook := &recordingHook{}
	telemetry := &recordingTelemetry{}
	loader := NewLoader(LoaderOptions{
		Catalog:     newFixtureCatalog(t),
		Fetcher:     fsFetcher(fixtureFS()),
		Validator:   NewJSONSchemaValidator(),
		RefreshHook: hook,
		Telemetry:   telemetry,
	})
	require.NoError(t, loader.LoadAll(context.Background()))

	store := loader.Store()
	for _, id := range loader.Catalog().IDs() {
		assert.Equal(t, SourceLoaded, store.State(id), "source %s", id)
	}
	layouts, ok := Lookup[*LayoutsDocument](store, SourceLayouts)
	require.True(t, ok)
	assert.Len(t, layouts.Layouts, 3)
	assert.Equal(t, []string{"1990s", "2000s"}, layouts.Summary.ByDecade.Keys)

	features, ok := Lookup[*BoundaryFeatures](store, SourceCorporationBoundaries)
	require.True(t, ok)
	assert.Len(t, features.Features, 2)

	assert.True(t, telemetry.has("dashboard.source.loaded"))
	assert.Len(t, hook.kinds(), len(loader.Catalog().IDs()))
}

func TestLoaderFailureIsolatesSource(t *testing.T) {
	fsys := fixtureFS()
	delete(fsys, "departments.json")
	fsys["e-auction.json"].Data = []byte(`{"auctions": [`)

	hook := &recordingHook{}
	loader := NewLoader(LoaderOptions{
		Catalog:     newFixtureCatalog(t),
		Fetcher:     fsFetcher(fsys),
		Validator:   NewJSONSchemaValidator(),
		RefreshHook: hook,
	})
	err := loader.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceLoadFailed)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	store := loader.Store()
	assert.Equal(t, SourceFailed, store.State(SourceDepartments))
	assert.Equal(t, SourceFailed, store.State(SourceAuction))
	assert.Equal(t, SourceLoaded, store.State(SourceLayouts))
	assert.Equal(t, SourceLoaded, store.State(SourceCitations))
	assert.Contains(t, hook.kinds(), EventSourceFailed)
}

func TestLoaderValidationFailure(t *testing.T) {
	fsys := fixtureFS()
	fsys["layouts-sample.json"].Data = []byte(`{"summary": {}}`)
	loader := newFixtureLoader(t, fsys)

	err := loader.Load(context.Background(), SourceLayouts)
	require.ErrorIs(t, err, ErrSourceLoadFailed)
	assert.Equal(t, SourceFailed, loader.Store().State(SourceLayouts))
	assert.Contains(t, loader.Store().Status(SourceLayouts).Error, "validation")
}

func TestLoaderUnknownSource(t *testing.T) {
	loader := newFixtureLoader(t, fixtureFS())
	err := loader.Load(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownSource)
	assert.Equal(t, SourceUnloaded, loader.Store().State("nope"))
}

func TestLoaderMissingFetcher(t *testing.T) {
	loader := NewLoader(LoaderOptions{Catalog: newFixtureCatalog(t)})
	err := loader.Load(context.Background(), SourceLayouts)
	require.ErrorIs(t, err, ErrSourceLoadFailed)
	assert.ErrorIs(t, err, errMissingFetcher)
}

func TestLoaderDependentsRunOnSuccessOnly(t *testing.T) {
	fsys := fixtureFS()
	loader := newFixtureLoader(t, fsys)

	var calls []string
	unregister := loader.RegisterDependent(SourceLayouts, func() { calls = append(calls, "first") })
	loader.RegisterDependent(SourceLayouts, func() { calls = append(calls, "second") })

	require.NoError(t, loader.Load(context.Background(), SourceLayouts))
	assert.Equal(t, []string{"first", "second"}, calls)

	fsys["layouts-sample.json"].Data = []byte(`not json`)
	require.Error(t, loader.Load(context.Background(), SourceLayouts))
	assert.Len(t, calls, 2, "failed loads leave dependents alone")

	unregister()
	fsys["layouts-sample.json"].Data = []byte(fixtureLayouts)
	require.NoError(t, loader.Load(context.Background(), SourceLayouts))
	assert.Equal(t, []string{"first", "second", "second"}, calls)
}

func TestLoaderCommitsOnDispatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dispatcher := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = dispatcher.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	release := make(chan struct{})
	blocked := make(chan struct{})
	dispatcher.Post(func() {
		close(blocked)
		<-release
	})
	<-blocked

	loader := NewLoader(LoaderOptions{
		Catalog:    newFixtureCatalog(t),
		Fetcher:    fsFetcher(fixtureFS()),
		Dispatcher: dispatcher,
	})
	done := make(chan error, 1)
	go func() { done <- loader.Load(context.Background(), SourceCitations) }()

	select {
	case <-done:
		t.Fatalf("load committed while the dispatcher was busy")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, SourceUnloaded, loader.Store().State(SourceCitations))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, SourceLoaded, loader.Store().State(SourceCitations))
}

func TestLoaderMaxConcurrent(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	fsys := fixtureFS()
	fetcher := FetcherFunc(func(ctx context.Context, name string) ([]byte, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return fs.ReadFile(fsys, name)
	})
	loader := NewLoader(LoaderOptions{
		Catalog:       newFixtureCatalog(t),
		Fetcher:       fetcher,
		MaxConcurrent: 2,
	})
	require.NoError(t, loader.LoadAll(context.Background()))
	assert.LessOrEqual(t, peak, 2)
}

func TestLoaderFetchErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	loader := NewLoader(LoaderOptions{
		Catalog: newFixtureCatalog(t),
		Fetcher: FetcherFunc(func(context.Context, string) ([]byte, error) { return nil, cause }),
	})
	err := loader.Load(context.Background(), SourceEconomic)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), string(SourceEconomic))
}

func TestLoaderKeepsLayoutsWithMalformedRecord(t *testing.T) {
	fsys := fixtureFS()
	fsys["layouts-sample.json"].Data = []byte(`{"layouts": [
  {"id": 1, "name": "HSR Layout", "village": "Agara", "taluk": "Bangalore South", "approval_date": "1995-03-12", "approval_year": 1995, "use_type_category": "Residential"},
  {"id": 2, "name": 404, "village": null, "taluk": "Bangalore North", "approval_date": 19950102, "approval_year": "2004", "use_type_category": true}
]}`)

	loader := NewLoader(LoaderOptions{
		Catalog:   newFixtureCatalog(t),
		Fetcher:   fsFetcher(fsys),
		Validator: NewJSONSchemaValidator(),
	})
	require.NoError(t, loader.Load(context.Background(), SourceLayouts))
	assert.Equal(t, SourceLoaded, loader.Store().State(SourceLayouts))

	ws := NewWorkspace(WorkspaceOptions{ID: "lenient", Store: loader.Store()})
	ws.Bootstrap(context.Background())

	mount, ok := ws.Page().Mount(MountLayoutsTable)
	require.True(t, ok)
	rows, _ := mount.Model.([]LayoutRow)
	if len(rows) != 2 {
		t.Fatalf("expected both layouts in the table, got %d", len(rows))
	}
	assert.Equal(t, "12 Mar 1995", rows[0].ApprovalDate)
	assert.Equal(t, InvalidDate, rows[1].ApprovalDate)
	assert.Equal(t, "404", rows[1].Name)
	assert.Equal(t, ", Bangalore North", rows[1].Location)

	doc, ok := Lookup[*LayoutsDocument](loader.Store(), SourceLayouts)
	require.True(t, ok)
	opts := CollectFilterOptions(doc.Layouts)
	assert.Equal(t, []string{"Residential", "true"}, opts.UseTypes)
}
