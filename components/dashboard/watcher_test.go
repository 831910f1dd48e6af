package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingReloader struct {
	mu  sync.Mutex
	ids []SourceID
}

func (r *recordingReloader) Reload(_ context.Context, id SourceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return nil
}

func (r *recordingReloader) reloaded() []SourceID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SourceID(nil), r.ids...)
}

func TestSourceWatcherReloadsChangedSource(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	reloader := &recordingReloader{}
	watcher, err := NewSourceWatcher(SourceWatcherOptions{
		Dir:      dir,
		Catalog:  newFixtureCatalog(t),
		Reloader: reloader,
		Debounce: 30 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	path := filepath.Join(dir, "sources.json")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"Planning": []}`), 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	require.Eventually(t, func() bool {
		return len(reloader.reloaded()) > 0
	}, timeoutForTests, tickForTests)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []SourceID{SourceCitations}, reloader.reloaded(), "bursts collapse and unknown files are ignored")
	reloads, failures := watcher.Stats()
	assert.Equal(t, 1, reloads)
	assert.Zero(t, failures)
}

func TestSourceWatcherRequiresReloader(t *testing.T) {
	_, err := NewSourceWatcher(SourceWatcherOptions{Catalog: newFixtureCatalog(t)})
	require.ErrorIs(t, err, errMissingReloader)
}

func TestSourceWatcherStartFailsForMissingDir(t *testing.T) {
	watcher, err := NewSourceWatcher(SourceWatcherOptions{
		Dir:      filepath.Join(t.TempDir(), "missing"),
		Catalog:  newFixtureCatalog(t),
		Reloader: &recordingReloader{},
	})
	require.NoError(t, err)
	require.Error(t, watcher.Start(context.Background()))
	watcher.Stop()
}

func TestSourceWatcherFollowsOverriddenSubdirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "governance"), 0o755))

	catalog := newFixtureCatalog(t)
	require.NoError(t, catalog.SetPath(SourceDepartments, "governance/departments.json"))

	reloader := &recordingReloader{}
	watcher, err := NewSourceWatcher(SourceWatcherOptions{
		Dir:      dir,
		Catalog:  catalog,
		Reloader: reloader,
		Debounce: 30 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	// same base name at the top level belongs to no source anymore
	require.NoError(t, os.WriteFile(filepath.Join(dir, "departments.json"), []byte(`{}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "governance", "departments.json"), []byte(`{"departments": []}`), 0o600))

	require.Eventually(t, func() bool {
		return len(reloader.reloaded()) > 0
	}, timeoutForTests, tickForTests)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []SourceID{SourceDepartments}, reloader.reloaded())
}
