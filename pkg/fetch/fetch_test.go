package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected auth header, got %s", got)
		}
		switch r.URL.Path {
		case "/data/sources.json":
			_, _ = w.Write([]byte(`{"Planning": []}`))
		case "/data/broken.json":
			http.Error(w, "upstream down", http.StatusServiceUnavailable)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	fetcher, err := NewHTTPFetcher(HTTPConfig{BaseURL: server.URL + "/data", APIKey: "secret"})
	require.NoError(t, err)

	raw, err := fetcher.Fetch(context.Background(), "sources.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Planning": []}`, string(raw))

	_, err = fetcher.Fetch(context.Background(), "missing.json")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = fetcher.Fetch(context.Background(), "broken.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestHTTPFetcherLimitsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	t.Cleanup(server.Close)

	fetcher, err := NewHTTPFetcher(HTTPConfig{BaseURL: server.URL, MaxBytes: 16})
	require.NoError(t, err)
	_, err = fetcher.Fetch(context.Background(), "big.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestHTTPFetcherRequiresBaseURL(t *testing.T) {
	_, err := NewHTTPFetcher(HTTPConfig{})
	require.Error(t, err)
}

func TestHTTPFetcherHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	fetcher, err := NewHTTPFetcher(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fetcher.Fetch(ctx, "layouts-sample.json")
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestDirFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "e-auction.json"), []byte(`{"auctions": []}`), 0o600))

	fetcher, err := NewDirFetcher(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, fetcher.Root())

	raw, err := fetcher.Fetch(context.Background(), "e-auction.json")
	require.NoError(t, err)
	assert.Equal(t, `{"auctions": []}`, string(raw))

	_, err = fetcher.Fetch(context.Background(), "missing.json")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = fetcher.Fetch(context.Background(), "../etc/passwd")
	require.Error(t, err)

	_, err = NewDirFetcher(filepath.Join(dir, "e-auction.json"))
	require.Error(t, err)
}

func TestFSFetcher(t *testing.T) {
	fetcher := NewFSFetcher(fstest.MapFS{"data/sources.json": {Data: []byte(`{}`)}})
	raw, err := fetcher.Fetch(context.Background(), "/data/sources.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestNewPicksFetcher(t *testing.T) {
	f, err := New("https://example.org/data", "")
	require.NoError(t, err)
	_, ok := f.(*HTTPFetcher)
	assert.True(t, ok)

	f, err = New(t.TempDir(), "")
	require.NoError(t, err)
	_, ok = f.(*DirFetcher)
	assert.True(t, ok)
}
