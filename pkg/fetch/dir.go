package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
)

// DirFetcher reads source documents from a directory tree.
type DirFetcher struct {
	root string
	fsys fs.FS
}

// NewDirFetcher serves documents from dir.
func NewDirFetcher(dir string) (*DirFetcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fetch: data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fetch: %s is not a directory", dir)
	}
	return &DirFetcher{root: dir, fsys: os.DirFS(dir)}, nil
}

// NewFSFetcher serves documents from fsys.
func NewFSFetcher(fsys fs.FS) *DirFetcher {
	return &DirFetcher{fsys: fsys}
}

var _ dashboard.Fetcher = (*DirFetcher)(nil)

// Root returns the directory the fetcher reads from, if any.
func (f *DirFetcher) Root() string { return f.root }

// Fetch reads path. Paths escaping the root are rejected.
func (f *DirFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("fetch: invalid path %q", path)
	}
	raw, err := fs.ReadFile(f.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", name, err)
	}
	return raw, nil
}

// New picks an HTTP fetcher for http(s) bases and a directory fetcher
// otherwise.
func New(base string, apiKey string) (dashboard.Fetcher, error) {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return NewHTTPFetcher(HTTPConfig{BaseURL: base, APIKey: apiKey})
	}
	if base == "" {
		base = "."
	}
	return NewDirFetcher(base)
}
