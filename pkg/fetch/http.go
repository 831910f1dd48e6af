package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
)

// ErrNotFound is returned when the remote host has no such document.
var ErrNotFound = errors.New("fetch: document not found")

const defaultMaxBytes = 64 << 20

// HTTPConfig configures the HTTP fetcher.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Headers    map[string]string
	MaxBytes   int64
	HTTPClient *http.Client
}

// HTTPFetcher retrieves source documents relative to a base URL.
type HTTPFetcher struct {
	base     *url.URL
	apiKey   string
	headers  map[string]string
	maxBytes int64
	client   *http.Client
}

// NewHTTPFetcher builds a fetcher for documents served over HTTP.
func NewHTTPFetcher(cfg HTTPConfig) (*HTTPFetcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("fetch: base url is required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("fetch: parse base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &HTTPFetcher{
		base:     base,
		apiKey:   cfg.APIKey,
		headers:  cfg.Headers,
		maxBytes: maxBytes,
		client:   httpClient,
	}, nil
}

var _ dashboard.Fetcher = (*HTTPFetcher)(nil)

// Fetch GETs the document at path relative to the base URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("fetch: parse path %q: %w", path, err)
	}
	target := f.base.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, target)
	}
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = io.CopyN(&buf, resp.Body, 512)
		return nil, fmt.Errorf("fetch: remote error %d: %s", resp.StatusCode, strings.TrimSpace(buf.String()))
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("fetch: %s exceeds %d bytes", target, f.maxBytes)
	}
	return body, nil
}
