package dashboard

import (
	"context"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"
	"time"
)

const fixtureLayouts = `{
  "metadata": {"source": "BDA"},
  "summary": {
    "total_layouts": 3,
    "by_decade": {"1990s": 1, "2000s": 2},
    "by_use_type": {"Residential": 2, "Industrial": 1}
  },
  "layouts": [
    {"id": 1, "name": "HSR Layout", "village": "Agara", "taluk": "Bangalore South", "extent_original": "10-20", "approval_date": "1995-03-12", "approval_year": 1995, "use_type_category": "Residential"},
    {"id": 2, "name": "Peenya Industrial", "village": "Peenya", "taluk": "Bangalore North", "extent_original": "40", "approval_date": "2004-07-01", "approval_year": 2004, "use_type_category": "Industrial"},
    {"id": 3, "name": "Banashankari Stage", "village": "Kathriguppe", "taluk": "Bangalore South", "extent_original": "", "approval_date": "not-a-date", "approval_year": 2006, "use_type_category": "Residential"}
  ]
}`

const fixtureJurisdiction = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"name": "BDA"}, "geometry": {"type": "Polygon",
    "coordinates": [[[77.4, 12.8], [77.8, 12.8], [77.8, 13.1], [77.4, 13.1], [77.4, 12.8]]]}}
]}`

const fixtureCorporations = `{"type": "FeatureCollection", "features": [
  {"type": "Feature", "properties": {"name": "Bengaluru Central"}, "geometry": {"type": "Polygon",
    "coordinates": [[[77.55, 12.95], [77.62, 12.95], [77.62, 13.0], [77.55, 13.0], [77.55, 12.95]]]}},
  {"type": "Feature", "properties": {"name": "Bengaluru North"}, "geometry": {"type": "Polygon",
    "coordinates": [[[77.55, 13.0], [77.62, 13.0], [77.62, 13.06], [77.55, 13.06], [77.55, 13.0]]]}}
]}`

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts-sample.json": {Data: []byte(fixtureLayouts)},
		"layouts-boundaries.json": {Data: []byte(`[
  {"layout_name": "HSR Layout", "layout_number": "L1", "coordinates": [[12.90, 77.63], [12.92, 77.63], [12.92, 77.65], [12.90, 77.65]]},
  {"layout_name": "Peenya Industrial", "layout_number": "L2", "coordinates": [[13.02, 77.50], [13.04, 77.50], [13.04, 77.52]]}
]`)},
		"administrative-boundaries.json": {Data: []byte(`{
  "jurisdiction": {"name": "BDA", "color": "#2a1f17", "area_sq_km": 1219},
  "corporations": [{"name": "Bengaluru Central", "color": "#c85a36", "wards": 63}]
}`)},
		"bda-jurisdiction.geojson": {Data: []byte(fixtureJurisdiction)},
		"gba-corporations.geojson": {Data: []byte(fixtureCorporations)},
		"planning-districts.json": {Data: []byte(`{
  "rmp_2015": {"districts": [{"id": 1, "name": "Central"}]},
  "rmp_2031": {"label": "RMP 2031", "districts": [{"id": 1, "name": "Core"}, {"id": 2, "name": "Peri-urban"}]}
}`)},
		"departments.json": {Data: []byte(`{
  "departments": [
    {"name": "Engineering", "head": "Chief Engineer",
     "statutory_functions": [{"function": "Roads", "description": "Build roads", "act_section": "15"}],
     "performance_gap": {"strengths": ["Capacity"], "weaknesses": []}},
    {"name": "Town Planning", "statutory_functions": []}
  ],
  "overall_assessment": {
    "statutory_compliance": {"rating": "6/10", "explanation": "Partial"},
    "performance_highlights": ["Layouts approved"],
    "critical_gaps": ["Transparency"],
    "recommendations": ["Digitise records"]
  },
  "sources": [{"title": "BDA Act", "url": "https://example.org/act", "type": "statute"}]
}`)},
		"sources.json": {Data: []byte(`{
  "Planning": [{"title": "RMP 2015", "organization": "BDA", "url": "https://example.org/rmp"}],
  "Census": [{"title": "Census 2011", "organization": "GoI", "year": 2011, "url": "https://example.org/census"}]
}`)},
		"economic-development.json": {Data: []byte(`{
  "sector_percentages": {"Services": 70, "Industry": 25, "Agriculture": 5},
  "projects": [{"name": "Metro Phase 2", "investment": "30000 Cr"}]
}`)},
		"e-auction.json": {Data: []byte(`{
  "auctions": [{"id": "A1", "site": "Site 12", "location": "HSR", "area": "1200 sqft", "reserve_price": 5000000, "status": "Open", "date": "2024-01-10"}],
  "summary": {"total_sites": 1, "total_value": "50 L"}
}`)},
		"infrastructure.json": {Data: []byte(`{
  "projects": [{"name": "Peripheral Ring Road", "department": "Engineering", "budget": "21000 Cr"}],
  "departments": [{"name": "Engineering", "functions": ["Roads"]}]
}`)},
	}
}

func fsFetcher(fsys fs.FS) Fetcher {
	return FetcherFunc(func(_ context.Context, name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	})
}

func newFixtureCatalog(t *testing.T) *SourceCatalog {
	t.Helper()
	catalog, err := NewSourceCatalog(DefaultSources(LayoutsVariantSample)...)
	if err != nil {
		t.Fatalf("NewSourceCatalog returned error: %v", err)
	}
	return catalog
}

// newFixtureLoader builds a loader that commits inline.
func newFixtureLoader(t *testing.T, fsys fs.FS) *Loader {
	t.Helper()
	return NewLoader(LoaderOptions{
		Catalog:   newFixtureCatalog(t),
		Fetcher:   fsFetcher(fsys),
		Validator: NewJSONSchemaValidator(),
	})
}

type recordingHook struct {
	mu     sync.Mutex
	events []DashboardEvent
}

func (h *recordingHook) DashboardUpdated(_ context.Context, event DashboardEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHook) kinds() []EventKind {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]EventKind, len(h.events))
	for i, e := range h.events {
		out[i] = e.Kind
	}
	return out
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingTelemetry) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

const (
	timeoutForTests = 2 * time.Second
	tickForTests    = 5 * time.Millisecond
)
