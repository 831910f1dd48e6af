package dashboard

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Source identifiers served by the dashboard.
const (
	SourceLayouts                  SourceID = "layouts"
	SourceLayoutBoundaries         SourceID = "layouts-boundaries"
	SourceAdministrativeBoundaries SourceID = "administrative-boundaries"
	SourceJurisdictionBoundary     SourceID = "jurisdiction-boundary"
	SourceCorporationBoundaries    SourceID = "corporation-boundaries"
	SourcePlanningDistricts        SourceID = "planning-districts"
	SourceDepartments              SourceID = "departments"
	SourceCitations                SourceID = "sources"
	SourceEconomic                 SourceID = "economic-development"
	SourceAuction                  SourceID = "e-auction"
	SourceInfrastructure           SourceID = "infrastructure"
)

// Layout source variants.
const (
	LayoutsVariantAll    = "all"
	LayoutsVariantSample = "sample"
)

// DecodeFunc turns fetched bytes into the typed payload kept in the Store.
type DecodeFunc func(raw []byte) (any, error)

// SourceDefinition describes where a source lives and how it is parsed.
type SourceDefinition struct {
	ID          SourceID       `json:"id" yaml:"id"`
	Path        string         `json:"path" yaml:"path"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	GeoJSON     bool           `json:"geojson,omitempty" yaml:"geojson,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"-"`
	Decode      DecodeFunc     `json:"-" yaml:"-"`
}

// SourceCatalog keeps the source definitions known to a Loader.
type SourceCatalog struct {
	mu    sync.RWMutex
	defs  map[SourceID]SourceDefinition
	order []SourceID
}

// NewSourceCatalog registers the provided definitions in order.
func NewSourceCatalog(defs ...SourceDefinition) (*SourceCatalog, error) {
	catalog := &SourceCatalog{defs: make(map[SourceID]SourceDefinition, len(defs))}
	for _, def := range defs {
		if err := catalog.Register(def); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Register adds or replaces a source definition.
func (c *SourceCatalog) Register(def SourceDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("dashboard: source id is required")
	}
	if def.Path == "" {
		return fmt.Errorf("dashboard: source %s path is required", def.ID)
	}
	if def.Decode == nil {
		def.Decode = decodeAny
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.defs[def.ID]; !exists {
		c.order = append(c.order, def.ID)
	}
	c.defs[def.ID] = def
	return nil
}

// SetPath overrides where a registered source is fetched from.
func (c *SourceCatalog) SetPath(id SourceID, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.defs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	if path != "" {
		def.Path = path
		c.defs[id] = def
	}
	return nil
}

// Definition fetches a source definition by id.
func (c *SourceCatalog) Definition(id SourceID) (SourceDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[id]
	return def, ok
}

// Definitions returns every definition in registration order.
func (c *SourceCatalog) Definitions() []SourceDefinition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]SourceDefinition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// IDs returns the registered source ids in registration order.
func (c *SourceCatalog) IDs() []SourceID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]SourceID(nil), c.order...)
}

// SourceForPath resolves the source fetched from path.
func (c *SourceCatalog) SourceForPath(path string) (SourceID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if c.defs[id].Path == path {
			return id, true
		}
	}
	return "", false
}

// LayoutsPath returns the file name of a layouts variant.
func LayoutsPath(variant string) string {
	if variant == LayoutsVariantAll {
		return "layouts-all.json"
	}
	return "layouts-sample.json"
}

// DefaultSources returns the definitions of every dashboard source.
func DefaultSources(variant string) []SourceDefinition {
	return []SourceDefinition{
		{
			ID:          SourceLayouts,
			Path:        LayoutsPath(variant),
			Description: "Approved layouts with decade and use-type summaries",
			Schema: objectSchema([]string{"layouts"}, map[string]any{
				"layouts": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
				"summary": map[string]any{"type": "object"},
			}),
			Decode: decodeAs[*LayoutsDocument],
		},
		{
			ID:          SourceLayoutBoundaries,
			Path:        "layouts-boundaries.json",
			Description: "Layout polygons",
			Schema:      map[string]any{"type": []string{"array", "object"}},
			Decode:      decodeAs[*LayoutBoundariesDocument],
		},
		{
			ID:          SourceAdministrativeBoundaries,
			Path:        "administrative-boundaries.json",
			Description: "Jurisdiction and corporation metadata",
			Schema: objectSchema(nil, map[string]any{
				"jurisdiction": map[string]any{"type": "object"},
				"corporations": map[string]any{"type": "array"},
			}),
			Decode: decodeAs[*AdministrativeBoundaries],
		},
		{
			ID:          SourceJurisdictionBoundary,
			Path:        "bda-jurisdiction.geojson",
			Description: "BDA jurisdiction outline",
			GeoJSON:     true,
			Schema:      featureCollectionSchema(),
			Decode:      decodeBoundaryFeatures,
		},
		{
			ID:          SourceCorporationBoundaries,
			Path:        "gba-corporations.geojson",
			Description: "Corporation outlines",
			GeoJSON:     true,
			Schema:      featureCollectionSchema(),
			Decode:      decodeBoundaryFeatures,
		},
		{
			ID:          SourcePlanningDistricts,
			Path:        "planning-districts.json",
			Description: "Planning districts for RMP 2015 and RMP 2031",
			Schema: objectSchema(nil, map[string]any{
				"rmp_2015": map[string]any{"type": "object"},
				"rmp_2031": map[string]any{"type": "object"},
			}),
			Decode: decodeAs[*PlanningDistricts],
		},
		{
			ID:          SourceDepartments,
			Path:        "departments.json",
			Description: "Departments, statutory functions and the overall assessment",
			Schema: objectSchema([]string{"departments"}, map[string]any{
				"departments":        map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
				"overall_assessment": map[string]any{"type": "object"},
				"sources":            map[string]any{"type": "array"},
			}),
			Decode: decodeAs[*DepartmentsDocument],
		},
		{
			ID:          SourceCitations,
			Path:        "sources.json",
			Description: "Data source citations grouped by category",
			Schema:      objectSchema(nil, nil),
			Decode:      decodeAs[*CitationsDocument],
		},
		{
			ID:          SourceEconomic,
			Path:        "economic-development.json",
			Description: "Sector percentages and development projects",
			Schema: objectSchema(nil, map[string]any{
				"sector_percentages": map[string]any{"type": "object"},
				"projects":           map[string]any{"type": "array"},
			}),
			Decode: decodeAs[*EconomicDevelopment],
		},
		{
			ID:          SourceAuction,
			Path:        "e-auction.json",
			Description: "E-auction site listings",
			Schema: objectSchema(nil, map[string]any{
				"auctions": map[string]any{"type": "array"},
			}),
			Decode: decodeAs[*AuctionDocument],
		},
		{
			ID:          SourceInfrastructure,
			Path:        "infrastructure.json",
			Description: "Infrastructure projects and departmental functions",
			Schema: objectSchema(nil, map[string]any{
				"projects":    map[string]any{"type": "array"},
				"departments": map[string]any{"type": "array"},
			}),
			Decode: decodeAs[*InfrastructureDocument],
		},
	}
}

func objectSchema(required []string, properties map[string]any) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(required) > 0 {
		schema["required"] = required
	}
	if len(properties) > 0 {
		schema["properties"] = properties
	}
	return schema
}

func featureCollectionSchema() map[string]any {
	return objectSchema([]string{"type", "features"}, map[string]any{
		"type":     map[string]any{"const": "FeatureCollection"},
		"features": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
	})
}

func decodeAs[T any](raw []byte) (any, error) {
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeAny(raw []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
