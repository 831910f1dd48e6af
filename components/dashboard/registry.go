package dashboard

import (
	"fmt"
	"sync"
)

// SectionRenderer replays a section against the current store. It must be
// safe to call any number of times and must no-op when its data, mount or
// map is not ready.
type SectionRenderer func(ws *Workspace)

// SectionDefinition binds a section to its data sources, map and renderer.
type SectionDefinition struct {
	ID      SectionID
	Sources []SourceID
	Map     MapID
	Render  SectionRenderer
}

// SectionHook lets packages register sections during init().
type SectionHook func(reg *ViewRegistry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []SectionHook
)

// RegisterSectionHook registers a hook executed against new registries.
func RegisterSectionHook(h SectionHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// ViewRegistry maps section ids to their behavior.
type ViewRegistry struct {
	mu    sync.RWMutex
	defs  map[SectionID]SectionDefinition
	order []SectionID
}

// NewViewRegistry builds a registry with the built-in sections and applies
// global hooks.
func NewViewRegistry() *ViewRegistry {
	reg := &ViewRegistry{defs: map[SectionID]SectionDefinition{}}
	for _, def := range DefaultSectionDefinitions() {
		_ = reg.RegisterSection(def)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered section hooks.
func (r *ViewRegistry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSection stores or replaces a section definition.
func (r *ViewRegistry) RegisterSection(def SectionDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("dashboard: section id is required")
	}
	if def.Render == nil {
		return fmt.Errorf("dashboard: section %s renderer is required", def.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.ID]; !exists {
		r.order = append(r.order, def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// Section fetches a section definition.
func (r *ViewRegistry) Section(id SectionID) (SectionDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// Sections returns every definition in registration order.
func (r *ViewRegistry) Sections() []SectionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SectionDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Dependents returns the sections that read source id.
func (r *ViewRegistry) Dependents(id SourceID) []SectionDefinition {
	var out []SectionDefinition
	for _, def := range r.Sections() {
		for _, src := range def.Sources {
			if src == id {
				out = append(out, def)
				break
			}
		}
	}
	return out
}

// SourceIDs lists every source some section depends on.
func (r *ViewRegistry) SourceIDs() []SourceID {
	seen := map[SourceID]bool{}
	var out []SourceID
	for _, def := range r.Sections() {
		for _, src := range def.Sources {
			if !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
	}
	return out
}

// DefaultSectionDefinitions wires the built-in sections to their renderers.
func DefaultSectionDefinitions() []SectionDefinition {
	return []SectionDefinition{
		{ID: SectionOverview, Sources: []SourceID{SourceLayouts}, Render: renderOverview},
		{ID: SectionLayouts, Sources: []SourceID{SourceLayouts}, Render: renderLayouts},
		{
			ID:      SectionMasterPlan,
			Sources: []SourceID{SourceAdministrativeBoundaries, SourceJurisdictionBoundary, SourceCorporationBoundaries},
			Map:     MapOverview,
			Render:  renderMasterPlan,
		},
		{ID: SectionPlanningDistricts, Sources: []SourceID{SourcePlanningDistricts}, Render: renderPlanningDistricts},
		{
			ID:      SectionLayoutBoundaries,
			Sources: []SourceID{SourceLayoutBoundaries, SourceLayouts},
			Map:     MapLayouts,
			Render:  renderLayoutBoundaries,
		},
		{ID: SectionDepartments, Sources: []SourceID{SourceDepartments}, Render: renderDepartments},
		{ID: SectionSources, Sources: []SourceID{SourceCitations}, Render: renderCitations},
		{ID: SectionEconomic, Sources: []SourceID{SourceEconomic}, Render: renderEconomic},
		{ID: SectionAuction, Sources: []SourceID{SourceAuction}, Render: renderAuction},
		{ID: SectionInfrastructure, Sources: []SourceID{SourceInfrastructure}, Render: renderInfrastructure},
	}
}
