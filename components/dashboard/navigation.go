package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownPlanVersion is returned by TogglePlan for versions other than
// 2015 and 2031.
var ErrUnknownPlanVersion = errors.New("dashboard: unknown plan version")

// ErrUnknownCategory is returned by ToggleCategory for undeclared categories.
var ErrUnknownCategory = errors.New("dashboard: unknown category")

// NavigationState is the active section and its category.
type NavigationState struct {
	ActiveSection  SectionID  `json:"active_section"`
	ActiveCategory CategoryID `json:"active_category,omitempty"`
}

// Show makes id the only visible section and marks its controls active in
// both navigation sets. category overrides the manifest membership when set.
// Unknown ids hide every section without error.
func (w *Workspace) Show(ctx context.Context, id SectionID, category CategoryID) {
	if category == "" {
		category, _ = w.manifest.CategoryOf(id)
	}

	w.page.hideAll()
	w.page.unhide(id)
	w.page.clearActive()
	w.page.setActive(id, category)
	w.nav = NavigationState{ActiveSection: id, ActiveCategory: category}

	def, known := w.views.Section(id)
	if known && def.Map != "" {
		if !w.maps.Initialized(def.Map) {
			w.initMap(def.Map)
		}
		w.maps.ScheduleResize(w.dispatcher, def.Map)
	}
	if known && w.anyLoaded(def.Sources) {
		w.post(func() { def.Render(w) })
	}

	w.telemetry.Record(ctx, "dashboard.section.show", map[string]any{
		"section":  string(id),
		"category": string(category),
		"known":    known,
		"session":  w.id,
	})
	w.notify(ctx, DashboardEvent{Kind: EventSectionShown, Section: id})
}

func (w *Workspace) anyLoaded(ids []SourceID) bool {
	for _, id := range ids {
		if w.store.State(id) == SourceLoaded {
			return true
		}
	}
	return false
}

// ActiveSection returns the currently visible section.
func (w *Workspace) ActiveSection() SectionID { return w.nav.ActiveSection }

// ToggleCategory opens or closes a navigation dropdown and reports the new
// state.
func (w *Workspace) ToggleCategory(ctx context.Context, id CategoryID) (bool, error) {
	open, ok := w.page.toggleCategory(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCategory, id)
	}
	w.telemetry.Record(ctx, "dashboard.category.toggle", map[string]any{
		"category": string(id),
		"open":     open,
		"session":  w.id,
	})
	return open, nil
}

// TogglePlan selects the master plan version shown by the planning
// districts section.
func (w *Workspace) TogglePlan(ctx context.Context, version string) error {
	if version != PlanVersion2015 && version != PlanVersion2031 {
		return fmt.Errorf("%w: %q", ErrUnknownPlanVersion, version)
	}
	w.plan = version
	renderPlanningDistricts(w)
	w.telemetry.Record(ctx, "dashboard.plan.toggle", map[string]any{
		"version": version,
		"session": w.id,
	})
	return nil
}

// SetFilter replaces the layouts predicate and re-renders the table.
func (w *Workspace) SetFilter(ctx context.Context, p Predicate) {
	w.predicate = p
	renderLayouts(w)
	w.telemetry.Record(ctx, "dashboard.layouts.filter", map[string]any{
		"text":     p.Text,
		"taluk":    p.Taluk,
		"use_type": p.UseType,
		"year":     p.Year,
		"session":  w.id,
	})
}

// Hover applies or clears the hover style of a shape. Only the workspace's
// view of the style changes; the shape itself is never mutated.
func (w *Workspace) Hover(mapID MapID, group, shapeID string, enter bool) bool {
	if enter {
		return w.maps.PointerEnter(mapID, group, shapeID)
	}
	return w.maps.PointerLeave(mapID, group, shapeID)
}
