package dashboard

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// WorkspaceOptions configures a Workspace.
type WorkspaceOptions struct {
	ID          string
	Locale      string
	Store       *Store
	Views       *ViewRegistry
	Manifest    *PageManifest
	Dispatcher  *Dispatcher
	Charts      []ChartDefinition
	Maps        []MapDefinition
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Logger      logrus.FieldLogger
}

// Workspace is one viewer's page: its sections, charts, maps and navigation
// state. Every method except View must run on the dispatcher.
type Workspace struct {
	id         string
	store      *Store
	views      *ViewRegistry
	manifest   *PageManifest
	dispatcher *Dispatcher
	hook       RefreshHook
	telemetry  Telemetry
	logger     logrus.FieldLogger

	page      *Page
	charts    *ChartSet
	maps      *MapSet
	chartDefs []ChartDefinition

	nav       NavigationState
	predicate Predicate
	plan      string

	bootstrapped bool
	detach       []func()
}

// NewWorkspace builds an unbootstrapped workspace.
func NewWorkspace(opts WorkspaceOptions) *Workspace {
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if opts.Views == nil {
		opts.Views = NewViewRegistry()
	}
	if opts.Manifest == nil {
		opts.Manifest = DefaultPageManifest()
	}
	if opts.Charts == nil {
		opts.Charts = DefaultChartDefinitions()
	}
	if opts.Maps == nil {
		opts.Maps = DefaultMapDefinitions()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	ws := &Workspace{
		id:         opts.ID,
		store:      opts.Store,
		views:      opts.Views,
		manifest:   opts.Manifest,
		dispatcher: opts.Dispatcher,
		hook:       opts.RefreshHook,
		telemetry:  normalizeTelemetry(opts.Telemetry),
		logger:     normalizeLogger(opts.Logger).WithField("session", opts.ID),
		page:       NewPage(opts.Manifest.Localize(opts.Locale)),
		charts:     NewChartSet(),
		maps:       NewMapSet(opts.Maps...),
		chartDefs:  opts.Charts,
		plan:       PlanVersion2015,
	}
	return ws
}

// ID returns the session id.
func (w *Workspace) ID() string { return w.id }

// Bootstrap creates the charts whose mounts exist, initializes the overview
// map, replays every section against the store and shows the default
// section. Calling it twice is a no-op.
func (w *Workspace) Bootstrap(ctx context.Context) {
	if w.bootstrapped {
		return
	}
	w.bootstrapped = true

	var defs []ChartDefinition
	for _, def := range w.chartDefs {
		if w.page.HasMount(def.Mount) {
			defs = append(defs, def)
		}
	}
	w.charts = NewChartSet(defs...)

	w.initMap(MapOverview)
	w.RenderAll()
	w.Show(ctx, w.manifest.DefaultSection, "")
	w.logger.WithField("charts", len(defs)).Debug("workspace bootstrapped")
}

// Attach subscribes the workspace to every source its sections read. Loads
// committed after Attach re-render the dependent sections.
func (w *Workspace) Attach(loader *Loader) {
	if loader == nil {
		return
	}
	for _, id := range w.views.SourceIDs() {
		id := id
		w.detach = append(w.detach, loader.RegisterDependent(id, func() {
			w.SourceChanged(context.Background(), id)
		}))
	}
}

// Close removes the loader subscriptions.
func (w *Workspace) Close() {
	for _, fn := range w.detach {
		fn()
	}
	w.detach = nil
}

// SourceChanged re-renders every section that reads id.
func (w *Workspace) SourceChanged(ctx context.Context, id SourceID) {
	if !w.bootstrapped {
		return
	}
	for _, def := range w.views.Dependents(id) {
		def.Render(w)
		w.notify(ctx, DashboardEvent{Kind: EventSectionRendered, Source: id, Section: def.ID})
	}
}

// RenderAll replays every registered section.
func (w *Workspace) RenderAll() {
	for _, def := range w.views.Sections() {
		def.Render(w)
	}
}

// RenderSection replays one section.
func (w *Workspace) RenderSection(id SectionID) bool {
	def, ok := w.views.Section(id)
	if !ok {
		return false
	}
	def.Render(w)
	return true
}

// initMap initializes a map whose mount exists and replays the sections
// drawing into it, covering data that arrived before the map.
func (w *Workspace) initMap(id MapID) bool {
	if w.maps.Initialized(id) {
		return false
	}
	def, ok := w.maps.Definition(id)
	if !ok || !w.page.HasMount(def.Mount) {
		return false
	}
	if err := w.maps.Initialize(id); err != nil {
		if !errors.Is(err, ErrMapAlreadyInitialized) {
			w.logger.WithError(err).WithField("map", id).Warn("map initialize failed")
		}
		return false
	}
	for _, section := range w.views.Sections() {
		if section.Map == id {
			section.Render(w)
		}
	}
	return true
}

func (w *Workspace) post(fn func()) {
	if w.dispatcher == nil {
		fn()
		return
	}
	w.dispatcher.Post(fn)
}

func (w *Workspace) notify(ctx context.Context, event DashboardEvent) {
	event.SessionID = w.id
	if err := w.hook.DashboardUpdated(ctx, event); err != nil {
		w.logger.WithError(err).WithField("kind", event.Kind).Warn("refresh hook failed")
	}
}

// Page exposes the document model.
func (w *Workspace) Page() *Page { return w.page }

// Charts exposes the chart instances.
func (w *Workspace) Charts() *ChartSet { return w.charts }

// Maps exposes the map instances.
func (w *Workspace) Maps() *MapSet { return w.maps }

// Predicate returns the active layouts filter.
func (w *Workspace) Predicate() Predicate { return w.predicate }

// Plan returns the selected master plan version.
func (w *Workspace) Plan() string { return w.plan }

// WorkspaceView is a serialisable copy of a workspace.
type WorkspaceView struct {
	SessionID  string          `json:"session_id"`
	Navigation NavigationState `json:"navigation"`
	Plan       string          `json:"plan"`
	Predicate  Predicate       `json:"predicate"`
	Page       PageView        `json:"page"`
	Charts     []ChartInstance `json:"charts"`
	Maps       []MapView       `json:"maps"`
	Sources    []SourceStatus  `json:"sources"`
}

// View copies the workspace state.
func (w *Workspace) View() WorkspaceView {
	return WorkspaceView{
		SessionID:  w.id,
		Navigation: w.nav,
		Plan:       w.plan,
		Predicate:  w.predicate,
		Page:       w.page.View(),
		Charts:     w.charts.Charts(),
		Maps:       w.maps.Views(),
		Sources:    w.store.Snapshot(),
	}
}
