package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var errMissingSection = errors.New("dashboard: section id is required")

// Options configures the dashboard Service. Every collaborator is provided via
// interface or pointer so applications can swap implementations; nil fields
// fall back to the built-in defaults.
type Options struct {
	Catalog       *SourceCatalog
	Store         *Store
	Fetcher       Fetcher
	Validator     SourceValidator
	Views         *ViewRegistry
	Manifest      *PageManifest
	Charts        []ChartDefinition
	Maps          []MapDefinition
	Workspaces    WorkspaceStore
	Dispatcher    *Dispatcher
	ChartRenderer ChartHTMLRenderer
	RefreshHook   RefreshHook
	Telemetry     Telemetry
	Logger        logrus.FieldLogger
	MaxConcurrent int
}

// Service owns the process-wide store and loader, the dispatcher and the
// per-viewer workspaces.
type Service struct {
	opts   Options
	loader *Loader
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Store == nil {
		opts.Store = NewStore()
	}
	if opts.Catalog == nil {
		opts.Catalog, _ = NewSourceCatalog(DefaultSources(LayoutsVariantSample)...)
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Views == nil {
		opts.Views = NewViewRegistry()
	}
	if opts.Manifest == nil {
		opts.Manifest = DefaultPageManifest()
	}
	if opts.Workspaces == nil {
		opts.Workspaces = NewInMemoryWorkspaceStore()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = NewDispatcher()
	}
	if opts.ChartRenderer == nil {
		opts.ChartRenderer = NewEChartsRenderer()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = normalizeLogger(opts.Logger)

	loader := NewLoader(LoaderOptions{
		Store:         opts.Store,
		Catalog:       opts.Catalog,
		Fetcher:       opts.Fetcher,
		Validator:     opts.Validator,
		Dispatcher:    opts.Dispatcher,
		RefreshHook:   opts.RefreshHook,
		Telemetry:     opts.Telemetry,
		Logger:        opts.Logger,
		MaxConcurrent: opts.MaxConcurrent,
	})
	return &Service{opts: opts, loader: loader}
}

// Loader exposes the source loader.
func (s *Service) Loader() *Loader { return s.loader }

// Store exposes the data store.
func (s *Service) Store() *Store { return s.opts.Store }

// Catalog exposes the source catalog.
func (s *Service) Catalog() *SourceCatalog { return s.opts.Catalog }

// Manifest exposes the page manifest.
func (s *Service) Manifest() *PageManifest { return s.opts.Manifest }

// Dispatcher exposes the dispatcher.
func (s *Service) Dispatcher() *Dispatcher { return s.opts.Dispatcher }

// Run drains the dispatcher and loads every source once. Failed sources are
// logged; they never stop the service. Run returns when ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return s.opts.Dispatcher.Run(gctx)
	})
	group.Go(func() error {
		if err := s.loader.LoadAll(gctx); err != nil {
			s.opts.Logger.WithError(err).Warn("some sources failed to load")
		}
		return nil
	})
	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Workspace returns the viewer's workspace, creating and bootstrapping it on
// first use.
func (s *Service) Workspace(ctx context.Context, viewer ViewerContext) (WorkspaceView, error) {
	var view WorkspaceView
	err := s.withWorkspace(ctx, viewer, func(ws *Workspace) error {
		view = ws.View()
		return nil
	})
	return view, err
}

// NewSession creates a workspace under a fresh session id.
func (s *Service) NewSession(ctx context.Context, locale string) (string, error) {
	id := uuid.NewString()
	err := s.withWorkspace(ctx, ViewerContext{SessionID: id, Locale: locale}, func(*Workspace) error {
		return nil
	})
	if err != nil {
		return "", err
	}
	s.opts.Telemetry.Record(ctx, "dashboard.session.new", map[string]any{"session": id})
	return id, nil
}

// CloseSession drops a workspace and its loader subscriptions.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	return s.dispatch(ctx, func() error {
		if ws, ok := s.opts.Workspaces.Delete(id); ok {
			ws.Close()
		}
		return nil
	})
}

// ShowSection navigates the viewer's workspace.
func (s *Service) ShowSection(ctx context.Context, viewer ViewerContext, section SectionID, category CategoryID) error {
	if section == "" {
		return errMissingSection
	}
	return s.withWorkspace(ctx, viewer, func(ws *Workspace) error {
		ws.Show(ctx, section, category)
		return nil
	})
}

// ToggleCategory opens or closes a navigation dropdown.
func (s *Service) ToggleCategory(ctx context.Context, viewer ViewerContext, category CategoryID) (bool, error) {
	var open bool
	err := s.withWorkspace(ctx, viewer, func(ws *Workspace) error {
		var err error
		open, err = ws.ToggleCategory(ctx, category)
		return err
	})
	return open, err
}

// TogglePlan selects the master plan version.
func (s *Service) TogglePlan(ctx context.Context, viewer ViewerContext, version string) error {
	return s.withWorkspace(ctx, viewer, func(ws *Workspace) error {
		return ws.TogglePlan(ctx, version)
	})
}

// FilterLayouts applies a predicate to the viewer's layouts table and
// returns the rows now shown.
func (s *Service) FilterLayouts(ctx context.Context, viewer ViewerContext, p Predicate) ([]LayoutRow, error) {
	var rows []LayoutRow
	err := s.withWorkspace(ctx, viewer, func(ws *Workspace) error {
		ws.SetFilter(ctx, p)
		if mount, ok := ws.Page().Mount(MountLayoutsTable); ok {
			rows, _ = mount.Model.([]LayoutRow)
		}
		return nil
	})
	return rows, err
}

// HoverRequest identifies a shape under the pointer.
type HoverRequest struct {
	Map   MapID  `json:"map"`
	Group string `json:"group"`
	Shape string `json:"shape"`
	Enter bool   `json:"enter"`
}

// Hover applies a pointer enter or leave to a map shape.
func (s *Service) Hover(ctx context.Context, viewer ViewerContext, req HoverRequest) (bool, error) {
	var applied bool
	err := s.withWorkspace(ctx, viewer, func(ws *Workspace) error {
		applied = ws.Hover(req.Map, req.Group, req.Shape, req.Enter)
		return nil
	})
	return applied, err
}

// Reload refetches one source, or every source when id is empty.
func (s *Service) Reload(ctx context.Context, id SourceID) error {
	if id == "" {
		return s.loader.LoadAll(ctx)
	}
	return s.loader.Load(ctx, id)
}

// Sources reports the state of every catalogued source.
func (s *Service) Sources() []SourceStatus {
	out := make([]SourceStatus, 0)
	for _, id := range s.opts.Catalog.IDs() {
		out = append(out, s.opts.Store.Status(id))
	}
	return out
}

// ExportLayouts serializes the full layout collection as CSV.
func (s *Service) ExportLayouts(ctx context.Context) (Export, error) {
	doc, ok := Lookup[*LayoutsDocument](s.opts.Store, SourceLayouts)
	if !ok || doc == nil {
		return Export{}, fmt.Errorf("%w: %s not loaded", ErrNothingToExport, SourceLayouts)
	}
	export, err := ExportLayoutsCSV(doc.Layouts)
	if err != nil {
		return Export{}, err
	}
	s.opts.Telemetry.Record(ctx, "dashboard.export.layouts", map[string]any{"rows": len(doc.Layouts)})
	return export, nil
}

// ExportSources pretty-prints the sources document.
func (s *Service) ExportSources(ctx context.Context) (Export, error) {
	raw, ok := s.opts.Store.Raw(SourceCitations)
	if !ok {
		return Export{}, fmt.Errorf("%w: %s not loaded", ErrNothingToExport, SourceCitations)
	}
	export, err := ExportSourcesJSON(raw)
	if err != nil {
		return Export{}, err
	}
	s.opts.Telemetry.Record(ctx, "dashboard.export.sources", map[string]any{"bytes": len(export.Body)})
	return export, nil
}

// MapGeoJSON returns the layers of one map of the viewer's workspace as a
// GeoJSON feature collection.
func (s *Service) MapGeoJSON(ctx context.Context, viewer ViewerContext, id MapID) ([]byte, error) {
	var out []byte
	err := s.withWorkspace(ctx, viewer, func(ws *Workspace) error {
		view, ok := ws.Maps().View(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMap, id)
		}
		var err error
		out, err = MapGeoJSON(view)
		return err
	})
	return out, err
}

// ChartHTML renders every chart of a workspace view into HTML keyed by
// mount id.
func (s *Service) ChartHTML(view WorkspaceView) map[string]string {
	out := make(map[string]string, len(view.Charts))
	for _, chart := range view.Charts {
		html, err := s.opts.ChartRenderer.RenderChart(chart)
		if err != nil {
			s.opts.Logger.WithError(err).WithField("chart", chart.Name).Warn("chart render failed")
			continue
		}
		out[string(chart.Mount)] = html
	}
	return out
}

func (s *Service) withWorkspace(ctx context.Context, viewer ViewerContext, fn func(ws *Workspace) error) error {
	return s.dispatch(ctx, func() error {
		ws, ok := s.opts.Workspaces.Get(viewer.SessionID)
		if !ok {
			id := viewer.SessionID
			if id == "" {
				id = DefaultSessionID
			}
			ws = NewWorkspace(WorkspaceOptions{
				ID:          id,
				Locale:      viewer.Locale,
				Store:       s.opts.Store,
				Views:       s.opts.Views,
				Manifest:    s.opts.Manifest,
				Dispatcher:  s.opts.Dispatcher,
				Charts:      s.opts.Charts,
				Maps:        s.opts.Maps,
				RefreshHook: s.opts.RefreshHook,
				Telemetry:   s.opts.Telemetry,
				Logger:      s.opts.Logger,
			})
			ws.Attach(s.loader)
			ws.Bootstrap(ctx)
			if err := s.opts.Workspaces.Put(ws); err != nil {
				ws.Close()
				return err
			}
		}
		return fn(ws)
	})
}

func (s *Service) dispatch(ctx context.Context, fn func() error) error {
	return s.opts.Dispatcher.Do(ctx, fn)
}
