package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-bda-dashboard/components/dashboard"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/queries"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, API and refresh hook.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	// AssetsDir serves a local ECharts runtime when set.
	AssetsDir string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML      string
	Section   string
	Workspace string
	Show      string
	Category  string
	Filter    string
	Plan      string
	Hover     string
	Session   string
	Sources   string
	Reload    string
	Export    string
	Map       string
	WebSocket string
	Assets    string
	// Client serves the embedded page script.
	Client string
}

// Register mounts dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = DefaultViewerResolver
	}

	if cfg.AssetsDir != "" {
		cfg.Router.Static(routes.Assets, ".", router.Static{
			FS:     os.DirFS(cfg.AssetsDir),
			Root:   ".",
			MaxAge: 86400,
		})
	}

	group := cfg.Router.Group(base)

	group.Static(routes.Client, ".", router.Static{
		FS:     dashboard.ClientAssets(),
		Root:   ".",
		MaxAge: 3600,
	})

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.Section, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		id := dashboard.SectionID(ctx.Param("id"))
		var buf bytes.Buffer
		if err := cfg.Controller.RenderSection(ctx.Context(), viewer, id, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	workspace := func(ctx router.Context, viewer dashboard.ViewerContext) error {
		view, err := api.Workspace(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}

	r.Get(routes.Workspace, router.WrapHandler(func(ctx router.Context) error {
		return workspace(ctx, resolver(ctx))
	}))

	r.Post(routes.Show, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ShowSectionInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.Show(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return workspace(ctx, payload.Viewer)
	}))

	r.Post(routes.Category, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ToggleCategoryInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.ToggleCategory(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return workspace(ctx, payload.Viewer)
	}))

	r.Post(routes.Filter, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.FilterLayoutsInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.Filter(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return workspace(ctx, payload.Viewer)
	}))

	r.Post(routes.Plan, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.TogglePlanInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.TogglePlan(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return workspace(ctx, payload.Viewer)
	}))

	r.Post(routes.Hover, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.HoverInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.Hover(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}))

	r.Delete(routes.Session, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.CloseSession(ctx.Context(), commands.CloseSessionInput{SessionID: viewer.SessionID}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Get(routes.Sources, router.WrapHandler(func(ctx router.Context) error {
		statuses, err := api.Sources(ctx.Context(), queries.SourceStatusInput{Source: dashboard.SourceID(ctx.Query("source"))})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, statuses)
	}))

	r.Post(routes.Reload, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ReloadSourceInput
		if body := ctx.Body(); len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return respondStatus(ctx, http.StatusBadRequest, err)
			}
		}
		if err := api.Reload(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		statuses, err := api.Sources(ctx.Context(), queries.SourceStatusInput{Source: payload.Source})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, statuses)
	}))

	r.Get(routes.Export, router.WrapHandler(func(ctx router.Context) error {
		export, err := api.Export(ctx.Context(), queries.ExportKind(ctx.Param("kind")))
		if err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", export.ContentType)
		ctx.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
		return ctx.Send(export.Body)
	}))

	r.Get(routes.Map, router.WrapHandler(func(ctx router.Context) error {
		raw, err := api.MapGeoJSON(ctx.Context(), queries.MapInput{
			Viewer: resolver(ctx),
			Map:    dashboard.MapID(ctx.Param("id")),
		})
		if err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "application/geo+json")
		return ctx.Send(raw)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe(ws.Query(dashboard.SessionQueryParam))
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// DefaultViewerResolver reads the session from locals, the session query
// parameter or the session header, and the locale from the request.
func DefaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	var viewer dashboard.ViewerContext
	if v, ok := ctx.Locals("session_id").(string); ok {
		viewer.SessionID = v
	}
	if viewer.SessionID == "" {
		viewer.SessionID = strings.TrimSpace(ctx.Query(dashboard.SessionQueryParam))
	}
	if viewer.SessionID == "" {
		viewer.SessionID = strings.TrimSpace(ctx.Header(httpapi.SessionHeader))
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return httpapi.ParseAcceptLanguage(ctx.Header("Accept-Language"))
}

func respondError(ctx router.Context, err error) error {
	return respondStatus(ctx, httpapi.StatusFor(err), err)
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	set := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	set(&routes.HTML, "/dashboard")
	set(&routes.Section, "/dashboard/sections/:id")
	set(&routes.Workspace, "/dashboard/_workspace")
	set(&routes.Show, "/dashboard/show")
	set(&routes.Category, "/dashboard/category")
	set(&routes.Filter, "/dashboard/layouts/filter")
	set(&routes.Plan, "/dashboard/plan")
	set(&routes.Hover, "/dashboard/hover")
	set(&routes.Session, "/dashboard/session")
	set(&routes.Sources, "/dashboard/sources")
	set(&routes.Reload, "/dashboard/sources/reload")
	set(&routes.Export, "/dashboard/export/:kind")
	set(&routes.Map, "/dashboard/maps/:id")
	set(&routes.WebSocket, "/dashboard/ws")
	set(&routes.Assets, dashboard.DefaultEChartsAssetsPath)
	set(&routes.Client, dashboard.DefaultClientAssetsPath)
	return routes
}
