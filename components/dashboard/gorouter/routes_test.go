package gorouter

import (
	"testing"

	"github.com/goliatone/go-bda-dashboard/components/dashboard"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{HTML: "/bda"})
	if routes.HTML != "/bda" {
		t.Fatalf("expected custom html route to survive, got %s", routes.HTML)
	}
	cases := map[string]string{
		routes.Section:   "/dashboard/sections/:id",
		routes.Workspace: "/dashboard/_workspace",
		routes.Filter:    "/dashboard/layouts/filter",
		routes.Reload:    "/dashboard/sources/reload",
		routes.Export:    "/dashboard/export/:kind",
		routes.Map:       "/dashboard/maps/:id",
		routes.WebSocket: "/dashboard/ws",
		routes.Assets:    dashboard.DefaultEChartsAssetsPath,
		routes.Client:    dashboard.DefaultClientAssetsPath,
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("expected route %s, got %s", want, got)
		}
	}
}

func TestDefaultRouteConfigFillsEveryRoute(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{})
	for name, value := range map[string]string{
		"html": routes.HTML, "section": routes.Section, "workspace": routes.Workspace,
		"show": routes.Show, "category": routes.Category, "filter": routes.Filter,
		"plan": routes.Plan, "hover": routes.Hover, "session": routes.Session,
		"sources": routes.Sources, "reload": routes.Reload, "export": routes.Export,
		"map": routes.Map, "ws": routes.WebSocket, "assets": routes.Assets,
		"client": routes.Client,
	} {
		if value == "" {
			t.Fatalf("expected default for %s route", name)
		}
	}
}
