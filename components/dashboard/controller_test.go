package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type stubPageResolver struct {
	view WorkspaceView
	err  error
}

func (s *stubPageResolver) Workspace(ctx context.Context, viewer ViewerContext) (WorkspaceView, error) {
	view := s.view
	view.SessionID = viewer.SessionID
	return view, s.err
}

func (s *stubPageResolver) ChartHTML(view WorkspaceView) map[string]string {
	return map[string]string{"decadeChart": "<div>chart</div>"}
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func stubWorkspaceView() WorkspaceView {
	ws := NewWorkspace(WorkspaceOptions{ID: "stub"})
	ws.Bootstrap(context.Background())
	return ws.View()
}

func TestControllerRenderTemplate(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  &stubPageResolver{view: stubWorkspaceView()},
		Renderer: renderer,
	})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), ViewerContext{SessionID: "abc"}, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != "dashboard.html" {
		t.Fatalf("expected dashboard template to render, got %s", renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
	if renderer.lastPayload["session_id"] != "abc" {
		t.Fatalf("expected session id in payload, got %v", renderer.lastPayload["session_id"])
	}
	charts, _ := renderer.lastPayload["charts"].(map[string]string)
	if charts["decadeChart"] == "" {
		t.Fatalf("expected chart html in payload")
	}
}

func TestControllerRenderSection(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  &stubPageResolver{view: stubWorkspaceView()},
		Renderer: renderer,
	})

	var buf bytes.Buffer
	if err := controller.RenderSection(context.Background(), ViewerContext{}, SectionSources, &buf); err != nil {
		t.Fatalf("RenderSection returned error: %v", err)
	}
	if renderer.lastTemplate != "sections/sources.html" {
		t.Fatalf("expected section template, got %s", renderer.lastTemplate)
	}
	section, ok := renderer.lastPayload["section"].(map[string]any)
	if !ok || section["id"] != "sources" {
		t.Fatalf("expected section entry in payload, got %v", renderer.lastPayload["section"])
	}
	if section["category"] != string(CategoryGovernance) {
		t.Fatalf("expected governance category, got %v", section["category"])
	}

	if err := controller.RenderSection(context.Background(), ViewerContext{}, "missing", &buf); err == nil {
		t.Fatalf("expected unknown section to fail")
	}
}

func TestControllerRequiresRenderer(t *testing.T) {
	controller := NewController(ControllerOptions{Service: &stubPageResolver{}})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); !errors.Is(err, errMissingRenderer) {
		t.Fatalf("expected errMissingRenderer, got %v", err)
	}
}

func TestControllerPropagatesResolverError(t *testing.T) {
	boom := errors.New("boom")
	controller := NewController(ControllerOptions{
		Service:  &stubPageResolver{err: boom},
		Renderer: &stubRenderer{},
	})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); !errors.Is(err, boom) {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestPagePayloadShape(t *testing.T) {
	view := stubWorkspaceView()
	payload := PagePayload(view, nil)

	for _, key := range []string{"title", "session_id", "navigation", "nav_desktop", "nav_mobile", "categories", "sections", "mounts", "charts", "maps", "plan", "predicate", "sources"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected payload key %s", key)
		}
	}
	sections := payload["sections"].([]map[string]any)
	if len(sections) != len(DefaultPageManifest().Sections) {
		t.Fatalf("expected %d sections, got %d", len(DefaultPageManifest().Sections), len(sections))
	}
	visible := 0
	for _, section := range sections {
		if hidden, _ := section["hidden"].(bool); !hidden {
			visible++
		}
	}
	if visible != 1 {
		t.Fatalf("expected exactly one visible section, got %d", visible)
	}
	maps := payload["maps"].(map[string]MapView)
	if _, ok := maps[string(MapOverview)]; !ok {
		t.Fatalf("expected overview map in payload")
	}
	if payload["plan"] != PlanVersion2015 {
		t.Fatalf("expected default plan, got %v", payload["plan"])
	}
}

func TestControllerPayloadCarriesEndpointBase(t *testing.T) {
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  &stubPageResolver{view: stubWorkspaceView()},
		Renderer: renderer,
	})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{SessionID: "abc"}, io.Discard); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastPayload["base"] != "/dashboard" {
		t.Fatalf("expected default endpoint base, got %v", renderer.lastPayload["base"])
	}
	if renderer.lastPayload["client_script"] != "/dashboard/assets/client/dashboard.js" {
		t.Fatalf("expected default client script, got %v", renderer.lastPayload["client_script"])
	}

	controller = NewController(ControllerOptions{
		Service:      &stubPageResolver{view: stubWorkspaceView()},
		Renderer:     renderer,
		EndpointBase: "/bda/api/",
	})
	if err := controller.RenderSection(context.Background(), ViewerContext{}, SectionSources, io.Discard); err != nil {
		t.Fatalf("RenderSection returned error: %v", err)
	}
	if renderer.lastPayload["base"] != "/bda/api" {
		t.Fatalf("expected trimmed endpoint base, got %v", renderer.lastPayload["base"])
	}
	if renderer.lastPayload["client_script"] != "/bda/api/assets/client/dashboard.js" {
		t.Fatalf("expected client script under base, got %v", renderer.lastPayload["client_script"])
	}
}
