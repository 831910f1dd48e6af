package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	defaultPageTemplate    = "dashboard.html"
	defaultSectionTemplate = "sections/%s.html"
	defaultEndpointBase    = "/dashboard"
)

var errMissingRenderer = errors.New("dashboard: controller requires renderer")

// PageResolver is the part of Service the controller needs.
type PageResolver interface {
	Workspace(ctx context.Context, viewer ViewerContext) (WorkspaceView, error)
	ChartHTML(view WorkspaceView) map[string]string
}

// ControllerOptions configures the HTML controller.
type ControllerOptions struct {
	Service  PageResolver
	Renderer Renderer
	Template string
	// SectionTemplate is a format string receiving the section id.
	SectionTemplate string
	// EndpointBase prefixes the URLs the page calls: show, sections/{id},
	// maps/{id}, export/{kind}, ws.
	EndpointBase string
	// ClientScript is the URL of the page script; defaults to
	// EndpointBase/assets/client/dashboard.js.
	ClientScript string
}

// Controller renders dashboard pages and section fragments.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultPageTemplate
	}
	if opts.SectionTemplate == "" {
		opts.SectionTemplate = defaultSectionTemplate
	}
	opts.EndpointBase = strings.TrimSuffix(opts.EndpointBase, "/")
	if opts.EndpointBase == "" {
		opts.EndpointBase = defaultEndpointBase
	}
	if opts.ClientScript == "" {
		opts.ClientScript = opts.EndpointBase + "/assets/client/" + ClientScriptName
	}
	return &Controller{opts: opts}
}

// RenderTemplate renders the full page of a viewer's workspace.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	payload, err := c.payload(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, payload, out)
	return err
}

// RenderSection renders a single section so clients can swap its container.
func (c *Controller) RenderSection(ctx context.Context, viewer ViewerContext, id SectionID, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	payload, err := c.payload(ctx, viewer)
	if err != nil {
		return err
	}
	section, ok := findSection(payload, id)
	if !ok {
		return fmt.Errorf("dashboard: unknown section %s", id)
	}
	payload["section"] = section
	_, err = c.opts.Renderer.Render(fmt.Sprintf(c.opts.SectionTemplate, id), payload, out)
	return err
}

func (c *Controller) payload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	var payload map[string]any
	if c.opts.Service == nil {
		payload = PagePayload(WorkspaceView{}, nil)
	} else {
		view, err := c.opts.Service.Workspace(ctx, viewer)
		if err != nil {
			return nil, err
		}
		payload = PagePayload(view, c.opts.Service.ChartHTML(view))
	}
	payload["base"] = c.opts.EndpointBase
	payload["client_script"] = c.opts.ClientScript
	return payload, nil
}

// PagePayload flattens a workspace view into template data.
func PagePayload(view WorkspaceView, charts map[string]string) map[string]any {
	sections := make([]map[string]any, 0, len(view.Page.Sections))
	for _, section := range view.Page.Sections {
		sections = append(sections, map[string]any{
			"id":        string(section.ID),
			"label":     section.Label,
			"category":  string(section.Category),
			"container": section.Container,
			"hidden":    section.Hidden,
		})
	}
	mounts := make(map[string]any, len(view.Page.Mounts))
	for id, mount := range view.Page.Mounts {
		mounts[id] = mount.Model
	}
	maps := make(map[string]MapView, len(view.Maps))
	for _, m := range view.Maps {
		maps[string(m.ID)] = m
	}
	if charts == nil {
		charts = map[string]string{}
	}
	return map[string]any{
		"title":       view.Page.Title,
		"session_id":  view.SessionID,
		"navigation":  view.Navigation,
		"nav_desktop": view.Page.Nav[NavDesktop],
		"nav_mobile":  view.Page.Nav[NavMobile],
		"categories":  view.Page.Categories,
		"sections":    sections,
		"mounts":      mounts,
		"charts":      charts,
		"maps":        maps,
		"plan":        view.Plan,
		"predicate":   view.Predicate,
		"sources":     view.Sources,
	}
}

func findSection(payload map[string]any, id SectionID) (map[string]any, bool) {
	sections, _ := payload["sections"].([]map[string]any)
	for _, section := range sections {
		if section["id"] == string(id) {
			return section, true
		}
	}
	return nil, false
}
