package httpapi

import (
	"context"
	"errors"

	"github.com/goliatone/go-bda-dashboard/components/dashboard"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/queries"
	gocommand "github.com/goliatone/go-command"
)

var errNotConfigured = errors.New("httpapi: operation not configured")

// Executor is the transport-facing surface shared by the net/http handlers
// and the go-router adapter.
type Executor interface {
	Show(ctx context.Context, input commands.ShowSectionInput) error
	ToggleCategory(ctx context.Context, input commands.ToggleCategoryInput) error
	Filter(ctx context.Context, input commands.FilterLayoutsInput) error
	TogglePlan(ctx context.Context, input commands.TogglePlanInput) error
	Hover(ctx context.Context, input commands.HoverInput) error
	Reload(ctx context.Context, input commands.ReloadSourceInput) error
	CloseSession(ctx context.Context, input commands.CloseSessionInput) error
	Workspace(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.WorkspaceView, error)
	Sources(ctx context.Context, input queries.SourceStatusInput) ([]dashboard.SourceStatus, error)
	Export(ctx context.Context, kind queries.ExportKind) (dashboard.Export, error)
	MapGeoJSON(ctx context.Context, input queries.MapInput) ([]byte, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
// Unset fields report errNotConfigured.
type CommandExecutor struct {
	ShowCommander         gocommand.Commander[commands.ShowSectionInput]
	CategoryCommander     gocommand.Commander[commands.ToggleCategoryInput]
	FilterCommander       gocommand.Commander[commands.FilterLayoutsInput]
	PlanCommander         gocommand.Commander[commands.TogglePlanInput]
	HoverCommander        gocommand.Commander[commands.HoverInput]
	ReloadCommander       gocommand.Commander[commands.ReloadSourceInput]
	CloseSessionCommander gocommand.Commander[commands.CloseSessionInput]

	WorkspaceQuerier gocommand.Querier[dashboard.ViewerContext, dashboard.WorkspaceView]
	SourcesQuerier   gocommand.Querier[queries.SourceStatusInput, []dashboard.SourceStatus]
	ExportQuerier    gocommand.Querier[queries.ExportKind, dashboard.Export]
	MapQuerier       gocommand.Querier[queries.MapInput, []byte]
}

// ServiceAPI is the subset of dashboard.Service that NewCommandExecutor wires.
type ServiceAPI interface {
	ShowSection(ctx context.Context, viewer dashboard.ViewerContext, section dashboard.SectionID, category dashboard.CategoryID) error
	ToggleCategory(ctx context.Context, viewer dashboard.ViewerContext, category dashboard.CategoryID) (bool, error)
	FilterLayouts(ctx context.Context, viewer dashboard.ViewerContext, p dashboard.Predicate) ([]dashboard.LayoutRow, error)
	TogglePlan(ctx context.Context, viewer dashboard.ViewerContext, version string) error
	Hover(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.HoverRequest) (bool, error)
	Reload(ctx context.Context, id dashboard.SourceID) error
	CloseSession(ctx context.Context, id string) error
	Workspace(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.WorkspaceView, error)
	Sources() []dashboard.SourceStatus
	ExportLayouts(ctx context.Context) (dashboard.Export, error)
	ExportSources(ctx context.Context) (dashboard.Export, error)
	MapGeoJSON(ctx context.Context, viewer dashboard.ViewerContext, id dashboard.MapID) ([]byte, error)
}

// NewCommandExecutor wires every command and query to service.
func NewCommandExecutor(service ServiceAPI, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		ShowCommander:         commands.NewShowSectionCommand(service, telemetry),
		CategoryCommander:     commands.NewToggleCategoryCommand(service, telemetry),
		FilterCommander:       commands.NewFilterLayoutsCommand(service, telemetry),
		PlanCommander:         commands.NewTogglePlanCommand(service, telemetry),
		HoverCommander:        commands.NewHoverCommand(service),
		ReloadCommander:       commands.NewReloadSourceCommand(service, telemetry),
		CloseSessionCommander: commands.NewCloseSessionCommand(service),
		WorkspaceQuerier:      queries.NewWorkspaceQuery(service),
		SourcesQuerier:        queries.NewSourceStatusQuery(service),
		ExportQuerier:         queries.NewExportQuery(service),
		MapQuerier:            queries.NewMapGeoJSONQuery(service),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Show(ctx context.Context, input commands.ShowSectionInput) error {
	if e.ShowCommander == nil {
		return errNotConfigured
	}
	return e.ShowCommander.Execute(ctx, input)
}

func (e *CommandExecutor) ToggleCategory(ctx context.Context, input commands.ToggleCategoryInput) error {
	if e.CategoryCommander == nil {
		return errNotConfigured
	}
	return e.CategoryCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Filter(ctx context.Context, input commands.FilterLayoutsInput) error {
	if e.FilterCommander == nil {
		return errNotConfigured
	}
	return e.FilterCommander.Execute(ctx, input)
}

func (e *CommandExecutor) TogglePlan(ctx context.Context, input commands.TogglePlanInput) error {
	if e.PlanCommander == nil {
		return errNotConfigured
	}
	return e.PlanCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Hover(ctx context.Context, input commands.HoverInput) error {
	if e.HoverCommander == nil {
		return errNotConfigured
	}
	return e.HoverCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Reload(ctx context.Context, input commands.ReloadSourceInput) error {
	if e.ReloadCommander == nil {
		return errNotConfigured
	}
	return e.ReloadCommander.Execute(ctx, input)
}

func (e *CommandExecutor) CloseSession(ctx context.Context, input commands.CloseSessionInput) error {
	if e.CloseSessionCommander == nil {
		return errNotConfigured
	}
	return e.CloseSessionCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Workspace(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.WorkspaceView, error) {
	if e.WorkspaceQuerier == nil {
		return dashboard.WorkspaceView{}, errNotConfigured
	}
	return e.WorkspaceQuerier.Query(ctx, viewer)
}

func (e *CommandExecutor) Sources(ctx context.Context, input queries.SourceStatusInput) ([]dashboard.SourceStatus, error) {
	if e.SourcesQuerier == nil {
		return nil, errNotConfigured
	}
	return e.SourcesQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Export(ctx context.Context, kind queries.ExportKind) (dashboard.Export, error) {
	if e.ExportQuerier == nil {
		return dashboard.Export{}, errNotConfigured
	}
	return e.ExportQuerier.Query(ctx, kind)
}

func (e *CommandExecutor) MapGeoJSON(ctx context.Context, input queries.MapInput) ([]byte, error) {
	if e.MapQuerier == nil {
		return nil, errNotConfigured
	}
	return e.MapQuerier.Query(ctx, input)
}
