package queries

import (
	"context"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

type workspaceService interface {
	Workspace(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.WorkspaceView, error)
}

// WorkspaceQuery resolves a viewer's workspace, bootstrapping it on first use.
type WorkspaceQuery struct {
	service workspaceService
}

// NewWorkspaceQuery builds the query.
func NewWorkspaceQuery(service workspaceService) *WorkspaceQuery {
	return &WorkspaceQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.WorkspaceView] = (*WorkspaceQuery)(nil)

// Query returns a copy of the viewer's workspace.
func (q *WorkspaceQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.WorkspaceView, error) {
	return q.service.Workspace(ctx, viewer)
}

// MapInput identifies a map of a viewer's workspace.
type MapInput struct {
	Viewer dashboard.ViewerContext
	Map    dashboard.MapID
}

type mapService interface {
	MapGeoJSON(ctx context.Context, viewer dashboard.ViewerContext, id dashboard.MapID) ([]byte, error)
}

// MapGeoJSONQuery exports the layers of a map as GeoJSON.
type MapGeoJSONQuery struct {
	service mapService
}

// NewMapGeoJSONQuery builds the query.
func NewMapGeoJSONQuery(service mapService) *MapGeoJSONQuery {
	return &MapGeoJSONQuery{service: service}
}

var _ gocommand.Querier[MapInput, []byte] = (*MapGeoJSONQuery)(nil)

// Query returns a FeatureCollection document.
func (q *MapGeoJSONQuery) Query(ctx context.Context, input MapInput) ([]byte, error) {
	return q.service.MapGeoJSON(ctx, input.Viewer, input.Map)
}
