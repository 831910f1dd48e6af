package queries

import (
	"context"
	"errors"
	"fmt"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// SourceStatusInput filters the status report; an empty Source lists every
// catalogued source.
type SourceStatusInput struct {
	Source dashboard.SourceID
}

type statusService interface {
	Sources() []dashboard.SourceStatus
}

// SourceStatusQuery reports the load state of sources.
type SourceStatusQuery struct {
	service statusService
}

// NewSourceStatusQuery builds the query.
func NewSourceStatusQuery(service statusService) *SourceStatusQuery {
	return &SourceStatusQuery{service: service}
}

var _ gocommand.Querier[SourceStatusInput, []dashboard.SourceStatus] = (*SourceStatusQuery)(nil)

// Query lists source states in catalog order.
func (q *SourceStatusQuery) Query(_ context.Context, input SourceStatusInput) ([]dashboard.SourceStatus, error) {
	statuses := q.service.Sources()
	if input.Source == "" {
		return statuses, nil
	}
	for _, status := range statuses {
		if status.ID == input.Source {
			return []dashboard.SourceStatus{status}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", dashboard.ErrUnknownSource, input.Source)
}

// ExportKind selects an export file.
type ExportKind string

const (
	ExportLayouts ExportKind = "layouts"
	ExportSources ExportKind = "sources"
)

type exportService interface {
	ExportLayouts(ctx context.Context) (dashboard.Export, error)
	ExportSources(ctx context.Context) (dashboard.Export, error)
}

// ExportQuery builds downloadable exports.
type ExportQuery struct {
	service exportService
}

// NewExportQuery builds the query.
func NewExportQuery(service exportService) *ExportQuery {
	return &ExportQuery{service: service}
}

var _ gocommand.Querier[ExportKind, dashboard.Export] = (*ExportQuery)(nil)

// ErrUnknownExport is returned for export kinds other than layouts and sources.
var ErrUnknownExport = errors.New("queries: unknown export")

// Query produces the export file.
func (q *ExportQuery) Query(ctx context.Context, kind ExportKind) (dashboard.Export, error) {
	switch kind {
	case ExportLayouts:
		return q.service.ExportLayouts(ctx)
	case ExportSources:
		return q.service.ExportSources(ctx)
	default:
		return dashboard.Export{}, fmt.Errorf("%w: %q", ErrUnknownExport, kind)
	}
}
