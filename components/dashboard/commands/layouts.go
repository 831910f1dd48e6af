package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// FilterLayoutsInput carries the layouts table predicate.
type FilterLayoutsInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	dashboard.Predicate
}

type filterService interface {
	FilterLayouts(ctx context.Context, viewer dashboard.ViewerContext, p dashboard.Predicate) ([]dashboard.LayoutRow, error)
}

// FilterLayoutsCommand wraps Service.FilterLayouts.
type FilterLayoutsCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewFilterLayoutsCommand creates the command.
func NewFilterLayoutsCommand(service filterService, telemetry Telemetry) *FilterLayoutsCommand {
	return &FilterLayoutsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[FilterLayoutsInput] = (*FilterLayoutsCommand)(nil)

// Execute replaces the viewer's layouts predicate. An empty predicate clears
// every filter.
func (c *FilterLayoutsCommand) Execute(ctx context.Context, msg FilterLayoutsInput) error {
	if c.service == nil {
		return errors.New("filter command requires service")
	}
	rows, err := c.service.FilterLayouts(ctx, msg.Viewer, msg.Predicate)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.filter", map[string]any{
		"rows":    len(rows),
		"session": msg.Viewer.SessionID,
	})
	return nil
}

// TogglePlanInput selects a master plan version.
type TogglePlanInput struct {
	Viewer  dashboard.ViewerContext `json:"-"`
	Version string                  `json:"version"`
}

type planService interface {
	TogglePlan(ctx context.Context, viewer dashboard.ViewerContext, version string) error
}

// TogglePlanCommand wraps Service.TogglePlan.
type TogglePlanCommand struct {
	service   planService
	telemetry Telemetry
}

// NewTogglePlanCommand creates the command.
func NewTogglePlanCommand(service planService, telemetry Telemetry) *TogglePlanCommand {
	return &TogglePlanCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TogglePlanInput] = (*TogglePlanCommand)(nil)

// Execute switches the planning districts view.
func (c *TogglePlanCommand) Execute(ctx context.Context, msg TogglePlanInput) error {
	if c.service == nil {
		return errors.New("plan command requires service")
	}
	if msg.Version == "" {
		return errors.New("plan command requires version")
	}
	if err := c.service.TogglePlan(ctx, msg.Viewer, msg.Version); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.plan", map[string]any{"version": msg.Version})
	return nil
}
