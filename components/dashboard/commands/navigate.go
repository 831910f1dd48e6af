package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// ShowSectionInput selects the section a viewer sees.
type ShowSectionInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	Section  dashboard.SectionID     `json:"section"`
	Category dashboard.CategoryID    `json:"category,omitempty"`
}

type navigationService interface {
	ShowSection(ctx context.Context, viewer dashboard.ViewerContext, section dashboard.SectionID, category dashboard.CategoryID) error
}

// ShowSectionCommand wraps Service.ShowSection.
type ShowSectionCommand struct {
	service   navigationService
	telemetry Telemetry
}

// NewShowSectionCommand creates the command.
func NewShowSectionCommand(service navigationService, telemetry Telemetry) *ShowSectionCommand {
	return &ShowSectionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ShowSectionInput] = (*ShowSectionCommand)(nil)

// Execute switches the viewer's visible section.
func (c *ShowSectionCommand) Execute(ctx context.Context, msg ShowSectionInput) error {
	if c.service == nil {
		return errors.New("show section command requires service")
	}
	if msg.Section == "" {
		return errors.New("show section command requires section id")
	}
	if err := c.service.ShowSection(ctx, msg.Viewer, msg.Section, msg.Category); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.show", map[string]any{
		"section": string(msg.Section),
		"session": msg.Viewer.SessionID,
	})
	return nil
}

// ToggleCategoryInput names the dropdown to open or close.
type ToggleCategoryInput struct {
	Viewer   dashboard.ViewerContext `json:"-"`
	Category dashboard.CategoryID    `json:"category"`
}

type categoryService interface {
	ToggleCategory(ctx context.Context, viewer dashboard.ViewerContext, category dashboard.CategoryID) (bool, error)
}

// ToggleCategoryCommand wraps Service.ToggleCategory.
type ToggleCategoryCommand struct {
	service   categoryService
	telemetry Telemetry
}

// NewToggleCategoryCommand creates the command.
func NewToggleCategoryCommand(service categoryService, telemetry Telemetry) *ToggleCategoryCommand {
	return &ToggleCategoryCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleCategoryInput] = (*ToggleCategoryCommand)(nil)

// Execute flips the dropdown state.
func (c *ToggleCategoryCommand) Execute(ctx context.Context, msg ToggleCategoryInput) error {
	if c.service == nil {
		return errors.New("toggle category command requires service")
	}
	if msg.Category == "" {
		return errors.New("toggle category command requires category id")
	}
	open, err := c.service.ToggleCategory(ctx, msg.Viewer, msg.Category)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.category", map[string]any{
		"category": string(msg.Category),
		"open":     open,
	})
	return nil
}

// HoverInput reports the pointer entering or leaving a map shape.
type HoverInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	dashboard.HoverRequest
}

type hoverService interface {
	Hover(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.HoverRequest) (bool, error)
}

// HoverCommand wraps Service.Hover.
type HoverCommand struct {
	service hoverService
}

// NewHoverCommand creates the command.
func NewHoverCommand(service hoverService) *HoverCommand {
	return &HoverCommand{service: service}
}

var _ gocommand.Commander[HoverInput] = (*HoverCommand)(nil)

// Execute applies the hover style change.
func (c *HoverCommand) Execute(ctx context.Context, msg HoverInput) error {
	if c.service == nil {
		return errors.New("hover command requires service")
	}
	if msg.Map == "" || msg.Shape == "" {
		return errors.New("hover command requires map and shape")
	}
	_, err := c.service.Hover(ctx, msg.Viewer, msg.HoverRequest)
	return err
}
