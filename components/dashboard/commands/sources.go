package commands

import (
	"context"
	"errors"

	dashboard "github.com/goliatone/go-bda-dashboard/components/dashboard"
	gocommand "github.com/goliatone/go-command"
)

// ReloadSourceInput names the source to refetch; empty reloads everything.
type ReloadSourceInput struct {
	Source dashboard.SourceID `json:"source,omitempty"`
}

type reloadService interface {
	Reload(ctx context.Context, id dashboard.SourceID) error
}

// ReloadSourceCommand wraps Service.Reload.
type ReloadSourceCommand struct {
	service   reloadService
	telemetry Telemetry
}

// NewReloadSourceCommand creates the command.
func NewReloadSourceCommand(service reloadService, telemetry Telemetry) *ReloadSourceCommand {
	return &ReloadSourceCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReloadSourceInput] = (*ReloadSourceCommand)(nil)

// Execute refetches the source. Sections that read it re-render on success.
func (c *ReloadSourceCommand) Execute(ctx context.Context, msg ReloadSourceInput) error {
	if c.service == nil {
		return errors.New("reload command requires service")
	}
	err := c.service.Reload(ctx, msg.Source)
	c.telemetry.Record(ctx, "dashboard.command.reload", map[string]any{
		"source": string(msg.Source),
		"ok":     err == nil,
	})
	return err
}

// CloseSessionInput names the workspace to drop.
type CloseSessionInput struct {
	SessionID string `json:"session_id"`
}

type sessionService interface {
	CloseSession(ctx context.Context, id string) error
}

// CloseSessionCommand wraps Service.CloseSession.
type CloseSessionCommand struct {
	service sessionService
}

// NewCloseSessionCommand creates the command.
func NewCloseSessionCommand(service sessionService) *CloseSessionCommand {
	return &CloseSessionCommand{service: service}
}

var _ gocommand.Commander[CloseSessionInput] = (*CloseSessionCommand)(nil)

// Execute drops the workspace.
func (c *CloseSessionCommand) Execute(ctx context.Context, msg CloseSessionInput) error {
	if c.service == nil {
		return errors.New("close session command requires service")
	}
	if msg.SessionID == "" {
		return errors.New("close session command requires session id")
	}
	return c.service.CloseSession(ctx, msg.SessionID)
}
