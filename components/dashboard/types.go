package dashboard

import (
	"context"
	"time"
)

// SourceID names an independently fetchable JSON/GeoJSON document.
type SourceID string

// SectionID names a top-level view shown exclusively in the dashboard.
type SectionID string

// CategoryID groups sections in the navigation dropdowns.
type CategoryID string

// MountID addresses a replaceable region inside a section.
type MountID string

// MapID names one of the dashboard map instances.
type MapID string

// SourceState is the lifecycle of a source inside the Store.
type SourceState int

const (
	SourceUnloaded SourceState = iota
	SourceLoaded
	SourceFailed
)

func (s SourceState) String() string {
	switch s {
	case SourceLoaded:
		return "loaded"
	case SourceFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// MarshalText lets source states render as strings in JSON payloads.
func (s SourceState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SourceStatus is a read-only view of a store entry.
type SourceStatus struct {
	ID         SourceID    `json:"id"`
	State      SourceState `json:"state"`
	Error      string      `json:"error,omitempty"`
	LoadedAt   time.Time   `json:"loaded_at,omitempty"`
	Generation uint64      `json:"generation"`
}

// Fetcher retrieves raw source documents relative to the data base path.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FetcherFunc adapts a function into a Fetcher.
type FetcherFunc func(ctx context.Context, name string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

// ViewerContext identifies the workspace a request belongs to.
type ViewerContext struct {
	SessionID string
	Locale    string
}

// EventKind classifies refresh events pushed to transports.
type EventKind string

const (
	EventSourceLoaded    EventKind = "source.loaded"
	EventSourceFailed    EventKind = "source.failed"
	EventSectionRendered EventKind = "section.rendered"
	EventSectionShown    EventKind = "section.shown"
)

// DashboardEvent describes changes that transports might care about.
type DashboardEvent struct {
	Kind      EventKind `json:"kind"`
	Source    SourceID  `json:"source,omitempty"`
	Section   SectionID `json:"section,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// RefreshHook notifies transports (SSE/WebSocket) about dashboard changes.
type RefreshHook interface {
	DashboardUpdated(ctx context.Context, event DashboardEvent) error
}

type noopRefreshHook struct{}

func (noopRefreshHook) DashboardUpdated(context.Context, DashboardEvent) error {
	return nil
}
