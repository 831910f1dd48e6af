package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-bda-dashboard/components/dashboard"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-bda-dashboard/components/dashboard/queries"
)

// SessionHeader carries the viewer session when no query parameter is set.
const SessionHeader = "X-Dashboard-Session"

// Handlers exposes HTTP endpoints backed by shared commands.
type Handlers struct {
	API       Executor
	Broadcast *dashboard.BroadcastHook
}

// Register mounts the handlers on mux under prefix.
func (h *Handlers) Register(mux *http.ServeMux, prefix string) {
	prefix = strings.TrimSuffix(prefix, "/")
	mux.HandleFunc("GET "+prefix+"/workspace", h.HandleWorkspace)
	mux.HandleFunc("POST "+prefix+"/show", h.HandleShowSection)
	mux.HandleFunc("POST "+prefix+"/category", h.HandleToggleCategory)
	mux.HandleFunc("POST "+prefix+"/layouts/filter", h.HandleFilterLayouts)
	mux.HandleFunc("POST "+prefix+"/plan", h.HandleTogglePlan)
	mux.HandleFunc("POST "+prefix+"/hover", h.HandleHover)
	mux.HandleFunc("DELETE "+prefix+"/session", h.HandleCloseSession)
	mux.HandleFunc("GET "+prefix+"/sources", h.HandleSources)
	mux.HandleFunc("POST "+prefix+"/sources/reload", h.HandleReload)
	mux.HandleFunc("GET "+prefix+"/export/{kind}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleExport(w, r, r.PathValue("kind"))
	})
	mux.HandleFunc("GET "+prefix+"/maps/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleMap(w, r, r.PathValue("id"))
	})
	if h.Broadcast != nil {
		mux.HandleFunc("GET "+prefix+"/events", h.Broadcast.ServeSSE)
		mux.HandleFunc("GET "+prefix+"/ws", h.Broadcast.ServeWebSocket)
	}
}

// ViewerFromRequest reads the session id from the query string or header.
func ViewerFromRequest(r *http.Request) dashboard.ViewerContext {
	session := r.URL.Query().Get(dashboard.SessionQueryParam)
	if session == "" {
		session = r.Header.Get(SessionHeader)
	}
	return dashboard.ViewerContext{
		SessionID: strings.TrimSpace(session),
		Locale:    ParseAcceptLanguage(r.Header.Get("Accept-Language")),
	}
}

func (h *Handlers) HandleWorkspace(w http.ResponseWriter, r *http.Request) {
	h.respondWorkspace(w, r.Context(), ViewerFromRequest(r))
}

func (h *Handlers) HandleShowSection(w http.ResponseWriter, r *http.Request) {
	var payload commands.ShowSectionInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.API.Show(r.Context(), payload); err != nil {
		respondError(w, err)
		return
	}
	h.respondWorkspace(w, r.Context(), payload.Viewer)
}

func (h *Handlers) HandleToggleCategory(w http.ResponseWriter, r *http.Request) {
	var payload commands.ToggleCategoryInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.API.ToggleCategory(r.Context(), payload); err != nil {
		respondError(w, err)
		return
	}
	h.respondWorkspace(w, r.Context(), payload.Viewer)
}

func (h *Handlers) HandleFilterLayouts(w http.ResponseWriter, r *http.Request) {
	var payload commands.FilterLayoutsInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.API.Filter(r.Context(), payload); err != nil {
		respondError(w, err)
		return
	}
	h.respondWorkspace(w, r.Context(), payload.Viewer)
}

func (h *Handlers) HandleTogglePlan(w http.ResponseWriter, r *http.Request) {
	var payload commands.TogglePlanInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.API.TogglePlan(r.Context(), payload); err != nil {
		respondError(w, err)
		return
	}
	h.respondWorkspace(w, r.Context(), payload.Viewer)
}

func (h *Handlers) HandleHover(w http.ResponseWriter, r *http.Request) {
	var payload commands.HoverInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.API.Hover(r.Context(), payload); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFromRequest(r)
	if err := h.API.CloseSession(r.Context(), commands.CloseSessionInput{SessionID: viewer.SessionID}); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleSources(w http.ResponseWriter, r *http.Request) {
	input := queries.SourceStatusInput{Source: dashboard.SourceID(r.URL.Query().Get("source"))}
	statuses, err := h.API.Sources(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statuses)
}

func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	var payload commands.ReloadSourceInput
	if r.ContentLength != 0 && !decode(w, r, &payload) {
		return
	}
	if err := h.API.Reload(r.Context(), payload); err != nil {
		respondError(w, err)
		return
	}
	statuses, err := h.API.Sources(r.Context(), queries.SourceStatusInput{Source: payload.Source})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, statuses)
}

func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request, kind string) {
	export, err := h.API.Export(r.Context(), queries.ExportKind(kind))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Body)
}

func (h *Handlers) HandleMap(w http.ResponseWriter, r *http.Request, id string) {
	raw, err := h.API.MapGeoJSON(r.Context(), queries.MapInput{Viewer: ViewerFromRequest(r), Map: dashboard.MapID(id)})
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handlers) respondWorkspace(w http.ResponseWriter, ctx context.Context, viewer dashboard.ViewerContext) {
	view, err := h.API.Workspace(ctx, viewer)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

// StatusFor maps dashboard errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, dashboard.ErrUnknownSource),
		errors.Is(err, dashboard.ErrUnknownMap),
		errors.Is(err, queries.ErrUnknownExport):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrUnknownPlanVersion),
		errors.Is(err, dashboard.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNothingToExport):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrSourceLoadFailed):
		return http.StatusBadGateway
	case errors.Is(err, errNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ParseAcceptLanguage returns the first language tag of an Accept-Language
// header, lowercased.
func ParseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}
