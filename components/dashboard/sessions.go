package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultSessionID is used when a viewer does not carry a session id.
const DefaultSessionID = "default"

// WorkspaceStore keeps the workspaces of live viewers.
type WorkspaceStore interface {
	Get(id string) (*Workspace, bool)
	Put(ws *Workspace) error
	Delete(id string) (*Workspace, bool)
	All() []*Workspace
}

// InMemoryWorkspaceStore provides a concurrency-safe default store.
type InMemoryWorkspaceStore struct {
	mu   sync.RWMutex
	data map[string]*Workspace
}

// NewInMemoryWorkspaceStore creates an empty workspace store.
func NewInMemoryWorkspaceStore() *InMemoryWorkspaceStore {
	return &InMemoryWorkspaceStore{
		data: make(map[string]*Workspace),
	}
}

// Get returns the workspace of a session.
func (s *InMemoryWorkspaceStore) Get(id string) (*Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.data[s.key(id)]
	return ws, ok
}

// Put stores a workspace under its session id.
func (s *InMemoryWorkspaceStore) Put(ws *Workspace) error {
	if ws == nil {
		return fmt.Errorf("workspace store requires a workspace")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key(ws.ID())] = ws
	return nil
}

// Delete removes and returns a workspace.
func (s *InMemoryWorkspaceStore) Delete(id string) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.key(id)
	ws, ok := s.data[key]
	delete(s.data, key)
	return ws, ok
}

// All lists workspaces ordered by session id.
func (s *InMemoryWorkspaceStore) All() []*Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Workspace, 0, len(s.data))
	for _, ws := range s.data {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *InMemoryWorkspaceStore) key(id string) string {
	if id == "" {
		return DefaultSessionID
	}
	return id
}
