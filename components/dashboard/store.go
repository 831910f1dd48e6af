package dashboard

import (
	"sort"
	"sync"
	"time"
)

// Store holds the parsed payload of every source. Only the Loader writes to
// it; everything else reads.
type Store struct {
	mu      sync.RWMutex
	entries map[SourceID]*storeEntry
}

type storeEntry struct {
	state      SourceState
	payload    any
	raw        []byte
	err        error
	loadedAt   time.Time
	generation uint64
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[SourceID]*storeEntry)}
}

// State reports the lifecycle state of a source.
func (s *Store) State(id SourceID) SourceState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.entries[id]; ok {
		return entry.state
	}
	return SourceUnloaded
}

// Loaded reports whether every listed source is loaded.
func (s *Store) Loaded(ids ...SourceID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range ids {
		entry, ok := s.entries[id]
		if !ok || entry.state != SourceLoaded {
			return false
		}
	}
	return true
}

// Payload returns the parsed document when the source is loaded.
func (s *Store) Payload(id SourceID) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok || entry.state != SourceLoaded {
		return nil, false
	}
	return entry.payload, true
}

// Raw returns the fetched bytes of a loaded source.
func (s *Store) Raw(id SourceID) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok || entry.state != SourceLoaded {
		return nil, false
	}
	return entry.raw, true
}

// Status returns the status of a single source.
func (s *Store) Status(id SourceID) SourceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked(id)
}

// Snapshot returns the status of every source the store has seen, sorted by id.
func (s *Store) Snapshot() []SourceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SourceStatus, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, s.statusLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) statusLocked(id SourceID) SourceStatus {
	status := SourceStatus{ID: id}
	entry, ok := s.entries[id]
	if !ok {
		return status
	}
	status.State = entry.state
	status.LoadedAt = entry.loadedAt
	status.Generation = entry.generation
	if entry.err != nil {
		status.Error = entry.err.Error()
	}
	return status
}

// put replaces a source wholesale.
func (s *Store) put(id SourceID, payload any, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entry(id)
	entry.state = SourceLoaded
	entry.payload = payload
	entry.raw = raw
	entry.err = nil
	entry.loadedAt = time.Now()
	entry.generation++
}

// fail marks a source failed; the entry never keeps a partial payload.
func (s *Store) fail(id SourceID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entry(id)
	entry.state = SourceFailed
	entry.payload = nil
	entry.raw = nil
	entry.err = err
}

func (s *Store) entry(id SourceID) *storeEntry {
	entry, ok := s.entries[id]
	if !ok {
		entry = &storeEntry{}
		s.entries[id] = entry
	}
	return entry
}

// Lookup returns a typed payload for a loaded source.
func Lookup[T any](s *Store, id SourceID) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	payload, ok := s.Payload(id)
	if !ok {
		return zero, false
	}
	typed, ok := payload.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
