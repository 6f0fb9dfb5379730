package http

import (
	"sync"

	"github.com/google/uuid"
)

// SessionIDHeader identifies the presentation-layer session owning the
// view state.
const SessionIDHeader = "X-Session-ID"

// ViewState is the per-session presentation state. ShowFilters is the
// sidebar toggle; it belongs to the session, never to a process-wide
// singleton, so two browser tabs cannot fight over it.
type ViewState struct {
	ShowFilters bool `json:"show_filters"`
}

// SessionStore keeps view state per session ID in memory. Sessions are
// cheap and unauthenticated; losing them on restart only resets toggles.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]ViewState
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]ViewState)}
}

// Get returns the view state for id, creating a default one (and a fresh
// id when the caller supplied none).
func (s *SessionStore) Get(id string) (string, ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	state, ok := s.sessions[id]
	if !ok {
		s.sessions[id] = state
	}
	return id, state
}

// Put replaces the view state for id.
func (s *SessionStore) Put(id string, state ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = state
}
