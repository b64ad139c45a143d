package session

import (
	"sync"

	"livemark/internal/document"
)

// Registry maps document identity to its sync session.
//
// Sessions are created when a document's rendered view opens and removed
// (with full teardown) when it closes; there are no ambient singletons, so
// multiple documents coexist without sharing timers or suppression state.
type Registry struct {
	mu       sync.Mutex
	sessions map[document.ID]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[document.ID]*Session)}
}

// Open registers a session for a document, replacing (and closing) any
// existing one for the same identity.
func (r *Registry) Open(id document.ID, s *Session) {
	r.mu.Lock()
	prev := r.sessions[id]
	r.sessions[id] = s
	r.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// Get returns the session for a document.
func (r *Registry) Get(id document.ID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close tears down and removes the session for a document.
func (r *Registry) Close(id document.ID) {
	r.mu.Lock()
	s := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// CloseAll tears down every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[document.ID]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
