package viewer

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the single process-wide mutable UI state: the sidebar
// filter and the active in-page find term. It is mutated in place by
// handlers and never persisted.
type Session struct {
	ID string

	mu            sync.Mutex
	sidebarFilter string
	findTerm      string
}

// NewSession creates a fresh session with a unique id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// SidebarFilter returns the current sidebar filter text.
func (s *Session) SidebarFilter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarFilter
}

// SetSidebarFilter updates the sidebar filter text.
func (s *Session) SetSidebarFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarFilter = filter
}

// FindTerm returns the active in-page search term, re-applied after
// every navigation while set.
func (s *Session) FindTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findTerm
}

// SetFindTerm updates the active in-page search term. Empty clears it.
func (s *Session) SetFindTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findTerm = term
}
