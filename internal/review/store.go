package review

import (
	"sync"

	"github.com/zjrosen/diffscope/internal/log"
)

// Store hands out one Tracker per session identifier, so every panel
// viewing the same session shares viewed state through the same
// instance.
type Store struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{trackers: make(map[string]*Tracker)}
}

// Get returns the tracker for sessionID, creating it on first use.
func (s *Store) Get(sessionID string) *Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[sessionID]
	if !ok {
		t = NewTracker()
		s.trackers[sessionID] = t
		log.Debug(log.CatReview, "created review tracker", "session", sessionID)
	}
	return t
}

// Dispose drops the tracker for sessionID. Called when the owning
// session closes.
func (s *Store) Dispose(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trackers, sessionID)
}

// Sessions lists the session identifiers with live trackers.
func (s *Store) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.trackers))
	for id := range s.trackers {
		out = append(out, id)
	}
	return out
}
