// Package session provides opaque-token session management. Sessions are
// process-local and intentionally lost on restart.
package session

import (
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// MemoryStore is an in-memory SessionStore guarded by a RWMutex. Sessions are
// held by value and copied on both read and write, so callers never share a
// struct with the store or with each other.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
	}
}

func (s *MemoryStore) Get(token string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	return &session, true
}

func (s *MemoryStore) Set(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = *session
}

func (s *MemoryStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len reports the current session count, expired entries included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ interfaces.SessionStore = (*MemoryStore)(nil)
