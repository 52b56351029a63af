package memory

import (
	"sync"

	"cabao-quiz-service/internal/app"
)

// MatchStore is an in-memory implementation of app.MatchStore, one active
// match per nickname.
type MatchStore struct {
	mu      sync.RWMutex
	matches map[string]*app.Match
}

func NewMatchStore() *MatchStore {
	return &MatchStore{matches: make(map[string]*app.Match)}
}

func (s *MatchStore) Put(nickname string, m *app.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[nickname] = m
}

func (s *MatchStore) Get(nickname string) (*app.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[nickname]
	return m, ok
}

func (s *MatchStore) Delete(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, nickname)
}
