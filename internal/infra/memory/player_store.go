package memory

import (
	"context"
	"sync"

	"cabao-quiz-service/internal/domain"
)

// PlayerStore keeps logged-in players per device key in memory.
type PlayerStore struct {
	mu      sync.RWMutex
	players map[string]domain.Player
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{players: make(map[string]domain.Player)}
}

func (s *PlayerStore) Save(_ context.Context, deviceKey string, p domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[deviceKey] = p
	return nil
}

func (s *PlayerStore) Find(_ context.Context, deviceKey string) (domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[deviceKey]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return p, nil
}

func (s *PlayerStore) Delete(_ context.Context, deviceKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, deviceKey)
	return nil
}
