package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cabao-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PlayerStore keeps the logged-in player per device key in Redis so sessions
// survive process restarts. Entries expire after the configured TTL.
type PlayerStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlayerStore(client *redis.Client, ttl time.Duration) *PlayerStore {
	return &PlayerStore{client: client, ttl: ttl}
}

func (s *PlayerStore) Save(ctx context.Context, deviceKey string, p domain.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal player: %w", err)
	}
	return s.client.Set(ctx, s.key(deviceKey), data, s.ttl).Err()
}

func (s *PlayerStore) Find(ctx context.Context, deviceKey string) (domain.Player, error) {
	data, err := s.client.Get(ctx, s.key(deviceKey)).Bytes()
	if err == redis.Nil {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("load player: %w", err)
	}
	var p domain.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Player{}, fmt.Errorf("unmarshal player: %w", err)
	}
	return p, nil
}

func (s *PlayerStore) Delete(ctx context.Context, deviceKey string) error {
	return s.client.Del(ctx, s.key(deviceKey)).Err()
}

func (s *PlayerStore) key(deviceKey string) string {
	return "player:session:" + deviceKey
}
