package memory

import (
	"context"
	"sync"

	"cabao-quiz-service/internal/domain"
)

// LeaderboardRepository is an in-memory implementation of
// app.LeaderboardRepository (useful for tests/demos). The merge runs under a
// single lock, so it is atomic the same way the storage-backed variants are.
type LeaderboardRepository struct {
	mu      sync.RWMutex
	entries map[string]domain.RankingEntry
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{entries: make(map[string]domain.RankingEntry)}
}

// Upsert merges the entry (max score, latest rank) and truncates the board to
// the top entries. Applying the same entry twice is a no-op.
func (r *LeaderboardRepository) Upsert(_ context.Context, entry domain.RankingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[entry.Nickname]; ok && existing.Score > entry.Score {
		entry.Score = existing.Score
	}
	r.entries[entry.Nickname] = entry

	if len(r.entries) > domain.RankingSize {
		ordered := r.snapshotLocked()
		for _, cut := range ordered[domain.RankingSize:] {
			delete(r.entries, cut.Nickname)
		}
	}
	return nil
}

func (r *LeaderboardRepository) FetchTop(_ context.Context, n int) ([]domain.RankingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := r.snapshotLocked()
	if n < len(ordered) {
		ordered = ordered[:n]
	}
	return ordered, nil
}

func (r *LeaderboardRepository) FindByNickname(_ context.Context, nickname string) (domain.RankingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[nickname]
	if !ok {
		return domain.RankingEntry{}, domain.ErrEntryNotFound
	}
	return entry, nil
}

func (r *LeaderboardRepository) snapshotLocked() []domain.RankingEntry {
	ordered := make([]domain.RankingEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		ordered = append(ordered, entry)
	}
	domain.SortRanking(ordered)
	return ordered
}
