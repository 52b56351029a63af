package postgres

import (
	"context"
	"errors"
	"fmt"

	"cabao-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// LeaderboardRepository persists the board in Postgres. The merge is a single
// ON CONFLICT upsert with GREATEST on the score, so concurrent end-of-match
// writes to the same nickname can never regress a best score.
type LeaderboardRepository struct {
	pool *pgxpool.Pool
}

func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

func (r *LeaderboardRepository) Upsert(ctx context.Context, entry domain.RankingEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ranking (nickname, score, rank_idx)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (nickname) DO UPDATE SET
		   score = GREATEST(ranking.score, EXCLUDED.score),
		   rank_idx = EXCLUDED.rank_idx,
		   updated_at = now()`,
		entry.Nickname, entry.Score, domain.RankIndex(entry.Rank))
	if err != nil {
		return fmt.Errorf("ranking upsert: %w", err)
	}

	// Trim beyond the cap; losing this race just delays the trim to the next upsert.
	_, err = r.pool.Exec(ctx,
		`DELETE FROM ranking WHERE nickname IN (
		   SELECT nickname FROM ranking
		   ORDER BY rank_idx DESC, score DESC, nickname ASC
		   OFFSET $1
		 )`, domain.RankingSize)
	if err != nil {
		return fmt.Errorf("ranking trim: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) FetchTop(ctx context.Context, n int) ([]domain.RankingEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT nickname, score, rank_idx FROM ranking
		 ORDER BY rank_idx DESC, score DESC, nickname ASC
		 LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("ranking fetch: %w", err)
	}
	defer rows.Close()

	var entries []domain.RankingEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *LeaderboardRepository) FindByNickname(ctx context.Context, nickname string) (domain.RankingEntry, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT nickname, score, rank_idx FROM ranking WHERE nickname=$1`, nickname)
	entry, err := scanEntry(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RankingEntry{}, domain.ErrEntryNotFound
	}
	return entry, err
}

func scanEntry(scan func(...interface{}) error) (domain.RankingEntry, error) {
	var entry domain.RankingEntry
	var rankIdx int
	if err := scan(&entry.Nickname, &entry.Score, &rankIdx); err != nil {
		return domain.RankingEntry{}, err
	}
	if rankIdx >= 0 && rankIdx < len(domain.Ranks) {
		entry.Rank = domain.Ranks[rankIdx]
	} else {
		entry.Rank = domain.RankFerro
	}
	return entry, nil
}
