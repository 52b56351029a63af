package memory

import (
	"context"
	"fmt"
	"testing"

	"cabao-quiz-service/internal/domain"
)

func TestUpsertMergesMaxScoreLatestRank(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepository()

	if err := repo.Upsert(ctx, domain.RankingEntry{Nickname: "ALFA", Score: 500, Rank: domain.RankFerro}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(ctx, domain.RankingEntry{Nickname: "ALFA", Score: 300, Rank: domain.RankBronze}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entry, err := repo.FindByNickname(ctx, "ALFA")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if entry.Score != 500 {
		t.Fatalf("lower score must not regress the best, got %d", entry.Score)
	}
	if entry.Rank != domain.RankBronze {
		t.Fatalf("latest rank must win, got %s", entry.Rank)
	}
}

func TestUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepository()
	entry := domain.RankingEntry{Nickname: "BRAVO", Score: 700, Rank: domain.RankPrata}

	_ = repo.Upsert(ctx, entry)
	_ = repo.Upsert(ctx, entry)

	stored, err := repo.FindByNickname(ctx, "BRAVO")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored != entry {
		t.Fatalf("expected %+v, got %+v", entry, stored)
	}
	top, _ := repo.FetchTop(ctx, domain.RankingSize)
	if len(top) != 1 {
		t.Fatalf("expected a single row, got %d", len(top))
	}
}

func TestUpsertCommutativeUnderScore(t *testing.T) {
	ctx := context.Background()
	a := NewLeaderboardRepository()
	b := NewLeaderboardRepository()

	_ = a.Upsert(ctx, domain.RankingEntry{Nickname: "N", Score: 5, Rank: domain.RankFerro})
	_ = a.Upsert(ctx, domain.RankingEntry{Nickname: "N", Score: 3, Rank: domain.RankFerro})
	_ = b.Upsert(ctx, domain.RankingEntry{Nickname: "N", Score: 3, Rank: domain.RankFerro})
	_ = b.Upsert(ctx, domain.RankingEntry{Nickname: "N", Score: 5, Rank: domain.RankFerro})

	ea, _ := a.FindByNickname(ctx, "N")
	eb, _ := b.FindByNickname(ctx, "N")
	if ea.Score != 5 || eb.Score != 5 {
		t.Fatalf("expected score 5 regardless of order, got %d/%d", ea.Score, eb.Score)
	}
}

func TestBoardCappedAtTen(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepository()

	for i := 0; i < 15; i++ {
		entry := domain.RankingEntry{
			Nickname: fmt.Sprintf("P%02d", i),
			Score:    100 * (i + 1),
			Rank:     domain.RankFerro,
		}
		if err := repo.Upsert(ctx, entry); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	top, err := repo.FetchTop(ctx, domain.RankingSize)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(top) != domain.RankingSize {
		t.Fatalf("expected exactly %d entries, got %d", domain.RankingSize, len(top))
	}
	if top[0].Score != 1500 {
		t.Fatalf("expected highest score first, got %d", top[0].Score)
	}
	// The weakest five were evicted entirely.
	if _, err := repo.FindByNickname(ctx, "P00"); err != domain.ErrEntryNotFound {
		t.Fatalf("expected evicted entry gone, got %v", err)
	}
}

func TestRankOutranksScore(t *testing.T) {
	ctx := context.Background()
	repo := NewLeaderboardRepository()

	_ = repo.Upsert(ctx, domain.RankingEntry{Nickname: "RICO", Score: 1600, Rank: domain.RankFerro})
	_ = repo.Upsert(ctx, domain.RankingEntry{Nickname: "GRADUADO", Score: 100, Rank: domain.RankOuro})

	top, _ := repo.FetchTop(ctx, domain.RankingSize)
	if top[0].Nickname != "GRADUADO" {
		t.Fatalf("higher rank tier must lead, got %s", top[0].Nickname)
	}
}
