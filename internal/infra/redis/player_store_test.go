package redis

import (
	"context"
	"testing"
	"time"

	"cabao-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPlayerStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewPlayerStore(client, time.Minute)

	player := domain.Player{Nickname: "RECRUTA", Score: 400, Rank: domain.RankBronze}
	if err := store.Save(ctx, "device-1", player); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("player:session:device-1") {
		t.Fatalf("expected redis key to be set")
	}

	found, err := store.Find(ctx, "device-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Nickname != player.Nickname || found.Score != player.Score || found.Rank != player.Rank {
		t.Fatalf("expected %+v, got %+v", player, found)
	}

	if err := store.Delete(ctx, "device-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Find(ctx, "device-1"); err != domain.ErrPlayerNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPlayerStoreSessionExpires(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewPlayerStore(client, time.Second)

	if err := store.Save(ctx, "device-1", domain.Player{Nickname: "RECRUTA"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Second)

	if _, err := store.Find(ctx, "device-1"); err != domain.ErrPlayerNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}
