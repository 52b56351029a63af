package redis

import (
	"context"
	"testing"
	"time"

	"cabao-quiz-service/internal/domain"
	"cabao-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingBank struct {
	*memory.QuestionRepository
	calls int
}

func (b *countingBank) All(ctx context.Context) ([]domain.Question, error) {
	b.calls++
	return b.QuestionRepository.All(ctx)
}

func bankQuestion(id string) domain.Question {
	return domain.Question{
		ID:            id,
		Text:          "Qual o fuzil padrão utilizado pelo CFN atualmente?",
		Options:       [4]string{"FAL 7.62", "M16A2", "IA2 5.56", "G36"},
		CorrectAnswer: 2,
		Difficulty:    domain.DifficultyRecruta,
		Category:      "Armamento",
	}
}

func newTestCache(t *testing.T) (*QuestionCache, *countingBank) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &countingBank{QuestionRepository: memory.NewQuestionRepository([]domain.Question{bankQuestion("q1")})}
	return NewQuestionCache(client, source, time.Minute), source
}

func TestQuestionCacheHitsRedis(t *testing.T) {
	ctx := context.Background()
	cache, source := newTestCache(t)

	if _, err := cache.All(ctx); err != nil {
		t.Fatalf("all: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected source called once, got %d", source.calls)
	}

	// Second call should hit the cached bank.
	questions, err := cache.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls=%d", source.calls)
	}
	if len(questions) != 1 || questions[0].ID != "q1" {
		t.Fatalf("unexpected cached bank %+v", questions)
	}
}

func TestAdminEditsInvalidateCache(t *testing.T) {
	ctx := context.Background()
	cache, source := newTestCache(t)

	if _, err := cache.All(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if err := cache.Append(ctx, bankQuestion("q2")); err != nil {
		t.Fatalf("append: %v", err)
	}

	questions, err := cache.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("append should invalidate, source calls=%d", source.calls)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions after append, got %d", len(questions))
	}

	if err := cache.DeleteByID(ctx, "q2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	questions, _ = cache.All(ctx)
	if len(questions) != 1 {
		t.Fatalf("expected 1 question after delete, got %d", len(questions))
	}
}
