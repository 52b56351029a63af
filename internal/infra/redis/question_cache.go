package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"cabao-quiz-service/internal/app"
	"cabao-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionCache caches the whole question bank in Redis as a JSON blob and
// falls back to the source repository on cache miss. Admin edits pass through
// to the source and invalidate the cached bank.
type QuestionCache struct {
	client *redis.Client
	source app.QuestionRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, source app.QuestionRepository, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) All(ctx context.Context) ([]domain.Question, error) {
	if cached := c.readCache(ctx); cached != nil {
		return cached, nil
	}

	result, err, _ := c.sf.Do(c.bankKey(), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached := c.readCache(ctx); cached != nil {
			return cached, nil
		}

		questions, err := c.source.All(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(questions); err == nil {
			_ = c.client.Set(ctx, c.bankKey(), data, c.ttlWithJitter()).Err()
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) Append(ctx context.Context, q domain.Question) error {
	if err := c.source.Append(ctx, q); err != nil {
		return err
	}
	return c.invalidate(ctx)
}

func (c *QuestionCache) DeleteByID(ctx context.Context, id string) error {
	if err := c.source.DeleteByID(ctx, id); err != nil {
		return err
	}
	return c.invalidate(ctx)
}

func (c *QuestionCache) readCache(ctx context.Context) []domain.Question {
	data, err := c.client.Get(ctx, c.bankKey()).Bytes()
	if err != nil {
		return nil
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil || len(questions) == 0 {
		return nil
	}
	return questions
}

func (c *QuestionCache) invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.bankKey()).Err()
}

func (c *QuestionCache) bankKey() string { return "questions:bank" }

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
