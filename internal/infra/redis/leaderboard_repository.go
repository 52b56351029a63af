package redis

import (
	"context"
	"fmt"
	"strconv"

	"cabao-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LeaderboardRepository persists the board in Redis:
//
//	HSET ranking:scores {nickname} {bestScore}
//	HSET ranking:ranks  {nickname} {rankIndex}
//	ZADD ranking:board  {rankIndex*100000 + bestScore} {nickname}
//
// The whole merge runs as one Lua script, so concurrent end-of-match writes
// to the same nickname are commutative: the max score always survives and the
// board never grows past the cap.
type LeaderboardRepository struct {
	client *redis.Client
}

// upsertScript applies max-score/latest-rank and trims the board in one step.
var upsertScript = redis.NewScript(`
local scores, ranks, board = KEYS[1], KEYS[2], KEYS[3]
local nick = ARGV[1]
local score = tonumber(ARGV[2])
local rankIdx = tonumber(ARGV[3])
local cap = tonumber(ARGV[4])

local cur = tonumber(redis.call('HGET', scores, nick))
if cur and cur > score then
  score = cur
end
redis.call('HSET', scores, nick, score)
redis.call('HSET', ranks, nick, rankIdx)
redis.call('ZADD', board, rankIdx * 100000 + score, nick)

local excess = redis.call('ZCARD', board) - cap
if excess > 0 then
  local cut = redis.call('ZRANGE', board, 0, excess - 1)
  for _, n in ipairs(cut) do
    redis.call('ZREM', board, n)
    redis.call('HDEL', scores, n)
    redis.call('HDEL', ranks, n)
  end
end
return score
`)

func NewLeaderboardRepository(client *redis.Client) *LeaderboardRepository {
	return &LeaderboardRepository{client: client}
}

func (r *LeaderboardRepository) Upsert(ctx context.Context, entry domain.RankingEntry) error {
	keys := []string{r.scoresKey(), r.ranksKey(), r.boardKey()}
	args := []interface{}{entry.Nickname, entry.Score, domain.RankIndex(entry.Rank), domain.RankingSize}
	if err := upsertScript.Run(ctx, r.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("ranking upsert: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) FetchTop(ctx context.Context, n int) ([]domain.RankingEntry, error) {
	nicknames, err := r.client.ZRevRange(ctx, r.boardKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("ranking fetch: %w", err)
	}

	entries := make([]domain.RankingEntry, 0, len(nicknames))
	for _, nick := range nicknames {
		entry, err := r.FindByNickname(ctx, nick)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	// The zset breaks ties by member name descending; re-sort for the
	// canonical nickname-ascending tie-break.
	domain.SortRanking(entries)
	return entries, nil
}

func (r *LeaderboardRepository) FindByNickname(ctx context.Context, nickname string) (domain.RankingEntry, error) {
	rawScore, err := r.client.HGet(ctx, r.scoresKey(), nickname).Result()
	if err == redis.Nil {
		return domain.RankingEntry{}, domain.ErrEntryNotFound
	}
	if err != nil {
		return domain.RankingEntry{}, fmt.Errorf("ranking lookup: %w", err)
	}

	score, _ := strconv.Atoi(rawScore)
	rank := domain.RankFerro
	if rawRank, err := r.client.HGet(ctx, r.ranksKey(), nickname).Result(); err == nil {
		if idx, convErr := strconv.Atoi(rawRank); convErr == nil && idx >= 0 && idx < len(domain.Ranks) {
			rank = domain.Ranks[idx]
		}
	}
	return domain.RankingEntry{Nickname: nickname, Score: score, Rank: rank}, nil
}

func (r *LeaderboardRepository) scoresKey() string { return "ranking:scores" }
func (r *LeaderboardRepository) ranksKey() string  { return "ranking:ranks" }
func (r *LeaderboardRepository) boardKey() string  { return "ranking:board" }
