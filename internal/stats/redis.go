package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxFieldScript raises a hash field to ARGV[1] if it is larger.
const maxFieldScript = `
	local cur = tonumber(redis.call("HGET", KEYS[1], ARGV[2]) or "0")
	local val = tonumber(ARGV[1])
	if val > cur then
		redis.call("HSET", KEYS[1], ARGV[2], val)
	end
	return 0
`

// RedisStore keeps stats records as Redis hashes, one per user.
type RedisStore struct {
	redis  redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed stats store.
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "stats"
	}
	return &RedisStore{redis: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) Upsert(ctx context.Context, c Completion) error {
	key := s.key(c.UserID)

	pipe := s.redis.TxPipeline()
	pipe.HIncrBy(ctx, key, "games_played", 1)
	pipe.HIncrBy(ctx, key, "total_score", int64(c.Score))
	pipe.HIncrBy(ctx, key, "total_correct", int64(c.Correct))
	pipe.HIncrBy(ctx, key, "total_wrong", int64(c.Wrong))
	pipe.Eval(ctx, maxFieldScript, []string{key}, c.BestStreak, "best_streak")
	pipe.HSet(ctx, key, "updated_at", s.now().UTC().Unix())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert stats %s: %w", c.UserID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID uuid.UUID) (Record, error) {
	data, err := s.redis.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return Record{}, fmt.Errorf("read stats %s: %w", userID, err)
	}
	if len(data) == 0 {
		return Record{}, ErrNotFound
	}

	rec := Record{
		UserID:       userID,
		GamesPlayed:  parseInt(data["games_played"]),
		TotalScore:   parseInt(data["total_score"]),
		TotalCorrect: parseInt(data["total_correct"]),
		TotalWrong:   parseInt(data["total_wrong"]),
		BestStreak:   parseInt(data["best_streak"]),
	}
	if ts := parseInt(data["updated_at"]); ts > 0 {
		rec.UpdatedAt = time.Unix(int64(ts), 0).UTC()
	}
	return rec, nil
}

func (s *RedisStore) key(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user:%s", s.prefix, userID.String())
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
