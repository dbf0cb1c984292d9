package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter enforces a per-caller daily character budget on mutating
// endpoints. It is optional; services run without it when no Redis address
// is configured.
type RedisLimiter struct {
	client *redis.Client
	budget int // max characters per caller per day
}

func NewRedisLimiter(client *redis.Client, budget int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		budget: budget,
	}
}

func (r *RedisLimiter) key(caller string) string {
	return "usage:" + caller + ":" + time.Now().UTC().Format("20060102")
}

// Allow reports whether the caller still has budget for chars more characters.
func (r *RedisLimiter) Allow(ctx context.Context, caller string, chars int) (bool, error) {
	val, err := r.client.Get(ctx, r.key(caller)).Result()
	if err == redis.Nil {
		return chars <= r.budget, nil // No usage yet
	}
	if err != nil {
		return false, err
	}
	used, _ := strconv.Atoi(val)
	return used+chars <= r.budget, nil
}

// Record adds chars to today's usage. The key expires after two days so
// stale counters clean themselves up.
func (r *RedisLimiter) Record(ctx context.Context, caller string, chars int) error {
	key := r.key(caller)
	if err := r.client.IncrBy(ctx, key, int64(chars)).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, 48*time.Hour).Err()
}
