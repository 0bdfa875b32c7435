package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisWindow is an Admission backed by one sorted set per client, scored by
// request time in milliseconds.
type RedisWindow struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisWindow returns a shared limiter with the same semantics as
// SlidingWindow.
func NewRedisWindow(client redis.Cmdable, limit int, window time.Duration) *RedisWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisWindow{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

// Allow implements Admission. The request is recorded optimistically and
// withdrawn again when it pushed the set over the limit.
func (r *RedisWindow) Allow(ctx context.Context, clientKey string) (bool, error) {
	key := r.prefix + clientKey
	now := r.now().UnixMilli()
	cutoff := now - r.window.Milliseconds()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(cutoff, 10))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: member})
	card := pipe.ZCard(ctx, key)
	pipe.PExpire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if card.Val() > int64(r.limit) {
		if err := r.client.ZRem(ctx, key, member).Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
