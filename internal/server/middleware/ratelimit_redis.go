package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed-window Limiter shared by all service instances.
// Redis errors fail open: the request is allowed and the error logged.
type RedisRateLimiter struct {
	client  redis.Cmdable
	logger  *slog.Logger
	prefix  string
	limit   int
	window  time.Duration
	timeout time.Duration
}

// NewRedisRateLimiter создает limiter поверх уже подключенного клиента
func NewRedisRateLimiter(client redis.Cmdable, limit int, window time.Duration, logger *slog.Logger) *RedisRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisRateLimiter{
		client:  client,
		logger:  logger,
		prefix:  "usermgmt:ratelimit:",
		limit:   limit,
		window:  window,
		timeout: 250 * time.Millisecond,
	}
}

// Allow increments the counter for key in the current window
func (rl *RedisRateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.logRedisError("incr", err)
		return true
	}
	// Первый запрос в окне задает TTL
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			rl.logRedisError("expire", err)
		}
	}

	return counter <= int64(rl.limit)
}

func (rl *RedisRateLimiter) logRedisError(op string, err error) {
	if rl.logger == nil {
		return
	}
	rl.logger.Error("redis rate limiter error", "op", op, "error", err)
}
