// Package ratelimit provides the per-identity submission limiter backing the
// comment pipeline.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy describes a fixed window: at most Limit actions per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Decision is the limiter's answer for one request. ResetAt tells the client
// when the current window ends.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether an identity may perform another action now.
type Limiter interface {
	Allow(ctx context.Context, identity string, policy Policy) (Decision, error)
}

// RedisLimiter implements a fixed-window counter in Redis. The counter key
// expires with the window, so no cleanup job is needed.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter creates a Redis-backed limiter from a connection URL
func NewRedisLimiter(redisURL string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisLimiter{client: client, prefix: "ratelimit:"}, nil
}

// NewRedisLimiterWithClient creates a limiter from an existing Redis client
func NewRedisLimiterWithClient(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "ratelimit:"}
}

func (l *RedisLimiter) key(identity string) string {
	return l.prefix + identity
}

// Allow counts this request against the identity's current window and reports
// whether it fits inside the policy. The first request of a window sets the
// key's expiry; later requests inherit it.
func (l *RedisLimiter) Allow(ctx context.Context, identity string, policy Policy) (Decision, error) {
	key := l.key(identity)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, policy.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("set rate limit window: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("read rate limit window: %w", err)
	}
	if ttl < 0 {
		// Key exists without an expiry (e.g. Expire failed on a prior
		// request); reset it so the window cannot stick forever.
		ttl = policy.Window
		if err := l.client.Expire(ctx, key, policy.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("set rate limit window: %w", err)
		}
	}

	resetAt := time.Now().Add(ttl)
	remaining := policy.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   int(count) <= policy.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Close closes the Redis connection
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

// Ping checks if Redis is reachable
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
