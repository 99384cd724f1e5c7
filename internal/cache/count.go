// Package cache provides the best-effort favorites count cache. A cache miss
// or any Redis failure falls back to the database, so callers never see cache
// errors.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shilpkaar/marketplace-api/internal/config"
)

// CountCache stores per-user favorite counts.
type CountCache interface {
	GetCount(ctx context.Context, userID string) (int64, bool)
	SetCount(ctx context.Context, userID string, n int64)
	Invalidate(ctx context.Context, userID string)
}

// Nop is a CountCache that never hits. Used when REDIS_ADDR is empty or Redis
// is unreachable at startup.
type Nop struct{}

func (Nop) GetCount(context.Context, string) (int64, bool) { return 0, false }
func (Nop) SetCount(context.Context, string, int64)        {}
func (Nop) Invalidate(context.Context, string)             {}

// Redis is a CountCache backed by go-redis.
type Redis struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

var (
	_ CountCache = Nop{}
	_ CountCache = (*Redis)(nil)
)

// NewRedis wraps an existing client. A nil client yields a cache that always
// misses.
func NewRedis(rdb redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, prefix: "favorites:count:"}
}

// Connect dials Redis per cfg and pings it. It returns (nil, nil, nil) when
// cfg.Addr is empty.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Redis, func() error, error) {
	if cfg.Addr == "" {
		return nil, nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedis(rdb, cfg.CountTTL), rdb.Close, nil
}

// Key returns the Redis key holding userID's count.
func (r *Redis) Key(userID string) string { return r.prefix + userID }

func (r *Redis) GetCount(ctx context.Context, userID string) (int64, bool) {
	if r == nil || r.rdb == nil {
		return 0, false
	}
	s, err := r.rdb.Get(ctx, r.Key(userID)).Result()
	if err != nil {
		// redis.Nil (miss) and transport errors look the same to callers.
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (r *Redis) SetCount(ctx context.Context, userID string, n int64) {
	if r == nil || r.rdb == nil {
		return
	}
	_ = r.rdb.Set(ctx, r.Key(userID), n, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context, userID string) {
	if r == nil || r.rdb == nil {
		return
	}
	_ = r.rdb.Del(ctx, r.Key(userID)).Err()
}
