// Package ratelimit limits request rates per client key, in process or
// across instances through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/adamscao/userapi/internal/config"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	// Allow consumes one request for key.
	Allow(ctx context.Context, key string) (*Result, error)

	// Close releases resources held by the limiter.
	Close() error
}

// Result is the outcome of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// New creates the limiter selected by the configuration
func New(cfg config.RateLimitConfig, logger *zap.Logger) (Limiter, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryLimiter(cfg.RequestsPerMinute, cfg.Burst), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info("using redis rate limiter", zap.String("addr", cfg.Redis.Addr))
		return NewRedisLimiter(client, cfg.Redis.Prefix, cfg.RequestsPerMinute, time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend: %s", cfg.Backend)
	}
}
