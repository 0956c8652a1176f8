package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript counts requests in the current window.
// Returns: allowed (0 or 1), remaining count, reset time in ms
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window_ms = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local window_start = math.floor(now / window_ms) * window_ms
	local window_key = key .. ':' .. window_start

	local count = tonumber(redis.call('GET', window_key) or '0')

	local allowed = 0
	if count + 1 <= limit then
		count = redis.call('INCR', window_key)
		if count == 1 then
			redis.call('PEXPIRE', window_key, window_ms)
		end
		allowed = 1
	end

	local reset_ms = window_start + window_ms - now

	return {allowed, limit - count, reset_ms}
`)

// RedisLimiter is a fixed window limiter shared by every instance using the
// same Redis server and prefix
type RedisLimiter struct {
	client   redis.UniversalClient
	prefix   string
	requests int
	window   time.Duration
	now      func() time.Time
}

// NewRedisLimiter creates a limiter allowing requests per window for each key
func NewRedisLimiter(client redis.UniversalClient, prefix string, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		requests: requests,
		window:   window,
		now:      time.Now,
	}
}

// Allow consumes one request in the current window of key
func (r *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	result, err := fixedWindowScript.Run(ctx, r.client,
		[]string{r.prefix + key},
		r.requests,
		r.window.Milliseconds(),
		r.now().UnixMilli(),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("fixed window script error: %w", err)
	}

	return r.parseScriptResult(result)
}

// Close closes the Redis client
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}

// parseScriptResult parses [allowed, remaining, reset_ms]
func (r *RedisLimiter) parseScriptResult(result any) (*Result, error) {
	values, ok := result.([]any)
	if !ok || len(values) < 3 {
		return nil, fmt.Errorf("unexpected script result format: %v", result)
	}

	allowed := false
	if v, ok := values[0].(int64); ok && v == 1 {
		allowed = true
	}

	remaining := 0
	if v, ok := values[1].(int64); ok && v > 0 {
		remaining = int(v)
	}

	var retryAfter time.Duration
	if v, ok := values[2].(int64); ok && !allowed {
		retryAfter = time.Duration(v) * time.Millisecond
	}

	return &Result{
		Allowed:    allowed,
		Limit:      r.requests,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}, nil
}
