package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultClientTTL is how long an idle client entry is kept
const DefaultClientTTL = 10 * time.Minute

type clientEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// MemoryLimiter is a per-key token bucket held in process memory
type MemoryLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientEntry
	limit     rate.Limit
	perMinute int
	burst     int
	clientTTL time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter creates a limiter refilling requestsPerMinute tokens per
// minute with the given burst size
func NewMemoryLimiter(requestsPerMinute, burst int) *MemoryLimiter {
	if burst <= 0 {
		burst = 1
	}

	return &MemoryLimiter{
		clients:   make(map[string]*clientEntry),
		limit:     rate.Limit(float64(requestsPerMinute) / 60),
		perMinute: requestsPerMinute,
		burst:     burst,
		clientTTL: DefaultClientTTL,
		now:       time.Now,
	}
}

// Allow consumes one token from the bucket of key
func (m *MemoryLimiter) Allow(_ context.Context, key string) (*Result, error) {
	now := m.now()

	m.mu.Lock()
	m.sweep(now)
	entry, exists := m.clients[key]
	if !exists {
		entry = &clientEntry{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.clients[key] = entry
	}
	entry.lastAccess = now
	limiter := entry.limiter
	m.mu.Unlock()

	result := &Result{Limit: m.perMinute}

	if limiter.AllowN(now, 1) {
		result.Allowed = true
		result.Remaining = int(math.Max(0, math.Floor(limiter.TokensAt(now))))
		return result, nil
	}

	result.RetryAfter = m.retryAfter()
	return result, nil
}

// Close drops all client state
func (m *MemoryLimiter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clients = make(map[string]*clientEntry)
	return nil
}

// sweep removes idle entries at most once per TTL; caller holds mu
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.clientTTL {
		return
	}
	m.lastSweep = now

	for key, entry := range m.clients {
		if now.Sub(entry.lastAccess) > m.clientTTL {
			delete(m.clients, key)
		}
	}
}

func (m *MemoryLimiter) retryAfter() time.Duration {
	if m.limit <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / float64(m.limit))
}
