package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
)

// RateLimiter counts requests per key in fixed windows. With a cache the
// counters are shared between instances; without one they are process-local.
type RateLimiter struct {
	cache  providers.CacheProvider
	limit  int
	window time.Duration
	local  *localRateLimiter
}

// NewRateLimiter creates a rate limiter. cache may be nil. A non-positive
// limit disables limiting.
func NewRateLimiter(cache providers.CacheProvider, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		cache:  cache,
		limit:  limit,
		window: window,
		local:  newLocalRateLimiter(),
	}
}

// Allow records one request for key and reports whether it is within the
// limit, plus how long the caller should wait when it is not.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l == nil || l.limit <= 0 {
		return true, 0
	}
	if l.cache == nil {
		return l.local.allow(key, l.limit, l.window)
	}

	n, err := l.cache.Incr(ctx, key, l.window)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Rate limit counter unavailable, using local limiter")
		return l.local.allow(key, l.limit, l.window)
	}
	if n > int64(l.limit) {
		return false, l.window
	}
	return true, 0
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, 0
}
