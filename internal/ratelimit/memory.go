package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Memory is a per-key token bucket for single-instance deployments. A bucket
// holds limit tokens and refills at limit per window.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	every   rate.Limit
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Memory{
		limit:   limit,
		window:  window,
		every:   rate.Every(window / time.Duration(limit)),
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	if key == "" {
		key = "unknown"
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(m.every, m.limit)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	m.cleanupLocked(now)

	if b.lim.AllowN(now, 1) {
		return Result{Allowed: true, Remaining: int(b.lim.TokensAt(now))}, nil
	}

	r := b.lim.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return Result{Allowed: false, RetryAfter: wait}, nil
}

// cleanupLocked drops buckets idle for two windows; they would be full anyway.
func (m *Memory) cleanupLocked(now time.Time) {
	cutoff := now.Add(-2 * m.window)
	for key, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}
