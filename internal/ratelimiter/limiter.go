package ratelimiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientLimiters holds one token bucket limiter per client key (usually the
// client IP). Burst equals the rate so a client cannot save up capacity
// beyond the configured per-second maximum.
type ClientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a ClientLimiters allowing ratePerSec requests per second per key.
// A ratePerSec <= 0 means unlimited. Limiters idle for longer than idleTTL are
// dropped on the next sweep.
func New(ratePerSec int, idleTTL time.Duration) *ClientLimiters {
	limit, burst := rate.Limit(ratePerSec), ratePerSec
	if ratePerSec <= 0 {
		limit, burst = rate.Inf, 0
	}
	return &ClientLimiters{
		limiters: make(map[string]*entry),
		rate:     limit,
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Allow reports whether the client identified by key may proceed now.
func (cl *ClientLimiters) Allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	e, ok := cl.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Sweep removes limiters that have not been used within idleTTL and returns
// how many were removed.
func (cl *ClientLimiters) Sweep() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cutoff := cl.now().Add(-cl.idleTTL)
	removed := 0
	for key, e := range cl.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(cl.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (cl *ClientLimiters) Len() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.limiters)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
// A non-positive interval sweeps once a minute.
func (cl *ClientLimiters) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cl.Sweep()
		}
	}
}
