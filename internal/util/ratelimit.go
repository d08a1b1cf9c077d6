package util

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces operations to a per-minute budget. It is a token bucket
// of depth one: bursts are never larger than a single call, which keeps the
// request stream smooth for quota-counting APIs.
type RateLimiter struct {
	mu     sync.Mutex
	perSec float64
	tokens float64
	last   time.Time
}

// NewRateLimiter returns a limiter allowing perMinute operations per minute.
// The first Wait succeeds immediately.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		perSec: float64(perMinute) / 60,
		tokens: 1,
		last:   time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()
		rl.tokens += now.Sub(rl.last).Seconds() * rl.perSec
		if rl.tokens > 1 {
			rl.tokens = 1
		}
		rl.last = now

		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}

		// Sleep until roughly when the next token lands.
		pause := time.Second
		if rl.perSec > 0 {
			pause = time.Duration((1 - rl.tokens) / rl.perSec * float64(time.Second))
		}
		rl.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
}
