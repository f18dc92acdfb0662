// Package ratelimit provides a small token-bucket limiter used to pace
// calls to the remote validation service. The pipeline issues those calls
// sequentially; the bucket makes the pacing policy explicit and testable
// instead of burying sleeps in the call sites.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket refilled continuously at a fixed rate.
type Limiter struct {
	mu sync.Mutex

	requestsPerMinute int
	tokens            float64
	lastUpdate        time.Time
}

// New creates a limiter allowing requestsPerMinute sustained calls. A
// non-positive rate falls back to 30 per minute. The bucket starts with a
// single token rather than full, so only the first call proceeds
// immediately and every later call is spaced out at the configured rate.
func New(requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &Limiter{
		requestsPerMinute: requestsPerMinute,
		tokens:            1,
		lastUpdate:        time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		l.refill()
		if l.tokens >= 1 {
			l.tokens--
			l.mu.Unlock()
			return nil
		}
		needed := 1 - l.tokens
		rate := float64(l.requestsPerMinute) / 60.0
		wait := time.Duration(needed / rate * float64(time.Second))
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// TryAcquire consumes a token without blocking, reporting whether one was
// available.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// refill adds tokens for the time elapsed since the last update. Caller
// must hold mu.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastUpdate).Seconds()
	l.lastUpdate = now

	l.tokens += elapsed * float64(l.requestsPerMinute) / 60.0
	if max := float64(l.requestsPerMinute); l.tokens > max {
		l.tokens = max
	}
}
