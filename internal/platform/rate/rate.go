// Package rate provides the token bucket that paces probe admission when a
// probes-per-second ceiling is configured.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket. Wait blocks the caller until a token is
// available; Allow takes one without blocking.
type Limiter struct {
	mu     sync.Mutex
	rate   float64 // tokens per second
	burst  int     // bucket capacity
	tokens float64
	last   time.Time
}

// New creates a limiter that refills rate tokens per second and holds at
// most burst of them. The bucket starts full.
//
// Example:
//
//	limiter := rate.New(500, 50) // 500 probes/s, bursts of 50
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Wait blocks until a token is taken or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		wait := l.reserve()
		if wait == 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Allow reports whether a token was available and, if so, consumes it.
func (l *Limiter) Allow() bool {
	return l.reserve() == 0
}

// Rate returns the refill rate in tokens per second.
func (l *Limiter) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// Burst returns the bucket capacity.
func (l *Limiter) Burst() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burst
}

// reserve takes a token and returns 0, or returns how long until one is due.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.tokens += now.Sub(l.last).Seconds() * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.last = now

	if l.tokens >= 1 {
		l.tokens--
		return 0
	}

	wait := time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}
