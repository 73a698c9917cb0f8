// Package ratelimit enforces Trello's published request ceilings.
//
// Trello allows 300 requests per 10 seconds per API key and 100 requests
// per 10 seconds per token. Both quotas apply at once, so the limiter
// keeps two independent buckets and grants a call only when each bucket
// has capacity. Buckets use a fixed-window reset: when a full window has
// elapsed since the last reset the bucket returns to full capacity, so
// bursts up to capacity are allowed at every window boundary.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// keyCapacity is Trello's per-API-key ceiling per window.
	keyCapacity = 300

	// tokenCapacity is Trello's per-token ceiling per window.
	tokenCapacity = 100

	// quotaWindow is the length of Trello's rate-limit window.
	quotaWindow = 10 * time.Second
)

// bucket tracks one quota: how many grants remain in the current window
// and when that window started.
type bucket struct {
	capacity    int
	available   int
	windowStart time.Time
}

// refill resets the bucket to full capacity once a whole window has
// elapsed. Partial windows never restore capacity.
func (b *bucket) refill(now time.Time, window time.Duration) {
	if now.Sub(b.windowStart) >= window {
		b.available = b.capacity
		b.windowStart = now
	}
}

// resetAt returns the instant the bucket's current window ends.
func (b *bucket) resetAt(window time.Duration) time.Time {
	return b.windowStart.Add(window)
}

// Limiter gates outbound Trello calls against both quotas.
// It is safe for concurrent use; waiters do not block one another's
// ability to queue, and none starves while time keeps advancing.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	key    bucket
	token  bucket

	// now is the clock; overridable in tests.
	now func() time.Time
}

// New creates a Limiter with Trello's published ceilings.
func New() *Limiter {
	return newLimiter(keyCapacity, tokenCapacity, quotaWindow)
}

// newLimiter is the testable constructor; both buckets start full.
func newLimiter(keyCap, tokenCap int, window time.Duration) *Limiter {
	l := &Limiter{
		window: window,
		key:    bucket{capacity: keyCap, available: keyCap},
		token:  bucket{capacity: tokenCap, available: tokenCap},
		now:    time.Now,
	}
	start := l.now()
	l.key.windowStart = start
	l.token.windowStart = start
	return l
}

// Wait suspends the caller until one grant can be consumed from both
// buckets, then consumes them and returns nil. It returns the context's
// error if the caller is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		ok, retryIn := l.tryAcquire()
		if ok {
			return nil
		}

		timer := time.NewTimer(retryIn)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire attempts to consume one grant from each bucket. On failure
// it reports how long to wait before the next attempt: the time until
// the earliest exhausted bucket's window resets.
func (l *Limiter) tryAcquire() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.key.refill(now, l.window)
	l.token.refill(now, l.window)

	if l.key.available > 0 && l.token.available > 0 {
		l.key.available--
		l.token.available--
		return true, 0
	}

	retryIn := l.window
	if l.key.available == 0 {
		if d := l.key.resetAt(l.window).Sub(now); d < retryIn {
			retryIn = d
		}
	}
	if l.token.available == 0 {
		if d := l.token.resetAt(l.window).Sub(now); d < retryIn {
			retryIn = d
		}
	}
	if retryIn < time.Millisecond {
		retryIn = time.Millisecond
	}
	return false, retryIn
}
