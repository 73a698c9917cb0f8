package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock drives the limiter's notion of time in tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestTryAcquire_ConsumesBothBuckets(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(3, 2, 10*time.Second)
	l.now = clock.Now

	for i := 0; i < 2; i++ {
		ok, _ := l.tryAcquire()
		if !ok {
			t.Fatalf("acquire %d: want grant, got refusal", i)
		}
	}

	// Token bucket (capacity 2) is now exhausted even though the key
	// bucket still has capacity.
	ok, retryIn := l.tryAcquire()
	if ok {
		t.Fatal("want refusal once the smaller bucket is exhausted")
	}
	if retryIn <= 0 || retryIn > 10*time.Second {
		t.Errorf("retryIn = %v, want within (0, window]", retryIn)
	}
	if l.key.available != 1 {
		t.Errorf("key.available = %d, want 1 (refusal must not consume)", l.key.available)
	}
}

func TestTryAcquire_WindowReset(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(5, 2, 10*time.Second)
	l.now = clock.Now
	// Re-stamp the window starts: newLimiter captured them from the real
	// clock before the fake clock was injected.
	l.key.windowStart = clock.Now()
	l.token.windowStart = clock.Now()

	for i := 0; i < 2; i++ {
		if ok, _ := l.tryAcquire(); !ok {
			t.Fatalf("acquire %d: want grant", i)
		}
	}
	if ok, _ := l.tryAcquire(); ok {
		t.Fatal("want refusal with token bucket exhausted")
	}

	// A partial window restores nothing.
	clock.Advance(9 * time.Second)
	if ok, _ := l.tryAcquire(); ok {
		t.Fatal("want refusal before the window boundary")
	}

	// Crossing the boundary restores full capacity.
	clock.Advance(2 * time.Second)
	for i := 0; i < 2; i++ {
		if ok, _ := l.tryAcquire(); !ok {
			t.Fatalf("post-reset acquire %d: want grant", i)
		}
	}
}

func TestTryAcquire_AvailableNeverExceedsCapacity(t *testing.T) {
	clock := newFakeClock()
	l := newLimiter(4, 4, 10*time.Second)
	l.now = clock.Now
	// Re-stamp the window starts: newLimiter captured them from the real
	// clock before the fake clock was injected.
	l.key.windowStart = clock.Now()
	l.token.windowStart = clock.Now()

	// Reset repeatedly without consuming; capacity must not accumulate.
	for i := 0; i < 3; i++ {
		clock.Advance(11 * time.Second)
		if ok, _ := l.tryAcquire(); !ok {
			t.Fatalf("round %d: want grant", i)
		}
		if l.key.available > l.key.capacity || l.token.available > l.token.capacity {
			t.Fatalf("round %d: available exceeds capacity", i)
		}
	}
}

func TestWait_BoundedPerWindow(t *testing.T) {
	// Real clock with a short window: 3 grants per 100ms window. Seven
	// sequential waits must spread across three windows, and all must
	// eventually complete.
	const capacity = 3
	window := 100 * time.Millisecond
	l := newLimiter(capacity, capacity, window)

	stamps := make([]time.Time, 7)
	for i := range stamps {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
		stamps[i] = time.Now()
	}

	// First window admits exactly capacity calls immediately.
	if d := stamps[capacity-1].Sub(stamps[0]); d > window/2 {
		t.Errorf("first %d grants took %v, want immediate", capacity, d)
	}
	// The fourth call had to wait for the second window…
	if d := stamps[capacity].Sub(stamps[0]); d < window*9/10 {
		t.Errorf("grant %d came after %v, want at least one window", capacity, d)
	}
	// …and the seventh for the third.
	if d := stamps[6].Sub(stamps[0]); d < window*19/10 {
		t.Errorf("grant 6 came after %v, want at least two windows", d)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	l := newLimiter(1, 1, time.Minute)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Wait(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Wait after cancel = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestNew_UsesTrelloCeilings(t *testing.T) {
	l := New()
	if l.key.capacity != 300 {
		t.Errorf("key capacity = %d, want 300", l.key.capacity)
	}
	if l.token.capacity != 100 {
		t.Errorf("token capacity = %d, want 100", l.token.capacity)
	}
	if l.window != 10*time.Second {
		t.Errorf("window = %v, want 10s", l.window)
	}
}
