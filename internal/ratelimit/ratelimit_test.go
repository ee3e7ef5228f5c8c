package ratelimit

import (
	"testing"
	"time"
)

func newTestWindow(limit int, window time.Duration) (*SlidingWindow, *time.Time) {
	current := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	lim := NewSlidingWindow(limit, window)
	lim.now = func() time.Time { return current }
	return lim, &current
}

func TestAllowUpToLimitThenDeny(t *testing.T) {
	lim, _ := newTestWindow(10, time.Hour)

	for i := 0; i < 10; i++ {
		if !lim.Allow("user-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if lim.Allow("user-a") {
		t.Fatalf("request 11 should be denied")
	}
}

func TestWindowSlidesAsEventsAge(t *testing.T) {
	lim, current := newTestWindow(10, time.Hour)

	for i := 0; i < 10; i++ {
		if !lim.Allow("user-a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	*current = current.Add(59 * time.Minute)
	if lim.Allow("user-a") {
		t.Fatalf("request inside the window should be denied")
	}

	*current = current.Add(2 * time.Minute)
	if !lim.Allow("user-a") {
		t.Fatalf("request after the window elapsed should be allowed")
	}
}

func TestDeniedRequestsAreNotRecorded(t *testing.T) {
	lim, current := newTestWindow(1, time.Hour)

	if !lim.Allow("user-a") {
		t.Fatalf("first request should be allowed")
	}

	*current = current.Add(30 * time.Minute)
	if lim.Allow("user-a") {
		t.Fatalf("second request should be denied")
	}

	// Only the original event occupies the window. If the denial above had
	// been recorded, this would still be blocked.
	*current = current.Add(31 * time.Minute)
	if !lim.Allow("user-a") {
		t.Fatalf("request after original event aged out should be allowed")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	lim, _ := newTestWindow(1, time.Hour)

	if !lim.Allow("user-a") {
		t.Fatalf("user-a should be allowed")
	}
	if !lim.Allow("user-b") {
		t.Fatalf("user-b should not share user-a's window")
	}
	if lim.Allow("user-a") {
		t.Fatalf("user-a should be at its limit")
	}
}

func TestRemaining(t *testing.T) {
	lim, current := newTestWindow(3, time.Minute)

	if got := lim.Remaining("ip-1"); got != 3 {
		t.Fatalf("expected 3 remaining, got %d", got)
	}
	lim.Allow("ip-1")
	lim.Allow("ip-1")
	if got := lim.Remaining("ip-1"); got != 1 {
		t.Fatalf("expected 1 remaining, got %d", got)
	}
	lim.Allow("ip-1")
	if got := lim.Remaining("ip-1"); got != 0 {
		t.Fatalf("expected 0 remaining, got %d", got)
	}

	*current = current.Add(2 * time.Minute)
	if got := lim.Remaining("ip-1"); got != 3 {
		t.Fatalf("expected full window after elapse, got %d", got)
	}
}

func TestSweepDropsIdleKeys(t *testing.T) {
	lim, current := newTestWindow(5, time.Minute)

	lim.Allow("old-ip")
	*current = current.Add(10 * time.Minute)

	// Force a sweep by walking the op counter up to the threshold.
	for i := 0; i < sweepEvery; i++ {
		lim.Allow("busy-ip")
		*current = current.Add(time.Second)
	}

	lim.mu.Lock()
	_, stale := lim.hits["old-ip"]
	lim.mu.Unlock()
	if stale {
		t.Fatalf("idle key should have been swept")
	}
}
