// Package ratelimit implements a sliding-window limiter keyed by caller
// identity (user ID for report generation, client IP for general traffic).
package ratelimit

import (
	"sync"
	"time"
)

// sweepEvery bounds how many Allow calls pass between cleanups of idle keys.
const sweepEvery = 1024

// SlidingWindow allows at most limit events per key within a rolling window.
// The check and the recording happen under one lock, so two concurrent
// requests can never both consume the final slot.
type SlidingWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
	ops  int
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow reports whether the key may proceed, recording the event only when
// it does. Denied requests do not extend the window.
func (s *SlidingWindow) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	s.ops++
	if s.ops%sweepEvery == 0 {
		s.sweep(cutoff)
	}

	recent := pruneBefore(s.hits[key], cutoff)
	if len(recent) >= s.limit {
		s.hits[key] = recent
		return false
	}
	s.hits[key] = append(recent, now)
	return true
}

// Remaining reports how many events the key has left in the current window.
func (s *SlidingWindow) Remaining(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := pruneBefore(s.hits[key], s.now().Add(-s.window))
	s.hits[key] = recent
	if left := s.limit - len(recent); left > 0 {
		return left
	}
	return 0
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(hits) && !hits[idx].After(cutoff) {
		idx++
	}
	return hits[idx:]
}

// sweep drops keys whose entire history has aged out, keeping the map from
// growing with one entry per IP ever seen. Caller holds the lock.
func (s *SlidingWindow) sweep(cutoff time.Time) {
	for key, hits := range s.hits {
		if len(pruneBefore(hits, cutoff)) == 0 {
			delete(s.hits, key)
		}
	}
}
