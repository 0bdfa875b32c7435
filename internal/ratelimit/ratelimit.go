// Package ratelimit implements the chat admission controller: a per-client
// sliding window that rejects a request once the client has already made
// Limit requests within the trailing Window.
//
// SlidingWindow keeps state in process memory, so each API instance enforces
// its own budget. RedisWindow shares the budget across instances.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests admitted per window.
	DefaultLimit = 10
	// DefaultWindow is the trailing window length.
	DefaultWindow = 60 * time.Second
)

// Admission decides whether one more request from clientKey may proceed.
// An allowed request is counted against the client's budget; a rejected one
// is not.
type Admission interface {
	Allow(ctx context.Context, clientKey string) (bool, error)
}

// SlidingWindow is an in-memory Admission. It is safe for concurrent use.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewSlidingWindow returns a limiter admitting at most limit requests per
// client per window. Non-positive values fall back to the defaults.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return NewSlidingWindowWithClock(limit, window, time.Now)
}

// NewSlidingWindowWithClock is NewSlidingWindow with an injected clock.
func NewSlidingWindowWithClock(limit int, window time.Duration, now func() time.Time) *SlidingWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    now,
	}
}

// Allow implements Admission. It never returns an error.
func (s *SlidingWindow) Allow(_ context.Context, clientKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	valid := s.prune(s.hits[clientKey], now)
	if len(valid) >= s.limit {
		s.hits[clientKey] = valid
		return false, nil
	}
	s.hits[clientKey] = append(valid, now)
	return true, nil
}

// prune drops timestamps that are no longer strictly inside the window.
func (s *SlidingWindow) prune(ts []time.Time, now time.Time) []time.Time {
	valid := ts[:0]
	for _, t := range ts {
		if now.Sub(t) < s.window {
			valid = append(valid, t)
		}
	}
	return valid
}

// Sweep forgets clients with no timestamps left in the window and returns
// how many were removed.
func (s *SlidingWindow) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, ts := range s.hits {
		if valid := s.prune(ts, now); len(valid) == 0 {
			delete(s.hits, k)
			removed++
		} else {
			s.hits[k] = valid
		}
	}
	return removed
}

// Clients returns the number of tracked client keys.
func (s *SlidingWindow) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hits)
}
