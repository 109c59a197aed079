package ratelimit

import (
	"sync"
	"time"
)

// Result describes the outcome of a limiter check.
type Result struct {
	Allowed   bool
	Remaining int
	// RetryAfter is how long the caller should wait before retrying. Zero when
	// the request was allowed.
	RetryAfter time.Duration
}

type window struct {
	count     int
	resetTime time.Time
}

// WindowLimiter is a fixed-size sliding-window counter keyed by an arbitrary
// string (typically a client IP). State lives in process memory only; counters
// reset on restart. The check is approximate under concurrent requests for the
// same key, which is acceptable for abuse deterrence.
type WindowLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	interval time.Duration
	now      func() time.Time
}

// NewWindowLimiter creates a limiter allowing limit requests per interval per key.
func NewWindowLimiter(limit int, interval time.Duration) *WindowLimiter {
	return &WindowLimiter{
		windows:  make(map[string]*window),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (l *WindowLimiter) SetClock(now func() time.Time) {
	l.now = now
}

// Allow records a request for key and reports whether it is within the limit.
func (l *WindowLimiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if ok && now.After(w.resetTime) {
		delete(l.windows, key)
		ok = false
	}

	if !ok {
		l.windows[key] = &window{count: 1, resetTime: now.Add(l.interval)}
		return Result{Allowed: true, Remaining: l.limit - 1}
	}

	if w.count >= l.limit {
		return Result{Allowed: false, Remaining: 0, RetryAfter: w.resetTime.Sub(now)}
	}

	w.count++
	return Result{Allowed: true, Remaining: l.limit - w.count}
}

// Cleanup drops expired windows. Called periodically so abandoned keys do not
// accumulate for the life of the process.
func (l *WindowLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if now.After(w.resetTime) {
			delete(l.windows, key)
		}
	}
}
