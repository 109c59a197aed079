package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a tokens-per-minute budget for AI providers that meter
// usage by token count rather than request count.
type TokenLimiter struct {
	mu        sync.Mutex
	maxTokens int
	used      int
	windowEnd time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute token budget.
func NewTokenLimiter(maxTokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxTokens: maxTokensPerMinute,
		windowEnd: time.Now().Add(time.Minute),
	}
}

// GetRemaining returns the unused token budget in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollWindow()
	return l.maxTokens - l.used
}

// Wait blocks until tokens can be spent within the budget or the context ends.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		l.rollWindow()
		if l.used+tokens <= l.maxTokens || tokens > l.maxTokens {
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		waitFor := time.Until(l.windowEnd)
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitFor):
		}
	}
}

func (l *TokenLimiter) rollWindow() {
	if time.Now().After(l.windowEnd) {
		l.used = 0
		l.windowEnd = time.Now().Add(time.Minute)
	}
}
