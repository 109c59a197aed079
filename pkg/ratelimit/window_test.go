package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowLimiterAllowsUpToLimit(t *testing.T) {
	limiter := NewWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		result := limiter.Allow("1.2.3.4")
		assert.True(t, result.Allowed)
		assert.Equal(t, 2-i, result.Remaining)
	}

	result := limiter.Allow("1.2.3.4")
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestWindowLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewWindowLimiter(1, time.Minute)

	assert.True(t, limiter.Allow("a").Allowed)
	assert.False(t, limiter.Allow("a").Allowed)
	assert.True(t, limiter.Allow("b").Allowed)
}

func TestWindowLimiterResetsAfterInterval(t *testing.T) {
	limiter := NewWindowLimiter(1, time.Minute)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.SetClock(func() time.Time { return now })

	assert.True(t, limiter.Allow("a").Allowed)
	assert.False(t, limiter.Allow("a").Allowed)

	now = now.Add(61 * time.Second)
	assert.True(t, limiter.Allow("a").Allowed)
}

func TestWindowLimiterCleanup(t *testing.T) {
	limiter := NewWindowLimiter(1, time.Minute)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter.SetClock(func() time.Time { return now })

	limiter.Allow("a")
	limiter.Allow("b")
	assert.Len(t, limiter.windows, 2)

	now = now.Add(2 * time.Minute)
	limiter.Cleanup()
	assert.Empty(t, limiter.windows)
}
