package common

import "time"

const (
	// RedisKeyNewsCache prefixes cached aggregated news results.
	RedisKeyNewsCache = "news:comprehensive"
	// NewsCacheTTL bounds staleness of the shared news cache.
	NewsCacheTTL = 5 * time.Minute

	// RankingCacheKey is the in-process cache key for the trading value ranking.
	RankingCacheKey = "ranking:top-trading-value"
	// RankingCacheTTL bounds staleness of the scraped ranking.
	RankingCacheTTL = 5 * time.Minute

	// TodayPicksCacheKey is the in-process cache key for daily picks.
	TodayPicksCacheKey = "picks:today"
	// TodayPicksCacheTTL bounds staleness of the daily picks feeds.
	TodayPicksCacheTTL = 30 * time.Minute

	// ClientRateLimit is the per-IP request cap per window.
	ClientRateLimit = 100
	// ClientRateWindow is the inbound rate limit window size.
	ClientRateWindow = 15 * time.Minute

	// DailyFreeUsageLimit caps combined analysis+financial+news calls per day
	// for non-premium users.
	DailyFreeUsageLimit = 3
)
