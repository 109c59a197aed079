package service

import (
	"context"
	"sync/atomic"
	"testing"

	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJPPicks(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "トヨタ自動車(7203)が上方修正を発表"},
		{Title: "ソニーグループ（6758）決算は増益"},
		{Title: "市場全体のまとめ記事"},
		{Title: "トヨタ自動車(7203)続報"},
	}

	picks := extractJPPicks(items)
	require.Len(t, picks, 2)
	assert.Equal(t, dto.Pick{Name: "トヨタ自動車", Symbol: "7203"}, picks[0])
	assert.Equal(t, dto.Pick{Name: "ソニーグループ", Symbol: "6758"}, picks[1])
}

func TestExtractUSPicks(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "Apple (NASDAQ: AAPL) beats earnings estimates"},
		{Title: "$NVDA surges after guidance"},
		{Title: "no tickers in this headline"},
		{Title: "$NVDA keeps climbing"},
	}

	picks := extractUSPicks(items)
	require.Len(t, picks, 2)
	assert.Equal(t, "AAPL", picks[0].Symbol)
	assert.Equal(t, "NVDA", picks[1].Symbol)
}

func TestExtractJPPicksCapsAtFive(t *testing.T) {
	items := []dto.NewsItem{
		{Title: "A社(1001) B社(1002) C社(1003) D社(1004) E社(1005) F社(1006)"},
	}
	assert.Len(t, extractJPPicks(items), 5)
}

func TestGetTodayPicksFallsBackWhenFeedsEmpty(t *testing.T) {
	rss := &fakeRSSRepository{}
	svc := NewTodayPicksService(rss, logger.NewNop())

	resp := svc.GetTodayPicks(context.Background())
	assert.Equal(t, "fallback", resp.Source)
	assert.NotEmpty(t, resp.JP)
	assert.NotEmpty(t, resp.US)
}

func TestGetTodayPicksUsesFeedsAndCaches(t *testing.T) {
	var calls atomic.Int32
	rss := &fakeRSSRepository{
		getFeedItems: func(ctx context.Context, feedURL string) ([]dto.NewsItem, error) {
			calls.Add(1)
			return []dto.NewsItem{
				{Title: "トヨタ自動車(7203)が急伸"},
				{Title: "Apple (NASDAQ: AAPL) rallies"},
			}, nil
		},
	}
	svc := NewTodayPicksService(rss, logger.NewNop())

	first := svc.GetTodayPicks(context.Background())
	assert.Equal(t, "feeds", first.Source)
	assert.NotEmpty(t, first.JP)
	assert.NotEmpty(t, first.US)
	assert.Equal(t, int32(2), calls.Load())

	second := svc.GetTodayPicks(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, int32(2), calls.Load())
}
