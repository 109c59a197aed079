package service

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/pkg/common"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"

	"github.com/patrickmn/go-cache"
)

const (
	jpPicksFeedURL = "https://news.google.com/rss/search?q=%E6%B1%BA%E7%AE%97%20%E6%A0%AA%E4%BE%A1&hl=ja&gl=JP&ceid=JP:ja"
	usPicksFeedURL = "https://news.google.com/rss/search?q=NASDAQ%20earnings&hl=ja&gl=JP&ceid=JP:ja"

	picksPerMarket = 5
)

// TodayPicksService builds the daily pick lists from news headlines.
type TodayPicksService interface {
	GetTodayPicks(ctx context.Context) *dto.TodayPicksResponse
}

// NewTodayPicksService creates the pick builder with its in-process cache.
func NewTodayPicksService(rssRepo repository.RSSRepository, log *logger.Logger) TodayPicksService {
	return &todayPicksService{
		rssRepo:       rssRepo,
		log:           log,
		inmemoryCache: cache.New(common.TodayPicksCacheTTL, 10*common.TodayPicksCacheTTL),
	}
}

type todayPicksService struct {
	rssRepo       repository.RSSRepository
	log           *logger.Logger
	inmemoryCache *cache.Cache
}

// GetTodayPicks extracts company mentions from the JP and US finance feeds,
// fetched in parallel. When both feeds are empty the curated fallback list is
// returned so the endpoint never serves an empty page.
func (s *todayPicksService) GetTodayPicks(ctx context.Context) *dto.TodayPicksResponse {
	if cached, found := s.inmemoryCache.Get(common.TodayPicksCacheKey); found {
		return cached.(*dto.TodayPicksResponse)
	}

	var (
		wg      sync.WaitGroup
		jpItems []dto.NewsItem
		usItems []dto.NewsItem
	)
	wg.Add(2)
	utils.GoSafe(func() {
		defer wg.Done()
		items, err := s.rssRepo.GetFeedItems(ctx, jpPicksFeedURL)
		if err != nil {
			s.log.WarnContext(ctx, "JP picks feed failed", logger.ErrorField(err))
			return
		}
		jpItems = items
	})
	utils.GoSafe(func() {
		defer wg.Done()
		items, err := s.rssRepo.GetFeedItems(ctx, usPicksFeedURL)
		if err != nil {
			s.log.WarnContext(ctx, "US picks feed failed", logger.ErrorField(err))
			return
		}
		usItems = items
	})
	wg.Wait()

	resp := &dto.TodayPicksResponse{
		JP:     extractJPPicks(jpItems),
		US:     extractUSPicks(usItems),
		Source: "feeds",
	}
	if len(resp.JP) == 0 && len(resp.US) == 0 {
		resp = fallbackPicks()
	}

	s.inmemoryCache.Set(common.TodayPicksCacheKey, resp, cache.DefaultExpiration)
	return resp
}

// jpTickerPattern matches headline fragments like 社名(1234) or 社名（1234）.
var jpTickerPattern = regexp.MustCompile(`([\p{Han}\p{Hiragana}\p{Katakana}A-Za-z0-9・ー]{2,20})[（(](\d{4})[)）]`)

// usTickerPatterns match (NASDAQ: XYZ) style references and bare $XYZ cashtags.
var (
	usExchangePattern = regexp.MustCompile(`\((?:NASDAQ|NYSE):\s*([A-Z]{1,5})\)`)
	usCashtagPattern  = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
)

func extractJPPicks(items []dto.NewsItem) []dto.Pick {
	var picks []dto.Pick
	seen := map[string]struct{}{}
	for _, item := range items {
		for _, m := range jpTickerPattern.FindAllStringSubmatch(item.Title, -1) {
			code := m[2]
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			picks = append(picks, dto.Pick{Name: strings.TrimSpace(m[1]), Symbol: code})
			if len(picks) >= picksPerMarket {
				return picks
			}
		}
	}
	return picks
}

func extractUSPicks(items []dto.NewsItem) []dto.Pick {
	var picks []dto.Pick
	seen := map[string]struct{}{}
	add := func(name, symbol string) bool {
		if _, ok := seen[symbol]; ok {
			return len(picks) < picksPerMarket
		}
		seen[symbol] = struct{}{}
		picks = append(picks, dto.Pick{Name: name, Symbol: symbol})
		return len(picks) < picksPerMarket
	}
	for _, item := range items {
		for _, m := range usExchangePattern.FindAllStringSubmatch(item.Title, -1) {
			if !add(m[1], m[1]) {
				return picks
			}
		}
		for _, m := range usCashtagPattern.FindAllStringSubmatch(item.Title, -1) {
			if !add(m[1], m[1]) {
				return picks
			}
		}
	}
	return picks
}

// fallbackPicks is the curated list served when the feeds yield nothing.
func fallbackPicks() *dto.TodayPicksResponse {
	return &dto.TodayPicksResponse{
		JP: []dto.Pick{
			{Name: "トヨタ自動車", Symbol: "7203"},
			{Name: "ソニーグループ", Symbol: "6758"},
			{Name: "東京エレクトロン", Symbol: "8035"},
			{Name: "三菱UFJフィナンシャル・グループ", Symbol: "8306"},
			{Name: "任天堂", Symbol: "7974"},
		},
		US: []dto.Pick{
			{Name: "Apple", Symbol: "AAPL"},
			{Name: "Microsoft", Symbol: "MSFT"},
			{Name: "NVIDIA", Symbol: "NVDA"},
			{Name: "Amazon", Symbol: "AMZN"},
			{Name: "Alphabet", Symbol: "GOOGL"},
		},
		Source: "fallback",
	}
}
