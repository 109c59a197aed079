package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/pkg/common"
	"stock-research-api/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// NewsService aggregates news from the free-tier providers.
type NewsService interface {
	GetComprehensiveNews(ctx context.Context, query, symbol string, limit int) ([]dto.NewsItem, error)
}

// NewNewsService creates the aggregator. redisClient may be nil, in which case
// the shared result cache is skipped.
func NewNewsService(
	newsAPIRepo repository.NewsAPIRepository,
	fmpRepo repository.FMPRepository,
	rssRepo repository.RSSRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) NewsService {
	return &newsService{
		newsAPIRepo: newsAPIRepo,
		fmpRepo:     fmpRepo,
		rssRepo:     rssRepo,
		redisClient: redisClient,
		log:         log,
	}
}

type newsService struct {
	newsAPIRepo repository.NewsAPIRepository
	fmpRepo     repository.FMPRepository
	rssRepo     repository.RSSRepository
	redisClient *redis.Client
	log         *logger.Logger
}

// GetComprehensiveNews merges NewsAPI, symbol news and the RSS fallback into a
// deduplicated, relevance-filtered, recency-sorted list. A dead provider never
// blocks the others.
func (s *newsService) GetComprehensiveNews(ctx context.Context, query, symbol string, limit int) ([]dto.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("%s:%s:%s:%d", common.RedisKeyNewsCache, query, symbol, limit)
	if cached := s.readCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	var collected []dto.NewsItem

	if s.newsAPIRepo.Enabled() {
		items, err := s.newsAPIRepo.SearchNews(ctx, query, time.Now().AddDate(0, 0, -7), limit)
		if err != nil {
			s.log.WarnContext(ctx, "NewsAPI query failed, continuing with other providers", logger.ErrorField(err))
		} else {
			collected = append(collected, items...)
		}
	}

	if symbol != "" {
		items, err := s.fmpRepo.GetSymbolNews(ctx, symbol, limit)
		if err != nil {
			s.log.WarnContext(ctx, "Symbol news query failed, continuing with other providers", logger.ErrorField(err))
		} else {
			collected = append(collected, items...)
		}
	}

	if len(collected) < limit {
		items, err := s.rssRepo.GetNews(ctx, query)
		if err != nil {
			s.log.WarnContext(ctx, "RSS fallback failed", logger.ErrorField(err))
		} else {
			collected = append(collected, items...)
		}
	}

	result := FilterRelevantNews(DeduplicateByLink(collected), query, symbol)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PublishedAt.After(result[j].PublishedAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}

	s.writeCache(ctx, cacheKey, result)
	return result, nil
}

// DeduplicateByLink keeps the first occurrence of every link.
func DeduplicateByLink(items []dto.NewsItem) []dto.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]dto.NewsItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Link]; ok {
			continue
		}
		seen[item.Link] = struct{}{}
		out = append(out, item)
	}
	return out
}

// FilterRelevantNews keeps an item when every query keyword appears in its
// title or snippet, or when the symbol does. An empty query and symbol keeps
// everything.
func FilterRelevantNews(items []dto.NewsItem, query, symbol string) []dto.NewsItem {
	keywords := strings.Fields(strings.ToLower(query))
	symbolLower := strings.ToLower(symbol)
	if len(keywords) == 0 && symbolLower == "" {
		return items
	}

	out := make([]dto.NewsItem, 0, len(items))
	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Snippet)

		matchesAllKeywords := len(keywords) > 0
		for _, kw := range keywords {
			if !strings.Contains(haystack, kw) {
				matchesAllKeywords = false
				break
			}
		}

		matchesSymbol := symbolLower != "" && strings.Contains(haystack, symbolLower)

		if matchesAllKeywords || matchesSymbol {
			out = append(out, item)
		}
	}
	return out
}

func (s *newsService) readCache(ctx context.Context, key string) []dto.NewsItem {
	if s.redisClient == nil {
		return nil
	}
	raw, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var items []dto.NewsItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

func (s *newsService) writeCache(ctx context.Context, key string, items []dto.NewsItem) {
	if s.redisClient == nil || len(items) == 0 {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, raw, common.NewsCacheTTL).Err(); err != nil {
		s.log.DebugContext(ctx, "Failed to write news cache", logger.ErrorField(err))
	}
}
