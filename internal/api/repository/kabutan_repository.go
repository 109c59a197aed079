package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-research-api/internal/api/config"
	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/common"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
)

const rankingMaxItems = 5

type kabutanRepository struct {
	cfg           *config.Config
	log           *logger.Logger
	httpClient    *http.Client
	inmemoryCache *cache.Cache
}

// NewKabutanRepository creates the trading-value ranking scraper. Scrape
// results are cached briefly so bursts of requests hit the page only once.
func NewKabutanRepository(cfg *config.Config, log *logger.Logger) RankingRepository {
	return &kabutanRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		inmemoryCache: cache.New(common.RankingCacheTTL, 10*time.Minute),
	}
}

func (r *kabutanRepository) rankingURL() string {
	if r.cfg.Ranking.URL != "" {
		return r.cfg.Ranking.URL
	}
	return "https://kabutan.jp/warning/?mode=2_9"
}

// GetTopTradingValue fetches and parses the ranking page.
func (r *kabutanRepository) GetTopTradingValue(ctx context.Context) ([]dto.RankingItem, error) {
	if cached, found := r.inmemoryCache.Get(common.RankingCacheKey); found {
		return cached.([]dto.RankingItem), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.rankingURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept-Language", "ja-JP")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to fetch ranking page", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to fetch ranking page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from ranking page", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from ranking page: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ranking page: %w", err)
	}

	items := parseRankingTable(doc)
	r.inmemoryCache.Set(common.RankingCacheKey, items, cache.DefaultExpiration)
	return items, nil
}

// parseRankingTable extracts up to rankingMaxItems rows from the first table.
// Numeric columns are taken from the row tail so an optional market column
// between name and price does not shift them.
func parseRankingTable(doc *goquery.Document) []dto.RankingItem {
	var items []dto.RankingItem

	doc.Find("table").First().Find("tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td, th").Map(func(_ int, cell *goquery.Selection) string {
			return strings.TrimSpace(cell.Text())
		})
		if len(cells) < 8 {
			return true
		}

		n := len(cells)
		item := dto.RankingItem{
			Rank:                 int(utils.NormalizeNumber(cells[0])),
			Code:                 utils.NormalizeQuery(cells[1]),
			Name:                 cells[2],
			Price:                utils.NormalizeNumber(cells[n-5]),
			Change:               utils.NormalizeNumber(cells[n-4]),
			ChangePercent:        utils.NormalizeNumber(cells[n-3]),
			Volume:               utils.NormalizeNumber(cells[n-2]),
			Value:                utils.NormalizeNumber(cells[n-1]),
			PriceDisplay:         cells[n-5],
			ChangeDisplay:        cells[n-4],
			ChangePercentDisplay: cells[n-3],
			VolumeDisplay:        cells[n-2],
			ValueDisplay:         cells[n-1],
		}
		if item.Code == "" {
			return true
		}
		items = append(items, item)
		return len(items) < rankingMaxItems
	})

	return items
}
