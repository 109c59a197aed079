package service

import (
	"context"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"
)

// RankingService serves the top trading value ranking.
type RankingService interface {
	GetTopTradingValue(ctx context.Context) *dto.RankingResponse
}

// NewRankingService creates the ranking flow.
func NewRankingService(rankingRepo repository.RankingRepository, log *logger.Logger) RankingService {
	return &rankingService{
		rankingRepo: rankingRepo,
		log:         log,
	}
}

type rankingService struct {
	rankingRepo repository.RankingRepository
	log         *logger.Logger
}

// GetTopTradingValue returns the scraped ranking. A scrape failure yields an
// empty list plus an error message instead of an HTTP error, so the UI can
// render the rest of the page.
func (s *rankingService) GetTopTradingValue(ctx context.Context) *dto.RankingResponse {
	items, err := s.rankingRepo.GetTopTradingValue(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Ranking scrape failed", logger.ErrorField(err))
		return &dto.RankingResponse{
			Items: []dto.RankingItem{},
			Error: "ランキングの取得に失敗しました",
		}
	}

	for i := range items {
		fillDisplayFields(&items[i])
	}
	return &dto.RankingResponse{Items: items}
}

// fillDisplayFields backfills formatted strings for rows where the scraper
// could not keep the page's own rendering.
func fillDisplayFields(item *dto.RankingItem) {
	if item.PriceDisplay == "" {
		item.PriceDisplay = utils.FormatNumber(item.Price, false)
	}
	if item.ChangeDisplay == "" {
		item.ChangeDisplay = utils.FormatNumber(item.Change, false)
	}
	if item.ChangePercentDisplay == "" {
		item.ChangePercentDisplay = utils.FormatPercentage(item.ChangePercent)
	}
	if item.VolumeDisplay == "" {
		item.VolumeDisplay = utils.FormatNumber(item.Volume, true)
	}
	if item.ValueDisplay == "" {
		item.ValueDisplay = utils.FormatMarketCap(item.Value)
	}
}
