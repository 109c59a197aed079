package http

import (
	"net/http"

	"stock-research-api/internal/api/service"
	"stock-research-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler handles the market overview endpoints.
type MarketHandler struct {
	rankingService    service.RankingService
	todayPicksService service.TodayPicksService
	logger            *logger.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(
	rankingService service.RankingService,
	todayPicksService service.TodayPicksService,
	logger *logger.Logger,
) *MarketHandler {
	return &MarketHandler{
		rankingService:    rankingService,
		todayPicksService: todayPicksService,
		logger:            logger,
	}
}

// RegisterRoutes registers the market routes to the Echo group.
func (h *MarketHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/top-trading-value", h.TopTradingValue)
	g.GET("/today-picks", h.TodayPicks)
}

// TopTradingValue godoc
// @Summary Top trading value ranking
// @Description Return the scraped top trading value ranking, up to five rows
// @Tags market
// @Produce  json
// @Success 200 {object} dto.RankingResponse
// @Router /top-trading-value [get]
func (h *MarketHandler) TopTradingValue(c echo.Context) error {
	return c.JSON(http.StatusOK, h.rankingService.GetTopTradingValue(c.Request().Context()))
}

// TodayPicks godoc
// @Summary Today's picks
// @Description Return companies extracted from today's finance headlines
// @Tags market
// @Produce  json
// @Success 200 {object} dto.TodayPicksResponse
// @Router /today-picks [get]
func (h *MarketHandler) TodayPicks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.todayPicksService.GetTodayPicks(c.Request().Context()))
}
