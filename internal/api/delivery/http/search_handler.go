package http

import (
	"net/http"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/service"
	"stock-research-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SearchHandler handles HTTP requests for company search.
type SearchHandler struct {
	searchService service.SearchService
	logger        *logger.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{searchService: searchService, logger: logger}
}

// RegisterRoutes registers the search routes to the Echo group.
func (h *SearchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/search", h.Search)
	g.POST("/search-suggestions", h.Suggestions)
}

// Search godoc
// @Summary Search a company
// @Description Resolve a company name or ticker into profile, quote, financials, chart and news
// @Tags search
// @Accept  json
// @Produce  json
// @Param   request  body    dto.SearchRequest   true    "Search query"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /search [post]
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.searchService.Search(c.Request().Context(), &req)
	if err != nil {
		h.logger.Error("Search failed", logger.ErrorField(err), logger.StringField("query", req.Query))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Suggestions godoc
// @Summary Suggest tickers
// @Description Return ticker suggestions for a partial company name
// @Tags search
// @Accept  json
// @Produce  json
// @Param   request  body    dto.SuggestionRequest  true    "Partial query"
// @Success 200 {object} dto.SuggestionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /search-suggestions [post]
func (h *SearchHandler) Suggestions(c echo.Context) error {
	var req dto.SuggestionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.searchService.Suggestions(c.Request().Context(), req.Query)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
