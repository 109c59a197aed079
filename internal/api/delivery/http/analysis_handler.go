package http

import (
	"fmt"
	"net/http"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/internal/api/service"
	"stock-research-api/internal/entity"
	"stock-research-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles the AI analysis endpoints. All three are gated by
// the daily free-tier quota.
type AnalysisHandler struct {
	analysisService     service.AnalysisService
	usageService        service.UsageService
	subscriptionService service.SubscriptionService
	authRepo            repository.AuthRepository
	logger              *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(
	analysisService service.AnalysisService,
	usageService service.UsageService,
	subscriptionService service.SubscriptionService,
	authRepo repository.AuthRepository,
	logger *logger.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService:     analysisService,
		usageService:        usageService,
		subscriptionService: subscriptionService,
		authRepo:            authRepo,
		logger:              logger,
	}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/analyze", h.Analyze)
	g.POST("/financial-evaluation", h.FinancialEvaluation)
	g.POST("/news-analysis", h.NewsAnalysis)
}

// gate resolves the caller and checks the daily quota. The returned userID is
// empty for anonymous callers, who are always denied.
func (h *AnalysisHandler) gate(c echo.Context, usageType entity.UsageType) (string, error) {
	ctx := c.Request().Context()

	userID := ""
	if token := bearerToken(c); token != "" {
		resolved, err := h.authRepo.VerifyIDToken(ctx, token)
		if err != nil {
			return "", fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
		}
		userID = resolved
	}

	isPremium := h.subscriptionService.IsPremium(ctx, userID)
	allowed, err := h.usageService.CanUse(ctx, userID, isPremium)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("%w: daily usage limit reached", service.ErrUsageLimit)
	}

	if !isPremium {
		if err := h.usageService.IncrementUsage(ctx, userID, usageType); err != nil {
			h.logger.Warn("Failed to record usage", logger.ErrorField(err), logger.StringField("user_id", userID))
		}
	}
	return userID, nil
}

// Analyze godoc
// @Summary Analyze a stock
// @Description Produce AI investment commentary for previously fetched search data
// @Tags analysis
// @Accept  json
// @Produce  json
// @Param   request  body    dto.AnalyzeRequest   true    "Company and quote data"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /analyze [post]
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	if _, err := h.gate(c, entity.UsageTypeAnalysis); err != nil {
		return errorJSON(c, err)
	}

	var req dto.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.analysisService.AnalyzeStock(c.Request().Context(), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// FinancialEvaluation godoc
// @Summary Evaluate financial health
// @Description Score profitability, stability and growth on a 1..5 scale
// @Tags analysis
// @Accept  json
// @Produce  json
// @Param   request  body    dto.FinancialEvaluationRequest   true    "Symbol and financials"
// @Success 200 {object} dto.FinancialEvaluationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /financial-evaluation [post]
func (h *AnalysisHandler) FinancialEvaluation(c echo.Context) error {
	if _, err := h.gate(c, entity.UsageTypeFinancial); err != nil {
		return errorJSON(c, err)
	}

	var req dto.FinancialEvaluationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.analysisService.EvaluateFinancials(c.Request().Context(), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// NewsAnalysis godoc
// @Summary Analyze news flow
// @Description Aggregate recent news for a symbol and score the expected price impact
// @Tags analysis
// @Accept  json
// @Produce  json
// @Param   request  body    dto.NewsAnalysisRequest   true    "Symbol and company name"
// @Success 200 {object} dto.NewsAnalysisResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /news-analysis [post]
func (h *AnalysisHandler) NewsAnalysis(c echo.Context) error {
	if _, err := h.gate(c, entity.UsageTypeNews); err != nil {
		return errorJSON(c, err)
	}

	var req dto.NewsAnalysisRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.analysisService.AnalyzeNews(c.Request().Context(), &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
