package http

import (
	"fmt"
	"net/http"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/service"
	"stock-research-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandler handles the subscription check and update endpoints.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              *logger.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, logger: logger}
}

// RegisterRoutes registers the subscription routes to the Echo group.
func (h *SubscriptionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/subscription/check", h.Check)
	g.POST("/subscription/update", h.Update)
}

// Check godoc
// @Summary Check subscription standing
// @Description Verify the caller's token and report premium standing
// @Tags subscription
// @Produce  json
// @Param   idToken        query   string false "ID token"
// @Param   Authorization  header  string false "Bearer ID token"
// @Success 200 {object} dto.SubscriptionCheckResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /subscription/check [get]
func (h *SubscriptionHandler) Check(c echo.Context) error {
	token := c.QueryParam("idToken")
	if token == "" {
		token = bearerToken(c)
	}
	if token == "" {
		return errorJSON(c, fmt.Errorf("%w: missing id token", service.ErrUnauthorized))
	}

	resp, err := h.subscriptionService.Check(c.Request().Context(), token)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update subscription state
// @Description Apply a mobile-side subscription state change after a store purchase
// @Tags subscription
// @Accept  json
// @Produce  json
// @Param   request  body    dto.SubscriptionUpdateRequest   true    "New subscription state"
// @Success 200 {object} dto.SubscriptionUpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /subscription/update [post]
func (h *SubscriptionHandler) Update(c echo.Context) error {
	var req dto.SubscriptionUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if req.IDToken == "" {
		return errorJSON(c, fmt.Errorf("%w: idToken is required", service.ErrUnauthorized))
	}

	resp, err := h.subscriptionService.Update(c.Request().Context(), &req)
	if err != nil {
		h.logger.Error("Subscription update failed", logger.ErrorField(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
