package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/service"
	"stock-research-api/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BillingHandler handles the payment provider endpoints: hosted checkout
// creation and the signed webhook.
type BillingHandler struct {
	checkoutService     service.CheckoutService
	subscriptionService service.SubscriptionService
	webhookSecret       string
	logger              *logger.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(
	checkoutService service.CheckoutService,
	subscriptionService service.SubscriptionService,
	webhookSecret string,
	logger *logger.Logger,
) *BillingHandler {
	return &BillingHandler{
		checkoutService:     checkoutService,
		subscriptionService: subscriptionService,
		webhookSecret:       webhookSecret,
		logger:              logger,
	}
}

// RegisterRoutes registers the billing routes to the Echo group.
func (h *BillingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/lemon-squeezy/checkout", h.Checkout)
	g.POST("/lemon-squeezy/webhook", h.Webhook)
}

// Checkout godoc
// @Summary Create a checkout session
// @Description Create a hosted checkout URL for the monthly or yearly plan
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   request  body    dto.CheckoutRequest   true    "Plan selection"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /lemon-squeezy/checkout [post]
func (h *BillingHandler) Checkout(c echo.Context) error {
	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.checkoutService.CreateCheckout(c.Request().Context(), &req)
	if err != nil {
		h.logger.Error("Checkout creation failed", logger.ErrorField(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Webhook godoc
// @Summary Receive a payment provider webhook
// @Description Verify the X-Signature HMAC and apply the subscription event
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   X-Signature  header  string true  "Hex HMAC-SHA256 of the raw body"
// @Success 200 {object} dto.WebhookAck
// @Failure 401 {object} dto.ErrorResponse
// @Router /lemon-squeezy/webhook [post]
func (h *BillingHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Failed to read request body"})
	}

	if !h.verifySignature(body, c.Request().Header.Get("X-Signature")) {
		h.logger.Warn("Webhook signature verification failed")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid signature"})
	}

	var payload dto.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid webhook payload"})
	}
	payload.Raw = body

	if err := h.subscriptionService.ApplyWebhookEvent(c.Request().Context(), &payload); err != nil {
		h.logger.Error("Failed to apply webhook event", logger.ErrorField(err), logger.StringField("event", payload.Meta.EventName))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to process event"})
	}

	return c.JSON(http.StatusOK, dto.WebhookAck{Received: true})
}

// verifySignature compares the hex HMAC-SHA256 of the raw body against the
// provided header value in constant time.
func (h *BillingHandler) verifySignature(body []byte, signature string) bool {
	if h.webhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
