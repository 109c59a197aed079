package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheckoutService struct {
	resp *dto.CheckoutResponse
	err  error
}

func (f *fakeCheckoutService) CreateCheckout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	return f.resp, f.err
}

type fakeSubscriptionService struct {
	applied []*dto.WebhookPayload
	checked []string
}

func (f *fakeSubscriptionService) Check(ctx context.Context, idToken string) (*dto.SubscriptionCheckResponse, error) {
	f.checked = append(f.checked, idToken)
	return &dto.SubscriptionCheckResponse{IsPremium: true}, nil
}

func (f *fakeSubscriptionService) Update(ctx context.Context, req *dto.SubscriptionUpdateRequest) (*dto.SubscriptionUpdateResponse, error) {
	return &dto.SubscriptionUpdateResponse{Success: true}, nil
}

func (f *fakeSubscriptionService) ApplyWebhookEvent(ctx context.Context, payload *dto.WebhookPayload) error {
	f.applied = append(f.applied, payload)
	return nil
}

func (f *fakeSubscriptionService) IsPremium(ctx context.Context, userID string) bool {
	return false
}

const webhookSecret = "test-secret"

func signBody(body string) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(body, signature string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/lemon-squeezy/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestWebhookAcceptsValidSignature(t *testing.T) {
	subs := &fakeSubscriptionService{}
	handler := NewBillingHandler(&fakeCheckoutService{}, subs, webhookSecret, logger.NewNop())

	body := `{"meta": {"event_name": "subscription_created", "custom_data": {"user_id": "user-1"}}, "data": {"attributes": {"status": "active"}}}`
	rec, c := newWebhookRequest(body, signBody(body))

	require.NoError(t, handler.Webhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, subs.applied, 1)
	assert.Equal(t, "subscription_created", subs.applied[0].Meta.EventName)
	assert.Equal(t, "user-1", subs.applied[0].Meta.CustomData.UserID)
	assert.JSONEq(t, body, string(subs.applied[0].Raw))
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	subs := &fakeSubscriptionService{}
	handler := NewBillingHandler(&fakeCheckoutService{}, subs, webhookSecret, logger.NewNop())

	body := `{"meta": {"event_name": "subscription_created"}}`
	rec, c := newWebhookRequest(body, signBody(body+"tampered"))

	require.NoError(t, handler.Webhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, subs.applied)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	subs := &fakeSubscriptionService{}
	handler := NewBillingHandler(&fakeCheckoutService{}, subs, webhookSecret, logger.NewNop())

	rec, c := newWebhookRequest(`{}`, "")

	require.NoError(t, handler.Webhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsWhenSecretUnconfigured(t *testing.T) {
	subs := &fakeSubscriptionService{}
	handler := NewBillingHandler(&fakeCheckoutService{}, subs, "", logger.NewNop())

	body := `{}`
	rec, c := newWebhookRequest(body, signBody(body))

	require.NoError(t, handler.Webhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutReturnsURL(t *testing.T) {
	handler := NewBillingHandler(
		&fakeCheckoutService{resp: &dto.CheckoutResponse{CheckoutURL: "https://checkout.example.com/x"}},
		&fakeSubscriptionService{},
		webhookSecret,
		logger.NewNop(),
	)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/lemon-squeezy/checkout", strings.NewReader(`{"planType": "monthly"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.Checkout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://checkout.example.com/x")
}
