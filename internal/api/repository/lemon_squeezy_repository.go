package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-research-api/internal/api/config"
	"stock-research-api/pkg/logger"

	"github.com/google/uuid"
)

// lemonSqueezyRepository creates hosted checkout sessions.
type lemonSqueezyRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

// NewLemonSqueezyRepository creates the checkout client.
func NewLemonSqueezyRepository(cfg *config.Config, log *logger.Logger) CheckoutRepository {
	return &lemonSqueezyRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateCheckout creates a checkout for the given plan and returns its hosted
// URL. The user ID travels in custom data so the webhook can attribute the
// purchase.
func (r *lemonSqueezyRepository) CreateCheckout(ctx context.Context, userID, planType string) (string, error) {
	if r.cfg.LemonSqueezy.APIKey == "" || r.cfg.LemonSqueezy.StoreID == "" {
		return "", fmt.Errorf("lemon squeezy is not configured")
	}

	variantID := r.cfg.LemonSqueezy.VariantIDMonthly
	if planType == "yearly" {
		variantID = r.cfg.LemonSqueezy.VariantIDYearly
	}
	if variantID == "" {
		return "", fmt.Errorf("no variant configured for plan type %q", planType)
	}

	customData := map[string]string{
		"reference": uuid.NewString(),
	}
	if userID != "" {
		customData["user_id"] = userID
	}

	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "checkouts",
			"attributes": map[string]interface{}{
				"checkout_data": map[string]interface{}{
					"custom": customData,
				},
				"product_options": map[string]interface{}{
					"redirect_url": r.cfg.LemonSqueezy.AppURL,
				},
			},
			"relationships": map[string]interface{}{
				"store": map[string]interface{}{
					"data": map[string]string{"type": "stores", "id": r.cfg.LemonSqueezy.StoreID},
				},
				"variant": map[string]interface{}{
					"data": map[string]string{"type": "variants", "id": variantID},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.lemonsqueezy.com/v1/checkouts", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create checkout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.LemonSqueezy.APIKey)
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to create checkout", logger.ErrorField(err))
		return "", fmt.Errorf("failed to create checkout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Lemon Squeezy", logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("received non-OK response from Lemon Squeezy: %d", resp.StatusCode)
	}

	var created struct {
		Data struct {
			Attributes struct {
				URL string `json:"url"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}
	if created.Data.Attributes.URL == "" {
		return "", fmt.Errorf("checkout response carried no URL")
	}
	return created.Data.Attributes.URL, nil
}
