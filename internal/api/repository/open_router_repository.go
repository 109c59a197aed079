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

	"golang.org/x/time/rate"
)

// openRouterRepository is an AIRepository backed by the OpenRouter API.
type openRouterRepository struct {
	client         *http.Client
	cfg            *config.Config
	log            *logger.Logger
	requestLimiter *rate.Limiter
}

// NewOpenRouterRepository creates a new OpenRouter completion client.
func NewOpenRouterRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	maxPerMinute := cfg.OpenRouter.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 20
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &openRouterRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		log:            log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// Complete sends the prompt to OpenRouter and returns the raw reply text.
func (r *openRouterRepository) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	requestBody := map[string]interface{}{
		"model": r.cfg.OpenRouter.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.2,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		r.log.Error("Failed to marshal request body", logger.ErrorField(err))
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://openrouter.ai/api/v1/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		r.log.Error("Failed to create new HTTP request", logger.ErrorField(err))
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.cfg.OpenRouter.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error("Failed to send request to OpenRouter", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Error("Received non-OK response from OpenRouter", logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("received non-OK response from OpenRouter: %d", resp.StatusCode)
	}

	var openRouterResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&openRouterResponse); err != nil {
		r.log.Error("Failed to decode OpenRouter response", logger.ErrorField(err))
		return "", fmt.Errorf("failed to decode OpenRouter response: %w", err)
	}

	if len(openRouterResponse.Choices) == 0 {
		r.log.Warn("Received empty choices from OpenRouter")
		return "", fmt.Errorf("received empty choices from OpenRouter")
	}

	content := openRouterResponse.Choices[0].Message.Content
	r.log.Debug("Received completion from OpenRouter", logger.IntField("content_length", len(content)))
	return content, nil
}
