package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stock-research-api/internal/api/config"
	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/logger"

	"golang.org/x/time/rate"
)

// financeKeywords are conjoined with the company query so NewsAPI results stay
// on-topic for Japanese equities.
const financeKeywords = "決算 OR 業績 OR 株価 OR ニュース"

type newsAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewNewsAPIRepository creates a NewsAPI.org client.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsAPIRepository {
	maxPerMinute := cfg.NewsAPI.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &newsAPIRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *newsAPIRepository) baseURL() string {
	if r.cfg.NewsAPI.BaseURL != "" {
		return r.cfg.NewsAPI.BaseURL
	}
	return "https://newsapi.org/v2"
}

// Enabled reports whether an API key is configured. The aggregator skips this
// provider entirely when it is not.
func (r *newsAPIRepository) Enabled() bool {
	return r.cfg.NewsAPI.APIKey != ""
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// SearchNews queries the everything endpoint for finance news about the query.
func (r *newsAPIRepository) SearchNews(ctx context.Context, query string, from time.Time, limit int) ([]dto.NewsItem, error) {
	if !r.Enabled() {
		return nil, nil
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s AND (%s)", query, financeKeywords))
	params.Set("from", from.Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", limit))
	params.Set("apiKey", r.cfg.NewsAPI.APIKey)

	reqURL := fmt.Sprintf("%s/everything?%s", r.baseURL(), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to NewsAPI", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to NewsAPI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from NewsAPI", logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK response from NewsAPI: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read NewsAPI response body: %w", err)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal NewsAPI response: %w", err)
	}

	items := make([]dto.NewsItem, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.URL == "" {
			continue
		}
		items = append(items, dto.NewsItem{
			Title:       a.Title,
			Snippet:     a.Description,
			Source:      a.Source.Name,
			Date:        a.PublishedAt.Format("2006-01-02 15:04"),
			Link:        a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}
