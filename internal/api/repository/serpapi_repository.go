package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock-research-api/internal/api/config"
	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/logger"

	"golang.org/x/time/rate"
)

type serpAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewSerpAPIRepository creates a SERPAPI client.
func NewSerpAPIRepository(cfg *config.Config, log *logger.Logger) SerpAPIRepository {
	maxPerMinute := cfg.SerpAPI.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &serpAPIRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// baseURL normalizes the configured endpoint so that get() can always append
// /search.json itself. Older configs carried the full search path.
func (r *serpAPIRepository) baseURL() string {
	base := r.cfg.SerpAPI.BaseURL
	if base == "" {
		return "https://serpapi.com"
	}
	base = strings.TrimSuffix(base, "/")
	return strings.TrimSuffix(base, "/search.json")
}

// financeTicker appends the exchange suffix Google Finance expects: 4-digit
// numeric codes are treated as Tokyo listings, everything else defaults to
// NASDAQ. Queries that already carry a colon pass through untouched.
func financeTicker(query string) string {
	if strings.Contains(query, ":") {
		return query
	}
	if len(query) == 4 && isAllDigits(query) {
		return query + ":TYO"
	}
	return query + ":NASDAQ"
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func (r *serpAPIRepository) get(ctx context.Context, params url.Values, out interface{}) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for request limit: %w", err)
	}

	params.Set("api_key", r.cfg.SerpAPI.APIKey)
	reqURL := fmt.Sprintf("%s/search.json?%s", r.baseURL(), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to SERPAPI", logger.ErrorField(err))
		return fmt.Errorf("failed to send request to SERPAPI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from SERPAPI", logger.IntField("status_code", resp.StatusCode))
		return fmt.Errorf("received non-OK response from SERPAPI: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read SERPAPI response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal SERPAPI response: %w", err)
	}
	return nil
}

type serpFinanceResponse struct {
	Summary struct {
		Title          string  `json:"title"`
		Stock          string  `json:"stock"`
		Exchange       string  `json:"exchange"`
		ExtractedPrice float64 `json:"extracted_price"`
		PriceMovement  struct {
			Percentage float64 `json:"percentage"`
			Value      float64 `json:"value"`
			Movement   string  `json:"movement"`
		} `json:"price_movement"`
	} `json:"summary"`
	KnowledgeGraph struct {
		About []struct {
			Description struct {
				Snippet string `json:"snippet"`
				Link    string `json:"link"`
			} `json:"description"`
			Info []struct {
				Label string `json:"label"`
				Value string `json:"value"`
			} `json:"info"`
		} `json:"about"`
	} `json:"knowledge_graph"`
	Graph []struct {
		Price  float64 `json:"price"`
		Date   string  `json:"date"`
		Volume float64 `json:"volume"`
	} `json:"graph"`
	Financials []struct {
		Title   string `json:"title"`
		Results []struct {
			Date  string `json:"date"`
			Table []struct {
				Title     string  `json:"title"`
				Extracted float64 `json:"extracted_value"`
			} `json:"table"`
		} `json:"results"`
	} `json:"financials"`
	NewsResults []struct {
		Items []serpNewsItem `json:"items"`
	} `json:"news_results"`
}

type serpNewsItem struct {
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Date    string `json:"date"`
	Source  string `json:"source"`
}

func (r *serpAPIRepository) getFinance(ctx context.Context, query string) (*serpFinanceResponse, error) {
	params := url.Values{}
	params.Set("engine", "google_finance")
	params.Set("q", financeTicker(query))
	params.Set("hl", "ja")

	var resp serpFinanceResponse
	if err := r.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCompanyInfo resolves company identity through Google Finance.
func (r *serpAPIRepository) GetCompanyInfo(ctx context.Context, query string) (*dto.CompanyInfo, error) {
	resp, err := r.getFinance(ctx, query)
	if err != nil {
		return nil, err
	}
	if resp.Summary.Title == "" {
		return nil, nil
	}

	info := &dto.CompanyInfo{
		Name:          resp.Summary.Title,
		Symbol:        resp.Summary.Stock,
		Market:        resp.Summary.Exchange,
		Price:         resp.Summary.ExtractedPrice,
		Change:        resp.Summary.PriceMovement.Value,
		ChangePercent: resp.Summary.PriceMovement.Percentage,
	}
	if resp.Summary.PriceMovement.Movement == "Down" {
		info.Change = -info.Change
		info.ChangePercent = -info.ChangePercent
	}
	for _, about := range resp.KnowledgeGraph.About {
		if info.Description == "" && about.Description.Snippet != "" {
			info.Description = about.Description.Snippet
			info.Website = about.Description.Link
		}
		for _, kv := range about.Info {
			switch strings.ToLower(kv.Label) {
			case "headquarters":
				info.Headquarters = kv.Value
			case "founded":
				info.Founded = kv.Value
			case "employees":
				if n, err := parseIntString(strings.ReplaceAll(kv.Value, ",", "")); err == nil {
					info.Employees = n
				}
			}
		}
	}
	return info, nil
}

// GetStockData maps the finance summary onto quote data. Fields Google Finance
// does not expose stay at their zero defaults.
func (r *serpAPIRepository) GetStockData(ctx context.Context, query string) (*dto.StockData, error) {
	resp, err := r.getFinance(ctx, query)
	if err != nil {
		return nil, err
	}
	if resp.Summary.ExtractedPrice == 0 {
		return nil, nil
	}

	data := &dto.StockData{
		Symbol:        resp.Summary.Stock,
		Price:         resp.Summary.ExtractedPrice,
		Change:        resp.Summary.PriceMovement.Value,
		ChangePercent: resp.Summary.PriceMovement.Percentage,
	}
	if resp.Summary.PriceMovement.Movement == "Down" {
		data.Change = -data.Change
		data.ChangePercent = -data.ChangePercent
	}
	return data, nil
}

// GetChartData extracts the price series from the finance response.
func (r *serpAPIRepository) GetChartData(ctx context.Context, query string, _ dto.ChartPeriod) ([]dto.ChartDataPoint, error) {
	resp, err := r.getFinance(ctx, query)
	if err != nil {
		return nil, err
	}

	points := make([]dto.ChartDataPoint, 0, len(resp.Graph))
	for _, g := range resp.Graph {
		if g.Price == 0 {
			continue
		}
		points = append(points, dto.ChartDataPoint{
			Date:   g.Date,
			Price:  g.Price,
			Volume: g.Volume,
		})
	}
	return points, nil
}

// GetFinancialData extracts the latest income-statement style figures from the
// finance response's financials tables.
func (r *serpAPIRepository) GetFinancialData(ctx context.Context, query string) (*dto.FinancialData, error) {
	resp, err := r.getFinance(ctx, query)
	if err != nil {
		return nil, err
	}

	data := &dto.FinancialData{}
	found := false
	for _, section := range resp.Financials {
		if len(section.Results) == 0 {
			continue
		}
		latest := section.Results[0]
		if data.Period == "" {
			data.Period = latest.Date
		}
		for _, row := range latest.Table {
			switch strings.ToLower(row.Title) {
			case "revenue":
				data.Revenue = floatPtr(row.Extracted)
				found = true
			case "net income":
				data.NetIncome = floatPtr(row.Extracted)
				found = true
			case "operating income":
				data.OperatingIncome = floatPtr(row.Extracted)
				found = true
			case "total assets":
				data.TotalAssets = floatPtr(row.Extracted)
				found = true
			case "cash and short-term investments", "cash":
				data.Cash = floatPtr(row.Extracted)
				found = true
			case "eps", "earnings per share":
				data.EPS = floatPtr(row.Extracted)
				found = true
			}
		}
	}
	if !found {
		return nil, nil
	}
	return data, nil
}

// GetFinanceNews returns the news items attached to the Google Finance page.
func (r *serpAPIRepository) GetFinanceNews(ctx context.Context, query string) ([]dto.NewsItem, error) {
	resp, err := r.getFinance(ctx, query)
	if err != nil {
		return nil, err
	}

	var items []dto.NewsItem
	for _, group := range resp.NewsResults {
		for _, n := range group.Items {
			if n.Link == "" {
				continue
			}
			items = append(items, dto.NewsItem{
				Snippet: n.Snippet,
				Source:  n.Source,
				Date:    n.Date,
				Link:    n.Link,
			})
		}
	}
	return items, nil
}

type serpGoogleNewsResponse struct {
	NewsResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
		Source  struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"news_results"`
}

// SearchNews runs a Google News engine search, the fallback when the finance
// page carries no news.
func (r *serpAPIRepository) SearchNews(ctx context.Context, query string) ([]dto.NewsItem, error) {
	params := url.Values{}
	params.Set("engine", "google_news")
	params.Set("q", query)
	params.Set("hl", "ja")
	params.Set("gl", "jp")

	var resp serpGoogleNewsResponse
	if err := r.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	items := make([]dto.NewsItem, 0, len(resp.NewsResults))
	for _, n := range resp.NewsResults {
		if n.Link == "" {
			continue
		}
		items = append(items, dto.NewsItem{
			Title:   n.Title,
			Snippet: n.Snippet,
			Source:  n.Source.Name,
			Date:    n.Date,
			Link:    n.Link,
		})
	}
	return items, nil
}
