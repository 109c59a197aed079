package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"stock-research-api/internal/api/config"
	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/logger"

	"golang.org/x/time/rate"
)

type fmpRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewFMPRepository creates a Financial Modeling Prep client.
func NewFMPRepository(cfg *config.Config, log *logger.Logger) FMPRepository {
	maxPerMinute := cfg.FMP.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	return &fmpRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *fmpRepository) baseURL() string {
	if r.cfg.FMP.BaseURL != "" {
		return r.cfg.FMP.BaseURL
	}
	return "https://financialmodelingprep.com/api/v3"
}

func (r *fmpRepository) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for request limit: %w", err)
	}

	params.Set("apikey", r.cfg.FMP.APIKey)
	reqURL := fmt.Sprintf("%s%s?%s", r.baseURL(), path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to FMP", logger.ErrorField(err), logger.StringField("path", path))
		return fmt.Errorf("failed to send request to FMP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from FMP", logger.IntField("status_code", resp.StatusCode), logger.StringField("path", path))
		return fmt.Errorf("received non-OK response from FMP: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read FMP response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal FMP response: %w", err)
	}
	return nil
}

type fmpSearchHit struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	ExchangeShortName string `json:"exchangeShortName"`
}

// Search resolves a query to candidate symbols.
func (r *fmpRepository) Search(ctx context.Context, query string, limit int) ([]dto.Suggestion, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var hits []fmpSearchHit
	if err := r.get(ctx, "/search", params, &hits); err != nil {
		return nil, err
	}

	suggestions := make([]dto.Suggestion, 0, len(hits))
	for _, h := range hits {
		if h.Symbol == "" {
			continue
		}
		suggestions = append(suggestions, dto.Suggestion{
			Symbol:      h.Symbol,
			CompanyName: h.Name,
			Exchange:    h.ExchangeShortName,
			SearchType:  "fmp",
		})
	}
	return suggestions, nil
}

type fmpProfile struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Changes           float64 `json:"changes"`
	CompanyName       string  `json:"companyName"`
	ExchangeShortName string  `json:"exchangeShortName"`
	Website           string  `json:"website"`
	Description       string  `json:"description"`
	FullTimeEmployees string  `json:"fullTimeEmployees"`
	IPODate           string  `json:"ipoDate"`
	City              string  `json:"city"`
	Country           string  `json:"country"`
}

// GetProfile fetches the company profile. The change percentage is computed
// from change/price because the profile endpoint does not carry it.
func (r *fmpRepository) GetProfile(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	var profiles []fmpProfile
	if err := r.get(ctx, "/profile/"+url.PathEscape(symbol), url.Values{}, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	p := profiles[0]
	info := &dto.CompanyInfo{
		Name:        p.CompanyName,
		Symbol:      p.Symbol,
		Market:      p.ExchangeShortName,
		Price:       p.Price,
		Change:      p.Changes,
		Description: p.Description,
		Website:     p.Website,
		Founded:     p.IPODate,
	}
	if p.Price != 0 {
		info.ChangePercent = p.Changes / p.Price * 100
	}
	if p.City != "" || p.Country != "" {
		info.Headquarters = joinNonEmpty(p.City, p.Country)
	}
	if employees, err := parseIntString(p.FullTimeEmployees); err == nil {
		info.Employees = employees
	}
	return info, nil
}

type fmpQuote struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	Change            float64 `json:"change"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Volume            float64 `json:"volume"`
	MarketCap         float64 `json:"marketCap"`
	PE                float64 `json:"pe"`
	EPS               float64 `json:"eps"`
	YearHigh          float64 `json:"yearHigh"`
	YearLow           float64 `json:"yearLow"`
}

// GetQuote fetches the real-time quote for a symbol.
func (r *fmpRepository) GetQuote(ctx context.Context, symbol string) (*dto.StockData, error) {
	var quotes []fmpQuote
	if err := r.get(ctx, "/quote/"+url.PathEscape(symbol), url.Values{}, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, nil
	}

	q := quotes[0]
	return &dto.StockData{
		Symbol:        q.Symbol,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangesPercentage,
		Volume:        q.Volume,
		MarketCap:     q.MarketCap,
		PE:            q.PE,
		EPS:           q.EPS,
		High52:        q.YearHigh,
		Low52:         q.YearLow,
	}, nil
}

type fmpIncomeStatement struct {
	Date            string  `json:"date"`
	Period          string  `json:"period"`
	Revenue         float64 `json:"revenue"`
	NetIncome       float64 `json:"netIncome"`
	OperatingIncome float64 `json:"operatingIncome"`
	EPS             float64 `json:"eps"`
}

// GetFinancials fetches the most recent income statement.
func (r *fmpRepository) GetFinancials(ctx context.Context, symbol string) (*dto.FinancialData, error) {
	params := url.Values{}
	params.Set("limit", "1")

	var statements []fmpIncomeStatement
	if err := r.get(ctx, "/income-statement/"+url.PathEscape(symbol), params, &statements); err != nil {
		return nil, err
	}
	if len(statements) == 0 {
		return nil, nil
	}

	s := statements[0]
	data := &dto.FinancialData{Period: s.Period}
	if s.Period != "" && s.Date != "" {
		data.Period = fmt.Sprintf("%s %s", s.Period, s.Date)
	}
	data.Revenue = floatPtr(s.Revenue)
	data.NetIncome = floatPtr(s.NetIncome)
	data.OperatingIncome = floatPtr(s.OperatingIncome)
	data.EPS = floatPtr(s.EPS)
	return data, nil
}

type fmpKeyMetrics struct {
	DividendYieldTTM float64 `json:"dividendYieldTTM"`
}

// GetDividendYield fetches the trailing dividend yield used to back-fill quotes.
func (r *fmpRepository) GetDividendYield(ctx context.Context, symbol string) (float64, error) {
	var metrics []fmpKeyMetrics
	if err := r.get(ctx, "/key-metrics-ttm/"+url.PathEscape(symbol), url.Values{}, &metrics); err != nil {
		return 0, err
	}
	if len(metrics) == 0 {
		return 0, nil
	}
	return metrics[0].DividendYieldTTM * 100, nil
}

type fmpNewsItem struct {
	Title         string `json:"title"`
	Text          string `json:"text"`
	Site          string `json:"site"`
	PublishedDate string `json:"publishedDate"`
	URL           string `json:"url"`
}

// GetSymbolNews fetches provider-curated news for a symbol.
func (r *fmpRepository) GetSymbolNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error) {
	params := url.Values{}
	params.Set("tickers", symbol)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var raw []fmpNewsItem
	if err := r.get(ctx, "/stock_news", params, &raw); err != nil {
		return nil, err
	}

	items := make([]dto.NewsItem, 0, len(raw))
	for _, n := range raw {
		if n.URL == "" {
			continue
		}
		item := dto.NewsItem{
			Title:   n.Title,
			Snippet: n.Text,
			Source:  n.Site,
			Date:    n.PublishedDate,
			Link:    n.URL,
		}
		if ts, err := time.Parse("2006-01-02 15:04:05", n.PublishedDate); err == nil {
			item.PublishedAt = ts
		}
		items = append(items, item)
	}
	return items, nil
}

type fmpHistorical struct {
	Historical []struct {
		Date   string  `json:"date"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"historical"`
}

var chartPeriodDays = map[dto.ChartPeriod]int{
	dto.ChartPeriod1D:  1,
	dto.ChartPeriod5D:  5,
	dto.ChartPeriod1M:  22,
	dto.ChartPeriod6M:  130,
	dto.ChartPeriodYTD: 260,
	dto.ChartPeriod1Y:  260,
	dto.ChartPeriod5Y:  1300,
	dto.ChartPeriodMax: 5000,
}

// GetChart fetches daily closes for the requested period, oldest first.
func (r *fmpRepository) GetChart(ctx context.Context, symbol string, period dto.ChartPeriod) ([]dto.ChartDataPoint, error) {
	days, ok := chartPeriodDays[period]
	if !ok {
		days = chartPeriodDays[dto.ChartPeriod1M]
	}

	params := url.Values{}
	params.Set("timeseries", fmt.Sprintf("%d", days))

	var historical fmpHistorical
	if err := r.get(ctx, "/historical-price-full/"+url.PathEscape(symbol), params, &historical); err != nil {
		return nil, err
	}

	points := make([]dto.ChartDataPoint, 0, len(historical.Historical))
	for _, h := range historical.Historical {
		points = append(points, dto.ChartDataPoint{
			Date:   h.Date,
			Price:  h.Close,
			Volume: h.Volume,
		})
	}
	// FMP returns newest first; the chart contract is chronological ascending.
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

func parseIntString(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

func floatPtr(f float64) *float64 {
	return &f
}
