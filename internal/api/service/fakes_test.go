package service

import (
	"context"
	"errors"
	"time"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/entity"
)

// fakeFMPRepository stubs the FMP provider. Unset function fields behave like
// a dead provider.
type fakeFMPRepository struct {
	search           func(ctx context.Context, query string, limit int) ([]dto.Suggestion, error)
	getProfile       func(ctx context.Context, symbol string) (*dto.CompanyInfo, error)
	getQuote         func(ctx context.Context, symbol string) (*dto.StockData, error)
	getFinancials    func(ctx context.Context, symbol string) (*dto.FinancialData, error)
	getDividendYield func(ctx context.Context, symbol string) (float64, error)
	getSymbolNews    func(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error)
	getChart         func(ctx context.Context, symbol string, period dto.ChartPeriod) ([]dto.ChartDataPoint, error)
}

var errProviderDown = errors.New("provider down")

func (f *fakeFMPRepository) Search(ctx context.Context, query string, limit int) ([]dto.Suggestion, error) {
	if f.search == nil {
		return nil, errProviderDown
	}
	return f.search(ctx, query, limit)
}

func (f *fakeFMPRepository) GetProfile(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	if f.getProfile == nil {
		return nil, errProviderDown
	}
	return f.getProfile(ctx, symbol)
}

func (f *fakeFMPRepository) GetQuote(ctx context.Context, symbol string) (*dto.StockData, error) {
	if f.getQuote == nil {
		return nil, errProviderDown
	}
	return f.getQuote(ctx, symbol)
}

func (f *fakeFMPRepository) GetFinancials(ctx context.Context, symbol string) (*dto.FinancialData, error) {
	if f.getFinancials == nil {
		return nil, errProviderDown
	}
	return f.getFinancials(ctx, symbol)
}

func (f *fakeFMPRepository) GetDividendYield(ctx context.Context, symbol string) (float64, error) {
	if f.getDividendYield == nil {
		return 0, errProviderDown
	}
	return f.getDividendYield(ctx, symbol)
}

func (f *fakeFMPRepository) GetSymbolNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error) {
	if f.getSymbolNews == nil {
		return nil, errProviderDown
	}
	return f.getSymbolNews(ctx, symbol, limit)
}

func (f *fakeFMPRepository) GetChart(ctx context.Context, symbol string, period dto.ChartPeriod) ([]dto.ChartDataPoint, error) {
	if f.getChart == nil {
		return nil, errProviderDown
	}
	return f.getChart(ctx, symbol, period)
}

// fakeSerpAPIRepository stubs the SERPAPI provider.
type fakeSerpAPIRepository struct {
	getCompanyInfo   func(ctx context.Context, query string) (*dto.CompanyInfo, error)
	getStockData     func(ctx context.Context, query string) (*dto.StockData, error)
	getChartData     func(ctx context.Context, query string, period dto.ChartPeriod) ([]dto.ChartDataPoint, error)
	getFinancialData func(ctx context.Context, query string) (*dto.FinancialData, error)
	getFinanceNews   func(ctx context.Context, query string) ([]dto.NewsItem, error)
	searchNews       func(ctx context.Context, query string) ([]dto.NewsItem, error)
}

func (f *fakeSerpAPIRepository) GetCompanyInfo(ctx context.Context, query string) (*dto.CompanyInfo, error) {
	if f.getCompanyInfo == nil {
		return nil, errProviderDown
	}
	return f.getCompanyInfo(ctx, query)
}

func (f *fakeSerpAPIRepository) GetStockData(ctx context.Context, query string) (*dto.StockData, error) {
	if f.getStockData == nil {
		return nil, errProviderDown
	}
	return f.getStockData(ctx, query)
}

func (f *fakeSerpAPIRepository) GetChartData(ctx context.Context, query string, period dto.ChartPeriod) ([]dto.ChartDataPoint, error) {
	if f.getChartData == nil {
		return nil, errProviderDown
	}
	return f.getChartData(ctx, query, period)
}

func (f *fakeSerpAPIRepository) GetFinancialData(ctx context.Context, query string) (*dto.FinancialData, error) {
	if f.getFinancialData == nil {
		return nil, errProviderDown
	}
	return f.getFinancialData(ctx, query)
}

func (f *fakeSerpAPIRepository) GetFinanceNews(ctx context.Context, query string) ([]dto.NewsItem, error) {
	if f.getFinanceNews == nil {
		return nil, errProviderDown
	}
	return f.getFinanceNews(ctx, query)
}

func (f *fakeSerpAPIRepository) SearchNews(ctx context.Context, query string) ([]dto.NewsItem, error) {
	if f.searchNews == nil {
		return nil, errProviderDown
	}
	return f.searchNews(ctx, query)
}

// fakeNewsAPIRepository stubs NewsAPI.org.
type fakeNewsAPIRepository struct {
	enabled    bool
	searchNews func(ctx context.Context, query string, from time.Time, limit int) ([]dto.NewsItem, error)
}

func (f *fakeNewsAPIRepository) Enabled() bool { return f.enabled }

func (f *fakeNewsAPIRepository) SearchNews(ctx context.Context, query string, from time.Time, limit int) ([]dto.NewsItem, error) {
	if f.searchNews == nil {
		return nil, errProviderDown
	}
	return f.searchNews(ctx, query, from, limit)
}

// fakeRSSRepository stubs the RSS fallback.
type fakeRSSRepository struct {
	getNews      func(ctx context.Context, query string) ([]dto.NewsItem, error)
	getFeedItems func(ctx context.Context, feedURL string) ([]dto.NewsItem, error)
}

func (f *fakeRSSRepository) GetNews(ctx context.Context, query string) ([]dto.NewsItem, error) {
	if f.getNews == nil {
		return nil, errProviderDown
	}
	return f.getNews(ctx, query)
}

func (f *fakeRSSRepository) GetFeedItems(ctx context.Context, feedURL string) ([]dto.NewsItem, error) {
	if f.getFeedItems == nil {
		return nil, errProviderDown
	}
	return f.getFeedItems(ctx, feedURL)
}

// fakeNewsService stubs the aggregation service for search/analysis tests.
type fakeNewsService struct {
	items []dto.NewsItem
	err   error
}

func (f *fakeNewsService) GetComprehensiveNews(ctx context.Context, query, symbol string, limit int) ([]dto.NewsItem, error) {
	return f.items, f.err
}

// fakeAIRepository stubs the completion provider.
type fakeAIRepository struct {
	reply string
	err   error
}

func (f *fakeAIRepository) Complete(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

// fakeArticleRepository stubs the article body fetcher.
type fakeArticleRepository struct {
	content string
	err     error
}

func (f *fakeArticleRepository) GetContent(ctx context.Context, url string) (string, error) {
	return f.content, f.err
}

// fakeAuthRepository resolves every token to a fixed user.
type fakeAuthRepository struct {
	userID string
	err    error
}

func (f *fakeAuthRepository) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	return f.userID, f.err
}

// fakeUsageRepository keeps usage rows in memory, keyed by user and date.
type fakeUsageRepository struct {
	records map[string]*entity.UsageRecord
	err     error
}

func newFakeUsageRepository() *fakeUsageRepository {
	return &fakeUsageRepository{records: make(map[string]*entity.UsageRecord)}
}

func (f *fakeUsageRepository) Get(ctx context.Context, userID, date string) (*entity.UsageRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[userID+"|"+date], nil
}

func (f *fakeUsageRepository) Save(ctx context.Context, record *entity.UsageRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records[record.UserID+"|"+record.Date] = record
	return nil
}

// fakeSubscriptionRepository keeps subscription rows in memory.
type fakeSubscriptionRepository struct {
	subs map[string]*entity.Subscription
	err  error
}

func newFakeSubscriptionRepository() *fakeSubscriptionRepository {
	return &fakeSubscriptionRepository{subs: make(map[string]*entity.Subscription)}
}

func (f *fakeSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs[userID], nil
}

func (f *fakeSubscriptionRepository) Upsert(ctx context.Context, sub *entity.Subscription) error {
	if f.err != nil {
		return f.err
	}
	f.subs[sub.UserID] = sub
	return nil
}

// fakeWebhookEventRepository records created events.
type fakeWebhookEventRepository struct {
	events []*entity.WebhookEvent
}

func (f *fakeWebhookEventRepository) Create(ctx context.Context, event *entity.WebhookEvent) error {
	f.events = append(f.events, event)
	return nil
}
