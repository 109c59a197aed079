package repository

import (
	"context"
	"time"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/entity"
)

// AIRepository produces a free-text completion for a prompt. Implementations
// exist for OpenRouter and Gemini; the service layer owns JSON extraction so
// the fallback-to-default decision stays explicit.
type AIRepository interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// FMPRepository wraps the Financial Modeling Prep API. Every method returns
// nil/empty data on upstream failure so callers can fall through to the next
// provider.
type FMPRepository interface {
	Search(ctx context.Context, query string, limit int) ([]dto.Suggestion, error)
	GetProfile(ctx context.Context, symbol string) (*dto.CompanyInfo, error)
	GetQuote(ctx context.Context, symbol string) (*dto.StockData, error)
	GetFinancials(ctx context.Context, symbol string) (*dto.FinancialData, error)
	GetDividendYield(ctx context.Context, symbol string) (float64, error)
	GetSymbolNews(ctx context.Context, symbol string, limit int) ([]dto.NewsItem, error)
	GetChart(ctx context.Context, symbol string, period dto.ChartPeriod) ([]dto.ChartDataPoint, error)
}

// SerpAPIRepository wraps SERPAPI's Google Finance / Google News engines.
type SerpAPIRepository interface {
	GetCompanyInfo(ctx context.Context, query string) (*dto.CompanyInfo, error)
	GetStockData(ctx context.Context, query string) (*dto.StockData, error)
	GetChartData(ctx context.Context, query string, period dto.ChartPeriod) ([]dto.ChartDataPoint, error)
	GetFinancialData(ctx context.Context, query string) (*dto.FinancialData, error)
	GetFinanceNews(ctx context.Context, query string) ([]dto.NewsItem, error)
	SearchNews(ctx context.Context, query string) ([]dto.NewsItem, error)
}

// NewsAPIRepository wraps NewsAPI.org's everything endpoint.
type NewsAPIRepository interface {
	SearchNews(ctx context.Context, query string, from time.Time, limit int) ([]dto.NewsItem, error)
	Enabled() bool
}

// RSSRepository fetches and parses RSS feeds (Google News and similar).
type RSSRepository interface {
	GetNews(ctx context.Context, query string) ([]dto.NewsItem, error)
	GetFeedItems(ctx context.Context, feedURL string) ([]dto.NewsItem, error)
}

// RankingRepository scrapes the third-party top-trading-value ranking page.
type RankingRepository interface {
	GetTopTradingValue(ctx context.Context) ([]dto.RankingItem, error)
}

// ArticleRepository fetches an article page and extracts its readable body.
type ArticleRepository interface {
	GetContent(ctx context.Context, url string) (string, error)
}

// AuthRepository verifies a client ID token and resolves the user ID.
type AuthRepository interface {
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}

// CheckoutRepository creates hosted checkout sessions with the payment provider.
type CheckoutRepository interface {
	CreateCheckout(ctx context.Context, userID, planType string) (string, error)
}

// SubscriptionRepository persists subscription rows.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.Subscription, error)
	Upsert(ctx context.Context, sub *entity.Subscription) error
}

// UsageRepository persists per-user per-day usage counters.
type UsageRepository interface {
	Get(ctx context.Context, userID, date string) (*entity.UsageRecord, error)
	Save(ctx context.Context, record *entity.UsageRecord) error
}

// WebhookEventRepository records received webhook events for auditing.
type WebhookEventRepository interface {
	Create(ctx context.Context, event *entity.WebhookEvent) error
}
