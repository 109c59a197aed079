package config

import (
	"stock-research-api/pkg/config"
)

// FMP holds the configuration for the Financial Modeling Prep API.
type FMP struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// SerpAPI holds the configuration for the SERPAPI service.
type SerpAPI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// NewsAPI holds the configuration for NewsAPI.org.
type NewsAPI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// OpenRouter holds the configuration for the OpenRouter API.
type OpenRouter struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI selects which analysis provider implementation to use.
type AI struct {
	Provider string `mapstructure:"provider"` // "openrouter" or "gemini"
}

// Firebase holds the configuration for ID token verification.
type Firebase struct {
	WebAPIKey string `mapstructure:"web_api_key"`
}

// LemonSqueezy holds the checkout/webhook configuration.
type LemonSqueezy struct {
	APIKey           string `mapstructure:"api_key"`
	StoreID          string `mapstructure:"store_id"`
	VariantIDMonthly string `mapstructure:"variant_id_monthly"`
	VariantIDYearly  string `mapstructure:"variant_id_yearly"`
	WebhookSecret    string `mapstructure:"webhook_secret"`
	AppURL           string `mapstructure:"app_url"`
}

// Telegram holds configuration for the ops notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Ranking holds configuration for the scraped trading-value ranking.
type Ranking struct {
	URL             string `mapstructure:"url"`
	RefreshSchedule string `mapstructure:"refresh_schedule"` // cron expression
}

// Config holds the full configuration for the research API service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	FMP          FMP             `mapstructure:"fmp"`
	SerpAPI      SerpAPI         `mapstructure:"serpapi"`
	NewsAPI      NewsAPI         `mapstructure:"newsapi"`
	OpenRouter   OpenRouter      `mapstructure:"openrouter"`
	Gemini       Gemini          `mapstructure:"gemini"`
	AI           AI              `mapstructure:"ai"`
	Firebase     Firebase        `mapstructure:"firebase"`
	LemonSqueezy LemonSqueezy    `mapstructure:"lemon_squeezy"`
	Telegram     Telegram        `mapstructure:"telegram"`
	Ranking      Ranking         `mapstructure:"ranking"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
