package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-research-api/internal/api/config"
	delivery "stock-research-api/internal/api/delivery/http"
	"stock-research-api/internal/api/delivery/http/middleware"
	_ "stock-research-api/internal/api/docs"
	"stock-research-api/internal/api/repository"
	"stock-research-api/internal/api/service"
	"stock-research-api/pkg/common"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/postgres"
	"stock-research-api/pkg/ratelimit"
	"stock-research-api/pkg/redis"
	"stock-research-api/pkg/telegram"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	echoSwagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stock research API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Stock Research API", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize provider repositories
	fmpRepo := repository.NewFMPRepository(cfg, appLogger)
	serpRepo := repository.NewSerpAPIRepository(cfg, appLogger)
	newsAPIRepo := repository.NewNewsAPIRepository(cfg, appLogger)
	rssRepo := repository.NewGoogleRSSRepository(appLogger)
	rankingRepo := repository.NewKabutanRepository(cfg, appLogger)
	articleRepo := repository.NewArticleRepository(appLogger)
	authRepo := repository.NewFirebaseAuthRepository(cfg, appLogger)
	checkoutRepo := repository.NewLemonSqueezyRepository(cfg, appLogger)

	aiRepo := newAIRepository(cfg, appLogger)

	// Initialize persistence repositories
	subscriptionRepo := repository.NewSubscriptionRepository(db.DB)
	usageRepo := repository.NewUsageRepository(db.DB)
	webhookEventRepo := repository.NewWebhookEventRepository(db.DB)

	// Initialize the optional ops notifier
	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize services
	newsSvc := service.NewNewsService(newsAPIRepo, fmpRepo, rssRepo, redisClient.Client, appLogger)
	searchSvc := service.NewSearchService(cfg, fmpRepo, serpRepo, newsSvc, appLogger)
	analysisSvc := service.NewAnalysisService(aiRepo, newsSvc, articleRepo, appLogger)
	usageSvc := service.NewUsageService(usageRepo, appLogger)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, webhookEventRepo, authRepo, notifier, appLogger)
	checkoutSvc := service.NewCheckoutService(checkoutRepo, authRepo, appLogger)
	rankingSvc := service.NewRankingService(rankingRepo, appLogger)
	todayPicksSvc := service.NewTodayPicksService(rssRepo, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())

	clientLimiter := ratelimit.NewWindowLimiter(common.ClientRateLimit, common.ClientRateWindow)

	api := e.Group("/api", middleware.RateLimit(clientLimiter))

	delivery.NewSearchHandler(searchSvc, appLogger).RegisterRoutes(api)
	delivery.NewAnalysisHandler(analysisSvc, usageSvc, subscriptionSvc, authRepo, appLogger).RegisterRoutes(api)
	delivery.NewMarketHandler(rankingSvc, todayPicksSvc, appLogger).RegisterRoutes(api)
	delivery.NewSubscriptionHandler(subscriptionSvc, appLogger).RegisterRoutes(api)
	delivery.NewBillingHandler(checkoutSvc, subscriptionSvc, cfg.LemonSqueezy.WebhookSecret, appLogger).RegisterRoutes(api)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Background refreshes keep the scraped caches warm and the limiter map small
	scheduler := cron.New()
	refreshSchedule := cfg.Ranking.RefreshSchedule
	if refreshSchedule == "" {
		refreshSchedule = "*/5 * * * *"
	}
	if _, err := scheduler.AddFunc(refreshSchedule, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		rankingSvc.GetTopTradingValue(refreshCtx)
		todayPicksSvc.GetTodayPicks(refreshCtx)
	}); err != nil {
		appLogger.Warn("Failed to schedule cache refresh", logger.ErrorField(err))
	}
	if _, err := scheduler.AddFunc("@every 15m", clientLimiter.Cleanup); err != nil {
		appLogger.Warn("Failed to schedule limiter cleanup", logger.ErrorField(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// newAIRepository selects the completion provider from configuration.
func newAIRepository(cfg *config.Config, appLogger *logger.Logger) repository.AIRepository {
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		repo, err := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
		}
		return repo
	default:
		return repository.NewOpenRouterRepository(cfg, appLogger)
	}
}

// @title Stock Research API
// @version 1.0
// @description Backend for the stock research web client: company search, news aggregation, AI analysis and subscriptions.
// @BasePath /api
func main() {
	rootCmd := &cobra.Command{Use: "api"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api CLI: %s\n", err)
		os.Exit(1)
	}
}
