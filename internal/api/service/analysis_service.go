package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"
)

// AnalysisService drives the three AI commentary flows.
type AnalysisService interface {
	AnalyzeStock(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	EvaluateFinancials(ctx context.Context, req *dto.FinancialEvaluationRequest) (*dto.FinancialEvaluationResponse, error)
	AnalyzeNews(ctx context.Context, req *dto.NewsAnalysisRequest) (*dto.NewsAnalysisResponse, error)
}

// NewAnalysisService creates the AI analysis flows on top of the configured
// completion provider.
func NewAnalysisService(
	aiRepo repository.AIRepository,
	newsSvc NewsService,
	articleRepo repository.ArticleRepository,
	log *logger.Logger,
) AnalysisService {
	return &analysisService{
		aiRepo:      aiRepo,
		newsSvc:     newsSvc,
		articleRepo: articleRepo,
		log:         log,
	}
}

type analysisService struct {
	aiRepo      repository.AIRepository
	newsSvc     NewsService
	articleRepo repository.ArticleRepository
	log         *logger.Logger
}

// AnalyzeStock produces investment commentary for the gathered search data.
func (s *analysisService) AnalyzeStock(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	if req.CompanyInfo == nil || req.StockData == nil {
		return nil, fmt.Errorf("%w: companyInfo and stockData are required", ErrValidation)
	}

	prompt := repository.BuildStockAnalysisPrompt(req.CompanyInfo, req.StockData, req.NewsData)
	reply, err := s.aiRepo.Complete(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "Stock analysis completion failed", logger.ErrorField(err))
		return &dto.AnalyzeResponse{
			Analysis:  dto.DefaultAnalysisResult(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	return &dto.AnalyzeResponse{
		Analysis:  parseAnalysisResult(reply),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// EvaluateFinancials produces the financial-health scoring.
func (s *analysisService) EvaluateFinancials(ctx context.Context, req *dto.FinancialEvaluationRequest) (*dto.FinancialEvaluationResponse, error) {
	if req.Symbol == "" || req.CompanyName == "" {
		return nil, fmt.Errorf("%w: symbol and companyName are required", ErrValidation)
	}

	prompt := repository.BuildFinancialEvaluationPrompt(req.Symbol, req.CompanyName, req.FinancialData)
	reply, err := s.aiRepo.Complete(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "Financial evaluation completion failed", logger.ErrorField(err))
		return &dto.FinancialEvaluationResponse{Analysis: dto.DefaultFinancialEvaluationResult()}, nil
	}

	return &dto.FinancialEvaluationResponse{Analysis: parseFinancialEvaluationResult(reply)}, nil
}

// AnalyzeNews aggregates recent news for the symbol, enriches the prompt with
// the bodies of the top articles, and scores the expected price impact.
func (s *analysisService) AnalyzeNews(ctx context.Context, req *dto.NewsAnalysisRequest) (*dto.NewsAnalysisResponse, error) {
	if req.Symbol == "" || req.CompanyName == "" {
		return nil, fmt.Errorf("%w: symbol and companyName are required", ErrValidation)
	}

	news, err := s.newsSvc.GetComprehensiveNews(ctx, req.CompanyName, req.Symbol, 10)
	if err != nil {
		s.log.WarnContext(ctx, "News aggregation failed before analysis", logger.ErrorField(err))
		news = []dto.NewsItem{}
	}

	var articleContents []string
	for i, item := range news {
		if i >= 3 || !utils.ShouldContinue(ctx, s.log) {
			break
		}
		content, err := s.articleRepo.GetContent(ctx, item.Link)
		if err != nil {
			s.log.DebugContext(ctx, "Failed to fetch article body", logger.ErrorField(err), logger.StringField("link", item.Link))
			continue
		}
		articleContents = append(articleContents, content)
	}

	prompt := repository.BuildNewsAnalysisPrompt(req.Symbol, req.CompanyName, news, articleContents)
	reply, err := s.aiRepo.Complete(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "News analysis completion failed", logger.ErrorField(err))
		return &dto.NewsAnalysisResponse{NewsData: news, Analysis: dto.DefaultNewsAnalysisResult()}, nil
	}

	return &dto.NewsAnalysisResponse{NewsData: news, Analysis: parseNewsAnalysisResult(reply)}, nil
}

// parseAnalysisResult applies per-field defaulting so a partially malformed
// model reply still yields a structurally valid result.
func parseAnalysisResult(reply string) *dto.AnalysisResult {
	extracted := repository.ExtractJSONObject(reply)
	if !extracted.OK {
		return dto.DefaultAnalysisResult()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(extracted.JSON, &fields); err != nil {
		return dto.DefaultAnalysisResult()
	}

	defaults := dto.DefaultAnalysisResult()
	result := &dto.AnalysisResult{
		Summary:        stringField(fields, "summary", defaults.Summary),
		Recommendation: enumField(fields, "recommendation", defaults.Recommendation, "buy", "hold", "sell"),
		RiskLevel:      enumField(fields, "riskLevel", defaults.RiskLevel, "low", "medium", "high"),
		Score:          repository.Clamp(floatField(fields, "score", 0), 0, 5),
		Strengths:      sliceField(fields, "strengths"),
		Weaknesses:     sliceField(fields, "weaknesses"),
		Opportunities:  sliceField(fields, "opportunities"),
		Threats:        sliceField(fields, "threats"),
	}
	return result
}

func parseFinancialEvaluationResult(reply string) *dto.FinancialEvaluationResult {
	extracted := repository.ExtractJSONObject(reply)
	if !extracted.OK {
		return dto.DefaultFinancialEvaluationResult()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(extracted.JSON, &fields); err != nil {
		return dto.DefaultFinancialEvaluationResult()
	}

	defaults := dto.DefaultFinancialEvaluationResult()
	return &dto.FinancialEvaluationResult{
		Summary:       stringField(fields, "summary", defaults.Summary),
		Profitability: repository.Clamp(floatField(fields, "profitability", 0), 0, 5),
		Stability:     repository.Clamp(floatField(fields, "stability", 0), 0, 5),
		Growth:        repository.Clamp(floatField(fields, "growth", 0), 0, 5),
		Overall:       repository.Clamp(floatField(fields, "overall", 0), 0, 5),
		Comments:      sliceField(fields, "comments"),
	}
}

func parseNewsAnalysisResult(reply string) *dto.NewsAnalysisResult {
	extracted := repository.ExtractJSONObject(reply)
	if !extracted.OK {
		return dto.DefaultNewsAnalysisResult()
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(extracted.JSON, &fields); err != nil {
		return dto.DefaultNewsAnalysisResult()
	}

	defaults := dto.DefaultNewsAnalysisResult()
	return &dto.NewsAnalysisResult{
		Summary:     stringField(fields, "summary", defaults.Summary),
		Sentiment:   enumField(fields, "sentiment", defaults.Sentiment, "positive", "neutral", "negative"),
		ImpactScore: repository.Clamp(floatField(fields, "impactScore", 0), -100, 100),
		KeyTopics:   sliceField(fields, "keyTopics"),
	}
}

func stringField(fields map[string]json.RawMessage, key, def string) string {
	raw, ok := fields[key]
	if !ok {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return def
	}
	return s
}

func enumField(fields map[string]json.RawMessage, key, def string, allowed ...string) string {
	value := stringField(fields, key, def)
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return def
}

func floatField(fields map[string]json.RawMessage, key string, def float64) float64 {
	raw, ok := fields[key]
	if !ok {
		return def
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	// Models sometimes quote numbers.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var parsed float64
		if _, err := fmt.Sscanf(s, "%g", &parsed); err == nil {
			return parsed
		}
	}
	return def
}

func sliceField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	return items
}
