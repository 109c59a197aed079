package service

import (
	"context"
	"errors"
	"testing"

	"stock-research-api/internal/api/dto"
	"stock-research-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalysisServiceForTest(ai *fakeAIRepository, news *fakeNewsService) AnalysisService {
	return NewAnalysisService(ai, news, &fakeArticleRepository{err: errors.New("no fetch")}, logger.NewNop())
}

func TestAnalyzeStockRequiresInput(t *testing.T) {
	svc := newAnalysisServiceForTest(&fakeAIRepository{}, &fakeNewsService{})

	_, err := svc.AnalyzeStock(context.Background(), &dto.AnalyzeRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnalyzeStockParsesReply(t *testing.T) {
	ai := &fakeAIRepository{reply: `{
		"summary": "堅調な業績",
		"recommendation": "buy",
		"riskLevel": "low",
		"score": 4.5,
		"strengths": ["ブランド力"],
		"weaknesses": [],
		"opportunities": ["海外展開"],
		"threats": ["為替変動"]
	}`}
	svc := newAnalysisServiceForTest(ai, &fakeNewsService{})

	resp, err := svc.AnalyzeStock(context.Background(), &dto.AnalyzeRequest{
		CompanyInfo: &dto.CompanyInfo{Name: "トヨタ自動車", Symbol: "7203"},
		StockData:   &dto.StockData{Symbol: "7203", Price: 2800},
	})
	require.NoError(t, err)
	assert.Equal(t, "堅調な業績", resp.Analysis.Summary)
	assert.Equal(t, "buy", resp.Analysis.Recommendation)
	assert.Equal(t, "low", resp.Analysis.RiskLevel)
	assert.InDelta(t, 4.5, resp.Analysis.Score, 1e-9)
	assert.Equal(t, []string{"ブランド力"}, resp.Analysis.Strengths)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestAnalyzeStockDefaultsOnProviderError(t *testing.T) {
	ai := &fakeAIRepository{err: errors.New("quota exhausted")}
	svc := newAnalysisServiceForTest(ai, &fakeNewsService{})

	resp, err := svc.AnalyzeStock(context.Background(), &dto.AnalyzeRequest{
		CompanyInfo: &dto.CompanyInfo{Name: "X", Symbol: "Y"},
		StockData:   &dto.StockData{Symbol: "Y"},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.DefaultAnalysisResult(), resp.Analysis)
}

func TestParseAnalysisResultDefaultsPerField(t *testing.T) {
	// Missing fields and out-of-range values fall back field by field.
	result := parseAnalysisResult(`{"summary": "部分的", "recommendation": "strong buy", "score": 12}`)

	assert.Equal(t, "部分的", result.Summary)
	assert.Equal(t, "hold", result.Recommendation)
	assert.Equal(t, "medium", result.RiskLevel)
	assert.Equal(t, 5.0, result.Score)
	assert.Empty(t, result.Strengths)
}

func TestParseAnalysisResultQuotedNumbers(t *testing.T) {
	result := parseAnalysisResult(`{"score": "3.5"}`)
	assert.InDelta(t, 3.5, result.Score, 1e-9)
}

func TestParseAnalysisResultGarbage(t *testing.T) {
	assert.Equal(t, dto.DefaultAnalysisResult(), parseAnalysisResult("no json here"))
}

func TestParseFinancialEvaluationResultClampsScores(t *testing.T) {
	result := parseFinancialEvaluationResult(`{
		"summary": "安定",
		"profitability": 7,
		"stability": -1,
		"growth": 3,
		"overall": 4
	}`)

	assert.Equal(t, 5.0, result.Profitability)
	assert.Equal(t, 0.0, result.Stability)
	assert.Equal(t, 3.0, result.Growth)
	assert.Equal(t, 4.0, result.Overall)
}

func TestParseNewsAnalysisResultClampsImpact(t *testing.T) {
	result := parseNewsAnalysisResult(`{"sentiment": "positive", "impactScore": 250, "keyTopics": ["決算"]}`)

	assert.Equal(t, "positive", result.Sentiment)
	assert.Equal(t, 100.0, result.ImpactScore)
	assert.Equal(t, []string{"決算"}, result.KeyTopics)
}

func TestAnalyzeNewsUsesAggregatedItems(t *testing.T) {
	news := &fakeNewsService{items: []dto.NewsItem{
		{Title: "決算上方修正", Link: "https://example.com/a"},
	}}
	ai := &fakeAIRepository{reply: `{"summary": "好材料", "sentiment": "positive", "impactScore": 40, "keyTopics": []}`}
	svc := newAnalysisServiceForTest(ai, news)

	resp, err := svc.AnalyzeNews(context.Background(), &dto.NewsAnalysisRequest{
		Symbol: "7203", CompanyName: "トヨタ自動車",
	})
	require.NoError(t, err)
	require.Len(t, resp.NewsData, 1)
	assert.Equal(t, "positive", resp.Analysis.Sentiment)
	assert.InDelta(t, 40, resp.Analysis.ImpactScore, 1e-9)
}

func TestAnalyzeNewsDefaultsWhenAggregationAndProviderFail(t *testing.T) {
	news := &fakeNewsService{err: errors.New("all providers down")}
	ai := &fakeAIRepository{err: errors.New("quota exhausted")}
	svc := newAnalysisServiceForTest(ai, news)

	resp, err := svc.AnalyzeNews(context.Background(), &dto.NewsAnalysisRequest{
		Symbol: "7203", CompanyName: "トヨタ自動車",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.NewsData)
	assert.Equal(t, dto.DefaultNewsAnalysisResult(), resp.Analysis)
}
