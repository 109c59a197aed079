package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"stock-research-api/internal/api/config"
	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"
)

// SearchService orchestrates the provider fallback chain for company search.
type SearchService interface {
	Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error)
	Suggestions(ctx context.Context, query string) (*dto.SuggestionResponse, error)
}

// NewSearchService creates the orchestrator.
func NewSearchService(
	cfg *config.Config,
	fmpRepo repository.FMPRepository,
	serpRepo repository.SerpAPIRepository,
	newsSvc NewsService,
	log *logger.Logger,
) SearchService {
	return &searchService{
		cfg:      cfg,
		fmpRepo:  fmpRepo,
		serpRepo: serpRepo,
		newsSvc:  newsSvc,
		log:      log,
	}
}

type searchService struct {
	cfg      *config.Config
	fmpRepo  repository.FMPRepository
	serpRepo repository.SerpAPIRepository
	newsSvc  NewsService
	log      *logger.Logger
}

// validateQuery enforces the input contract: 1-100 characters drawn from
// Latin, Japanese, whitespace, colon, period and hyphen.
func validateQuery(query string) error {
	length := utf8.RuneCountInString(query)
	if length == 0 {
		return fmt.Errorf("%w: query must not be empty", ErrValidation)
	}
	if length > 100 {
		return fmt.Errorf("%w: query must be at most 100 characters", ErrValidation)
	}
	for _, r := range query {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == ':' || r == '.' || r == '-':
		case unicode.IsSpace(r):
		case (r >= 0x3040 && r <= 0x30FF) || (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0xFF00 && r <= 0xFFEF):
		default:
			return fmt.Errorf("%w: query contains unsupported character %q", ErrValidation, r)
		}
	}
	return nil
}

// Search runs the FMP pipeline and falls back to SERPAPI for whichever pieces
// are still missing. Every stage is contained: a provider failure cancels that
// stage only.
func (s *searchService) Search(ctx context.Context, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	if err := validateQuery(req.Query); err != nil {
		return nil, err
	}
	period := req.ChartPeriod
	if period == "" {
		period = dto.ChartPeriod1M
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: invalid chart period %q", ErrValidation, period)
	}
	if s.cfg.FMP.APIKey == "" && s.cfg.SerpAPI.APIKey == "" {
		return nil, fmt.Errorf("%w: no search provider API key configured", ErrConfiguration)
	}

	query := utils.NormalizeQuery(req.Query)
	result := &dto.SearchResponse{
		NewsData:  []dto.NewsItem{},
		ChartData: []dto.ChartDataPoint{},
	}

	if s.cfg.FMP.APIKey != "" {
		s.searchViaFMP(ctx, query, period, result)
	}
	if (result.CompanyInfo == nil || result.StockData == nil) && s.cfg.SerpAPI.APIKey != "" {
		s.fallbackViaSerpAPI(ctx, query, period, result)
	}

	if result.CompanyInfo == nil {
		return nil, fmt.Errorf("%w: no company data found for query", ErrNotFound)
	}
	return result, nil
}

func (s *searchService) searchViaFMP(ctx context.Context, query string, period dto.ChartPeriod, result *dto.SearchResponse) {
	suggestions, err := s.fmpRepo.Search(ctx, query, 5)
	if err != nil || len(suggestions) == 0 {
		if err != nil {
			s.log.WarnContext(ctx, "FMP search failed", logger.ErrorField(err), logger.StringField("query", query))
		}
		return
	}
	symbol := suggestions[0].Symbol

	if info, err := s.fmpRepo.GetProfile(ctx, symbol); err != nil {
		s.log.WarnContext(ctx, "FMP profile failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
	} else if info != nil {
		result.CompanyInfo = info
	}

	if quote, err := s.fmpRepo.GetQuote(ctx, symbol); err != nil {
		s.log.WarnContext(ctx, "FMP quote failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
	} else if quote != nil {
		result.StockData = quote
	}

	if financials, err := s.fmpRepo.GetFinancials(ctx, symbol); err != nil {
		s.log.WarnContext(ctx, "FMP financials failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
	} else if financials != nil {
		result.FinancialData = financials
	}

	if result.StockData != nil && result.StockData.Dividend == 0 {
		if yield, err := s.fmpRepo.GetDividendYield(ctx, symbol); err != nil {
			s.log.WarnContext(ctx, "FMP key metrics failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
		} else {
			result.StockData.Dividend = yield
		}
	}

	if chart, err := s.fmpRepo.GetChart(ctx, symbol, period); err != nil {
		s.log.WarnContext(ctx, "FMP chart failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
	} else if len(chart) > 0 {
		result.ChartData = chart
	}

	companyName := query
	if result.CompanyInfo != nil {
		companyName = result.CompanyInfo.Name
	}
	if news, err := s.newsSvc.GetComprehensiveNews(ctx, companyName, symbol, 10); err != nil {
		s.log.WarnContext(ctx, "Comprehensive news failed", logger.ErrorField(err), logger.StringField("symbol", symbol))
	} else {
		result.NewsData = news
	}
}

func (s *searchService) fallbackViaSerpAPI(ctx context.Context, query string, period dto.ChartPeriod, result *dto.SearchResponse) {
	if result.CompanyInfo == nil {
		if info, err := s.serpRepo.GetCompanyInfo(ctx, query); err != nil {
			s.log.WarnContext(ctx, "SERPAPI company info failed", logger.ErrorField(err), logger.StringField("query", query))
		} else if info != nil {
			result.CompanyInfo = info
		}
	}

	if result.StockData == nil {
		if data, err := s.serpRepo.GetStockData(ctx, query); err != nil {
			s.log.WarnContext(ctx, "SERPAPI stock data failed", logger.ErrorField(err), logger.StringField("query", query))
		} else if data != nil {
			result.StockData = data
		}
	}

	// Chart and financial data always come from SERPAPI when it runs.
	if chart, err := s.serpRepo.GetChartData(ctx, query, period); err != nil {
		s.log.WarnContext(ctx, "SERPAPI chart failed", logger.ErrorField(err), logger.StringField("query", query))
	} else if len(chart) > 0 {
		result.ChartData = chart
	}

	if financials, err := s.serpRepo.GetFinancialData(ctx, query); err != nil {
		s.log.WarnContext(ctx, "SERPAPI financials failed", logger.ErrorField(err), logger.StringField("query", query))
	} else if financials != nil {
		result.FinancialData = financials
	}

	if len(result.NewsData) == 0 {
		news, err := s.serpRepo.GetFinanceNews(ctx, query)
		if err != nil {
			s.log.WarnContext(ctx, "SERPAPI finance news failed", logger.ErrorField(err), logger.StringField("query", query))
		}
		if len(news) == 0 {
			if fallback, err := s.serpRepo.SearchNews(ctx, query); err != nil {
				s.log.WarnContext(ctx, "SERPAPI news search failed", logger.ErrorField(err), logger.StringField("query", query))
			} else {
				news = fallback
			}
		}
		result.NewsData = DeduplicateByLink(news)
	}
}

// jpMajorTickers resolves common Japanese company names without any provider
// key configured.
var jpMajorTickers = []dto.Suggestion{
	{Symbol: "7203", CompanyName: "トヨタ自動車", Exchange: "TYO"},
	{Symbol: "6758", CompanyName: "ソニーグループ", Exchange: "TYO"},
	{Symbol: "9984", CompanyName: "ソフトバンクグループ", Exchange: "TYO"},
	{Symbol: "6861", CompanyName: "キーエンス", Exchange: "TYO"},
	{Symbol: "8306", CompanyName: "三菱UFJフィナンシャル・グループ", Exchange: "TYO"},
	{Symbol: "9983", CompanyName: "ファーストリテイリング", Exchange: "TYO"},
	{Symbol: "8035", CompanyName: "東京エレクトロン", Exchange: "TYO"},
	{Symbol: "7974", CompanyName: "任天堂", Exchange: "TYO"},
}

// Suggestions merges FMP search hits with the static major-tickers table.
func (s *searchService) Suggestions(ctx context.Context, query string) (*dto.SuggestionResponse, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	normalized := utils.NormalizeQuery(query)

	resp := &dto.SuggestionResponse{Suggestions: []dto.Suggestion{}}
	seen := map[string]struct{}{}

	for _, t := range jpMajorTickers {
		if containsFold(t.CompanyName, normalized) || containsFold(t.Symbol, normalized) {
			suggestion := t
			suggestion.SearchType = "local"
			suggestion.Score = 1
			resp.Suggestions = append(resp.Suggestions, suggestion)
			seen[t.Symbol] = struct{}{}
		}
	}

	if s.cfg.FMP.APIKey != "" {
		hits, err := s.fmpRepo.Search(ctx, normalized, 8)
		if err != nil {
			s.log.WarnContext(ctx, "FMP suggestion search failed", logger.ErrorField(err), logger.StringField("query", normalized))
		}
		for _, h := range hits {
			if _, ok := seen[h.Symbol]; ok {
				continue
			}
			seen[h.Symbol] = struct{}{}
			resp.Suggestions = append(resp.Suggestions, h)
		}
	}

	return resp, nil
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
