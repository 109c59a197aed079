package dto

// ChartPeriod enumerates the supported chart lookback windows.
type ChartPeriod string

const (
	ChartPeriod1D  ChartPeriod = "1D"
	ChartPeriod5D  ChartPeriod = "5D"
	ChartPeriod1M  ChartPeriod = "1M"
	ChartPeriod6M  ChartPeriod = "6M"
	ChartPeriodYTD ChartPeriod = "YTD"
	ChartPeriod1Y  ChartPeriod = "1Y"
	ChartPeriod5Y  ChartPeriod = "5Y"
	ChartPeriodMax ChartPeriod = "MAX"
)

// ValidChartPeriods lists every accepted chart period value.
var ValidChartPeriods = []ChartPeriod{
	ChartPeriod1D, ChartPeriod5D, ChartPeriod1M, ChartPeriod6M,
	ChartPeriodYTD, ChartPeriod1Y, ChartPeriod5Y, ChartPeriodMax,
}

// IsValid reports whether p is one of the supported periods.
func (p ChartPeriod) IsValid() bool {
	for _, v := range ValidChartPeriods {
		if p == v {
			return true
		}
	}
	return false
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query       string      `json:"query"`
	ChartPeriod ChartPeriod `json:"chartPeriod,omitempty"`
}

// CompanyInfo describes a company resolved from a provider. Numeric fields are
// zero when the provider did not supply them.
type CompanyInfo struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Market        string  `json:"market"`
	Price         float64 `json:"price,omitempty"`
	Change        float64 `json:"change,omitempty"`
	ChangePercent float64 `json:"changePercent,omitempty"`
	Description   string  `json:"description,omitempty"`
	Website       string  `json:"website,omitempty"`
	Employees     int     `json:"employees,omitempty"`
	Founded       string  `json:"founded,omitempty"`
	Headquarters  string  `json:"headquarters,omitempty"`
}

// StockData carries the quote-level numbers for a symbol.
type StockData struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"marketCap"`
	PE            float64 `json:"pe"`
	EPS           float64 `json:"eps"`
	Dividend      float64 `json:"dividend"`
	High52        float64 `json:"high52"`
	Low52         float64 `json:"low52"`
}

// FinancialData carries the latest reported financial statement figures.
// Pointers distinguish "provider did not supply" from zero.
type FinancialData struct {
	Revenue         *float64 `json:"revenue,omitempty"`
	NetIncome       *float64 `json:"netIncome,omitempty"`
	OperatingIncome *float64 `json:"operatingIncome,omitempty"`
	TotalAssets     *float64 `json:"totalAssets,omitempty"`
	Cash            *float64 `json:"cash,omitempty"`
	EPS             *float64 `json:"eps,omitempty"`
	Period          string   `json:"period,omitempty"`
}

// ChartDataPoint is one bucket of a price history series, chronological ascending.
type ChartDataPoint struct {
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	Volume   float64 `json:"volume"`
	KeyEvent string  `json:"keyEvent,omitempty"`
}

// SearchResponse is the merged result of the provider fallback chain.
type SearchResponse struct {
	CompanyInfo   *CompanyInfo     `json:"companyInfo"`
	StockData     *StockData       `json:"stockData"`
	NewsData      []NewsItem       `json:"newsData"`
	ChartData     []ChartDataPoint `json:"chartData"`
	FinancialData *FinancialData   `json:"financialData"`
}

// SuggestionRequest is the body of POST /api/search-suggestions.
type SuggestionRequest struct {
	Query string `json:"query"`
}

// Suggestion is one search-suggestion entry.
type Suggestion struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Exchange    string  `json:"exchange"`
	Score       float64 `json:"score,omitempty"`
	SearchType  string  `json:"searchType,omitempty"`
}

// SuggestionResponse wraps the suggestion list.
type SuggestionResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}
