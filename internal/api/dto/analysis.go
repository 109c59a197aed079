package dto

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	CompanyInfo *CompanyInfo `json:"companyInfo"`
	StockData   *StockData   `json:"stockData"`
	NewsData    []NewsItem   `json:"newsData,omitempty"`
}

// AnalysisResult is the LLM-produced investment commentary. Every field has a
// defined default so a malformed model reply still yields a valid object.
type AnalysisResult struct {
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"` // buy / hold / sell
	RiskLevel      string   `json:"riskLevel"`      // low / medium / high
	Score          float64  `json:"score"`          // 1..5
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Opportunities  []string `json:"opportunities"`
	Threats        []string `json:"threats"`
}

// DefaultAnalysisResult is the all-default object returned when the model reply
// cannot be parsed at all.
func DefaultAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Summary:        "分析に失敗しました",
		Recommendation: "hold",
		RiskLevel:      "medium",
		Score:          0,
		Strengths:      []string{},
		Weaknesses:     []string{},
		Opportunities:  []string{},
		Threats:        []string{},
	}
}

// AnalyzeResponse is the reply of POST /api/analyze.
type AnalyzeResponse struct {
	Analysis  *AnalysisResult `json:"analysis"`
	Timestamp string          `json:"timestamp"`
}

// FinancialEvaluationRequest is the body of POST /api/financial-evaluation.
type FinancialEvaluationRequest struct {
	Symbol        string         `json:"symbol"`
	CompanyName   string         `json:"companyName"`
	FinancialData *FinancialData `json:"financialData,omitempty"`
}

// FinancialEvaluationResult scores financial health on a 1..5 scale per axis.
type FinancialEvaluationResult struct {
	Summary       string   `json:"summary"`
	Profitability float64  `json:"profitability"` // 1..5
	Stability     float64  `json:"stability"`     // 1..5
	Growth        float64  `json:"growth"`        // 1..5
	Overall       float64  `json:"overall"`       // 1..5
	Comments      []string `json:"comments"`
}

// DefaultFinancialEvaluationResult is the fallback evaluation object.
func DefaultFinancialEvaluationResult() *FinancialEvaluationResult {
	return &FinancialEvaluationResult{
		Summary:  "評価に失敗しました",
		Comments: []string{},
	}
}

// FinancialEvaluationResponse is the reply of POST /api/financial-evaluation.
type FinancialEvaluationResponse struct {
	Analysis *FinancialEvaluationResult `json:"analysis"`
}

// NewsAnalysisResult is the LLM assessment of recent news flow for a symbol.
type NewsAnalysisResult struct {
	Summary     string   `json:"summary"`
	Sentiment   string   `json:"sentiment"`   // positive / neutral / negative
	ImpactScore float64  `json:"impactScore"` // -100..100
	KeyTopics   []string `json:"keyTopics"`
}

// DefaultNewsAnalysisResult is the fallback news assessment object.
func DefaultNewsAnalysisResult() *NewsAnalysisResult {
	return &NewsAnalysisResult{
		Summary:   "ニュース分析に失敗しました",
		Sentiment: "neutral",
		KeyTopics: []string{},
	}
}
