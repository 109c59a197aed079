package dto

import "time"

// NewsItem is one aggregated news entry. Link is the uniqueness key across the
// whole aggregation pipeline.
type NewsItem struct {
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Link    string `json:"link"`

	// PublishedAt is the parsed date used for recency sorting; it is not part
	// of the wire format.
	PublishedAt time.Time `json:"-"`
}

// NewsAnalysisRequest is the body of POST /api/news-analysis.
type NewsAnalysisRequest struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
}

// NewsAnalysisResponse pairs the aggregated items with the AI assessment.
type NewsAnalysisResponse struct {
	NewsData []NewsItem          `json:"newsData"`
	Analysis *NewsAnalysisResult `json:"analysis"`
}
