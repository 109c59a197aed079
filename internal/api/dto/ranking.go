package dto

// RankingItem is one row of the scraped trading-value ranking table. The
// *Display fields carry the formatted strings rendered by the UI.
type RankingItem struct {
	Rank                 int     `json:"rank"`
	Code                 string  `json:"code"`
	Name                 string  `json:"name"`
	Price                float64 `json:"price"`
	Change               float64 `json:"change"`
	ChangePercent        float64 `json:"changePercent"`
	Volume               float64 `json:"volume"`
	Value                float64 `json:"value"`
	PriceDisplay         string  `json:"priceDisplay"`
	ChangeDisplay        string  `json:"changeDisplay"`
	ChangePercentDisplay string  `json:"changePercentDisplay"`
	VolumeDisplay        string  `json:"volumeDisplay"`
	ValueDisplay         string  `json:"valueDisplay"`
}

// RankingResponse is the reply of GET /api/top-trading-value. Error is set with
// an empty item list when the upstream page could not be fetched.
type RankingResponse struct {
	Items []RankingItem `json:"items"`
	Error string        `json:"error,omitempty"`
}

// Pick is one suggested company on the today-picks list.
type Pick struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// TodayPicksResponse is the reply of GET /api/today-picks. Source records
// whether picks came from live feeds or the curated fallback list.
type TodayPicksResponse struct {
	JP     []Pick `json:"jp"`
	US     []Pick `json:"us"`
	Source string `json:"source"`
}
