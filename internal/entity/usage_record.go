package entity

import "time"

// UsageType identifies which premium feature a usage increment belongs to.
type UsageType string

const (
	UsageTypeAnalysis  UsageType = "analysis"
	UsageTypeFinancial UsageType = "financial"
	UsageTypeNews      UsageType = "news"
)

// UsageRecord tracks a user's feature usage for one calendar day (UTC). A row
// is created lazily on first use of the day; a stored date different from today
// acts as an implicit reset without requiring a write.
type UsageRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"uniqueIndex:idx_usage_user_date;not null" json:"userId"`
	Date           string    `gorm:"uniqueIndex:idx_usage_user_date;not null" json:"date"` // YYYY-MM-DD, UTC
	AnalysisCount  int       `json:"analysisCount"`
	FinancialCount int       `json:"financialCount"`
	NewsCount      int       `json:"newsCount"`
	TotalLifetime  int       `json:"totalLifetime"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the UsageRecord model.
func (UsageRecord) TableName() string {
	return "usage_records"
}

// CombinedCount returns the day's combined usage across all gated features.
func (u *UsageRecord) CombinedCount() int {
	return u.AnalysisCount + u.FinancialCount + u.NewsCount
}
