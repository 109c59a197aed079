package repository

import (
	"context"
	"errors"

	"stock-research-api/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

type usageRepository struct {
	db *gorm.DB
}

// Get returns the user's usage record for the given date, or nil when none exists.
func (r *usageRepository) Get(ctx context.Context, userID, date string) (*entity.UsageRecord, error) {
	var record entity.UsageRecord
	err := r.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, date).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save upserts the record on (user_id, date) so concurrent first-use-of-day
// writes do not create duplicate rows.
func (r *usageRepository) Save(ctx context.Context, record *entity.UsageRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"analysis_count", "financial_count", "news_count", "total_lifetime", "updated_at",
		}),
	}).Create(record).Error
}
