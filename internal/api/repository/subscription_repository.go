package repository

import (
	"context"
	"errors"

	"stock-research-api/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

type subscriptionRepository struct {
	db *gorm.DB
}

// GetByUserID returns the user's subscription, or nil when none exists.
func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert writes the subscription, replacing the existing row for the user.
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *entity.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "platform", "product_id", "purchase_token", "order_id",
			"purchase_date", "expiry_date", "is_trial", "updated_at",
		}),
	}).Create(sub).Error
}
