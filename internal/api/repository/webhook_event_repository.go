package repository

import (
	"context"

	"stock-research-api/internal/entity"

	"gorm.io/gorm"
)

// NewWebhookEventRepository creates a new WebhookEventRepository.
func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

type webhookEventRepository struct {
	db *gorm.DB
}

// Create appends a webhook event to the audit trail.
func (r *webhookEventRepository) Create(ctx context.Context, event *entity.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
