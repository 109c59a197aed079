package entity

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent is an audit record of a received payment-provider webhook. The
// raw payload is retained so disputed subscription states can be reconstructed.
type WebhookEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	EventName string         `gorm:"not null" json:"eventName"`
	UserID    string         `gorm:"index" json:"userId"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for the WebhookEvent model.
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
