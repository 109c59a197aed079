package entity

import (
	"time"
)

// SubscriptionStatus enumerates the lifecycle states a subscription can be in.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
)

// SubscriptionPlatform enumerates where a subscription was purchased.
type SubscriptionPlatform string

const (
	PlatformAndroid SubscriptionPlatform = "android"
	PlatformWeb     SubscriptionPlatform = "web"
	PlatformIOS     SubscriptionPlatform = "ios"
)

// Subscription represents a user's paid subscription. Rows are created by the
// first checkout/webhook event, mutated by later webhook events or the mobile
// update endpoint, and never hard-deleted.
type Subscription struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	UserID        string               `gorm:"unique;not null" json:"userId"`
	Status        SubscriptionStatus   `gorm:"not null" json:"status"`
	Platform      SubscriptionPlatform `gorm:"not null" json:"platform"`
	ProductID     string               `gorm:"not null" json:"productId"`
	PurchaseToken string               `json:"purchaseToken,omitempty"`
	OrderID       string               `json:"orderId,omitempty"`
	PurchaseDate  time.Time            `json:"purchaseDate"`
	ExpiryDate    *time.Time           `json:"expiryDate,omitempty"`
	IsTrial       bool                 `json:"isTrial"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for the Subscription model.
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsPremium reports whether this subscription currently grants premium access:
// an active or trial status that has not passed its expiry date.
func (s *Subscription) IsPremium(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Status != SubscriptionStatusActive && s.Status != SubscriptionStatusTrial {
		return false
	}
	if s.ExpiryDate != nil && now.After(*s.ExpiryDate) {
		return false
	}
	return true
}
