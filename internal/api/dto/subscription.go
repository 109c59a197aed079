package dto

import (
	"encoding/json"
	"time"

	"stock-research-api/internal/entity"
)

// SubscriptionCheckResponse is the reply of GET /api/subscription/check.
type SubscriptionCheckResponse struct {
	HasSubscription bool                 `json:"hasSubscription"`
	Subscription    *entity.Subscription `json:"subscription"`
	IsPremium       bool                 `json:"isPremium"`
	DaysRemaining   int                  `json:"daysRemaining,omitempty"`
}

// SubscriptionUpdateRequest is the body of POST /api/subscription/update, used
// by the Android client after a Play Billing purchase.
type SubscriptionUpdateRequest struct {
	IDToken       string     `json:"idToken"`
	Status        string     `json:"status"`
	Platform      string     `json:"platform"`
	ProductID     string     `json:"productId"`
	PurchaseToken string     `json:"purchaseToken"`
	OrderID       string     `json:"orderId,omitempty"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	IsTrial       bool       `json:"isTrial,omitempty"`
}

// SubscriptionUpdateResponse acknowledges a subscription update.
type SubscriptionUpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckoutRequest is the body of POST /api/lemon-squeezy/checkout.
type CheckoutRequest struct {
	IDToken  string `json:"idToken,omitempty"`
	PlanType string `json:"planType"` // "monthly" or "yearly"
}

// CheckoutResponse returns the hosted checkout URL.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

// WebhookPayload is the Lemon Squeezy webhook envelope, decoded only as far as
// this service needs.
type WebhookPayload struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			UserID string `json:"user_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status      string     `json:"status"`
			ProductID   int64      `json:"product_id"`
			VariantID   int64      `json:"variant_id"`
			OrderID     int64      `json:"order_id"`
			CreatedAt   time.Time  `json:"created_at"`
			RenewsAt    *time.Time `json:"renews_at"`
			EndsAt      *time.Time `json:"ends_at"`
			TrialEndsAt *time.Time `json:"trial_ends_at"`
		} `json:"attributes"`
	} `json:"data"`

	// Raw retains the original body for the audit trail.
	Raw json.RawMessage `json:"-"`
}

// WebhookAck is the reply of POST /api/lemon-squeezy/webhook.
type WebhookAck struct {
	Received bool `json:"received"`
}
