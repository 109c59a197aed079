package service

import (
	"context"
	"fmt"
	"time"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/internal/entity"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/telegram"

	"gorm.io/datatypes"
)

// SubscriptionService owns subscription reads and the two write paths: the
// authenticated mobile update and payment-provider webhook events.
type SubscriptionService interface {
	Check(ctx context.Context, idToken string) (*dto.SubscriptionCheckResponse, error)
	Update(ctx context.Context, req *dto.SubscriptionUpdateRequest) (*dto.SubscriptionUpdateResponse, error)
	ApplyWebhookEvent(ctx context.Context, payload *dto.WebhookPayload) error
	IsPremium(ctx context.Context, userID string) bool
}

// NewSubscriptionService creates the subscription flows. notifier may be nil
// when the ops channel is not configured.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	eventRepo repository.WebhookEventRepository,
	authRepo repository.AuthRepository,
	notifier telegram.Notifier,
	log *logger.Logger,
) SubscriptionService {
	return &subscriptionService{
		subRepo:   subRepo,
		eventRepo: eventRepo,
		authRepo:  authRepo,
		notifier:  notifier,
		log:       log,
	}
}

type subscriptionService struct {
	subRepo   repository.SubscriptionRepository
	eventRepo repository.WebhookEventRepository
	authRepo  repository.AuthRepository
	notifier  telegram.Notifier
	log       *logger.Logger
}

// Check verifies the token and reports the user's subscription standing.
func (s *subscriptionService) Check(ctx context.Context, idToken string) (*dto.SubscriptionCheckResponse, error) {
	userID, err := s.authRepo.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	resp := &dto.SubscriptionCheckResponse{
		HasSubscription: sub != nil,
		Subscription:    sub,
		IsPremium:       sub.IsPremium(time.Now()),
	}
	if resp.IsPremium && sub.ExpiryDate != nil {
		resp.DaysRemaining = int(time.Until(*sub.ExpiryDate).Hours() / 24)
	}
	return resp, nil
}

// IsPremium resolves premium standing for request gating. Failures degrade to
// non-premium rather than blocking the request.
func (s *subscriptionService) IsPremium(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to load subscription for gating", logger.ErrorField(err), logger.StringField("user_id", userID))
		return false
	}
	return sub.IsPremium(time.Now())
}

var validStatuses = map[string]entity.SubscriptionStatus{
	"active":    entity.SubscriptionStatusActive,
	"expired":   entity.SubscriptionStatusExpired,
	"cancelled": entity.SubscriptionStatusCancelled,
	"pending":   entity.SubscriptionStatusPending,
	"trial":     entity.SubscriptionStatusTrial,
}

var validPlatforms = map[string]entity.SubscriptionPlatform{
	"android": entity.PlatformAndroid,
	"web":     entity.PlatformWeb,
	"ios":     entity.PlatformIOS,
}

// Update applies an authenticated mobile-side subscription state change.
func (s *subscriptionService) Update(ctx context.Context, req *dto.SubscriptionUpdateRequest) (*dto.SubscriptionUpdateResponse, error) {
	userID, err := s.authRepo.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	status, ok := validStatuses[req.Status]
	if !ok {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, req.Status)
	}
	platform, ok := validPlatforms[req.Platform]
	if !ok {
		return nil, fmt.Errorf("%w: invalid platform %q", ErrValidation, req.Platform)
	}
	if req.ProductID == "" || req.PurchaseToken == "" {
		return nil, fmt.Errorf("%w: productId and purchaseToken are required", ErrValidation)
	}

	sub := &entity.Subscription{
		UserID:        userID,
		Status:        status,
		Platform:      platform,
		ProductID:     req.ProductID,
		PurchaseToken: req.PurchaseToken,
		OrderID:       req.OrderID,
		PurchaseDate:  time.Now(),
		ExpiryDate:    req.ExpiryDate,
		IsTrial:       req.IsTrial,
	}
	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	s.notify("updated", userID, req.ProductID, req.Status)
	return &dto.SubscriptionUpdateResponse{Success: true, Message: "subscription updated"}, nil
}

// webhookStatusMap translates provider event names into subscription states.
var webhookStatusMap = map[string]entity.SubscriptionStatus{
	"subscription_created":         entity.SubscriptionStatusActive,
	"subscription_updated":         entity.SubscriptionStatusActive,
	"subscription_resumed":         entity.SubscriptionStatusActive,
	"subscription_payment_success": entity.SubscriptionStatusActive,
	"subscription_cancelled":       entity.SubscriptionStatusCancelled,
	"subscription_expired":         entity.SubscriptionStatusExpired,
	"subscription_paused":          entity.SubscriptionStatusPending,
}

// ApplyWebhookEvent records the event and mutates the target subscription.
// Unknown event names are recorded but otherwise ignored.
func (s *subscriptionService) ApplyWebhookEvent(ctx context.Context, payload *dto.WebhookPayload) error {
	userID := payload.Meta.CustomData.UserID

	event := &entity.WebhookEvent{
		EventName: payload.Meta.EventName,
		UserID:    userID,
		Payload:   datatypes.JSON(payload.Raw),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "Failed to record webhook event", logger.ErrorField(err), logger.StringField("event", payload.Meta.EventName))
	}

	status, handled := webhookStatusMap[payload.Meta.EventName]
	if !handled {
		s.log.InfoContext(ctx, "Ignoring unhandled webhook event", logger.StringField("event", payload.Meta.EventName))
		return nil
	}
	if userID == "" {
		s.log.WarnContext(ctx, "Webhook event carried no user ID", logger.StringField("event", payload.Meta.EventName))
		return nil
	}

	attrs := payload.Data.Attributes
	isTrial := attrs.Status == "on_trial" || attrs.TrialEndsAt != nil && attrs.TrialEndsAt.After(time.Now())
	if isTrial && status == entity.SubscriptionStatusActive {
		status = entity.SubscriptionStatusTrial
	}

	expiry := attrs.RenewsAt
	if attrs.EndsAt != nil {
		expiry = attrs.EndsAt
	}

	sub := &entity.Subscription{
		UserID:       userID,
		Status:       status,
		Platform:     entity.PlatformWeb,
		ProductID:    fmt.Sprintf("%d", attrs.VariantID),
		OrderID:      fmt.Sprintf("%d", attrs.OrderID),
		PurchaseDate: attrs.CreatedAt,
		ExpiryDate:   expiry,
		IsTrial:      isTrial,
	}
	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to apply webhook event: %w", err)
	}

	s.notify(payload.Meta.EventName, userID, sub.ProductID, string(status))
	return nil
}

func (s *subscriptionService) notify(event, userID, productID, status string) {
	if s.notifier == nil {
		return
	}
	msg := telegram.FormatSubscriptionEvent(event, userID, productID, status)
	if err := s.notifier.SendMessage(msg); err != nil {
		s.log.Warn("Failed to send ops notification", logger.ErrorField(err))
	}
}
