package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/entity"
	"stock-research-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionServiceForTest(
	subRepo *fakeSubscriptionRepository,
	eventRepo *fakeWebhookEventRepository,
	authRepo *fakeAuthRepository,
) SubscriptionService {
	return NewSubscriptionService(subRepo, eventRepo, authRepo, nil, logger.NewNop())
}

func TestCheckWithoutSubscription(t *testing.T) {
	svc := newSubscriptionServiceForTest(
		newFakeSubscriptionRepository(),
		&fakeWebhookEventRepository{},
		&fakeAuthRepository{userID: "user-1"},
	)

	resp, err := svc.Check(context.Background(), "token")
	require.NoError(t, err)
	assert.False(t, resp.HasSubscription)
	assert.False(t, resp.IsPremium)
	assert.Nil(t, resp.Subscription)
}

func TestCheckActiveSubscription(t *testing.T) {
	expiry := time.Now().Add(10 * 24 * time.Hour)
	subRepo := newFakeSubscriptionRepository()
	subRepo.subs["user-1"] = &entity.Subscription{
		UserID:     "user-1",
		Status:     entity.SubscriptionStatusActive,
		ExpiryDate: &expiry,
	}
	svc := newSubscriptionServiceForTest(subRepo, &fakeWebhookEventRepository{}, &fakeAuthRepository{userID: "user-1"})

	resp, err := svc.Check(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, resp.HasSubscription)
	assert.True(t, resp.IsPremium)
	assert.Equal(t, 9, resp.DaysRemaining)
}

func TestCheckExpiredSubscriptionIsNotPremium(t *testing.T) {
	expiry := time.Now().Add(-24 * time.Hour)
	subRepo := newFakeSubscriptionRepository()
	subRepo.subs["user-1"] = &entity.Subscription{
		UserID:     "user-1",
		Status:     entity.SubscriptionStatusActive,
		ExpiryDate: &expiry,
	}
	svc := newSubscriptionServiceForTest(subRepo, &fakeWebhookEventRepository{}, &fakeAuthRepository{userID: "user-1"})

	resp, err := svc.Check(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, resp.HasSubscription)
	assert.False(t, resp.IsPremium)
}

func TestCheckInvalidToken(t *testing.T) {
	svc := newSubscriptionServiceForTest(
		newFakeSubscriptionRepository(),
		&fakeWebhookEventRepository{},
		&fakeAuthRepository{err: errors.New("invalid token")},
	)

	_, err := svc.Check(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	svc := newSubscriptionServiceForTest(
		newFakeSubscriptionRepository(),
		&fakeWebhookEventRepository{},
		&fakeAuthRepository{userID: "user-1"},
	)

	_, err := svc.Update(context.Background(), &dto.SubscriptionUpdateRequest{
		IDToken:       "token",
		Status:        "bogus",
		Platform:      "android",
		ProductID:     "premium_monthly",
		PurchaseToken: "pt",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePersistsSubscription(t *testing.T) {
	subRepo := newFakeSubscriptionRepository()
	svc := newSubscriptionServiceForTest(subRepo, &fakeWebhookEventRepository{}, &fakeAuthRepository{userID: "user-1"})

	resp, err := svc.Update(context.Background(), &dto.SubscriptionUpdateRequest{
		IDToken:       "token",
		Status:        "active",
		Platform:      "android",
		ProductID:     "premium_monthly",
		PurchaseToken: "pt",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	saved := subRepo.subs["user-1"]
	require.NotNil(t, saved)
	assert.Equal(t, entity.SubscriptionStatusActive, saved.Status)
	assert.Equal(t, entity.PlatformAndroid, saved.Platform)
}

func webhookPayload(t *testing.T, eventName, userID, status string, renewsAt *time.Time) *dto.WebhookPayload {
	t.Helper()
	payload := &dto.WebhookPayload{}
	payload.Meta.EventName = eventName
	payload.Meta.CustomData.UserID = userID
	payload.Data.Attributes.Status = status
	payload.Data.Attributes.VariantID = 111
	payload.Data.Attributes.OrderID = 222
	payload.Data.Attributes.CreatedAt = time.Now()
	payload.Data.Attributes.RenewsAt = renewsAt

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	payload.Raw = raw
	return payload
}

func TestApplyWebhookEventCreatesSubscription(t *testing.T) {
	subRepo := newFakeSubscriptionRepository()
	eventRepo := &fakeWebhookEventRepository{}
	svc := newSubscriptionServiceForTest(subRepo, eventRepo, &fakeAuthRepository{})

	renews := time.Now().Add(30 * 24 * time.Hour)
	err := svc.ApplyWebhookEvent(context.Background(), webhookPayload(t, "subscription_created", "user-9", "active", &renews))
	require.NoError(t, err)

	saved := subRepo.subs["user-9"]
	require.NotNil(t, saved)
	assert.Equal(t, entity.SubscriptionStatusActive, saved.Status)
	assert.Equal(t, entity.PlatformWeb, saved.Platform)
	assert.Equal(t, "111", saved.ProductID)
	require.NotNil(t, saved.ExpiryDate)
	assert.True(t, saved.IsPremium(time.Now()))

	require.Len(t, eventRepo.events, 1)
	assert.Equal(t, "subscription_created", eventRepo.events[0].EventName)
}

func TestApplyWebhookEventExpires(t *testing.T) {
	subRepo := newFakeSubscriptionRepository()
	subRepo.subs["user-9"] = &entity.Subscription{UserID: "user-9", Status: entity.SubscriptionStatusActive}
	svc := newSubscriptionServiceForTest(subRepo, &fakeWebhookEventRepository{}, &fakeAuthRepository{})

	err := svc.ApplyWebhookEvent(context.Background(), webhookPayload(t, "subscription_expired", "user-9", "expired", nil))
	require.NoError(t, err)

	assert.Equal(t, entity.SubscriptionStatusExpired, subRepo.subs["user-9"].Status)
}

func TestApplyWebhookEventUnknownEventIsRecordedAndIgnored(t *testing.T) {
	subRepo := newFakeSubscriptionRepository()
	eventRepo := &fakeWebhookEventRepository{}
	svc := newSubscriptionServiceForTest(subRepo, eventRepo, &fakeAuthRepository{})

	err := svc.ApplyWebhookEvent(context.Background(), webhookPayload(t, "order_created", "user-9", "paid", nil))
	require.NoError(t, err)

	assert.Empty(t, subRepo.subs)
	assert.Len(t, eventRepo.events, 1)
}

func TestIsPremiumDegradesOnRepositoryError(t *testing.T) {
	subRepo := newFakeSubscriptionRepository()
	subRepo.err = errors.New("db down")
	svc := newSubscriptionServiceForTest(subRepo, &fakeWebhookEventRepository{}, &fakeAuthRepository{})

	assert.False(t, svc.IsPremium(context.Background(), "user-1"))
}
