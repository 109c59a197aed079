package service

import (
	"context"
	"fmt"

	"stock-research-api/internal/api/dto"
	"stock-research-api/internal/api/repository"
	"stock-research-api/pkg/logger"
)

// CheckoutService creates hosted checkout sessions.
type CheckoutService interface {
	CreateCheckout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

// NewCheckoutService creates the checkout flow.
func NewCheckoutService(
	checkoutRepo repository.CheckoutRepository,
	authRepo repository.AuthRepository,
	log *logger.Logger,
) CheckoutService {
	return &checkoutService{
		checkoutRepo: checkoutRepo,
		authRepo:     authRepo,
		log:          log,
	}
}

type checkoutService struct {
	checkoutRepo repository.CheckoutRepository
	authRepo     repository.AuthRepository
	log          *logger.Logger
}

// CreateCheckout validates the plan, resolves the user when a token is
// present, and asks the payment provider for a hosted checkout URL. Anonymous
// checkouts are allowed; the webhook links the subscription later.
func (s *checkoutService) CreateCheckout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if req.PlanType != "monthly" && req.PlanType != "yearly" {
		return nil, fmt.Errorf("%w: planType must be monthly or yearly", ErrValidation)
	}

	userID := ""
	if req.IDToken != "" {
		resolved, err := s.authRepo.VerifyIDToken(ctx, req.IDToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		userID = resolved
	}

	url, err := s.checkoutRepo.CreateCheckout(ctx, userID, req.PlanType)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.log.InfoContext(ctx, "Checkout session created",
		logger.StringField("plan", req.PlanType),
		logger.StringField("user_id", userID),
	)
	return &dto.CheckoutResponse{CheckoutURL: url}, nil
}
