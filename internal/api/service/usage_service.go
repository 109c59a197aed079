package service

import (
	"context"
	"fmt"

	"stock-research-api/internal/api/repository"
	"stock-research-api/internal/entity"
	"stock-research-api/pkg/common"
	"stock-research-api/pkg/logger"
	"stock-research-api/pkg/utils"
)

// UsageService gates premium features behind the daily free-tier quota.
type UsageService interface {
	CanUse(ctx context.Context, userID string, isPremium bool) (bool, error)
	IncrementUsage(ctx context.Context, userID string, usageType entity.UsageType) error
}

// NewUsageService creates the gate. The today function is injectable for tests.
func NewUsageService(usageRepo repository.UsageRepository, log *logger.Logger) UsageService {
	return &usageService{
		usageRepo: usageRepo,
		log:       log,
		today:     utils.TodayUTCDate,
	}
}

type usageService struct {
	usageRepo repository.UsageRepository
	log       *logger.Logger
	today     func() string
}

// CanUse reports whether the user may run another gated call today. Premium
// users always pass; anonymous users never do. A stored record dated before
// today counts as an implicit reset, no write needed.
func (s *usageService) CanUse(ctx context.Context, userID string, isPremium bool) (bool, error) {
	if isPremium {
		return true, nil
	}
	if userID == "" {
		return false, nil
	}

	today := s.today()
	record, err := s.usageRepo.Get(ctx, userID, today)
	if err != nil {
		return false, fmt.Errorf("failed to read usage record: %w", err)
	}
	if record == nil {
		return true, nil
	}
	return record.CombinedCount() < common.DailyFreeUsageLimit, nil
}

// IncrementUsage bumps today's counter for the given feature. The
// read-increment-write is not transactional; a double-click can under-count,
// which is acceptable for a soft usage nudge.
func (s *usageService) IncrementUsage(ctx context.Context, userID string, usageType entity.UsageType) error {
	if userID == "" {
		return nil
	}

	today := s.today()
	record, err := s.usageRepo.Get(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("failed to read usage record: %w", err)
	}
	if record == nil {
		record = &entity.UsageRecord{UserID: userID, Date: today}
	}

	switch usageType {
	case entity.UsageTypeAnalysis:
		record.AnalysisCount++
	case entity.UsageTypeFinancial:
		record.FinancialCount++
	case entity.UsageTypeNews:
		record.NewsCount++
	default:
		return fmt.Errorf("unknown usage type %q", usageType)
	}
	record.TotalLifetime++

	if err := s.usageRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save usage record: %w", err)
	}
	s.log.DebugContext(ctx, "Usage incremented",
		logger.StringField("user_id", userID),
		logger.StringField("type", string(usageType)),
		logger.IntField("combined", record.CombinedCount()),
	)
	return nil
}
