package service

import (
	"context"
	"testing"

	"stock-research-api/internal/entity"
	"stock-research-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsageServiceForTest(repo *fakeUsageRepository, today string) *usageService {
	svc := NewUsageService(repo, logger.NewNop()).(*usageService)
	svc.today = func() string { return today }
	return svc
}

func TestCanUsePremiumAlwaysAllowed(t *testing.T) {
	svc := newUsageServiceForTest(newFakeUsageRepository(), "2025-06-01")

	ok, err := svc.CanUse(context.Background(), "user-1", true)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanUseAnonymousAlwaysDenied(t *testing.T) {
	svc := newUsageServiceForTest(newFakeUsageRepository(), "2025-06-01")

	ok, err := svc.CanUse(context.Background(), "", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanUseUnderLimit(t *testing.T) {
	repo := newFakeUsageRepository()
	repo.records["user-1|2025-06-01"] = &entity.UsageRecord{
		UserID: "user-1", Date: "2025-06-01", AnalysisCount: 1, NewsCount: 1,
	}
	svc := newUsageServiceForTest(repo, "2025-06-01")

	ok, err := svc.CanUse(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanUseAtCombinedLimit(t *testing.T) {
	repo := newFakeUsageRepository()
	repo.records["user-1|2025-06-01"] = &entity.UsageRecord{
		UserID: "user-1", Date: "2025-06-01", AnalysisCount: 1, FinancialCount: 1, NewsCount: 1,
	}
	svc := newUsageServiceForTest(repo, "2025-06-01")

	ok, err := svc.CanUse(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanUseYesterdayRecordImpliesReset(t *testing.T) {
	repo := newFakeUsageRepository()
	repo.records["user-1|2025-05-31"] = &entity.UsageRecord{
		UserID: "user-1", Date: "2025-05-31", AnalysisCount: 3,
	}
	svc := newUsageServiceForTest(repo, "2025-06-01")

	ok, err := svc.CanUse(context.Background(), "user-1", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIncrementUsageCreatesAndBumps(t *testing.T) {
	repo := newFakeUsageRepository()
	svc := newUsageServiceForTest(repo, "2025-06-01")
	ctx := context.Background()

	require.NoError(t, svc.IncrementUsage(ctx, "user-1", entity.UsageTypeAnalysis))
	require.NoError(t, svc.IncrementUsage(ctx, "user-1", entity.UsageTypeNews))

	record := repo.records["user-1|2025-06-01"]
	require.NotNil(t, record)
	assert.Equal(t, 1, record.AnalysisCount)
	assert.Equal(t, 1, record.NewsCount)
	assert.Equal(t, 0, record.FinancialCount)
	assert.Equal(t, 2, record.TotalLifetime)
	assert.Equal(t, 2, record.CombinedCount())
}

func TestIncrementUsageAnonymousIsNoop(t *testing.T) {
	repo := newFakeUsageRepository()
	svc := newUsageServiceForTest(repo, "2025-06-01")

	require.NoError(t, svc.IncrementUsage(context.Background(), "", entity.UsageTypeAnalysis))
	assert.Empty(t, repo.records)
}

func TestIncrementUsageUnknownType(t *testing.T) {
	svc := newUsageServiceForTest(newFakeUsageRepository(), "2025-06-01")

	err := svc.IncrementUsage(context.Background(), "user-1", entity.UsageType("bogus"))
	assert.Error(t, err)
}
