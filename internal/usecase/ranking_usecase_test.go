package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/pkg/errors"
	"github.com/sites-microservice/internal/usecase"
)

func newRankingUseCase(
	siteRepo *MockSiteRepository,
	cacheRepo *MockCacheRepository,
	activityRepo *MockActivityRepository,
	contentRepo *MockContentRepository,
) *usecase.RankingUseCase {
	logger := zap.NewNop()
	engine := usecase.NewRankingEngine(activityRepo, contentRepo, logger, 30)
	return usecase.NewRankingUseCase(
		siteRepo, cacheRepo, engine, usecase.NewSiteLocker(), logger,
		5*time.Minute, time.Minute, 2,
	)
}

func expectEmptyMetrics(activityRepo *MockActivityRepository, contentRepo *MockContentRepository) {
	activityRepo.On("FindBySite", mock.Anything, mock.Anything, mock.Anything).Return([]*domain.Activity{}, nil)
	activityRepo.On("CountBySite", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	contentRepo.On("FetchInBounds", mock.Anything, mock.Anything, mock.Anything).Return([]*domain.ContentItem{}, nil)
}

func TestRankingUseCase_GetSiteRanking(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid weight overrides", func(t *testing.T) {
		uc := newRankingUseCase(&MockSiteRepository{}, &MockCacheRepository{}, &MockActivityRepository{}, &MockContentRepository{})

		_, err := uc.GetSiteRanking(ctx, uuid.New(), map[string]float64{
			domain.MetricVisit: -1,
		})
		assert.ErrorIs(t, err, errors.ErrInvalidRankingWeights)
	})

	t.Run("cache hit skips recomputation", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, &MockActivityRepository{}, &MockContentRepository{})

		siteID := uuid.New()
		cached := &domain.RankingResult{SiteID: siteID, TotalScore: 72, Tier: domain.TierMajor}
		cacheRepo.On("GetRanking", ctx, siteID).Return(cached, nil)

		result, err := uc.GetSiteRanking(ctx, siteID, nil)

		require.NoError(t, err)
		assert.Equal(t, cached, result)
		siteRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss computes and stores the ranking", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		activityRepo := &MockActivityRepository{}
		contentRepo := &MockContentRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, activityRepo, contentRepo)

		site := testSite()
		cacheRepo.On("GetRanking", ctx, site.ID).Return(nil, nil)
		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		expectEmptyMetrics(activityRepo, contentRepo)
		cacheRepo.On("SetRanking", ctx, site.ID, mock.Anything, 5*time.Minute).Return(nil)

		result, err := uc.GetSiteRanking(ctx, site.ID, nil)

		require.NoError(t, err)
		assert.Equal(t, site.ID, result.SiteID)
		cacheRepo.AssertExpectations(t)
	})

	t.Run("weight overrides bypass the cache entirely", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		activityRepo := &MockActivityRepository{}
		contentRepo := &MockContentRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, activityRepo, contentRepo)

		site := testSite()
		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		expectEmptyMetrics(activityRepo, contentRepo)

		_, err := uc.GetSiteRanking(ctx, site.ID, map[string]float64{domain.MetricRecency: 0.5})

		require.NoError(t, err)
		cacheRepo.AssertNotCalled(t, "GetRanking", mock.Anything, mock.Anything)
		cacheRepo.AssertNotCalled(t, "SetRanking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRankingUseCase_BatchUpdateRankings(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes all active sites when no ids given", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		activityRepo := &MockActivityRepository{}
		contentRepo := &MockContentRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, activityRepo, contentRepo)

		sites := []*domain.Site{testSite(), testSite()}
		siteRepo.On("FindByStatus", ctx, domain.StatusActive).Return(sites, nil)
		expectEmptyMetrics(activityRepo, contentRepo)
		siteRepo.On("UpdateMetrics", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		cacheRepo.On("SetRanking", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		result, err := uc.BatchUpdateRankings(ctx, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Updated)
		assert.Equal(t, 0, result.Errors)
		assert.Len(t, result.Results, 2)
	})

	t.Run("unresolvable id counts as error without aborting", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		activityRepo := &MockActivityRepository{}
		contentRepo := &MockContentRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, activityRepo, contentRepo)

		good := testSite()
		missing := uuid.New()

		siteRepo.On("GetByID", ctx, good.ID).Return(good, nil)
		siteRepo.On("GetByID", ctx, missing).Return(nil, errors.ErrSiteNotFound)
		expectEmptyMetrics(activityRepo, contentRepo)
		siteRepo.On("UpdateMetrics", ctx, good.ID, mock.Anything, mock.Anything).Return(nil)
		cacheRepo.On("SetRanking", ctx, good.ID, mock.Anything, mock.Anything).Return(nil)

		result, err := uc.BatchUpdateRankings(ctx, []uuid.UUID{good.ID, missing}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.Errors)
	})

	t.Run("persist failure counts as error for that site only", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		activityRepo := &MockActivityRepository{}
		contentRepo := &MockContentRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, activityRepo, contentRepo)

		broken := testSite()
		healthy := testSite()

		siteRepo.On("GetByID", ctx, broken.ID).Return(broken, nil)
		siteRepo.On("GetByID", ctx, healthy.ID).Return(healthy, nil)
		expectEmptyMetrics(activityRepo, contentRepo)
		siteRepo.On("UpdateMetrics", ctx, broken.ID, mock.Anything, mock.Anything).Return(assert.AnError)
		siteRepo.On("UpdateMetrics", ctx, healthy.ID, mock.Anything, mock.Anything).Return(nil)
		cacheRepo.On("SetRanking", ctx, healthy.ID, mock.Anything, mock.Anything).Return(nil)

		result, err := uc.BatchUpdateRankings(ctx, []uuid.UUID{broken.ID, healthy.ID}, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.Errors)
	})

	t.Run("rejects invalid weights before resolving sites", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		uc := newRankingUseCase(siteRepo, &MockCacheRepository{}, &MockActivityRepository{}, &MockContentRepository{})

		_, err := uc.BatchUpdateRankings(ctx, nil, map[string]float64{domain.MetricConsistency: -2})

		assert.ErrorIs(t, err, errors.ErrInvalidRankingWeights)
		siteRepo.AssertNotCalled(t, "FindByStatus", mock.Anything, mock.Anything)
	})
}

func TestRankingUseCase_QueryLeaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown tier", func(t *testing.T) {
		uc := newRankingUseCase(&MockSiteRepository{}, &MockCacheRepository{}, &MockActivityRepository{}, &MockContentRepository{})

		bad := domain.SiteTier("mythic")
		_, err := uc.QueryLeaderboard(ctx, 10, &bad, nil)
		assert.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("cache hit returns stored entries", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, &MockActivityRepository{}, &MockContentRepository{})

		entries := []*domain.LeaderboardEntry{{Rank: 1, Score: 90, Tier: domain.TierLegendary}}
		cacheRepo.On("GetLeaderboard", ctx, mock.Anything).Return(entries, nil)

		got, err := uc.QueryLeaderboard(ctx, 10, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, entries, got)
		siteRepo.AssertNotCalled(t, "FindTopRanked", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache miss queries storage and assigns ranks", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, &MockActivityRepository{}, &MockContentRepository{})

		first := testSite()
		first.Tier = domain.TierLegendary
		first.Metrics.TotalScore = 92
		second := testSite()
		second.Tier = domain.TierMajor
		second.Metrics.TotalScore = 70

		cacheRepo.On("GetLeaderboard", ctx, mock.Anything).Return(nil, nil)
		siteRepo.On("FindTopRanked", ctx, 10, (*domain.SiteTier)(nil), (*domain.BoundingBox)(nil)).
			Return([]*domain.Site{first, second}, nil)
		cacheRepo.On("SetLeaderboard", ctx, mock.Anything, mock.Anything, time.Minute).Return(nil)

		entries, err := uc.QueryLeaderboard(ctx, 10, nil, nil)

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, 92, entries[0].Score)
		assert.Equal(t, 2, entries[1].Rank)
	})

	t.Run("limit is clamped to the allowed range", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := newRankingUseCase(siteRepo, cacheRepo, &MockActivityRepository{}, &MockContentRepository{})

		cacheRepo.On("GetLeaderboard", ctx, mock.Anything).Return(nil, nil)
		siteRepo.On("FindTopRanked", ctx, 100, (*domain.SiteTier)(nil), (*domain.BoundingBox)(nil)).
			Return([]*domain.Site{}, nil)
		cacheRepo.On("SetLeaderboard", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := uc.QueryLeaderboard(ctx, 5000, nil, nil)

		require.NoError(t, err)
		siteRepo.AssertExpectations(t)
	})
}
