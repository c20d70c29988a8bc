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

func TestSiteUseCase_CreateSite(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	validInput := usecase.CreateSiteInput{
		Name:         "Plaza Mayor",
		Lat:          40.4155,
		Lon:          -3.7074,
		RadiusMeters: 300,
	}

	t.Run("rejects invalid coordinates", func(t *testing.T) {
		uc := usecase.NewSiteUseCase(&MockSiteRepository{}, &MockActivityRepository{}, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		input := validInput
		input.Lat = 91

		_, err := uc.CreateSite(ctx, input)
		assert.ErrorIs(t, err, errors.ErrInvalidCoordinates)
	})

	t.Run("rejects radius outside allowed range", func(t *testing.T) {
		uc := usecase.NewSiteUseCase(&MockSiteRepository{}, &MockActivityRepository{}, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		input := validInput
		input.RadiusMeters = 50

		_, err := uc.CreateSite(ctx, input)
		assert.ErrorIs(t, err, errors.ErrInvalidRadius)

		input.RadiusMeters = 5000
		_, err = uc.CreateSite(ctx, input)
		assert.ErrorIs(t, err, errors.ErrInvalidRadius)
	})

	t.Run("rejects center inside an existing site", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, &MockActivityRepository{}, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		existing := &domain.Site{
			ID:           uuid.New(),
			Status:       domain.StatusActive,
			CenterLat:    validInput.Lat,
			CenterLon:    validInput.Lon,
			RadiusMeters: 500,
		}
		siteRepo.On("FindInBounds", ctx, mock.Anything).Return([]*domain.Site{existing}, nil)

		_, err := uc.CreateSite(ctx, validInput)
		assert.ErrorIs(t, err, errors.ErrSiteAlreadyExists)
	})

	t.Run("creates site with a discovery activity", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		activityRepo := &MockActivityRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, activityRepo, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		discoverer := uuid.New()
		input := validInput
		input.DiscovererID = ptrUUID(discoverer)

		siteRepo.On("FindInBounds", ctx, mock.Anything).Return([]*domain.Site{}, nil)
		siteRepo.On("Create", ctx, mock.Anything).Return(nil)
		activityRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.Type == domain.ActivityDiscovery && a.UserID != nil && *a.UserID == discoverer
		})).Return(nil)

		site, err := uc.CreateSite(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "Plaza Mayor", site.Name)
		assert.Equal(t, domain.TierEmerging, site.Tier)
		assert.Equal(t, domain.StatusActive, site.Status)
		activityRepo.AssertExpectations(t)
	})

	t.Run("generates a name from coordinates when omitted", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		activityRepo := &MockActivityRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, activityRepo, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		input := validInput
		input.Name = ""

		siteRepo.On("FindInBounds", ctx, mock.Anything).Return([]*domain.Site{}, nil)
		siteRepo.On("Create", ctx, mock.Anything).Return(nil)
		activityRepo.On("Create", ctx, mock.Anything).Return(nil)

		site, err := uc.CreateSite(ctx, input)

		require.NoError(t, err)
		assert.Contains(t, site.Name, "Sacred Site")
	})
}

func TestSiteUseCase_RecordActivity(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("rejects unknown activity type", func(t *testing.T) {
		uc := usecase.NewSiteUseCase(&MockSiteRepository{}, &MockActivityRepository{}, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		err := uc.RecordActivity(ctx, &domain.ActivityRecordedEvent{
			SiteID: uuid.New(),
			Type:   domain.ActivityType("teleport"),
		})
		assert.ErrorIs(t, err, errors.ErrInvalidActivityType)
	})

	t.Run("fails when the site does not exist", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, &MockActivityRepository{}, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		siteID := uuid.New()
		siteRepo.On("GetByID", ctx, siteID).Return(nil, errors.ErrSiteNotFound)

		err := uc.RecordActivity(ctx, &domain.ActivityRecordedEvent{
			SiteID: siteID,
			Type:   domain.ActivityVisit,
		})
		assert.ErrorIs(t, err, errors.ErrSiteNotFound)
	})

	t.Run("publishes the event to the stream", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		streamRepo := &MockStreamRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, &MockActivityRepository{}, streamRepo, &MockCacheRepository{}, logger)

		site := &domain.Site{ID: uuid.New(), Status: domain.StatusActive}
		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		streamRepo.On("PublishToStream", ctx, domain.StreamActivityRecorded, mock.Anything).Return(nil)

		event := &domain.ActivityRecordedEvent{
			SiteID: site.ID,
			Type:   domain.ActivityCheckIn,
		}
		err := uc.RecordActivity(ctx, event)

		require.NoError(t, err)
		assert.False(t, event.RecordedAt.IsZero())
		streamRepo.AssertExpectations(t)
	})

	t.Run("propagates stream publish failure", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		streamRepo := &MockStreamRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, &MockActivityRepository{}, streamRepo, &MockCacheRepository{}, logger)

		site := &domain.Site{ID: uuid.New(), Status: domain.StatusActive}
		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		streamRepo.On("PublishToStream", ctx, domain.StreamActivityRecorded, mock.Anything).Return(assert.AnError)

		err := uc.RecordActivity(ctx, &domain.ActivityRecordedEvent{
			SiteID: site.ID,
			Type:   domain.ActivityVisit,
		})
		assert.Error(t, err)
	})
}

func TestSiteUseCase_PersistActivity(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	now := time.Now().UTC()

	t.Run("stores activity and bumps last activity", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		activityRepo := &MockActivityRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, activityRepo, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		siteID := uuid.New()
		activityRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.Activity) bool {
			return a.SiteID == siteID && a.Type == domain.ActivityVisit && a.CreatedAt.Equal(now)
		})).Return(nil)
		siteRepo.On("UpdateLastActivity", ctx, siteID, now).Return(nil)

		err := uc.PersistActivity(ctx, &domain.ActivityRecordedEvent{
			SiteID:     siteID,
			Type:       domain.ActivityVisit,
			RecordedAt: now,
		})

		require.NoError(t, err)
		siteRepo.AssertExpectations(t)
	})

	t.Run("last activity bump failure is not fatal", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		activityRepo := &MockActivityRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, activityRepo, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		siteID := uuid.New()
		activityRepo.On("Create", ctx, mock.Anything).Return(nil)
		siteRepo.On("UpdateLastActivity", ctx, siteID, now).Return(assert.AnError)

		err := uc.PersistActivity(ctx, &domain.ActivityRecordedEvent{
			SiteID:     siteID,
			Type:       domain.ActivityVisit,
			RecordedAt: now,
		})
		assert.NoError(t, err)
	})
}

func TestSiteUseCase_ArchiveSite(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("archives an active site and drops cached ranking", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		cacheRepo := &MockCacheRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, &MockActivityRepository{}, &MockStreamRepository{}, cacheRepo, logger)

		site := &domain.Site{ID: uuid.New(), Status: domain.StatusActive}
		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		siteRepo.On("UpdateStatus", ctx, site.ID, domain.StatusArchived).Return(nil)
		cacheRepo.On("DeleteRanking", ctx, site.ID).Return(nil)

		err := uc.ArchiveSite(ctx, site.ID)
		require.NoError(t, err)
		siteRepo.AssertExpectations(t)
		cacheRepo.AssertExpectations(t)
	})

	t.Run("archiving twice is a no-op", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, &MockActivityRepository{}, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		site := &domain.Site{ID: uuid.New(), Status: domain.StatusArchived}
		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)

		err := uc.ArchiveSite(ctx, site.ID)
		require.NoError(t, err)
		siteRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSiteUseCase_GetSiteStatistics(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	now := time.Now().UTC()

	t.Run("aggregates visits and unique visitors", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		activityRepo := &MockActivityRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, activityRepo, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		site := &domain.Site{ID: uuid.New(), Status: domain.StatusActive}
		userA := uuid.New()
		userB := uuid.New()

		activities := []*domain.Activity{
			{ID: uuid.New(), SiteID: site.ID, UserID: &userA, Type: domain.ActivityVisit, CreatedAt: now},
			{ID: uuid.New(), SiteID: site.ID, UserID: &userA, Type: domain.ActivityCheckIn, CreatedAt: now},
			{ID: uuid.New(), SiteID: site.ID, UserID: &userB, Type: domain.ActivityInteraction, CreatedAt: now},
		}

		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		activityRepo.On("FindBySite", ctx, site.ID, mock.Anything).Return(activities, nil)
		activityRepo.On("CountBySite", ctx, site.ID, mock.Anything, mock.Anything).Return(3, nil)

		stats, err := uc.GetSiteStatistics(ctx, site.ID, 30)

		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalVisits)
		assert.Equal(t, 2, stats.UniqueVisitors)
		assert.Equal(t, 1, stats.ActivityBreakdown[domain.ActivityInteraction])
		assert.InDelta(t, 0.0, stats.GrowthRate, 0.001)
	})

	t.Run("empty previous window with current activity means full growth", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		activityRepo := &MockActivityRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, activityRepo, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		site := &domain.Site{ID: uuid.New(), Status: domain.StatusActive}
		activities := []*domain.Activity{
			{ID: uuid.New(), SiteID: site.ID, Type: domain.ActivityVisit, CreatedAt: now},
		}

		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		activityRepo.On("FindBySite", ctx, site.ID, mock.Anything).Return(activities, nil)
		activityRepo.On("CountBySite", ctx, site.ID, mock.Anything, mock.Anything).Return(0, nil)

		stats, err := uc.GetSiteStatistics(ctx, site.ID, 7)

		require.NoError(t, err)
		assert.InDelta(t, 100.0, stats.GrowthRate, 0.001)
		assert.Equal(t, 7, stats.Days)
	})

	t.Run("non-positive days defaults to thirty", func(t *testing.T) {
		siteRepo := &MockSiteRepository{}
		activityRepo := &MockActivityRepository{}
		uc := usecase.NewSiteUseCase(siteRepo, activityRepo, &MockStreamRepository{}, &MockCacheRepository{}, logger)

		site := &domain.Site{ID: uuid.New(), Status: domain.StatusActive}
		siteRepo.On("GetByID", ctx, site.ID).Return(site, nil)
		activityRepo.On("FindBySite", ctx, site.ID, mock.Anything).Return([]*domain.Activity{}, nil)
		activityRepo.On("CountBySite", ctx, site.ID, mock.Anything, mock.Anything).Return(0, nil)

		stats, err := uc.GetSiteStatistics(ctx, site.ID, 0)

		require.NoError(t, err)
		assert.Equal(t, 30, stats.Days)
	})
}
