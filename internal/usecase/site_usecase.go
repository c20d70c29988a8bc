package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/errors"
	"github.com/sites-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

// CreateSiteInput - параметры ручного создания сайта
type CreateSiteInput struct {
	Name         string
	Lat          float64
	Lon          float64
	RadiusMeters float64
	DiscovererID *uuid.UUID
	Tags         []string
}

// SiteUseCase - ручное управление сайтами, запись активности и статистика
type SiteUseCase struct {
	siteRepo     repository.SiteRepository
	activityRepo repository.ActivityRepository
	streamRepo   repository.StreamRepository
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
}

// NewSiteUseCase создает новый SiteUseCase
func NewSiteUseCase(
	siteRepo repository.SiteRepository,
	activityRepo repository.ActivityRepository,
	streamRepo repository.StreamRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *SiteUseCase {
	return &SiteUseCase{
		siteRepo:     siteRepo,
		activityRepo: activityRepo,
		streamRepo:   streamRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// GetSite возвращает сайт по идентификатору
func (uc *SiteUseCase) GetSite(ctx context.Context, id uuid.UUID) (*domain.Site, error) {
	return uc.siteRepo.GetByID(ctx, id)
}

// CreateSite создает сайт вручную. Центр внутри радиуса существующего
// неархивного сайта - конфликт.
func (uc *SiteUseCase) CreateSite(ctx context.Context, input CreateSiteInput) (*domain.Site, error) {
	if !utils.ValidateCoordinates(input.Lat, input.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}
	if input.RadiusMeters < domain.MinSiteRadiusMeters || input.RadiusMeters > domain.MaxSiteRadiusMeters {
		return nil, errors.ErrInvalidRadius
	}

	now := time.Now().UTC()

	probe := domain.Site{CenterLat: input.Lat, CenterLon: input.Lon, RadiusMeters: input.RadiusMeters}
	existing, err := uc.siteRepo.FindInBounds(ctx, probe.BoundingBox())
	if err != nil {
		return nil, fmt.Errorf("check overlapping sites: %w", err)
	}
	for _, site := range existing {
		dist := utils.HaversineDistance(site.CenterLat, site.CenterLon, input.Lat, input.Lon)
		if dist <= site.RadiusMeters {
			return nil, errors.ErrSiteAlreadyExists.WithDetails(map[string]interface{}{
				"existing_site_id": site.ID.String(),
				"distance_meters":  dist,
			})
		}
	}

	name := input.Name
	if name == "" {
		name = fmt.Sprintf("Sacred Site (%.4f, %.4f)", input.Lat, input.Lon)
	}

	site := &domain.Site{
		ID:              uuid.New(),
		Name:            name,
		Tier:            domain.TierEmerging,
		Status:          domain.StatusActive,
		CenterLat:       input.Lat,
		CenterLon:       input.Lon,
		RadiusMeters:    input.RadiusMeters,
		DiscovererID:    input.DiscovererID,
		Tags:            input.Tags,
		DiscoveredAt:    now,
		FirstActivityAt: now,
		LastActivityAt:  now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.siteRepo.Create(ctx, site); err != nil {
		return nil, err
	}

	activity := &domain.Activity{
		ID:        uuid.New(),
		SiteID:    site.ID,
		UserID:    input.DiscovererID,
		Type:      domain.ActivityDiscovery,
		CreatedAt: now,
	}
	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		uc.logger.Warn("Failed to record discovery activity",
			zap.String("site_id", site.ID.String()),
			zap.Error(err))
	}

	uc.logger.Info("Site created manually",
		zap.String("site_id", site.ID.String()),
		zap.String("name", site.Name))

	return site, nil
}

// ArchiveSite переводит сайт в терминальный статус archived.
// Единственный путь к архивации - явное административное действие.
func (uc *SiteUseCase) ArchiveSite(ctx context.Context, id uuid.UUID) error {
	site, err := uc.siteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if site.Status == domain.StatusArchived {
		return nil
	}

	if err := uc.siteRepo.UpdateStatus(ctx, id, domain.StatusArchived); err != nil {
		return err
	}

	// Архивный сайт не должен отдавать устаревший кешированный рейтинг
	if err := uc.cacheRepo.DeleteRanking(ctx, id); err != nil {
		uc.logger.Warn("Failed to drop cached ranking",
			zap.String("site_id", id.String()),
			zap.Error(err))
	}

	uc.logger.Info("Site archived", zap.String("site_id", id.String()))
	return nil
}

// RecordActivity публикует событие активности в стрим. Персистит его
// отдельный воркер: горячий путь записи не ходит в базу.
func (uc *SiteUseCase) RecordActivity(ctx context.Context, event *domain.ActivityRecordedEvent) error {
	if !event.Type.Valid() {
		return errors.ErrInvalidActivityType
	}

	// Проверяем существование сайта до публикации
	if _, err := uc.siteRepo.GetByID(ctx, event.SiteID); err != nil {
		return err
	}

	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now().UTC()
	}

	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamActivityRecorded, event); err != nil {
		return fmt.Errorf("publish activity event: %w", err)
	}

	return nil
}

// PersistActivity сохраняет событие из стрима и сдвигает lastActivityAt
// сайта. Вызывается воркером активности.
func (uc *SiteUseCase) PersistActivity(ctx context.Context, event *domain.ActivityRecordedEvent) error {
	activity := &domain.Activity{
		ID:          uuid.New(),
		SiteID:      event.SiteID,
		UserID:      event.UserID,
		Type:        event.Type,
		ContentID:   event.ContentID,
		ContentType: event.ContentType,
		Lat:         event.Lat,
		Lon:         event.Lon,
		Metadata:    event.Metadata,
		CreatedAt:   event.RecordedAt,
	}

	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		return fmt.Errorf("persist activity: %w", err)
	}

	if err := uc.siteRepo.UpdateLastActivity(ctx, event.SiteID, event.RecordedAt); err != nil {
		uc.logger.Warn("Failed to bump site last activity",
			zap.String("site_id", event.SiteID.String()),
			zap.Error(err))
	}

	return nil
}

// GetSiteStatistics возвращает агрегированную статистику активности
// сайта за последние days дней
func (uc *SiteUseCase) GetSiteStatistics(ctx context.Context, siteID uuid.UUID, days int) (*domain.SiteStatistics, error) {
	if days <= 0 {
		days = 30
	}

	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	window := time.Duration(days) * 24 * time.Hour
	since := now.Add(-window)

	activities, err := uc.activityRepo.FindBySite(ctx, site.ID, since)
	if err != nil {
		return nil, fmt.Errorf("find site activities: %w", err)
	}

	stats := &domain.SiteStatistics{
		SiteID:            site.ID,
		Days:              days,
		ActivityBreakdown: make(map[domain.ActivityType]int),
	}

	uniqueUsers := make(map[string]struct{})
	for _, a := range activities {
		stats.ActivityBreakdown[a.Type]++
		if a.Type == domain.ActivityVisit || a.Type == domain.ActivityCheckIn {
			stats.TotalVisits++
		}
		if a.UserID != nil {
			uniqueUsers[a.UserID.String()] = struct{}{}
		}
		stats.HourlyPattern[a.CreatedAt.Hour()]++
		stats.DailyPattern[int(a.CreatedAt.Weekday())]++
	}
	stats.UniqueVisitors = len(uniqueUsers)

	previousCount, err := uc.activityRepo.CountBySite(ctx, site.ID, since.Add(-window), since)
	if err != nil {
		uc.logger.Warn("Failed to count previous window activity",
			zap.String("site_id", site.ID.String()),
			zap.Error(err))
	} else if previousCount == 0 {
		if len(activities) > 0 {
			stats.GrowthRate = 100
		}
	} else {
		stats.GrowthRate = float64(len(activities)-previousCount) / float64(previousCount) * 100
	}

	return stats, nil
}
