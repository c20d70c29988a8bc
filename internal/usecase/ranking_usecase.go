package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

// RankingUseCase - пересчёт рейтингов: одиночный, пакетный и таблица лидеров
type RankingUseCase struct {
	siteRepo       repository.SiteRepository
	cacheRepo      repository.CacheRepository
	engine         *RankingEngine
	locker         *SiteLocker
	logger         *zap.Logger
	rankingTTL     time.Duration
	leaderboardTTL time.Duration
	batchWorkers   int
}

// NewRankingUseCase создает новый RankingUseCase
func NewRankingUseCase(
	siteRepo repository.SiteRepository,
	cacheRepo repository.CacheRepository,
	engine *RankingEngine,
	locker *SiteLocker,
	logger *zap.Logger,
	rankingTTL time.Duration,
	leaderboardTTL time.Duration,
	batchWorkers int,
) *RankingUseCase {
	if batchWorkers < 1 {
		batchWorkers = 1
	}
	return &RankingUseCase{
		siteRepo:       siteRepo,
		cacheRepo:      cacheRepo,
		engine:         engine,
		locker:         locker,
		logger:         logger,
		rankingTTL:     rankingTTL,
		leaderboardTTL: leaderboardTTL,
		batchWorkers:   batchWorkers,
	}
}

// GetSiteRanking возвращает рейтинг сайта. Результат с весами по
// умолчанию кешируется; переопределённые веса считаются напрямую.
func (uc *RankingUseCase) GetSiteRanking(
	ctx context.Context,
	siteID uuid.UUID,
	overrides map[string]float64,
) (*domain.RankingResult, error) {
	weights := domain.DefaultRankingWeights().ApplyOverrides(overrides)
	if !weights.Valid() {
		return nil, errors.ErrInvalidRankingWeights
	}

	if len(overrides) == 0 {
		if cached, err := uc.cacheRepo.GetRanking(ctx, siteID); err == nil && cached != nil {
			uc.logger.Debug("Ranking fetched from cache", zap.String("site_id", siteID.String()))
			return cached, nil
		}
	}

	site, err := uc.siteRepo.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	result, err := uc.engine.ComputeSiteRanking(ctx, site, weights, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if len(overrides) == 0 {
		if err := uc.cacheRepo.SetRanking(ctx, siteID, result, uc.rankingTTL); err != nil {
			uc.logger.Warn("Failed to cache ranking", zap.Error(err))
		}
	}

	return result, nil
}

// BatchUpdateRankings пересчитывает и персистит рейтинги набора сайтов
// (всех активных, если siteIDs пуст). Сайты обрабатываются параллельно
// пулом воркеров; ошибка одного сайта не прерывает пакет.
func (uc *RankingUseCase) BatchUpdateRankings(
	ctx context.Context,
	siteIDs []uuid.UUID,
	overrides map[string]float64,
) (*domain.BatchRankingResult, error) {
	weights := domain.DefaultRankingWeights().ApplyOverrides(overrides)
	if !weights.Valid() {
		return nil, errors.ErrInvalidRankingWeights
	}

	sites, errCount, err := uc.resolveSites(ctx, siteIDs)
	if err != nil {
		return nil, err
	}

	result := &domain.BatchRankingResult{Errors: errCount}
	now := time.Now().UTC()

	var mu sync.Mutex
	var wg sync.WaitGroup
	jobs := make(chan *domain.Site)

	for i := 0; i < uc.batchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for site := range jobs {
				ranking, err := uc.recomputeAndPersist(ctx, site, weights, now)

				mu.Lock()
				if err != nil {
					uc.logger.Error("Failed to update site ranking",
						zap.String("site_id", site.ID.String()),
						zap.Error(err))
					result.Errors++
				} else {
					result.Updated++
					result.Results = append(result.Results, ranking)
				}
				mu.Unlock()
			}
		}()
	}

	for _, site := range sites {
		jobs <- site
	}
	close(jobs)
	wg.Wait()

	uc.logger.Info("Batch ranking update completed",
		zap.Int("updated", result.Updated),
		zap.Int("errors", result.Errors))

	return result, nil
}

// resolveSites собирает набор сайтов пакета: явный список идентификаторов
// либо все активные. Ненайденный идентификатор учитывается как ошибка
// пакета, не прерывая его.
func (uc *RankingUseCase) resolveSites(ctx context.Context, siteIDs []uuid.UUID) ([]*domain.Site, int, error) {
	if len(siteIDs) == 0 {
		sites, err := uc.siteRepo.FindByStatus(ctx, domain.StatusActive)
		if err != nil {
			return nil, 0, fmt.Errorf("find active sites: %w", err)
		}
		return sites, 0, nil
	}

	sites := make([]*domain.Site, 0, len(siteIDs))
	errCount := 0
	for _, id := range siteIDs {
		site, err := uc.siteRepo.GetByID(ctx, id)
		if err != nil {
			uc.logger.Warn("Site not resolvable for batch ranking",
				zap.String("site_id", id.String()),
				zap.Error(err))
			errCount++
			continue
		}
		sites = append(sites, site)
	}
	return sites, errCount, nil
}

// recomputeAndPersist пересчитывает рейтинг одного сайта и сохраняет
// метрики. Запись сериализуется по идентификатору сайта.
func (uc *RankingUseCase) recomputeAndPersist(
	ctx context.Context,
	site *domain.Site,
	weights domain.RankingWeights,
	now time.Time,
) (*domain.RankingResult, error) {
	ranking, err := uc.engine.ComputeSiteRanking(ctx, site, weights, now)
	if err != nil {
		return nil, err
	}

	uc.locker.Lock(site.ID)
	err = uc.siteRepo.UpdateMetrics(ctx, site.ID, ranking.Metrics, ranking.Tier)
	uc.locker.Unlock(site.ID)
	if err != nil {
		return nil, err
	}

	if err := uc.cacheRepo.SetRanking(ctx, site.ID, ranking, uc.rankingTTL); err != nil {
		uc.logger.Warn("Failed to cache ranking",
			zap.String("site_id", site.ID.String()),
			zap.Error(err))
	}

	return ranking, nil
}

// QueryLeaderboard возвращает сайты по убыванию totalScore с
// опциональными фильтрами по уровню и зоне. Результат кешируется.
func (uc *RankingUseCase) QueryLeaderboard(
	ctx context.Context,
	limit int,
	tier *domain.SiteTier,
	bounds *domain.BoundingBox,
) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	if tier != nil && !tier.Valid() {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"tier": string(*tier),
		})
	}

	key := leaderboardCacheKey(limit, tier, bounds)
	if cached, err := uc.cacheRepo.GetLeaderboard(ctx, key); err == nil && cached != nil {
		uc.logger.Debug("Leaderboard fetched from cache", zap.String("key", key))
		return cached, nil
	}

	sites, err := uc.siteRepo.FindTopRanked(ctx, limit, tier, bounds)
	if err != nil {
		return nil, fmt.Errorf("find top ranked sites: %w", err)
	}

	entries := make([]*domain.LeaderboardEntry, len(sites))
	for i, site := range sites {
		entries[i] = &domain.LeaderboardEntry{
			Rank:  i + 1,
			Site:  site,
			Score: site.Metrics.TotalScore,
			Tier:  site.Tier,
		}
	}

	if err := uc.cacheRepo.SetLeaderboard(ctx, key, entries, uc.leaderboardTTL); err != nil {
		uc.logger.Warn("Failed to cache leaderboard", zap.Error(err))
	}

	return entries, nil
}

func leaderboardCacheKey(limit int, tier *domain.SiteTier, bounds *domain.BoundingBox) string {
	tierPart := "all"
	if tier != nil {
		tierPart = string(*tier)
	}
	boundsPart := "global"
	if bounds != nil {
		boundsPart = fmt.Sprintf("%.4f:%.4f:%.4f:%.4f", bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon)
	}
	return fmt.Sprintf("leaderboard:%d:%s:%s", limit, tierPart, boundsPart)
}
