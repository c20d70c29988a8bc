package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sites-microservice/internal/config"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

// Пороги суммарного веса кластера для префикса имени нового сайта
const (
	legendaryWeightHint = 1000.0
	majorWeightHint     = 500.0
	minorWeightHint     = 100.0
)

// DiscoveryUseCase - оркестратор обнаружения сайтов: взвешивание,
// кластеризация, сопоставление с существующими сайтами, дормантность
// и финальный пересчёт рейтингов
type DiscoveryUseCase struct {
	siteRepo     repository.SiteRepository
	activityRepo repository.ActivityRepository
	contentRepo  repository.ContentRepository
	geocodeRepo  repository.GeocodeRepository
	engine       *ClusterEngine
	rankingUC    *RankingUseCase
	locker       *SiteLocker
	logger       *zap.Logger
	cfg          config.DiscoveryConfig
}

// NewDiscoveryUseCase создает новый DiscoveryUseCase.
// geocodeRepo может быть nil - именование деградирует к координатам.
func NewDiscoveryUseCase(
	siteRepo repository.SiteRepository,
	activityRepo repository.ActivityRepository,
	contentRepo repository.ContentRepository,
	geocodeRepo repository.GeocodeRepository,
	engine *ClusterEngine,
	rankingUC *RankingUseCase,
	locker *SiteLocker,
	logger *zap.Logger,
	cfg config.DiscoveryConfig,
) *DiscoveryUseCase {
	return &DiscoveryUseCase{
		siteRepo:     siteRepo,
		activityRepo: activityRepo,
		contentRepo:  contentRepo,
		geocodeRepo:  geocodeRepo,
		engine:       engine,
		rankingUC:    rankingUC,
		locker:       locker,
		logger:       logger,
		cfg:          cfg,
	}
}

// Discover выполняет один полный цикл обнаружения. Ошибка обработки
// отдельного кластера записывается в сводку и не прерывает запуск.
func (uc *DiscoveryUseCase) Discover(ctx context.Context) (*domain.DiscoveryResult, error) {
	now := time.Now().UTC()
	result := &domain.DiscoveryResult{}

	// 1. Читаем свежий контент из внешнего хранилища
	items, err := uc.contentRepo.FetchRecent(ctx, uc.cfg.ContentFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent content: %w", err)
	}

	// 2. Взвешивание -> кластеризация -> пост-обработка
	points := uc.engine.WeightPoints(items, now)
	clusters := uc.engine.PostProcess(uc.engine.Cluster(points))
	result.TotalClusters = len(clusters)

	uc.logger.Info("Discovery clustering finished",
		zap.Int("content_items", len(items)),
		zap.Int("weighted_points", len(points)),
		zap.Int("clusters", len(clusters)))

	// 3. Сопоставление каждого кластера с существующим сайтом
	for _, cluster := range clusters {
		created, err := uc.matchOrCreateSite(ctx, cluster, now)
		if err != nil {
			uc.logger.Error("Failed to process cluster",
				zap.Float64("center_lat", cluster.CenterLat),
				zap.Float64("center_lon", cluster.CenterLon),
				zap.Error(err))
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if created {
			result.NewSites++
		} else {
			result.UpdatedSites++
		}
	}

	// 4. Помечаем неактивные сайты дормантными
	dormantIDs, err := uc.MarkDormantSites(ctx, now)
	if err != nil {
		uc.logger.Error("Dormancy sweep failed", zap.Error(err))
		result.Errors = append(result.Errors, err.Error())
	}
	result.DormantSiteIDs = dormantIDs

	// 5. Пересчитываем рейтинги всех активных сайтов, чтобы новые
	// и обновлённые сайты не ждали следующего тика ранжирования
	batch, err := uc.rankingUC.BatchUpdateRankings(ctx, nil, nil)
	if err != nil {
		uc.logger.Error("Post-discovery ranking recompute failed", zap.Error(err))
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.RankedSites = batch.Updated
	}

	uc.logger.Info("Discovery run completed",
		zap.Int("new_sites", result.NewSites),
		zap.Int("updated_sites", result.UpdatedSites),
		zap.Int("dormant_sites", len(dormantIDs)),
		zap.Int("ranked_sites", result.RankedSites),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// matchOrCreateSite ищет существующий сайт для кластера и обновляет его,
// либо создаёт новый. Возвращает true, если сайт создан.
func (uc *DiscoveryUseCase) matchOrCreateSite(ctx context.Context, cluster *domain.Cluster, now time.Time) (bool, error) {
	candidates, err := uc.siteRepo.FindInBounds(ctx, cluster.Bounds)
	if err != nil {
		return false, fmt.Errorf("find sites in cluster bounds: %w", err)
	}

	matched := nearestContainingSite(candidates, cluster.CenterLat, cluster.CenterLon)
	if matched != nil {
		if err := uc.updateMatchedSite(ctx, matched, cluster, now); err != nil {
			return false, fmt.Errorf("update site %s: %w", matched.ID, err)
		}
		return false, nil
	}

	if err := uc.createSiteFromCluster(ctx, cluster, now); err != nil {
		return false, fmt.Errorf("create site from cluster: %w", err)
	}
	return true, nil
}

// nearestContainingSite выбирает ближайший сайт, чей радиус накрывает
// центр кластера. При равных расстояниях побеждает минимальное.
func nearestContainingSite(sites []*domain.Site, lat, lon float64) *domain.Site {
	var best *domain.Site
	bestDist := math.MaxFloat64

	for _, site := range sites {
		dist := utils.HaversineDistance(site.CenterLat, site.CenterLon, lat, lon)
		if dist <= site.RadiusMeters && dist < bestDist {
			best = site
			bestDist = dist
		}
	}

	return best
}

// updateMatchedSite консервативно обновляет геометрию сайта.
// Центр двигается только при смещении больше доли радиуса, радиус
// меняется только при сдвиге больше порога: гистерезис против дрожания.
func (uc *DiscoveryUseCase) updateMatchedSite(ctx context.Context, site *domain.Site, cluster *domain.Cluster, now time.Time) error {
	uc.locker.Lock(site.ID)
	defer uc.locker.Unlock(site.ID)

	displacement := utils.HaversineDistance(site.CenterLat, site.CenterLon, cluster.CenterLat, cluster.CenterLon)
	if displacement > uc.cfg.CenterShiftFraction*site.RadiusMeters {
		site.CenterLat = cluster.CenterLat
		site.CenterLon = cluster.CenterLon
	}

	newRadius := utils.ClampRadius(cluster.RadiusMeters, domain.MinSiteRadiusMeters, domain.MaxSiteRadiusMeters)
	if math.Abs(newRadius-site.RadiusMeters) > uc.cfg.RadiusResizeMeters {
		site.RadiusMeters = newRadius
	}

	site.ClusterPoints = len(cluster.Points)
	site.ClusterMetadata = uc.clusterMetadata(cluster, now)
	site.LastActivityAt = now
	site.UpdatedAt = now

	return uc.siteRepo.Update(ctx, site)
}

// createSiteFromCluster создает новый сайт из кластера и записывает
// discovery-активность
func (uc *DiscoveryUseCase) createSiteFromCluster(ctx context.Context, cluster *domain.Cluster, now time.Time) error {
	site := &domain.Site{
		ID:              uuid.New(),
		Name:            uc.siteName(ctx, cluster),
		Tier:            domain.TierEmerging,
		Status:          domain.StatusActive,
		CenterLat:       cluster.CenterLat,
		CenterLon:       cluster.CenterLon,
		RadiusMeters:    utils.ClampRadius(cluster.RadiusMeters, domain.MinSiteRadiusMeters, domain.MaxSiteRadiusMeters),
		ClusterPoints:   len(cluster.Points),
		ClusterMetadata: uc.clusterMetadata(cluster, now),
		DiscoveredAt:    now,
		FirstActivityAt: now,
		LastActivityAt:  now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.siteRepo.Create(ctx, site); err != nil {
		return err
	}

	activity := &domain.Activity{
		ID:        uuid.New(),
		SiteID:    site.ID,
		Type:      domain.ActivityDiscovery,
		CreatedAt: now,
	}
	if err := uc.activityRepo.Create(ctx, activity); err != nil {
		// Сайт уже создан - активность не критична
		uc.logger.Warn("Failed to record discovery activity",
			zap.String("site_id", site.ID.String()),
			zap.Error(err))
	}

	uc.logger.Info("New site discovered",
		zap.String("site_id", site.ID.String()),
		zap.String("name", site.Name),
		zap.Float64("total_weight", cluster.TotalWeight))

	return nil
}

// siteName формирует имя сайта: локация от геокодера с префиксом уровня
// по суммарному весу, либо координатный fallback
func (uc *DiscoveryUseCase) siteName(ctx context.Context, cluster *domain.Cluster) string {
	prefix := weightHintPrefix(cluster.TotalWeight)

	if uc.geocodeRepo != nil {
		locality, err := uc.geocodeRepo.ReverseGeocode(ctx, cluster.CenterLat, cluster.CenterLon)
		if err != nil {
			uc.logger.Warn("Reverse geocoding failed, using coordinate name",
				zap.Float64("lat", cluster.CenterLat),
				zap.Float64("lon", cluster.CenterLon),
				zap.Error(err))
		} else if locality != "" {
			return prefix + locality
		}
	}

	return fmt.Sprintf("%sSacred Site (%.4f, %.4f)", prefix, cluster.CenterLat, cluster.CenterLon)
}

func weightHintPrefix(totalWeight float64) string {
	switch {
	case totalWeight >= legendaryWeightHint:
		return "Legendary "
	case totalWeight >= majorWeightHint:
		return "Major "
	case totalWeight >= minorWeightHint:
		return "Minor "
	default:
		return ""
	}
}

// clusterMetadata собирает метаданные происхождения для сохранения на сайте
func (uc *DiscoveryUseCase) clusterMetadata(cluster *domain.Cluster, now time.Time) *domain.ClusterMetadata {
	params := uc.engine.Params()
	return &domain.ClusterMetadata{
		Algorithm: clusteringAlgorithmName,
		Parameters: map[string]float64{
			"min_points":        float64(params.MinPoints),
			"max_distance":      params.MaxDistance,
			"min_weight":        params.MinWeight,
			"time_decay_factor": params.TimeDecayFactor,
		},
		// Насыщение на весе legendary-подсказки
		Confidence:       math.Min(1, cluster.TotalWeight/legendaryWeightHint),
		LastCalculatedAt: now,
	}
}

// MarkDormantSites переводит активные сайты без активности дольше окна
// дормантности в статус dormant. Обратного перехода этот процесс не делает.
func (uc *DiscoveryUseCase) MarkDormantSites(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	cutoff := now.Add(-uc.cfg.DormancyWindow)

	sites, err := uc.siteRepo.FindInactiveSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("find inactive sites: %w", err)
	}

	dormant := make([]uuid.UUID, 0, len(sites))
	for _, site := range sites {
		if err := uc.siteRepo.UpdateStatus(ctx, site.ID, domain.StatusDormant); err != nil {
			uc.logger.Error("Failed to mark site dormant",
				zap.String("site_id", site.ID.String()),
				zap.Error(err))
			continue
		}
		dormant = append(dormant, site.ID)
	}

	if len(dormant) > 0 {
		uc.logger.Info("Sites marked dormant", zap.Int("count", len(dormant)))
	}

	return dormant, nil
}
