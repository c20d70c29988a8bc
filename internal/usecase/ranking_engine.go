package usecase

import (
	"context"
	"math"
	"time"

	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

// Пороги уровней по totalScore
const (
	tierLegendaryThreshold = 85
	tierMajorThreshold     = 65
	tierMinorThreshold     = 40
)

// recencyDecayHours - знаменатель экспоненты recency-метрики
const recencyDecayHours = 48.0

// minActivitiesForConsistency - минимум записей для оценки стабильности
const minActivitiesForConsistency = 7

// TierForScore возвращает уровень, соответствующий итоговому счёту.
// Уровень - чистая функция от счёта, отдельно не хранится.
func TierForScore(score int) domain.SiteTier {
	switch {
	case score >= tierLegendaryThreshold:
		return domain.TierLegendary
	case score >= tierMajorThreshold:
		return domain.TierMajor
	case score >= tierMinorThreshold:
		return domain.TierMinor
	default:
		return domain.TierEmerging
	}
}

// RankingEngine считает семь метрик сайта, итоговый счёт и уровень
type RankingEngine struct {
	activityRepo repository.ActivityRepository
	contentRepo  repository.ContentRepository
	logger       *zap.Logger
	windowDays   int
}

// NewRankingEngine создает новый RankingEngine
func NewRankingEngine(
	activityRepo repository.ActivityRepository,
	contentRepo repository.ContentRepository,
	logger *zap.Logger,
	windowDays int,
) *RankingEngine {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &RankingEngine{
		activityRepo: activityRepo,
		contentRepo:  contentRepo,
		logger:       logger,
		windowDays:   windowDays,
	}
}

// ComputeSiteRanking пересчитывает рейтинг сайта за окно windowDays.
// Недоступность контентного хранилища деградирует контентные метрики
// к нулю, не прерывая расчёт.
func (e *RankingEngine) ComputeSiteRanking(
	ctx context.Context,
	site *domain.Site,
	weights domain.RankingWeights,
	now time.Time,
) (*domain.RankingResult, error) {
	window := time.Duration(e.windowDays) * 24 * time.Hour
	since := now.Add(-window)

	activities, err := e.activityRepo.FindBySite(ctx, site.ID, since)
	if err != nil {
		return nil, err
	}

	items, err := e.contentRepo.FetchInBounds(ctx, site.BoundingBox(), since)
	if err != nil {
		e.logger.Warn("Content store unavailable, degrading content metrics",
			zap.String("site_id", site.ID.String()),
			zap.Error(err))
		items = nil
	}

	// В bbox попадают углы за пределами круга - дофильтровываем по радиусу
	inArea := items[:0:0]
	for _, item := range items {
		dist := utils.HaversineDistance(site.CenterLat, site.CenterLon, item.Lat, item.Lon)
		if dist <= site.RadiusMeters {
			inArea = append(inArea, item)
		}
	}

	metrics := e.computeRawMetrics(ctx, site, activities, inArea, since, window, now)
	normalized := normalizeMetrics(metrics)

	breakdown := map[string]float64{
		domain.MetricVisit:         weights.Visit * normalized[domain.MetricVisit],
		domain.MetricUniqueVisitor: weights.UniqueVisitor * normalized[domain.MetricUniqueVisitor],
		domain.MetricEngagement:    weights.Engagement * normalized[domain.MetricEngagement],
		domain.MetricGrowth:        weights.Growth * normalized[domain.MetricGrowth],
		domain.MetricRecency:       weights.Recency * normalized[domain.MetricRecency],
		domain.MetricDiversity:     weights.Diversity * normalized[domain.MetricDiversity],
		domain.MetricConsistency:   weights.Consistency * normalized[domain.MetricConsistency],
	}

	total := 0.0
	for _, contribution := range breakdown {
		total += contribution
	}
	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	metrics.TotalScore = score

	return &domain.RankingResult{
		SiteID:     site.ID,
		TotalScore: score,
		Tier:       TierForScore(score),
		Metrics:    metrics,
		Breakdown:  breakdown,
		ComputedAt: now,
	}, nil
}

// computeRawMetrics считает семь сырых метрик из журнала активности
// и элементов контента в зоне сайта
func (e *RankingEngine) computeRawMetrics(
	ctx context.Context,
	site *domain.Site,
	activities []*domain.Activity,
	items []*domain.ContentItem,
	since time.Time,
	window time.Duration,
	now time.Time,
) domain.SiteMetrics {
	var metrics domain.SiteMetrics

	uniqueUsers := make(map[string]struct{})
	for _, a := range activities {
		if a.Type == domain.ActivityVisit || a.Type == domain.ActivityCheckIn {
			metrics.VisitCount++
		}
		if a.UserID != nil {
			uniqueUsers[a.UserID.String()] = struct{}{}
		}
	}
	metrics.UniqueVisitorCount = len(uniqueUsers)

	metrics.SpotCount = len(items)
	for _, item := range items {
		metrics.TotalEngagement += item.LikeCount + item.ReplyCount + item.ShareCount
	}
	if metrics.SpotCount > 0 {
		metrics.AverageEngagementRate = float64(metrics.TotalEngagement) / float64(metrics.SpotCount)
	}

	metrics.GrowthRate = e.computeGrowthRate(ctx, site, len(activities), since, window)
	metrics.RecencyScore = computeRecencyScore(activities, now)
	metrics.DiversityScore = computeDiversityScore(activities, items, len(uniqueUsers))
	metrics.ConsistencyScore = computeConsistencyScore(activities)

	return metrics
}

// computeGrowthRate - процентное изменение числа событий относительно
// предыдущего окна той же длины. Ошибка подсчёта предыдущего окна
// деградирует к нейтральному нулю.
func (e *RankingEngine) computeGrowthRate(
	ctx context.Context,
	site *domain.Site,
	currentCount int,
	since time.Time,
	window time.Duration,
) float64 {
	previousCount, err := e.activityRepo.CountBySite(ctx, site.ID, since.Add(-window), since)
	if err != nil {
		e.logger.Warn("Failed to count previous window activity",
			zap.String("site_id", site.ID.String()),
			zap.Error(err))
		return 0
	}

	if previousCount == 0 {
		if currentCount > 0 {
			return 100
		}
		return 0
	}

	return float64(currentCount-previousCount) / float64(previousCount) * 100
}

// computeRecencyScore - среднее exp(-ageHours/48) по событиям окна.
// Среднее, а не максимум: одна свежая запись и много свежих записей
// одинаково приближаются к 1.
func computeRecencyScore(activities []*domain.Activity, now time.Time) float64 {
	if len(activities) == 0 {
		return 0
	}

	sum := 0.0
	for _, a := range activities {
		ageHours := now.Sub(a.CreatedAt).Hours()
		sum += math.Exp(-ageHours / recencyDecayHours)
	}
	return sum / float64(len(activities))
}

// computeDiversityScore - взвешенная сумма трёх долей: уникальные
// пользователи, различные типы активности, различные теги контента.
// Каждое слагаемое равно нулю при нулевом знаменателе.
func computeDiversityScore(activities []*domain.Activity, items []*domain.ContentItem, uniqueUsers int) float64 {
	score := 0.0

	if len(activities) > 0 {
		score += 0.4 * float64(uniqueUsers) / float64(len(activities))

		types := make(map[domain.ActivityType]struct{})
		for _, a := range activities {
			types[a.Type] = struct{}{}
		}
		score += 0.3 * float64(len(types)) / float64(domain.ActivityTypeCount)
	}

	distinctTags := make(map[string]struct{})
	totalTags := 0
	for _, item := range items {
		for _, tag := range item.Tags {
			distinctTags[tag] = struct{}{}
			totalTags++
		}
	}
	if totalTags > 0 {
		score += 0.3 * float64(len(distinctTags)) / float64(totalTags)
	}

	return score
}

// computeConsistencyScore - среднее двух оценок стабильности на основе
// коэффициента вариации: по гистограмме часа суток и дня недели.
// Меньше 7 событий в окне - оценка 0.
func computeConsistencyScore(activities []*domain.Activity) float64 {
	if len(activities) < minActivitiesForConsistency {
		return 0
	}

	var hourly [24]float64
	var daily [7]float64
	for _, a := range activities {
		hourly[a.CreatedAt.Hour()]++
		daily[int(a.CreatedAt.Weekday())]++
	}

	return (histogramStability(hourly[:]) + histogramStability(daily[:])) / 2
}

// histogramStability возвращает max(0, 1 - stddev/mean) по корзинам гистограммы
func histogramStability(buckets []float64) float64 {
	mean := 0.0
	for _, v := range buckets {
		mean += v
	}
	mean /= float64(len(buckets))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, v := range buckets {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(buckets))

	stability := 1 - math.Sqrt(variance)/mean
	if stability < 0 {
		return 0
	}
	return stability
}

// normalizeMetrics приводит сырые метрики к шкале 0-100
func normalizeMetrics(m domain.SiteMetrics) map[string]float64 {
	return map[string]float64{
		domain.MetricVisit:         math.Min(100, math.Log10(float64(m.VisitCount)+1)*20),
		domain.MetricUniqueVisitor: math.Min(100, math.Sqrt(float64(m.UniqueVisitorCount))*10),
		domain.MetricEngagement:    math.Min(100, m.AverageEngagementRate*20),
		domain.MetricGrowth:        sigmoid(m.GrowthRate/50) * 100,
		domain.MetricRecency:       m.RecencyScore * 100,
		domain.MetricDiversity:     m.DiversityScore * 100,
		domain.MetricConsistency:   m.ConsistencyScore * 100,
	}
}

// sigmoid - логистическая функция: 0% роста даёт ровно 50 очков,
// отрицательный рост затухает плавно, не обнуляя метрику
func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
