package domain

import (
	"time"

	"github.com/google/uuid"
)

// Допустимый диапазон радиуса сайта в метрах
const (
	MinSiteRadiusMeters = 100.0
	MaxSiteRadiusMeters = 1000.0
)

// SiteTier - уровень популярности сайта, производная от totalScore
type SiteTier string

const (
	TierLegendary SiteTier = "legendary"
	TierMajor     SiteTier = "major"
	TierMinor     SiteTier = "minor"
	TierEmerging  SiteTier = "emerging"
)

// Valid проверяет, что значение принадлежит закрытому множеству уровней
func (t SiteTier) Valid() bool {
	switch t {
	case TierLegendary, TierMajor, TierMinor, TierEmerging:
		return true
	}
	return false
}

// Rank возвращает порядковый номер уровня: emerging < minor < major < legendary
func (t SiteTier) Rank() int {
	switch t {
	case TierLegendary:
		return 3
	case TierMajor:
		return 2
	case TierMinor:
		return 1
	default:
		return 0
	}
}

// SiteStatus - статус жизненного цикла сайта
type SiteStatus string

const (
	StatusActive   SiteStatus = "active"
	StatusDormant  SiteStatus = "dormant"
	StatusArchived SiteStatus = "archived"
)

// Valid проверяет, что значение принадлежит закрытому множеству статусов
func (s SiteStatus) Valid() bool {
	switch s {
	case StatusActive, StatusDormant, StatusArchived:
		return true
	}
	return false
}

// ClusterMetadata - происхождение сайта: параметры последней кластеризации
type ClusterMetadata struct {
	Algorithm        string             `json:"algorithm"`
	Parameters       map[string]float64 `json:"parameters,omitempty"`
	Confidence       float64            `json:"confidence"`
	LastCalculatedAt time.Time          `json:"last_calculated_at"`
}

// SiteMetrics - снимок метрик последнего пересчёта рейтинга
type SiteMetrics struct {
	VisitCount            int     `json:"visit_count" db:"visit_count"`
	UniqueVisitorCount    int     `json:"unique_visitor_count" db:"unique_visitor_count"`
	SpotCount             int     `json:"spot_count" db:"spot_count"`
	TotalEngagement       int     `json:"total_engagement" db:"total_engagement"`
	AverageEngagementRate float64 `json:"average_engagement_rate" db:"average_engagement_rate"`
	GrowthRate            float64 `json:"growth_rate" db:"growth_rate"`
	RecencyScore          float64 `json:"recency_score" db:"recency_score"`
	DiversityScore        float64 `json:"diversity_score" db:"diversity_score"`
	ConsistencyScore      float64 `json:"consistency_score" db:"consistency_score"`
	TotalScore            int     `json:"total_score" db:"total_score"`
}

// Site - обнаруженный или созданный вручную географический кластер активности
type Site struct {
	ID     uuid.UUID  `json:"id" db:"id"`
	Name   string     `json:"name" db:"name"`
	Tier   SiteTier   `json:"tier" db:"tier"`
	Status SiteStatus `json:"status" db:"status"`

	// Геометрия
	CenterLat    float64 `json:"center_lat" db:"center_lat"`
	CenterLon    float64 `json:"center_lon" db:"center_lon"`
	RadiusMeters float64 `json:"radius_meters" db:"radius_meters"`

	Metrics SiteMetrics `json:"metrics"`

	// Происхождение кластера
	ClusterPoints   int              `json:"cluster_points" db:"cluster_points"`
	ClusterMetadata *ClusterMetadata `json:"cluster_metadata,omitempty"`

	// Метаданные обнаружения
	DiscovererID    *uuid.UUID `json:"discoverer_id,omitempty" db:"discoverer_id"`
	DiscoveredAt    time.Time  `json:"discovered_at" db:"discovered_at"`
	FirstActivityAt time.Time  `json:"first_activity_at" db:"first_activity_at"`
	LastActivityAt  time.Time  `json:"last_activity_at" db:"last_activity_at"`
	Tags            []string   `json:"tags,omitempty" db:"tags"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BoundingBox возвращает ограничивающий прямоугольник зоны сайта.
// Долгота корректируется на косинус широты, чтобы радиус в метрах
// одинаково покрывал обе оси.
func (s *Site) BoundingBox() BoundingBox {
	return boundingBoxAround(s.CenterLat, s.CenterLon, s.RadiusMeters)
}
