package domain

import (
	"time"

	"github.com/google/uuid"
)

// Имена метрик ранжирования, используются в весах и в breakdown
const (
	MetricVisit         = "visit"
	MetricUniqueVisitor = "uniqueVisitor"
	MetricEngagement    = "engagement"
	MetricGrowth        = "growth"
	MetricRecency       = "recency"
	MetricDiversity     = "diversity"
	MetricConsistency   = "consistency"
)

// RankingWeights - веса семи метрик ранжирования
type RankingWeights struct {
	Visit         float64 `json:"visit"`
	UniqueVisitor float64 `json:"unique_visitor"`
	Engagement    float64 `json:"engagement"`
	Growth        float64 `json:"growth"`
	Recency       float64 `json:"recency"`
	Diversity     float64 `json:"diversity"`
	Consistency   float64 `json:"consistency"`
}

// DefaultRankingWeights возвращает веса по умолчанию (сумма 1.0)
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		Visit:         0.20,
		UniqueVisitor: 0.18,
		Engagement:    0.25,
		Growth:        0.15,
		Recency:       0.10,
		Diversity:     0.07,
		Consistency:   0.05,
	}
}

// ApplyOverrides накладывает частичные переопределения весов по имени метрики.
// Неизвестные имена игнорируются.
func (w RankingWeights) ApplyOverrides(overrides map[string]float64) RankingWeights {
	for name, value := range overrides {
		switch name {
		case MetricVisit:
			w.Visit = value
		case MetricUniqueVisitor:
			w.UniqueVisitor = value
		case MetricEngagement:
			w.Engagement = value
		case MetricGrowth:
			w.Growth = value
		case MetricRecency:
			w.Recency = value
		case MetricDiversity:
			w.Diversity = value
		case MetricConsistency:
			w.Consistency = value
		}
	}
	return w
}

// Valid проверяет, что все веса неотрицательны и хотя бы один положителен
func (w RankingWeights) Valid() bool {
	weights := []float64{w.Visit, w.UniqueVisitor, w.Engagement, w.Growth, w.Recency, w.Diversity, w.Consistency}
	sum := 0.0
	for _, v := range weights {
		if v < 0 {
			return false
		}
		sum += v
	}
	return sum > 0
}

// RankingResult - результат пересчёта рейтинга одного сайта
type RankingResult struct {
	SiteID     uuid.UUID          `json:"site_id"`
	TotalScore int                `json:"total_score"`
	Tier       SiteTier           `json:"tier"`
	Metrics    SiteMetrics        `json:"metrics"`
	Breakdown  map[string]float64 `json:"breakdown"`
	ComputedAt time.Time          `json:"computed_at"`
}

// DiscoveryResult - сводка одного запуска discovery
type DiscoveryResult struct {
	NewSites       int         `json:"new_sites"`
	UpdatedSites   int         `json:"updated_sites"`
	DormantSiteIDs []uuid.UUID `json:"dormant_site_ids"`
	RankedSites    int         `json:"ranked_sites"`
	TotalClusters  int         `json:"total_clusters"`
	Errors         []string    `json:"errors,omitempty"`
}

// BatchRankingResult - сводка пакетного пересчёта рейтингов
type BatchRankingResult struct {
	Updated int              `json:"updated"`
	Errors  int              `json:"errors"`
	Results []*RankingResult `json:"results"`
}

// LeaderboardEntry - позиция сайта в таблице лидеров
type LeaderboardEntry struct {
	Rank  int      `json:"rank"`
	Site  *Site    `json:"site"`
	Score int      `json:"score"`
	Tier  SiteTier `json:"tier"`
}

// SiteStatistics - агрегированная статистика активности сайта за период
type SiteStatistics struct {
	SiteID            uuid.UUID            `json:"site_id"`
	Days              int                  `json:"days"`
	TotalVisits       int                  `json:"total_visits"`
	UniqueVisitors    int                  `json:"unique_visitors"`
	ActivityBreakdown map[ActivityType]int `json:"activity_breakdown"`
	HourlyPattern     [24]int              `json:"hourly_pattern"`
	DailyPattern      [7]int               `json:"daily_pattern"`
	GrowthRate        float64              `json:"growth_rate"`
}
