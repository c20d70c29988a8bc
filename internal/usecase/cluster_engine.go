package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/pkg/errors"
	"github.com/sites-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

const clusteringAlgorithmName = "dbscan-haversine"

// Множители геометрии кластера
const (
	clusterRadiusPadding = 1.1
	mergeDistanceFactor  = 1.5
)

// ClusteringParams - параметры DBSCAN-кластеризации
type ClusteringParams struct {
	MinPoints       int     `json:"min_points"`
	MaxDistance     float64 `json:"max_distance"`
	MinWeight       float64 `json:"min_weight"`
	TimeDecayFactor float64 `json:"time_decay_factor"`
}

// DefaultClusteringParams возвращает параметры по умолчанию
func DefaultClusteringParams() ClusteringParams {
	return ClusteringParams{
		MinPoints:       3,
		MaxDistance:     500,
		MinWeight:       5,
		TimeDecayFactor: 0.1,
	}
}

// Validate проверяет параметры до начала работы
func (p ClusteringParams) Validate() error {
	if p.MinPoints < 1 {
		return errors.ErrInvalidClusteringParams.WithDetails(map[string]interface{}{
			"min_points": p.MinPoints,
			"reason":     "must be >= 1",
		})
	}
	if p.MaxDistance <= 0 {
		return errors.ErrInvalidClusteringParams.WithDetails(map[string]interface{}{
			"max_distance": p.MaxDistance,
			"reason":       "must be > 0",
		})
	}
	if p.MinWeight < 0 {
		return errors.ErrInvalidClusteringParams.WithDetails(map[string]interface{}{
			"min_weight": p.MinWeight,
			"reason":     "must be >= 0",
		})
	}
	if p.TimeDecayFactor < 0 {
		return errors.ErrInvalidClusteringParams.WithDetails(map[string]interface{}{
			"time_decay_factor": p.TimeDecayFactor,
			"reason":            "must be >= 0",
		})
	}
	return nil
}

// ClusterEngine выполняет взвешивание точек и DBSCAN-кластеризацию.
// Не хранит состояние между вызовами: одна кластеризация - одна
// локальная очередь, поэтому движок безопасен для параллельных запусков.
type ClusterEngine struct {
	params ClusteringParams
	logger *zap.Logger
}

// NewClusterEngine создает новый ClusterEngine, валидируя параметры
func NewClusterEngine(params ClusteringParams, logger *zap.Logger) (*ClusterEngine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ClusterEngine{
		params: params,
		logger: logger,
	}, nil
}

// Params возвращает параметры движка
func (e *ClusterEngine) Params() ClusteringParams {
	return e.params
}

// WeightPoints превращает элементы контента во взвешенные точки.
// Базовый вес: 1 + 2*likes + 3*replies + 5*shares + log10(views+1),
// затем экспоненциальное затухание по возрасту. Точки с не-конечным
// весом отбрасываются.
func (e *ClusterEngine) WeightPoints(items []*domain.ContentItem, now time.Time) []domain.ClusterPoint {
	points := make([]domain.ClusterPoint, 0, len(items))

	for _, item := range items {
		base := 1 +
			2*float64(item.LikeCount) +
			3*float64(item.ReplyCount) +
			5*float64(item.ShareCount) +
			math.Log10(float64(item.ViewCount)+1)

		ageDays := now.Sub(item.CreatedAt).Hours() / 24
		weight := base * math.Exp(-ageDays*e.params.TimeDecayFactor)

		if math.IsNaN(weight) || math.IsInf(weight, 0) {
			continue
		}

		points = append(points, domain.ClusterPoint{
			ID:        item.ID,
			Lat:       item.Lat,
			Lon:       item.Lon,
			Weight:    weight,
			Timestamp: item.CreatedAt,
			Source:    "content",
		})
	}

	return points
}

// Cluster выполняет DBSCAN по haversine-метрике и возвращает кластеры,
// прошедшие фильтр по весу. Соседство включает саму точку.
func (e *ClusterEngine) Cluster(points []domain.ClusterPoint) []*domain.Cluster {
	n := len(points)
	if n == 0 {
		return nil
	}

	visited := make([]bool, n)
	assigned := make([]bool, n)
	clusters := make([]*domain.Cluster, 0)

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := e.regionQuery(points, i)
		if len(neighbors) < e.params.MinPoints {
			// Шум: точка не порождает кластер, но может быть поглощена
			// позже, если достижима из другой core-точки
			continue
		}

		members := e.expandCluster(points, i, neighbors, visited, assigned)
		cluster := buildCluster(members)
		if cluster.TotalWeight >= e.params.MinWeight {
			clusters = append(clusters, cluster)
		}
	}

	e.logger.Debug("Clustering completed",
		zap.Int("points", n),
		zap.Int("clusters", len(clusters)))

	return clusters
}

// PostProcess сливает близкие кластеры и отбрасывает слабые.
// Слияние однопроходное по списку, отсортированному по весу:
// транзитивно сливаемые кластеры, возникшие после раннего слияния,
// повторно не обходятся (ограниченная стоимость).
func (e *ClusterEngine) PostProcess(clusters []*domain.Cluster) []*domain.Cluster {
	if len(clusters) == 0 {
		return clusters
	}

	sorted := make([]*domain.Cluster, len(clusters))
	copy(sorted, clusters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalWeight > sorted[j].TotalWeight
	})

	mergeDistance := mergeDistanceFactor * e.params.MaxDistance
	used := make([]bool, len(sorted))
	merged := make([]*domain.Cluster, 0, len(sorted))

	for i := 0; i < len(sorted); i++ {
		if used[i] {
			continue
		}
		base := sorted[i]

		for j := i + 1; j < len(sorted); j++ {
			if used[j] {
				continue
			}
			dist := utils.HaversineDistance(base.CenterLat, base.CenterLon,
				sorted[j].CenterLat, sorted[j].CenterLon)
			if dist <= mergeDistance {
				points := append(append([]domain.ClusterPoint{}, base.Points...), sorted[j].Points...)
				base = buildCluster(points)
				used[j] = true
			}
		}

		merged = append(merged, base)
	}

	// Фильтр слабых кластеров после слияния
	result := make([]*domain.Cluster, 0, len(merged))
	for _, c := range merged {
		if len(c.Points) >= e.params.MinPoints && c.TotalWeight >= e.params.MinWeight {
			result = append(result, c)
		}
	}

	if len(result) != len(clusters) {
		e.logger.Debug("Post-processing reduced cluster count",
			zap.Int("before", len(clusters)),
			zap.Int("after", len(result)))
	}

	return result
}

// regionQuery возвращает индексы точек в радиусе MaxDistance, включая саму точку
func (e *ClusterEngine) regionQuery(points []domain.ClusterPoint, idx int) []int {
	neighbors := make([]int, 0, e.params.MinPoints)
	p := points[idx]
	for i := range points {
		dist := utils.HaversineDistance(p.Lat, p.Lon, points[i].Lat, points[i].Lon)
		if dist <= e.params.MaxDistance {
			neighbors = append(neighbors, i)
		}
	}
	return neighbors
}

// expandCluster наращивает кластер через FIFO-очередь плотностной
// достижимости. Граничные точки включаются в кластер, но расширение
// продолжается только из core-точек (классический DBSCAN).
// Очередь локальна для вызова, глобального состояния нет.
func (e *ClusterEngine) expandCluster(
	points []domain.ClusterPoint,
	seed int,
	seedNeighbors []int,
	visited, assigned []bool,
) []domain.ClusterPoint {
	members := make([]domain.ClusterPoint, 0, len(seedNeighbors))
	members = append(members, points[seed])
	assigned[seed] = true

	queue := make([]int, 0, len(seedNeighbors))
	queue = append(queue, seedNeighbors...)

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		if !assigned[idx] {
			members = append(members, points[idx])
			assigned[idx] = true
		}

		if visited[idx] {
			continue
		}
		visited[idx] = true

		neighbors := e.regionQuery(points, idx)
		if len(neighbors) >= e.params.MinPoints {
			queue = append(queue, neighbors...)
		}
	}

	return members
}

// buildCluster вычисляет геометрию кластера по его точкам: взвешенный
// центроид (арифметическое среднее при нулевом суммарном весе), радиус
// 1.1 от максимального удаления и плотность точек на квадратный метр.
func buildCluster(points []domain.ClusterPoint) *domain.Cluster {
	totalWeight := 0.0
	for _, p := range points {
		totalWeight += p.Weight
	}

	var centerLat, centerLon float64
	if totalWeight > 0 {
		for _, p := range points {
			centerLat += p.Lat * p.Weight
			centerLon += p.Lon * p.Weight
		}
		centerLat /= totalWeight
		centerLon /= totalWeight
	} else {
		for _, p := range points {
			centerLat += p.Lat
			centerLon += p.Lon
		}
		centerLat /= float64(len(points))
		centerLon /= float64(len(points))
	}

	maxDist := 0.0
	bounds := domain.BoundingBox{
		MinLat: points[0].Lat,
		MinLon: points[0].Lon,
		MaxLat: points[0].Lat,
		MaxLon: points[0].Lon,
	}
	for _, p := range points {
		dist := utils.HaversineDistance(centerLat, centerLon, p.Lat, p.Lon)
		if dist > maxDist {
			maxDist = dist
		}
		bounds.Expand(p.Lat, p.Lon)
	}

	radius := clusterRadiusPadding * maxDist
	density := 0.0
	if radius > 0 {
		density = float64(len(points)) / (math.Pi * radius * radius)
	}

	return &domain.Cluster{
		CenterLat:    centerLat,
		CenterLon:    centerLon,
		RadiusMeters: radius,
		Points:       points,
		Density:      density,
		TotalWeight:  totalWeight,
		Bounds:       bounds,
	}
}
