package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/pkg/errors"
	"github.com/sites-microservice/internal/pkg/utils"
	"github.com/sites-microservice/internal/pkg/validator"
	"github.com/sites-microservice/internal/usecase"
	"github.com/sites-microservice/internal/usecase/dto"
	"go.uber.org/zap"
)

// RankingHandler обрабатывает запросы таблицы лидеров
// и административные триггеры discovery / пересчёта рейтингов
type RankingHandler struct {
	rankingUC   *usecase.RankingUseCase
	discoveryUC *usecase.DiscoveryUseCase
	logger      *zap.Logger
}

// NewRankingHandler создает новый экземпляр RankingHandler
func NewRankingHandler(
	rankingUC *usecase.RankingUseCase,
	discoveryUC *usecase.DiscoveryUseCase,
	logger *zap.Logger,
) *RankingHandler {
	return &RankingHandler{
		rankingUC:   rankingUC,
		discoveryUC: discoveryUC,
		logger:      logger,
	}
}

// GetLeaderboard godoc
// @Summary Get sites leaderboard
// @Description Возвращает сайты по убыванию рейтинга с фильтрами по уровню и зоне
// @Tags Ranking
// @Produce json
// @Param limit query int false "Максимум записей" default(20)
// @Param tier query string false "Фильтр по уровню" Enums(legendary, major, minor, emerging)
// @Param min_lat query number false "Южная граница зоны"
// @Param min_lon query number false "Западная граница зоны"
// @Param max_lat query number false "Северная граница зоны"
// @Param max_lon query number false "Восточная граница зоны"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/leaderboard [get]
func (h *RankingHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	var tier *domain.SiteTier
	if raw := c.Query("tier"); raw != "" {
		t := domain.SiteTier(raw)
		tier = &t
	}

	bounds, err := parseBoundsQuery(c)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"bounds": err.Error(),
		}))
	}

	entries, err := h.rankingUC.QueryLeaderboard(c.Context(), limit, tier, bounds)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.LeaderboardResponse{
		Entries: entries,
		Total:   len(entries),
	}, &utils.Meta{
		Total: len(entries),
	})
}

// TriggerDiscovery godoc
// @Summary Trigger discovery cycle
// @Description Запускает цикл обнаружения сайтов вне расписания
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/admin/discover [post]
func (h *RankingHandler) TriggerDiscovery(c *fiber.Ctx) error {
	h.logger.Info("Manual discovery triggered")

	result, err := h.discoveryUC.Discover(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.DiscoveryResponse{Result: result}, nil)
}

// RecomputeRankings godoc
// @Summary Recompute site rankings
// @Description Пересчитывает рейтинги перечисленных сайтов (всех активных при пустом списке)
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.RecomputeRankingsRequest false "Параметры пересчёта"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/admin/rankings/recompute [post]
func (h *RankingHandler) RecomputeRankings(c *fiber.Ctx) error {
	var req dto.RecomputeRankingsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		if err := validator.Validate(&req); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"validation": err.Error(),
			}))
		}
	}

	siteIDs := make([]uuid.UUID, 0, len(req.SiteIDs))
	for _, raw := range req.SiteIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		siteIDs = append(siteIDs, id)
	}

	result, err := h.rankingUC.BatchUpdateRankings(c.Context(), siteIDs, req.Weights)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// parseBoundsQuery читает опциональный прямоугольник из query-параметров.
// Указывать нужно либо все четыре границы, либо ни одной.
func parseBoundsQuery(c *fiber.Ctx) (*domain.BoundingBox, error) {
	keys := []string{"min_lat", "min_lon", "max_lat", "max_lon"}
	values := make([]float64, len(keys))
	present := 0

	for i, key := range keys {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		values[i] = value
		present++
	}

	if present == 0 {
		return nil, nil
	}
	if present != len(keys) {
		return nil, errors.ErrInvalidRequest
	}

	return &domain.BoundingBox{
		MinLat: values[0],
		MinLon: values[1],
		MaxLat: values[2],
		MaxLon: values[3],
	}, nil
}
