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

// SiteHandler обрабатывает запросы управления сайтами
type SiteHandler struct {
	siteUC    *usecase.SiteUseCase
	rankingUC *usecase.RankingUseCase
	logger    *zap.Logger
}

// NewSiteHandler создает новый экземпляр SiteHandler
func NewSiteHandler(siteUC *usecase.SiteUseCase, rankingUC *usecase.RankingUseCase, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		siteUC:    siteUC,
		rankingUC: rankingUC,
		logger:    logger,
	}
}

// CreateSite godoc
// @Summary Create site manually
// @Description Создаёт сайт вручную. Центр внутри зоны существующего сайта - конфликт
// @Tags Sites
// @Accept json
// @Produce json
// @Param request body dto.CreateSiteRequest true "Параметры сайта"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/sites [post]
func (h *SiteHandler) CreateSite(c *fiber.Ctx) error {
	var req dto.CreateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	input := usecase.CreateSiteInput{
		Name:         req.Name,
		Lat:          req.Lat,
		Lon:          req.Lon,
		RadiusMeters: req.RadiusMeters,
		Tags:         req.Tags,
	}
	if req.DiscovererID != nil {
		id, err := uuid.Parse(*req.DiscovererID)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		input.DiscovererID = &id
	}

	site, err := h.siteUC.CreateSite(c.Context(), input)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, site, nil)
}

// GetSite godoc
// @Summary Get site by ID
// @Tags Sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sites/{id} [get]
func (h *SiteHandler) GetSite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	site, err := h.siteUC.GetSite(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, site, nil)
}

// GetSiteRanking godoc
// @Summary Get site ranking
// @Description Возвращает рейтинг сайта. Веса метрик можно переопределить query-параметрами w_<metric>
// @Tags Sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sites/{id}/ranking [get]
func (h *SiteHandler) GetSiteRanking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	overrides := parseWeightOverrides(c)

	result, err := h.rankingUC.GetSiteRanking(c.Context(), id, overrides)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetSiteStatistics godoc
// @Summary Get site activity statistics
// @Tags Sites
// @Produce json
// @Param id path string true "Site ID"
// @Param days query int false "Окно статистики в днях" default(30)
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sites/{id}/statistics [get]
func (h *SiteHandler) GetSiteStatistics(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	days := c.QueryInt("days", 30)

	stats, err := h.siteUC.GetSiteStatistics(c.Context(), id, days)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stats, nil)
}

// ArchiveSite godoc
// @Summary Archive site
// @Description Переводит сайт в терминальный статус archived
// @Tags Sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sites/{id}/archive [post]
func (h *SiteHandler) ArchiveSite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := h.siteUC.ArchiveSite(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"site_id": id.String(),
		"status":  domain.StatusArchived,
	}, nil)
}

// parseWeightOverrides собирает переопределения весов из query-параметров
// вида w_visit=0.3. Отсутствующие параметры оставляют вес по умолчанию.
func parseWeightOverrides(c *fiber.Ctx) map[string]float64 {
	metrics := []string{
		domain.MetricVisit, domain.MetricUniqueVisitor, domain.MetricEngagement,
		domain.MetricGrowth, domain.MetricRecency, domain.MetricDiversity,
		domain.MetricConsistency,
	}

	overrides := make(map[string]float64)
	for _, name := range metrics {
		raw := c.Query("w_" + name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		overrides[name] = value
	}

	if len(overrides) == 0 {
		return nil
	}
	return overrides
}
