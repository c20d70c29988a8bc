package handler

import (
	"time"

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

// ActivityHandler обрабатывает запросы записи активности
type ActivityHandler struct {
	siteUC *usecase.SiteUseCase
	logger *zap.Logger
}

// NewActivityHandler создает новый экземпляр ActivityHandler
func NewActivityHandler(siteUC *usecase.SiteUseCase, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		siteUC: siteUC,
		logger: logger,
	}
}

// RecordActivity godoc
// @Summary Record site activity
// @Description Принимает событие активности и публикует его в стрим. Персистится асинхронно
// @Tags Activities
// @Accept json
// @Produce json
// @Param request body dto.RecordActivityRequest true "Событие активности"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/activities [post]
func (h *ActivityHandler) RecordActivity(c *fiber.Ctx) error {
	var req dto.RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"validation": err.Error(),
		}))
	}

	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	event := &domain.ActivityRecordedEvent{
		SiteID:      siteID,
		Type:        domain.ActivityType(req.Type),
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		Lat:         req.Lat,
		Lon:         req.Lon,
		Metadata:    req.Metadata,
		RecordedAt:  time.Now().UTC(),
	}
	if req.UserID != nil {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		event.UserID = &userID
	}

	if err := h.siteUC.RecordActivity(c.Context(), event); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.RecordActivityResponse{
		Accepted:   true,
		SiteID:     siteID.String(),
		RecordedAt: event.RecordedAt.Format(time.RFC3339),
	}, nil)
}
