package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sites-microservice/internal/domain"
)

// ActivityRepository определяет методы для работы с журналом активности.
// Записи неизменяемы: только вставка и типизированные выборки.
type ActivityRepository interface {
	// Create сохраняет запись активности
	Create(ctx context.Context, activity *domain.Activity) error

	// FindBySite возвращает активность сайта начиная с момента since
	FindBySite(ctx context.Context, siteID uuid.UUID, since time.Time) ([]*domain.Activity, error)

	// CountBySite возвращает количество записей сайта в интервале [from, to)
	CountBySite(ctx context.Context, siteID uuid.UUID, from, to time.Time) (int, error)
}
