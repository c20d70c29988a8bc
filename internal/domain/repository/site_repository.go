package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sites-microservice/internal/domain"
)

// SiteRepository определяет методы для работы с персистентными сайтами
type SiteRepository interface {
	// GetByID возвращает сайт по идентификатору
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Site, error)

	// Create сохраняет новый сайт
	Create(ctx context.Context, site *domain.Site) error

	// Update перезаписывает геометрию, метрики и метаданные сайта
	Update(ctx context.Context, site *domain.Site) error

	// FindInBounds возвращает неархивные сайты, чей ограничивающий
	// прямоугольник пересекается с заданным
	FindInBounds(ctx context.Context, bounds domain.BoundingBox) ([]*domain.Site, error)

	// FindByStatus возвращает сайты с заданным статусом
	FindByStatus(ctx context.Context, status domain.SiteStatus) ([]*domain.Site, error)

	// FindInactiveSince возвращает активные сайты без активности после cutoff
	FindInactiveSince(ctx context.Context, cutoff time.Time) ([]*domain.Site, error)

	// UpdateStatus меняет статус сайта
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SiteStatus) error

	// UpdateLastActivity сдвигает lastActivityAt вперёд (никогда назад)
	UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error

	// UpdateMetrics сохраняет метрики, счёт и уровень после пересчёта рейтинга
	UpdateMetrics(ctx context.Context, id uuid.UUID, metrics domain.SiteMetrics, tier domain.SiteTier) error

	// FindTopRanked возвращает сайты, отсортированные по totalScore по убыванию,
	// с опциональными фильтрами по уровню и зоне
	FindTopRanked(ctx context.Context, limit int, tier *domain.SiteTier, bounds *domain.BoundingBox) ([]*domain.Site, error)
}
