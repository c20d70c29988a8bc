package repository

import (
	"context"
	"time"

	"github.com/sites-microservice/internal/domain"
)

// ContentRepository - read-only доступ к внешнему хранилищу контента
type ContentRepository interface {
	// FetchRecent возвращает не более limit самых свежих элементов с координатами
	FetchRecent(ctx context.Context, limit int) ([]*domain.ContentItem, error)

	// FetchInBounds возвращает элементы внутри прямоугольника, созданные после since
	FetchInBounds(ctx context.Context, bounds domain.BoundingBox, since time.Time) ([]*domain.ContentItem, error)
}
