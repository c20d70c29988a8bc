package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

// contentRepository читает реплику контентного хранилища.
// Запись выполняет контентный сервис - здесь только выборки.
type contentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewContentRepository(db *DB) repository.ContentRepository {
	return &contentRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *contentRepository) FetchRecent(ctx context.Context, limit int) ([]*domain.ContentItem, error) {
	query := `
		SELECT id, lat, lon, like_count, reply_count, share_count, view_count, tags, created_at
		FROM content_items
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to fetch recent content items", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectItems(rows)
}

func (r *contentRepository) FetchInBounds(ctx context.Context, bounds domain.BoundingBox, since time.Time) ([]*domain.ContentItem, error) {
	query := `
		SELECT id, lat, lon, like_count, reply_count, share_count, view_count, tags, created_at
		FROM content_items
		WHERE lat BETWEEN $1 AND $2
		  AND lon BETWEEN $3 AND $4
		  AND created_at >= $5
	`

	rows, err := r.db.QueryContext(ctx, query, bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon, since)
	if err != nil {
		r.logger.Error("Failed to fetch content items in bounds", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectItems(rows)
}

func (r *contentRepository) collectItems(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
}) ([]*domain.ContentItem, error) {
	var items []*domain.ContentItem
	for rows.Next() {
		var item domain.ContentItem
		var tags pq.StringArray

		err := rows.Scan(
			&item.ID, &item.Lat, &item.Lon,
			&item.LikeCount, &item.ReplyCount, &item.ShareCount, &item.ViewCount,
			&tags, &item.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan content item", zap.Error(err))
			continue
		}

		item.Tags = tags
		items = append(items, &item)
	}

	return items, nil
}
