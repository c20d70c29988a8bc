package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

type activityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewActivityRepository(db *DB) repository.ActivityRepository {
	return &activityRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (
			id, site_id, user_id, type, content_id, content_type,
			lat, lon, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var metadataJSON []byte
	if len(activity.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(activity.Metadata)
		if err != nil {
			r.logger.Error("Failed to marshal activity metadata",
				zap.String("id", activity.ID.String()),
				zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	_, err := r.db.ExecContext(ctx, query,
		activity.ID, activity.SiteID, activity.UserID, activity.Type,
		activity.ContentID, activity.ContentType,
		activity.Lat, activity.Lon, metadataJSON, activity.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create activity",
			zap.String("site_id", activity.SiteID.String()),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *activityRepository) FindBySite(ctx context.Context, siteID uuid.UUID, since time.Time) ([]*domain.Activity, error) {
	query := `
		SELECT id, site_id, user_id, type, content_id, content_type,
		       lat, lon, metadata, created_at
		FROM activities
		WHERE site_id = $1 AND created_at >= $2
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, siteID, since)
	if err != nil {
		r.logger.Error("Failed to find activities by site",
			zap.String("site_id", siteID.String()),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		activity, err := r.scanActivity(rows)
		if err != nil {
			r.logger.Error("Failed to scan activity", zap.Error(err))
			continue
		}
		activities = append(activities, activity)
	}

	return activities, nil
}

func (r *activityRepository) CountBySite(ctx context.Context, siteID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM activities
		WHERE site_id = $1 AND created_at >= $2 AND created_at < $3
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, siteID, from, to).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count activities",
			zap.String("site_id", siteID.String()),
			zap.Error(err))
		return 0, errors.ErrDatabaseError
	}

	return count, nil
}

func (r *activityRepository) scanActivity(rows *sql.Rows) (*domain.Activity, error) {
	var activity domain.Activity
	var metadataJSON []byte

	err := rows.Scan(
		&activity.ID, &activity.SiteID, &activity.UserID, &activity.Type,
		&activity.ContentID, &activity.ContentType,
		&activity.Lat, &activity.Lon, &metadataJSON, &activity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		metadata := make(map[string]interface{})
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			r.logger.Warn("Failed to unmarshal activity metadata",
				zap.String("id", activity.ID.String()),
				zap.Error(err))
		} else {
			activity.Metadata = metadata
		}
	}

	return &activity, nil
}
