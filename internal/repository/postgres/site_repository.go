package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

const siteColumns = `
	id, name, tier, status, center_lat, center_lon, radius_meters,
	visit_count, unique_visitor_count, spot_count, total_engagement,
	average_engagement_rate, growth_rate, recency_score, diversity_score,
	consistency_score, total_score, cluster_points, cluster_metadata,
	discoverer_id, discovered_at, first_activity_at, last_activity_at,
	tags, created_at, updated_at
`

type siteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSiteRepository(db *DB) repository.SiteRepository {
	return &siteRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *siteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1`

	site, err := r.scanSite(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrSiteNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get site by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return site, nil
}

func (r *siteRepository) Create(ctx context.Context, site *domain.Site) error {
	query := `
		INSERT INTO sites (
			id, name, tier, status, center_lat, center_lon, radius_meters,
			cluster_points, cluster_metadata, discoverer_id,
			discovered_at, first_activity_at, last_activity_at,
			tags, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
	`

	metadataJSON, err := marshalClusterMetadata(site.ClusterMetadata)
	if err != nil {
		return errors.ErrDatabaseError
	}

	_, err = r.db.ExecContext(ctx, query,
		site.ID, site.Name, site.Tier, site.Status,
		site.CenterLat, site.CenterLon, site.RadiusMeters,
		site.ClusterPoints, metadataJSON, site.DiscovererID,
		site.DiscoveredAt, site.FirstActivityAt, site.LastActivityAt,
		pq.Array(site.Tags), site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create site", zap.String("id", site.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func (r *siteRepository) Update(ctx context.Context, site *domain.Site) error {
	query := `
		UPDATE sites SET
			name = $2,
			center_lat = $3,
			center_lon = $4,
			radius_meters = $5,
			cluster_points = $6,
			cluster_metadata = $7,
			last_activity_at = GREATEST(last_activity_at, $8),
			tags = $9,
			updated_at = $10
		WHERE id = $1
	`

	metadataJSON, err := marshalClusterMetadata(site.ClusterMetadata)
	if err != nil {
		return errors.ErrDatabaseError
	}

	result, err := r.db.ExecContext(ctx, query,
		site.ID, site.Name,
		site.CenterLat, site.CenterLon, site.RadiusMeters,
		site.ClusterPoints, metadataJSON, site.LastActivityAt,
		pq.Array(site.Tags), site.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update site", zap.String("id", site.ID.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.ErrSiteNotFound
	}

	return nil
}

// FindInBounds возвращает неархивные сайты, чья зона пересекает
// прямоугольник. Границы зоны сайта вычисляются из центра и радиуса
// тем же приближением, что и domain.Site.BoundingBox.
func (r *siteRepository) FindInBounds(ctx context.Context, bounds domain.BoundingBox) ([]*domain.Site, error) {
	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE status != 'archived'
		  AND center_lat - (radius_meters / 111320.0) <= $3
		  AND center_lat + (radius_meters / 111320.0) >= $1
		  AND center_lon - (radius_meters / (111320.0 * GREATEST(cos(radians(center_lat)), 0.01))) <= $4
		  AND center_lon + (radius_meters / (111320.0 * GREATEST(cos(radians(center_lat)), 0.01))) >= $2
	`

	rows, err := r.db.QueryContext(ctx, query, bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon)
	if err != nil {
		r.logger.Error("Failed to find sites in bounds", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectSites(rows)
}

func (r *siteRepository) FindByStatus(ctx context.Context, status domain.SiteStatus) ([]*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE status = $1`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		r.logger.Error("Failed to find sites by status", zap.String("status", string(status)), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectSites(rows)
}

func (r *siteRepository) FindInactiveSince(ctx context.Context, cutoff time.Time) ([]*domain.Site, error) {
	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE status = 'active' AND last_activity_at < $1
	`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		r.logger.Error("Failed to find inactive sites", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectSites(rows)
}

func (r *siteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SiteStatus) error {
	query := `UPDATE sites SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update site status",
			zap.String("id", id.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.ErrSiteNotFound
	}

	return nil
}

func (r *siteRepository) UpdateLastActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	// GREATEST: отметка времени никогда не движется назад
	query := `
		UPDATE sites
		SET last_activity_at = GREATEST(last_activity_at, $2), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		r.logger.Error("Failed to update site last activity", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.ErrSiteNotFound
	}

	return nil
}

func (r *siteRepository) UpdateMetrics(ctx context.Context, id uuid.UUID, metrics domain.SiteMetrics, tier domain.SiteTier) error {
	query := `
		UPDATE sites SET
			visit_count = $2,
			unique_visitor_count = $3,
			spot_count = $4,
			total_engagement = $5,
			average_engagement_rate = $6,
			growth_rate = $7,
			recency_score = $8,
			diversity_score = $9,
			consistency_score = $10,
			total_score = $11,
			tier = $12,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		id,
		metrics.VisitCount, metrics.UniqueVisitorCount, metrics.SpotCount,
		metrics.TotalEngagement, metrics.AverageEngagementRate,
		metrics.GrowthRate, metrics.RecencyScore, metrics.DiversityScore,
		metrics.ConsistencyScore, metrics.TotalScore, tier,
	)
	if err != nil {
		r.logger.Error("Failed to update site metrics", zap.String("id", id.String()), zap.Error(err))
		return errors.ErrDatabaseError
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.ErrSiteNotFound
	}

	return nil
}

func (r *siteRepository) FindTopRanked(
	ctx context.Context,
	limit int,
	tier *domain.SiteTier,
	bounds *domain.BoundingBox,
) ([]*domain.Site, error) {
	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE status != 'archived'
	`

	args := []interface{}{}
	argIdx := 1

	if tier != nil {
		query += fmt.Sprintf(" AND tier = $%d", argIdx)
		args = append(args, string(*tier))
		argIdx++
	}

	if bounds != nil {
		query += fmt.Sprintf(" AND center_lat BETWEEN $%d AND $%d AND center_lon BETWEEN $%d AND $%d",
			argIdx, argIdx+1, argIdx+2, argIdx+3)
		args = append(args, bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon)
		argIdx += 4
	}

	query += fmt.Sprintf(" ORDER BY total_score DESC, last_activity_at DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to find top ranked sites", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	return r.collectSites(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *siteRepository) scanSite(row rowScanner) (*domain.Site, error) {
	var site domain.Site
	var metadataJSON []byte
	var tags pq.StringArray

	err := row.Scan(
		&site.ID, &site.Name, &site.Tier, &site.Status,
		&site.CenterLat, &site.CenterLon, &site.RadiusMeters,
		&site.Metrics.VisitCount, &site.Metrics.UniqueVisitorCount,
		&site.Metrics.SpotCount, &site.Metrics.TotalEngagement,
		&site.Metrics.AverageEngagementRate, &site.Metrics.GrowthRate,
		&site.Metrics.RecencyScore, &site.Metrics.DiversityScore,
		&site.Metrics.ConsistencyScore, &site.Metrics.TotalScore,
		&site.ClusterPoints, &metadataJSON,
		&site.DiscovererID, &site.DiscoveredAt,
		&site.FirstActivityAt, &site.LastActivityAt,
		&tags, &site.CreatedAt, &site.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	site.Tags = tags

	// Unmarshal cluster metadata JSON if present
	if len(metadataJSON) > 0 {
		var metadata domain.ClusterMetadata
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			r.logger.Warn("Failed to unmarshal cluster metadata",
				zap.String("id", site.ID.String()),
				zap.Error(err))
		} else {
			site.ClusterMetadata = &metadata
		}
	}

	return &site, nil
}

func (r *siteRepository) collectSites(rows *sql.Rows) ([]*domain.Site, error) {
	var sites []*domain.Site
	for rows.Next() {
		site, err := r.scanSite(rows)
		if err != nil {
			r.logger.Error("Failed to scan site", zap.Error(err))
			continue
		}
		sites = append(sites, site)
	}
	return sites, nil
}

func marshalClusterMetadata(metadata *domain.ClusterMetadata) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	return json.Marshal(metadata)
}
