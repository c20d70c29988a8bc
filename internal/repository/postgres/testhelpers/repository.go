package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewSiteRepositoryForTest creates a site repository with test database and logger
func NewSiteRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.SiteRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewSiteRepository(pgDB)
}

// NewActivityRepositoryForTest creates an activity repository with test database and logger
func NewActivityRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ActivityRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewActivityRepository(pgDB)
}

// NewContentRepositoryForTest creates a content repository with test database and logger
func NewContentRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ContentRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewContentRepository(pgDB)
}
