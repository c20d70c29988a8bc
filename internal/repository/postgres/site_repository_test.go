package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"github.com/sites-microservice/internal/pkg/errors"
	"github.com/sites-microservice/internal/repository/postgres/testhelpers"
)

// SiteRepositorySuite tests the site repository with real database
type SiteRepositorySuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.SiteRepository
	ctx    context.Context
}

// SetupSuite runs once before all tests
func (s *SiteRepositorySuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())

	// Apply migrations (skip if tables already exist)
	_ = testhelpers.ApplyMigrations(
		s.testDB.DB.DB,
		"../../../migrations",
	)

	s.repo = testhelpers.NewSiteRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

// TearDownSuite runs once after all tests
func (s *SiteRepositorySuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

// SetupTest runs before each test
func (s *SiteRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

// createSite inserts a site with the given status and last activity timestamp
func (s *SiteRepositorySuite) createSite(name string, status domain.SiteStatus, lastActivity time.Time) *domain.Site {
	now := time.Now().UTC().Truncate(time.Microsecond)
	site := &domain.Site{
		ID:              uuid.New(),
		Name:            name,
		Tier:            domain.TierEmerging,
		Status:          status,
		CenterLat:       40.4168,
		CenterLon:       -3.7038,
		RadiusMeters:    500,
		ClusterPoints:   3,
		DiscoveredAt:    now,
		FirstActivityAt: lastActivity,
		LastActivityAt:  lastActivity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.Require().NoError(s.repo.Create(s.ctx, site))
	return site
}

// ============================================================================
// Test GetByID
// ============================================================================

func (s *SiteRepositorySuite) TestGetByID_Roundtrip() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	site := &domain.Site{
		ID:            uuid.New(),
		Name:          "Plaza Mayor",
		Tier:          domain.TierEmerging,
		Status:        domain.StatusActive,
		CenterLat:     40.4155,
		CenterLon:     -3.7074,
		RadiusMeters:  350,
		ClusterPoints: 12,
		ClusterMetadata: &domain.ClusterMetadata{
			Algorithm:        "dbscan",
			Parameters:       map[string]float64{"min_points": 3, "max_distance_meters": 500},
			Confidence:       0.8,
			LastCalculatedAt: now,
		},
		DiscoveredAt:    now,
		FirstActivityAt: now,
		LastActivityAt:  now,
		Tags:            []string{"plaza", "historic"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.Require().NoError(s.repo.Create(s.ctx, site))

	got, err := s.repo.GetByID(s.ctx, site.ID)
	s.NoError(err)
	s.Require().NotNil(got)
	s.Equal(site.ID, got.ID)
	s.Equal("Plaza Mayor", got.Name)
	s.Equal(domain.TierEmerging, got.Tier)
	s.Equal(domain.StatusActive, got.Status)
	s.Equal(40.4155, got.CenterLat)
	s.Equal(-3.7074, got.CenterLon)
	s.Equal(350.0, got.RadiusMeters)
	s.Equal(12, got.ClusterPoints)
	s.Require().NotNil(got.ClusterMetadata)
	s.Equal("dbscan", got.ClusterMetadata.Algorithm)
	s.Equal(0.8, got.ClusterMetadata.Confidence)
	s.Equal([]string{"plaza", "historic"}, got.Tags)
	s.WithinDuration(now, got.LastActivityAt, time.Millisecond)
}

func (s *SiteRepositorySuite) TestGetByID_NotFound() {
	got, err := s.repo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, errors.ErrSiteNotFound)
	s.Nil(got)
}

// ============================================================================
// Test FindInactiveSince
// ============================================================================

func (s *SiteRepositorySuite) TestFindInactiveSince_StrictBoundary() {
	cutoff := time.Now().UTC().Truncate(time.Microsecond).Add(-30 * 24 * time.Hour)

	stale := s.createSite("Stale", domain.StatusActive, cutoff.Add(-24*time.Hour))
	s.createSite("Fresh", domain.StatusActive, cutoff.Add(24*time.Hour))
	s.createSite("Exact", domain.StatusActive, cutoff)

	sites, err := s.repo.FindInactiveSince(s.ctx, cutoff)
	s.NoError(err)
	s.Require().Len(sites, 1)
	s.Equal(stale.ID, sites[0].ID)
}

func (s *SiteRepositorySuite) TestFindInactiveSince_OnlyActiveSites() {
	cutoff := time.Now().UTC().Truncate(time.Microsecond).Add(-30 * 24 * time.Hour)
	old := cutoff.Add(-24 * time.Hour)

	stale := s.createSite("Stale active", domain.StatusActive, old)
	s.createSite("Already dormant", domain.StatusDormant, old)
	s.createSite("Archived", domain.StatusArchived, old)

	sites, err := s.repo.FindInactiveSince(s.ctx, cutoff)
	s.NoError(err)
	s.Require().Len(sites, 1)
	s.Equal(stale.ID, sites[0].ID)
}

// ============================================================================
// Test FindByStatus / UpdateStatus
// ============================================================================

func (s *SiteRepositorySuite) TestFindByStatus() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	active := s.createSite("Active", domain.StatusActive, now)
	s.createSite("Dormant", domain.StatusDormant, now)

	sites, err := s.repo.FindByStatus(s.ctx, domain.StatusActive)
	s.NoError(err)
	s.Require().Len(sites, 1)
	s.Equal(active.ID, sites[0].ID)
}

func (s *SiteRepositorySuite) TestUpdateStatus() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	site := s.createSite("Site", domain.StatusActive, now)

	s.NoError(s.repo.UpdateStatus(s.ctx, site.ID, domain.StatusDormant))

	got, err := s.repo.GetByID(s.ctx, site.ID)
	s.NoError(err)
	s.Equal(domain.StatusDormant, got.Status)
}

func (s *SiteRepositorySuite) TestUpdateStatus_NotFound() {
	err := s.repo.UpdateStatus(s.ctx, uuid.New(), domain.StatusArchived)
	s.ErrorIs(err, errors.ErrSiteNotFound)
}

// ============================================================================
// Test UpdateLastActivity
// ============================================================================

func (s *SiteRepositorySuite) TestUpdateLastActivity_NeverMovesBackwards() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	site := s.createSite("Site", domain.StatusActive, now)

	// Older timestamp is ignored
	s.NoError(s.repo.UpdateLastActivity(s.ctx, site.ID, now.Add(-time.Hour)))
	got, err := s.repo.GetByID(s.ctx, site.ID)
	s.NoError(err)
	s.WithinDuration(now, got.LastActivityAt, time.Millisecond)

	// Newer timestamp moves it forward
	later := now.Add(time.Hour)
	s.NoError(s.repo.UpdateLastActivity(s.ctx, site.ID, later))
	got, err = s.repo.GetByID(s.ctx, site.ID)
	s.NoError(err)
	s.WithinDuration(later, got.LastActivityAt, time.Millisecond)
}

// ============================================================================
// Test FindInBounds
// ============================================================================

func (s *SiteRepositorySuite) TestFindInBounds() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	inside := s.createSite("Inside", domain.StatusActive, now)
	far := s.createSite("Far away", domain.StatusActive, now)
	far.CenterLat = 55.7558
	far.CenterLon = 37.6173
	s.Require().NoError(s.repo.Update(s.ctx, far))

	bounds := domain.BoundingBox{MinLat: 40.0, MinLon: -4.0, MaxLat: 41.0, MaxLon: -3.0}
	sites, err := s.repo.FindInBounds(s.ctx, bounds)
	s.NoError(err)
	s.Require().Len(sites, 1)
	s.Equal(inside.ID, sites[0].ID)
}

// ============================================================================
// Test UpdateMetrics / FindTopRanked
// ============================================================================

func (s *SiteRepositorySuite) TestFindTopRanked_OrdersByScore() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	low := s.createSite("Low", domain.StatusActive, now)
	high := s.createSite("High", domain.StatusActive, now)

	s.Require().NoError(s.repo.UpdateMetrics(s.ctx, low.ID,
		domain.SiteMetrics{TotalScore: 120}, domain.TierMinor))
	s.Require().NoError(s.repo.UpdateMetrics(s.ctx, high.ID,
		domain.SiteMetrics{TotalScore: 640}, domain.TierMajor))

	sites, err := s.repo.FindTopRanked(s.ctx, 10, nil, nil)
	s.NoError(err)
	s.Require().Len(sites, 2)
	s.Equal(high.ID, sites[0].ID)
	s.Equal(640, sites[0].Metrics.TotalScore)
	s.Equal(domain.TierMajor, sites[0].Tier)
	s.Equal(low.ID, sites[1].ID)
}

func (s *SiteRepositorySuite) TestFindTopRanked_TierFilter() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	low := s.createSite("Low", domain.StatusActive, now)
	high := s.createSite("High", domain.StatusActive, now)

	s.Require().NoError(s.repo.UpdateMetrics(s.ctx, low.ID,
		domain.SiteMetrics{TotalScore: 120}, domain.TierMinor))
	s.Require().NoError(s.repo.UpdateMetrics(s.ctx, high.ID,
		domain.SiteMetrics{TotalScore: 640}, domain.TierMajor))

	tier := domain.TierMinor
	sites, err := s.repo.FindTopRanked(s.ctx, 10, &tier, nil)
	s.NoError(err)
	s.Require().Len(sites, 1)
	s.Equal(low.ID, sites[0].ID)
}

func (s *SiteRepositorySuite) TestUpdateMetrics_NotFound() {
	err := s.repo.UpdateMetrics(s.ctx, uuid.New(), domain.SiteMetrics{}, domain.TierEmerging)
	s.ErrorIs(err, errors.ErrSiteNotFound)
}

func TestSiteRepositorySuite(t *testing.T) {
	suite.Run(t, new(SiteRepositorySuite))
}
