package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sites-microservice/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetRanking получает кешированный рейтинг сайта
	GetRanking(ctx context.Context, siteID uuid.UUID) (*domain.RankingResult, error)

	// SetRanking сохраняет рейтинг сайта в кеше
	SetRanking(ctx context.Context, siteID uuid.UUID, result *domain.RankingResult, ttl time.Duration) error

	// DeleteRanking сбрасывает кешированный рейтинг сайта
	DeleteRanking(ctx context.Context, siteID uuid.UUID) error

	// GetLeaderboard получает кешированную таблицу лидеров по ключу запроса
	GetLeaderboard(ctx context.Context, key string) ([]*domain.LeaderboardEntry, error)

	// SetLeaderboard сохраняет таблицу лидеров в кеше
	SetLeaderboard(ctx context.Context, key string, entries []*domain.LeaderboardEntry, ttl time.Duration) error
}
