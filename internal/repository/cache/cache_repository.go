package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sites-microservice/internal/domain"
	"github.com/sites-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetRanking получает кешированный рейтинг сайта
func (r *cacheRepository) GetRanking(ctx context.Context, siteID uuid.UUID) (*domain.RankingResult, error) {
	data, err := r.Get(ctx, rankingKey(siteID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var result domain.RankingResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Error("Failed to unmarshal ranking from cache",
			zap.String("site_id", siteID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("unmarshal ranking: %w", err)
	}

	return &result, nil
}

// SetRanking сохраняет рейтинг сайта в кеше
func (r *cacheRepository) SetRanking(ctx context.Context, siteID uuid.UUID, result *domain.RankingResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to marshal ranking",
			zap.String("site_id", siteID.String()),
			zap.Error(err))
		return fmt.Errorf("marshal ranking: %w", err)
	}

	return r.Set(ctx, rankingKey(siteID), data, ttl)
}

func (r *cacheRepository) DeleteRanking(ctx context.Context, siteID uuid.UUID) error {
	return r.Delete(ctx, rankingKey(siteID))
}

// GetLeaderboard получает кешированную таблицу лидеров
func (r *cacheRepository) GetLeaderboard(ctx context.Context, key string) ([]*domain.LeaderboardEntry, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var entries []*domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Error("Failed to unmarshal leaderboard from cache",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("unmarshal leaderboard: %w", err)
	}

	return entries, nil
}

// SetLeaderboard сохраняет таблицу лидеров в кеше
func (r *cacheRepository) SetLeaderboard(ctx context.Context, key string, entries []*domain.LeaderboardEntry, ttl time.Duration) error {
	data, err := json.Marshal(entries)
	if err != nil {
		r.logger.Error("Failed to marshal leaderboard", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("marshal leaderboard: %w", err)
	}

	return r.Set(ctx, key, data, ttl)
}

func rankingKey(siteID uuid.UUID) string {
	return fmt.Sprintf("ranking:%s", siteID.String())
}
