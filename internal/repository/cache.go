package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fala_cidadao/internal/models"
)

// CollectionCacheKey - ключ сериализованной коллекции в Redis
const CollectionCacheKey = "falaCidadao:demandas"

// getCollectionFromCache возвращает nil без ошибки при промахе
func (r *ReportRepository) getCollectionFromCache(ctx context.Context) ([]*models.Report, error) {
	if r.redisClient == nil {
		return nil, nil
	}
	val, err := r.redisClient.Get(ctx, CollectionCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reports from cache: %w", err)
	}

	var reports []*models.Report
	if err := json.Unmarshal(val, &reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reports from cache: %w", err)
	}
	if reports == nil {
		reports = []*models.Report{}
	}
	return reports, nil
}

func (r *ReportRepository) setCollectionCache(ctx context.Context, reports []*models.Report) error {
	if r.redisClient == nil || r.cacheTTL <= 0 {
		return nil
	}
	val, err := json.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to marshal reports for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, CollectionCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set reports in cache: %w", err)
	}
	return nil
}

func (r *ReportRepository) invalidateCollectionCache(ctx context.Context) error {
	if r.redisClient == nil {
		return nil
	}
	if err := r.redisClient.Del(ctx, CollectionCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate reports cache: %w", err)
	}
	return nil
}
