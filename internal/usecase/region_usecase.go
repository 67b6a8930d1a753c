package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/metrics"
	"github.com/cosmogony-cities/internal/pkg/errors"
	"github.com/cosmogony-cities/internal/pkg/utils"
)

// RegionUseCase отдает загруженные города, кешируя ответы в Redis
type RegionUseCase struct {
	regionRepo repository.RegionRepository
	cacheRepo  repository.CacheRepository
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewRegionUseCase создает новый экземпляр RegionUseCase; cacheRepo может быть nil
func NewRegionUseCase(
	regionRepo repository.RegionRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *RegionUseCase {
	return &RegionUseCase{
		regionRepo: regionRepo,
		cacheRepo:  cacheRepo,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

func regionIDKey(id int64) string {
	return fmt.Sprintf("%sid:%d", RegionCachePrefix, id)
}

func regionURIKey(uri string) string {
	return fmt.Sprintf("%suri:%s", RegionCachePrefix, uri)
}

func regionPointKey(lat, lon float64) string {
	// ~1 m precision is enough to share lookups between nearby points
	return fmt.Sprintf("%spoint:%.5f:%.5f", RegionCachePrefix, lat, lon)
}

// GetByID возвращает город по ID
func (uc *RegionUseCase) GetByID(ctx context.Context, id int64) (*domain.RegionSummary, error) {
	if id < 0 {
		return nil, errors.ErrInvalidRegionID
	}

	key := regionIDKey(id)
	var cached domain.RegionSummary
	if uc.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	region, err := uc.regionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, key, region)
	return region, nil
}

// GetByURI возвращает город по uri (admin:fr:<insee> или admin:osm:<osm_id>)
func (uc *RegionUseCase) GetByURI(ctx context.Context, uri string) (*domain.RegionSummary, error) {
	if !strings.HasPrefix(uri, domain.URIPrefixInsee) && !strings.HasPrefix(uri, domain.URIPrefixOSM) {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"uri": uri,
		})
	}

	key := regionURIKey(uri)
	var cached domain.RegionSummary
	if uc.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	region, err := uc.regionRepo.GetByURI(ctx, uri)
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, key, region)
	return region, nil
}

// Lookup возвращает самый маленький город, граница которого содержит точку
func (uc *RegionUseCase) Lookup(ctx context.Context, lat, lon float64) (*domain.RegionSummary, error) {
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	key := regionPointKey(lat, lon)
	var cached domain.RegionSummary
	if uc.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	regions, err := uc.regionRepo.GetByPoint(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, errors.ErrRegionNotFound
	}

	uc.toCache(ctx, key, regions[0])
	return regions[0], nil
}

func (uc *RegionUseCase) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if uc.cacheRepo == nil {
		return false
	}

	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to get region from cache", zap.String("key", key), zap.Error(err))
	}
	if data == nil {
		metrics.RegionCacheMissesTotal.Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		uc.logger.Warn("Failed to unmarshal cached region", zap.String("key", key), zap.Error(err))
		metrics.RegionCacheMissesTotal.Inc()
		return false
	}

	metrics.RegionCacheHitsTotal.Inc()
	return true
}

func (uc *RegionUseCase) toCache(ctx context.Context, key string, value interface{}) {
	if uc.cacheRepo == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		uc.logger.Warn("Failed to marshal region for cache", zap.Error(err))
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache region", zap.String("key", key), zap.Error(err))
	}
}
