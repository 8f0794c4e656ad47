package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/repositories"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
)

// Cache keys
const (
	facilitiesListCacheKey = "facilities:list"
	facilityKeyspace       = "facilities"
)

func facilityCacheKey(id string) string {
	return fmt.Sprintf("facility:%s", id)
}

// CachedFacilityAdapter wraps a FacilityRepository with caching
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedFacilityAdapter creates a new cached facility adapter
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) *CachedFacilityAdapter {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// List retrieves the full facility list, from cache when possible
func (a *CachedFacilityAdapter) List(ctx context.Context) ([]entities.Facility, error) {
	if cached, err := a.cache.Get(ctx, facilitiesListCacheKey); err == nil {
		var facilities []entities.Facility
		if err := json.Unmarshal(cached, &facilities); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, facilityKeyspace)
			return facilities, nil
		}
		log.Warn().Err(err).Msg("Failed to unmarshal cached facility list")
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		log.Warn().Err(err).Msg("Facility list cache read failed")
	}
	observability.RecordCacheMiss(ctx, a.metrics, facilityKeyspace)

	facilities, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	a.store(ctx, facilitiesListCacheKey, facilities)
	return facilities, nil
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	key := facilityCacheKey(id)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var facility entities.Facility
		if err := json.Unmarshal(cached, &facility); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, facilityKeyspace)
			return &facility, nil
		}
		log.Warn().Err(err).Str("facility_id", id).Msg("Failed to unmarshal cached facility")
	}
	observability.RecordCacheMiss(ctx, a.metrics, facilityKeyspace)

	facility, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.store(ctx, key, facility)
	return facility, nil
}

// Upsert writes through and invalidates the affected keys
func (a *CachedFacilityAdapter) Upsert(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Upsert(ctx, facility); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, facilitiesListCacheKey, facilityCacheKey(facility.ID)); err != nil {
		log.Warn().Err(err).Str("facility_id", facility.ID).Msg("Failed to invalidate facility cache")
	}
	return nil
}

// Warm reloads the list from the store and replaces the cached copy.
func (a *CachedFacilityAdapter) Warm(ctx context.Context) (int, error) {
	facilities, err := a.adapter.List(ctx)
	if err != nil {
		return 0, err
	}
	data, err := json.Marshal(facilities)
	if err != nil {
		return 0, fmt.Errorf("failed to encode facility list: %w", err)
	}
	if err := a.cache.Set(ctx, facilitiesListCacheKey, data, a.ttl); err != nil {
		return 0, fmt.Errorf("failed to cache facility list: %w", err)
	}
	return len(facilities), nil
}

// store caches value without failing the caller; the cache is best effort.
func (a *CachedFacilityAdapter) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return
	}
	if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to write cache entry")
	}
}
