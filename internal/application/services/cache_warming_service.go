package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const warmTimeout = 30 * time.Second

// FacilityListWarmer reloads the cached facility list.
type FacilityListWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// CacheWarmingService keeps the facility list cache populated on a schedule
type CacheWarmingService struct {
	warmer FacilityListWarmer
	cron   *cron.Cron
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(warmer FacilityListWarmer) *CacheWarmingService {
	return &CacheWarmingService{
		warmer: warmer,
		cron:   cron.New(),
	}
}

// WarmCache reloads the facility list once
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	start := time.Now()
	n, err := s.warmer.Warm(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm facility list: %w", err)
	}
	log.Info().Int("facilities", n).Dur("duration", time.Since(start)).Msg("Facility list cache warmed")
	return nil
}

// Start warms the cache immediately and then on schedule (cron syntax or
// descriptors such as "@every 5m").
func (s *CacheWarmingService) Start(ctx context.Context, schedule string) error {
	if err := s.WarmCache(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial cache warming failed")
	}

	_, err := s.cron.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		if err := s.WarmCache(runCtx); err != nil {
			log.Warn().Err(err).Msg("Periodic cache warming failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cache warm schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	log.Info().Str("schedule", schedule).Msg("Started periodic cache warming")
	return nil
}

// Stop halts the schedule and waits for a running warm-up to finish.
func (s *CacheWarmingService) Stop() {
	<-s.cron.Stop().Done()
}
