package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/adapters/cache"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/adapters/database"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/adapters/providers/mapbox"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/adapters/providers/straightline"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/api/handlers"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/api/routes"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/application/services"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/providers"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/repositories"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/postgres"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/redis"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
	"github.com/JamesKof/ghana-health-connect-sub000/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Server.LogLevel)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if err := database.EnsureSchema(ctx, pgClient); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Redis is optional; without it nothing is cached and rate limits are per process.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Adapters
	baseFacilityAdapter := database.NewFacilityAdapter(pgClient, metrics)
	reviewAdapter := database.NewReviewAdapter(pgClient, metrics)

	var facilityAdapter repositories.FacilityRepository = baseFacilityAdapter
	var cachedFacilities *database.CachedFacilityAdapter
	if cacheProvider != nil {
		cachedFacilities = database.NewCachedFacilityAdapter(baseFacilityAdapter, cacheProvider, cfg.Cache.FacilitiesTTL, metrics)
		facilityAdapter = cachedFacilities
		log.Info().Dur("ttl", cfg.Cache.FacilitiesTTL).Msg("Facility adapter wrapped with caching layer")
	}

	// Map providers
	providerOpts := mapbox.Options{Metrics: metrics, Logger: &log.Logger}
	tokenProvider := mapbox.NewTokenProvider(&cfg.Mapbox, cacheProvider, providerOpts)

	var directionsProvider providers.DirectionsProvider
	if cfg.Mapbox.SecretToken != "" || cfg.Mapbox.PublicToken != "" {
		directionsProvider = mapbox.NewDirectionsProvider(&cfg.Mapbox, providerOpts)
	} else {
		log.Warn().Msg("No Mapbox token configured, directions fall back to straight-line estimates")
		directionsProvider = straightline.NewProvider(straightline.DefaultSpeed)
	}

	// Services
	reviewService := services.NewReviewService(reviewAdapter, facilityAdapter, cacheProvider)
	facilityService := services.NewFacilityService(facilityAdapter, reviewService)

	var warmingService *services.CacheWarmingService
	if cachedFacilities != nil {
		warmingService = services.NewCacheWarmingService(cachedFacilities)
		if err := warmingService.Start(ctx, cfg.Cache.WarmSchedule); err != nil {
			log.Warn().Err(err).Msg("Cache warming disabled")
			warmingService = nil
		}
	}

	// Handlers
	facilityHandler := handlers.NewFacilityHandler(facilityService)
	reviewHandler := handlers.NewReviewHandler(
		reviewService,
		handlers.NewRateLimiter(cacheProvider, cfg.Reviews.RateLimit, cfg.Reviews.RateWindow),
	)
	mapsHandler := handlers.NewMapsHandler(tokenProvider, directionsProvider)

	router := routes.NewRouter(facilityHandler, reviewHandler, mapsHandler, cfg.Server.AllowedOrigins, metrics)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	if warmingService != nil {
		warmingService.Stop()
	}

	log.Info().Msg("Server stopped")
}
