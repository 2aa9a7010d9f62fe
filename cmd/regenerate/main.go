// ABOUTME: Cache regeneration entry point for the duty-pharmacy data layer
// ABOUTME: Flushes the cache and rebuilds every city, district, and count entry

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pharmacy-duty-api/core/duty"
	"pharmacy-duty-api/core/interfaces"
	"pharmacy-duty-api/core/rotation"
	"pharmacy-duty-api/infrastructure/cache/memory"
	"pharmacy-duty-api/infrastructure/cache/redis"
	"pharmacy-duty-api/infrastructure/cache/sqlite"
	"pharmacy-duty-api/infrastructure/directory"
	stdhttp "pharmacy-duty-api/infrastructure/http/standard"
	logrusadapter "pharmacy-duty-api/infrastructure/logger/logrus"
	"pharmacy-duty-api/pkg/config"
)

func main() {
	skipFlush := flag.Bool("skip-flush", false, "warm the cache without invalidating existing entries")
	flag.Parse()

	// Missing .env is fine; environment variables may come from the host.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logrusadapter.NewLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting cache regeneration", map[string]interface{}{
		"cache_type": cfg.Cache.Type,
		"directory":  cfg.Directory.BaseURL,
		"skip_flush": *skipFlush,
	})

	cache := buildCache(cfg, logger)

	timeout := time.Duration(cfg.Directory.TimeoutSeconds) * time.Second
	httpClient := stdhttp.NewAuthenticatedHTTPClient(timeout, map[string]string{
		"Authorization": cfg.Directory.APIKey,
	})

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	dir, err := directory.NewClient(cfg.Directory.BaseURL, httpClient, logger)
	if err != nil {
		log.Fatalf("Failed to create directory client: %v", err)
	}

	ttl := rotation.NewPolicy(cfg.Rotation.BoundaryHour, rotationLocation(logger))
	service := duty.NewService(deps, dir, ttl)
	service.SetExcludedRegionPrefix(cfg.Rotation.ExcludedRegionPrefix)

	ctx := context.Background()
	start := time.Now()

	if !*skipFlush {
		service.InvalidateAll(ctx)
	}

	if err := regenerate(ctx, service, logger); err != nil {
		logger.Error("Regeneration failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("Cache regeneration complete", map[string]interface{}{
		"elapsed": time.Since(start).String(),
	})
}

// regenerate walks every served city and rebuilds its cache entries.
// A single city failure aborts the run so a half-warm cache is visible
// in the exit code.
func regenerate(ctx context.Context, service *duty.Service, logger interfaces.Logger) error {
	cities, err := service.Cities(ctx)
	if err != nil {
		return err
	}
	logger.Info("Fetched city list", map[string]interface{}{
		"count": len(cities),
	})

	if _, err := service.AllPharmacies(ctx); err != nil {
		return err
	}

	if _, err := service.CityCounts(ctx); err != nil {
		return err
	}

	for _, city := range cities {
		if _, err := service.Resolve(ctx, city.Name, ""); err != nil {
			logger.Error("Failed to warm city", map[string]interface{}{
				"city":  city.Name,
				"error": err.Error(),
			})
			return err
		}
		if _, err := service.Districts(ctx, city.Name); err != nil {
			return err
		}
		if _, err := service.DistrictCounts(ctx, city.Name); err != nil {
			return err
		}
		logger.Debug("Warmed city", map[string]interface{}{
			"city": city.Name,
		})
	}

	return nil
}

// buildCache selects the cache backend from configuration, falling back
// to memory when a backend fails to initialize.
func buildCache(cfg *config.Config, logger interfaces.Logger) interfaces.Cache {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path)
		if err != nil {
			logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.Cache.SQLite.Path,
		})
		return sqliteCache
	default:
		logger.Info("Using memory cache", nil)
		return memory.NewMemoryCache()
	}
}

// rotationLocation resolves the duty schedule's local time zone.
func rotationLocation(logger interfaces.Logger) *time.Location {
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		logger.Warn("Falling back to host local time zone", map[string]interface{}{
			"error": err.Error(),
		})
		return time.Local
	}
	return loc
}
