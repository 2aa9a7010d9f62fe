// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for cache, directory API, and rotation settings

package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Cache contains cache backend configuration
	Cache CacheConfig

	// Directory contains duty-directory API configuration
	Directory DirectoryConfig

	// Rotation contains duty-rotation schedule configuration
	Rotation RotationConfig
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/sqlite/memory)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains file-backed cache configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// SQLiteConfig holds file-backed cache configuration
type SQLiteConfig struct {
	// Path is the cache database file location
	Path string
}

// DirectoryConfig holds the duty-directory API configuration
type DirectoryConfig struct {
	// BaseURL is the directory API root
	BaseURL string

	// APIKey is sent as the authorization header
	APIKey string

	// TimeoutSeconds bounds a single directory request
	TimeoutSeconds int
}

// RotationConfig holds duty-rotation schedule configuration
type RotationConfig struct {
	// BoundaryHour is the local hour at which the duty list rotates (0-23)
	BoundaryHour int

	// ExcludedRegionPrefix filters cities from the served region set
	ExcludedRegionPrefix string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_CACHE_PATH", "caches/cache.db"),
			},
		},
		Directory: DirectoryConfig{
			BaseURL:        getEnvOrDefault("DUTY_API_URL", ""),
			APIKey:         getEnvOrDefault("DUTY_API_KEY", ""),
			TimeoutSeconds: getEnvAsIntOrDefault("DUTY_API_TIMEOUT", 30),
		},
		Rotation: RotationConfig{
			BoundaryHour:         getEnvAsIntOrDefault("ROTATION_BOUNDARY_HOUR", 9),
			ExcludedRegionPrefix: getEnvOrDefault("EXCLUDED_REGION_PREFIX", "KKTC"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Cache.Type {
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	case "memory":
	default:
		return errors.New("cache type must be 'redis', 'sqlite' or 'memory'")
	}

	if c.Directory.BaseURL == "" {
		return errors.New("duty API URL cannot be empty")
	}

	if c.Directory.TimeoutSeconds < 1 {
		return errors.New("duty API timeout must be at least 1 second")
	}

	if c.Rotation.BoundaryHour < 0 || c.Rotation.BoundaryHour > 23 {
		return errors.New("rotation boundary hour must be between 0 and 23")
	}

	return nil
}
