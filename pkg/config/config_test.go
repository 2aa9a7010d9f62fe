package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Type:  "memory",
			Redis: RedisConfig{Address: "localhost:6379"},
			SQLite: SQLiteConfig{
				Path: "caches/cache.db",
			},
		},
		Directory: DirectoryConfig{
			BaseURL:        "https://duty.example.com/api",
			APIKey:         "secret",
			TimeoutSeconds: 30,
		},
		Rotation: RotationConfig{
			BoundaryHour:         9,
			ExcludedRegionPrefix: "KKTC",
		},
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()

	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("default cache type = %q, want memory", cfg.Cache.Type)
	}
	if cfg.Rotation.BoundaryHour != 9 {
		t.Errorf("default boundary hour = %d, want 9", cfg.Rotation.BoundaryHour)
	}
	if cfg.Rotation.ExcludedRegionPrefix != "KKTC" {
		t.Errorf("default excluded prefix = %q, want KKTC", cfg.Rotation.ExcludedRegionPrefix)
	}
	if cfg.Directory.TimeoutSeconds != 30 {
		t.Errorf("default timeout = %d, want 30", cfg.Directory.TimeoutSeconds)
	}
}

func TestLoadFromEnv_ReadsEnvironment(t *testing.T) {
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_ADDRESS", "redis.internal:6380")
	t.Setenv("ROTATION_BOUNDARY_HOUR", "8")

	cfg, err := LoadFromEnv()

	if err != nil {
		t.Fatalf("LoadFromEnv returned error: %v", err)
	}
	if cfg.Cache.Type != "redis" {
		t.Errorf("cache type = %q, want redis", cfg.Cache.Type)
	}
	if cfg.Cache.Redis.Address != "redis.internal:6380" {
		t.Errorf("redis address = %q", cfg.Cache.Redis.Address)
	}
	if cfg.Rotation.BoundaryHour != 8 {
		t.Errorf("boundary hour = %d, want 8", cfg.Rotation.BoundaryHour)
	}
}

func TestLoadFromEnv_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("ROTATION_BOUNDARY_HOUR", "not-a-number")

	cfg, _ := LoadFromEnv()

	if cfg.Rotation.BoundaryHour != 9 {
		t.Errorf("boundary hour = %d, want default 9", cfg.Rotation.BoundaryHour)
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate returned error for valid config: %v", err)
	}
}

func TestValidate_UnknownCacheType(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Type = "memcached"

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject unknown cache type")
	}
}

func TestValidate_RedisWithoutAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Type = "redis"
	cfg.Cache.Redis.Address = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject redis cache without address")
	}
}

func TestValidate_SQLiteWithoutPath(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Type = "sqlite"
	cfg.Cache.SQLite.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject sqlite cache without path")
	}
}

func TestValidate_MissingDirectoryURL(t *testing.T) {
	cfg := validConfig()
	cfg.Directory.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject empty directory URL")
	}
}

func TestValidate_BoundaryHourOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Rotation.BoundaryHour = 24

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject an out-of-range boundary hour")
	}
}
