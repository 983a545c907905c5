package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "chrome-extension://*" {
			t.Errorf("Server.AllowedOrigins = %v, want [chrome-extension://*]", cfg.Server.AllowedOrigins)
		}
		if cfg.Catalog.SportsBaseURL != "https://www.sportscardspro.com" {
			t.Errorf("Catalog.SportsBaseURL = %s", cfg.Catalog.SportsBaseURL)
		}
		if cfg.Catalog.GeneralBaseURL != "https://www.pricecharting.com" {
			t.Errorf("Catalog.GeneralBaseURL = %s", cfg.Catalog.GeneralBaseURL)
		}
		if cfg.Catalog.Timeout != 30*time.Second {
			t.Errorf("Catalog.Timeout = %v, want 30s", cfg.Catalog.Timeout)
		}
		if cfg.Catalog.RequestsPerSecond != 1 || cfg.Catalog.Burst != 5 {
			t.Errorf("Catalog rate = %v/%d, want 1/5", cfg.Catalog.RequestsPerSecond, cfg.Catalog.Burst)
		}
		if cfg.Catalog.MaxBodyBytes != 4<<20 {
			t.Errorf("Catalog.MaxBodyBytes = %d, want %d", cfg.Catalog.MaxBodyBytes, 4<<20)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
		if cfg.Matching.MaxResults != 50 {
			t.Errorf("Matching.MaxResults = %d, want 50", cfg.Matching.MaxResults)
		}
		if cfg.Harness.BatchSize != 5 || cfg.Harness.BatchDelay != 500*time.Millisecond {
			t.Errorf("Harness = %+v, want 5 / 500ms", cfg.Harness)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "auto" {
			t.Errorf("Log = %+v, want info / auto", cfg.Log)
		}
	})

	t.Run("loads custom values from nested environment variables", func(t *testing.T) {
		t.Setenv("CARDCHECK_SERVER_PORT", "9090")
		t.Setenv("CARDCHECK_SERVER_ENVIRONMENT", "production")
		t.Setenv("CARDCHECK_SERVER_ALLOWED_ORIGINS", "chrome-extension://abc,http://localhost:3000")
		t.Setenv("CARDCHECK_CATALOG_GENERAL_BASE_URL", "http://localhost:9999")
		t.Setenv("CARDCHECK_CATALOG_TIMEOUT", "5s")
		t.Setenv("CARDCHECK_CACHE_TYPE", "sqlite")
		t.Setenv("CARDCHECK_CACHE_PATH", "/tmp/cardcheck.db")
		t.Setenv("CARDCHECK_CACHE_TTL", "1h")
		t.Setenv("CARDCHECK_RATELIMIT_PER_IP", "200")
		t.Setenv("CARDCHECK_HARNESS_BATCH_SIZE", "3")
		t.Setenv("CARDCHECK_MATCHING_ENABLE_DEBUG_LOGGING", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://localhost:3000" {
			t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
		}
		if cfg.Catalog.GeneralBaseURL != "http://localhost:9999" {
			t.Errorf("Catalog.GeneralBaseURL = %s", cfg.Catalog.GeneralBaseURL)
		}
		if cfg.Catalog.Timeout != 5*time.Second {
			t.Errorf("Catalog.Timeout = %v, want 5s", cfg.Catalog.Timeout)
		}
		if cfg.Cache.Type != "sqlite" || cfg.Cache.Path != "/tmp/cardcheck.db" {
			t.Errorf("Cache = %+v", cfg.Cache)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Harness.BatchSize != 3 {
			t.Errorf("Harness.BatchSize = %d, want 3", cfg.Harness.BatchSize)
		}
		if !cfg.Matching.EnableDebugLogging {
			t.Error("Matching.EnableDebugLogging = false, want true")
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		t.Setenv("CARDCHECK_CACHE_TYPE", "redis")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation for relative catalog URL", func(t *testing.T) {
		t.Setenv("CARDCHECK_CATALOG_SPORTS_BASE_URL", "sportscardspro.com")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "catalog.sports_base_url") {
			t.Errorf("Load() error = %v, want sports_base_url error", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("reads an explicit yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cardcheck.yaml")
		content := `
catalog:
  requests_per_second: 0.5
harness:
  batch_size: 2
  batch_delay: 2s
log:
  level: debug
  format: json
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.Catalog.RequestsPerSecond != 0.5 {
			t.Errorf("Catalog.RequestsPerSecond = %v, want 0.5", cfg.Catalog.RequestsPerSecond)
		}
		if cfg.Harness.BatchSize != 2 || cfg.Harness.BatchDelay != 2*time.Second {
			t.Errorf("Harness = %+v", cfg.Harness)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v", cfg.Log)
		}
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want default 8080", cfg.Server.Port)
		}
	})

	t.Run("fails when the explicit file is missing", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Error("LoadFile() error = nil, want error for missing file")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	chdirTemp := func(t *testing.T) {
		t.Helper()
		originalDir, _ := os.Getwd()
		t.Cleanup(func() { os.Chdir(originalDir) })
		os.Chdir(t.TempDir())
	}

	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		chdirTemp(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		chdirTemp(t)

		envContent := `
# Comment line
CARDCHECK_TEST_VAR_1=value1
   # indented comment

export CARDCHECK_TEST_VAR_2="value2"
not a pair
# CARDCHECK_TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("CARDCHECK_TEST_VAR_1")
			os.Unsetenv("CARDCHECK_TEST_VAR_2")
		})

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if got := os.Getenv("CARDCHECK_TEST_VAR_1"); got != "value1" {
			t.Errorf("CARDCHECK_TEST_VAR_1 = %s, want value1", got)
		}
		if got := os.Getenv("CARDCHECK_TEST_VAR_2"); got != "value2" {
			t.Errorf("CARDCHECK_TEST_VAR_2 = %s, want value2", got)
		}
		if _, ok := os.LookupEnv("CARDCHECK_TEST_COMMENTED"); ok {
			t.Error("CARDCHECK_TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("CARDCHECK_TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("CARDCHECK_TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}
		if got := os.Getenv("CARDCHECK_TEST_OVERRIDE"); got != "existing-value" {
			t.Errorf("CARDCHECK_TEST_OVERRIDE = %s, want existing-value (should not override)", got)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Catalog: CatalogConfig{
				SportsBaseURL:  "https://www.sportscardspro.com",
				GeneralBaseURL: "https://www.pricecharting.com",
			},
			Cache:    CacheConfig{Type: "memory"},
			Matching: MatchingConfig{MaxResults: 50},
			Harness:  HarnessConfig{BatchSize: 5},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty sports url", func(c *Config) { c.Catalog.SportsBaseURL = "" }},
		{"non-http general url", func(c *Config) { c.Catalog.GeneralBaseURL = "ftp://pricecharting.com" }},
		{"unknown cache type", func(c *Config) { c.Cache.Type = "redis" }},
		{"sqlite without path", func(c *Config) { c.Cache.Type = "sqlite" }},
		{"zero batch size", func(c *Config) { c.Harness.BatchSize = 0 }},
		{"negative batch delay", func(c *Config) { c.Harness.BatchDelay = -time.Second }},
		{"zero max results", func(c *Config) { c.Matching.MaxResults = 0 }},
		{"negative per-ip limit", func(c *Config) { c.RateLimit.PerIP = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := validate(cfg); err == nil {
				t.Errorf("validate() error = nil, want error for %s", tt.name)
			}
		})
	}

	t.Run("sqlite with path and none are accepted", func(t *testing.T) {
		cfg := valid()
		cfg.Cache = CacheConfig{Type: "sqlite", Path: "cache.db"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v", err)
		}
		cfg.Cache = CacheConfig{Type: "none"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v", err)
		}
	})
}
