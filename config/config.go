package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
	Harness   HarnessConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds settings for the price-reference catalogs
type CatalogConfig struct {
	SportsBaseURL     string        `mapstructure:"sports_base_url"`
	GeneralBaseURL    string        `mapstructure:"general_base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory", "sqlite" or "none"
	Path string        `mapstructure:"path"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// MatchingConfig holds candidate ranking configuration
type MatchingConfig struct {
	MaxResults         int  `mapstructure:"max_results"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// HarnessConfig holds batch validation settings
type HarnessConfig struct {
	BatchSize  int           `mapstructure:"batch_size"`
	BatchDelay time.Duration `mapstructure:"batch_delay"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "auto", "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations and tolerates a missing file.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/cardcheck/")
	}

	// Environment variable settings; CARDCHECK_CATALOG_TIMEOUT maps to catalog.timeout
	v.SetEnvPrefix("CARDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Catalog defaults
	v.SetDefault("catalog.sports_base_url", "https://www.sportscardspro.com")
	v.SetDefault("catalog.general_base_url", "https://www.pricecharting.com")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.user_agent", "CardCheck/1.0")
	v.SetDefault("catalog.requests_per_second", 1.0)
	v.SetDefault("catalog.burst", 5)
	v.SetDefault("catalog.max_body_bytes", 4<<20)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.path", "cardcheck-cache.db")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	v.SetDefault("matching.max_results", 50)
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("harness.batch_size", 5)
	v.SetDefault("harness.batch_delay", "500ms")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
}

// validate validates the configuration
func validate(config *Config) error {
	if err := validateBaseURL("catalog.sports_base_url", config.Catalog.SportsBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("catalog.general_base_url", config.Catalog.GeneralBaseURL); err != nil {
		return err
	}

	switch config.Cache.Type {
	case "memory", "none":
	case "sqlite":
		if config.Cache.Path == "" {
			return fmt.Errorf("cache path is required when cache type is 'sqlite'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'sqlite' or 'none', got: %s", config.Cache.Type)
	}

	if config.Harness.BatchSize < 1 {
		return fmt.Errorf("harness batch size must be at least 1, got: %d", config.Harness.BatchSize)
	}
	if config.Harness.BatchDelay < 0 {
		return fmt.Errorf("harness batch delay must not be negative")
	}
	if config.Matching.MaxResults < 1 {
		return fmt.Errorf("matching max results must be at least 1, got: %d", config.Matching.MaxResults)
	}
	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative")
	}

	return nil
}

func validateBaseURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got: %q", key, raw)
	}
	return nil
}

// loadEnvFile exports KEY=VALUE lines from ./.env without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
