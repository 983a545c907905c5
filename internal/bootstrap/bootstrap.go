// Package bootstrap wires configuration into a ready lookup service.
package bootstrap

import (
	"github.com/iammike/cardcheck/config"
	"github.com/iammike/cardcheck/internal/infrastructure/cache"
	"github.com/iammike/cardcheck/internal/infrastructure/pricecharting"
	"github.com/iammike/cardcheck/internal/logging"
	"github.com/iammike/cardcheck/internal/usecase"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Services is the wired lookup stack. Close releases the cache.
type Services struct {
	Lookup  *usecase.LookupService
	Catalog *pricecharting.Client
	Cache   cache.Backend
}

// NewLogger builds the process logger from the log section
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Server.Environment == "development",
	})
}

// New opens the configured cache and builds the catalog client and lookup service
func New(cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, err := cache.Open(cfg.Cache.Type, cfg.Cache.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open cache")
	}

	catalog := pricecharting.NewClient(pricecharting.Config{
		SportsBaseURL:     cfg.Catalog.SportsBaseURL,
		GeneralBaseURL:    cfg.Catalog.GeneralBaseURL,
		Timeout:           cfg.Catalog.Timeout,
		UserAgent:         cfg.Catalog.UserAgent,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		MaxBodyBytes:      cfg.Catalog.MaxBodyBytes,
	}, logger.Named("catalog"))

	lookup := usecase.NewLookupService(catalog, backend, usecase.LookupConfig{
		CacheTTL:           cfg.Cache.TTL,
		MaxResults:         cfg.Matching.MaxResults,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, logger.Named("lookup"))

	logger.Debug("lookup stack ready",
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.String("sports_catalog", catalog.BaseURL(true)),
		zap.String("general_catalog", catalog.BaseURL(false)),
	)

	return &Services{
		Lookup:  lookup,
		Catalog: catalog,
		Cache:   backend,
	}, nil
}

// Close releases the cache backend
func (s *Services) Close() error {
	if s == nil || s.Cache == nil {
		return nil
	}
	return s.Cache.Close()
}
