package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded bytes so every backend stores the same shape.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CatalogClient defines the interface for the external price-reference catalog.
// Search performs exactly one attempt; relaxation is the caller's job.
type CatalogClient interface {
	Search(ctx context.Context, query string, isSportsCard bool) (*SearchPage, error)
	FetchPrices(ctx context.Context, url string) (*PriceTable, error)
}
