package domain

import "errors"

var (
	// ErrItemNotFound is returned when no catalog entry matches a record after every query relaxation
	ErrItemNotFound = errors.New("item not found in catalog")

	// ErrNoCandidates is returned when a single search attempt yields nothing usable
	ErrNoCandidates = errors.New("search returned no candidates")

	// ErrNoPrices is returned when a catalog item page carries no usable price rows
	ErrNoPrices = errors.New("no price data for item")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the catalog cannot be reached at all
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrCatalogFailure is returned when the catalog answers with a non-success status
	ErrCatalogFailure = errors.New("catalog request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
