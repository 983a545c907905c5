package pricecharting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iammike/cardcheck/internal/domain"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultSportsBaseURL  = "https://www.sportscardspro.com"
	DefaultGeneralBaseURL = "https://www.pricecharting.com"
	DefaultUserAgent      = "CardCheck/1.0"
	DefaultMaxBodyBytes   = 4 << 20
)

// Config holds configuration for the catalog client
type Config struct {
	SportsBaseURL     string
	GeneralBaseURL    string
	Timeout           time.Duration
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	MaxBodyBytes      int64
}

// Client talks to the two price-reference catalogs. Every call is a single
// attempt: transport failures are returned as-is and never retried.
type Client struct {
	httpClient     *http.Client
	sportsBaseURL  string
	generalBaseURL string
	userAgent      string
	maxBodyBytes   int64
	rateLimiter    *rate.Limiter
	logger         *zap.Logger
}

// NewClient creates a new catalog client
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.SportsBaseURL == "" {
		config.SportsBaseURL = DefaultSportsBaseURL
	}
	if config.GeneralBaseURL == "" {
		config.GeneralBaseURL = DefaultGeneralBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		sportsBaseURL:  strings.TrimRight(config.SportsBaseURL, "/"),
		generalBaseURL: strings.TrimRight(config.GeneralBaseURL, "/"),
		userAgent:      config.UserAgent,
		maxBodyBytes:   config.MaxBodyBytes,
		rateLimiter:    rate.NewLimiter(limit, burst),
		logger:         logger,
	}
}

// BaseURL returns the catalog root serving the given item kind
func (c *Client) BaseURL(isSportsCard bool) string {
	if isSportsCard {
		return c.sportsBaseURL
	}
	return c.generalBaseURL
}

// SearchURL builds the catalog search address for query
func (c *Client) SearchURL(query string, isSportsCard bool) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "prices")
	return fmt.Sprintf("%s/search-products?%s", c.BaseURL(isSportsCard), params.Encode())
}

// Search runs one catalog search. A redirect straight to an item page is
// reported as an exact match; otherwise the result rows are returned unfiltered.
func (c *Client) Search(ctx context.Context, query string, isSportsCard bool) (*domain.SearchPage, error) {
	reqURL := c.SearchURL(query, isSportsCard)
	c.logger.Debug("catalog search", zap.String("query", query), zap.String("url", reqURL))

	body, finalURL, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	page := &domain.SearchPage{Query: query}

	if isItemURL(finalURL) {
		page.ExactMatch = true
		page.ExactURL = finalURL
		page.ExactName = ParsePageTitle(bytes.NewReader(body))
		c.logger.Debug("catalog redirected to item", zap.String("url", finalURL), zap.String("name", page.ExactName))
		return page, nil
	}

	base, err := url.Parse(finalURL)
	if err != nil {
		return nil, eris.Wrapf(err, "parse final url %q", finalURL)
	}
	rows, err := ParseSearchResults(bytes.NewReader(body), base)
	if err != nil {
		return nil, eris.Wrap(err, "parse search page")
	}
	page.Rows = rows

	c.logger.Debug("catalog rows parsed", zap.String("query", query), zap.Int("rows", len(rows)))
	return page, nil
}

// FetchPrices downloads an item page and extracts its grade price table
func (c *Client) FetchPrices(ctx context.Context, itemURL string) (*domain.PriceTable, error) {
	u, err := url.Parse(itemURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, eris.Wrapf(domain.ErrInvalidRequest, "item url %q", itemURL)
	}

	body, _, err := c.get(ctx, itemURL)
	if err != nil {
		return nil, err
	}

	grades, err := ParsePriceTable(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "parse price page")
	}

	c.logger.Debug("price table parsed", zap.String("url", itemURL), zap.Int("grades", len(grades)))
	return &domain.PriceTable{URL: itemURL, Grades: grades}, nil
}

// get performs a rate-limited GET and returns the body and the URL the
// response was finally served from.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, "", eris.Wrap(err, "rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", zap.String("url", reqURL), zap.Error(err))
		return nil, "", eris.Wrapf(domain.ErrCatalogUnavailable, "GET %s: %v", reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, "", eris.Wrapf(domain.ErrCatalogUnavailable, "read %s: %v", reqURL, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("catalog throttled request", zap.String("url", reqURL))
		return nil, "", eris.Wrapf(domain.ErrRateLimited, "catalog throttled %s", reqURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("catalog returned error status", zap.String("url", reqURL), zap.Int("status", resp.StatusCode))
		return nil, "", eris.Wrapf(domain.ErrCatalogFailure, "status %d from %s", resp.StatusCode, reqURL)
	}

	finalURL := reqURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return body, finalURL, nil
}

// isItemURL reports whether a response URL is an item page rather than a search page
func isItemURL(u string) bool {
	return strings.Contains(u, "/game/") && !strings.Contains(u, "search-products")
}
