package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iammike/cardcheck/internal/domain"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how long catalog pages are reused
const DefaultCacheTTL = 24 * time.Hour

const nearMatchStep = "near matches"

// LookupConfig holds configuration for the lookup service
type LookupConfig struct {
	CacheTTL           time.Duration
	MaxResults         int
	EnableDebugLogging bool
}

// LookupSession is the caller-owned state of one lookup: the extracted record
// and the decisions derived from it. Nothing about a session is stored in the service.
type LookupSession struct {
	ID           string
	Record       *domain.CardRecord
	Category     domain.Category
	IsSportsCard bool
	Site         domain.Site
	CreatedAt    time.Time
}

// LookupService runs the identification pipeline against the catalog
type LookupService struct {
	catalog    domain.CatalogClient
	cache      domain.CacheRepository
	extractor  *Extractor
	classifier *Classifier
	builder    *QueryBuilder
	matcher    *MatchingService
	reconciler *GradeReconciler
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewLookupService creates a new lookup service with dependencies.
// A nil cache disables caching.
func NewLookupService(
	catalog domain.CatalogClient,
	cache domain.CacheRepository,
	config LookupConfig,
	logger *zap.Logger,
) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}

	classifier := NewClassifier()
	return &LookupService{
		catalog:    catalog,
		cache:      cache,
		extractor:  NewExtractor(logger.Named("extract")),
		classifier: classifier,
		builder:    NewQueryBuilder(classifier),
		matcher: NewMatchingService(MatchConfig{
			MaxResults:         config.MaxResults,
			EnableDebugLogging: config.EnableDebugLogging,
		}, logger.Named("match")),
		reconciler: NewGradeReconciler(),
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Classifier exposes the classifier so callers can summarize records consistently
func (s *LookupService) Classifier() *Classifier { return s.classifier }

// Reconciler exposes the grade reconciler for price formatting
func (s *LookupService) Reconciler() *GradeReconciler { return s.reconciler }

// NewSession extracts a record from a listing and classifies it
func (s *LookupService) NewSession(specifics domain.ItemSpecifics, title string) *LookupSession {
	return s.SessionFor(s.extractor.Extract(specifics, title))
}

// SessionFor wraps an already-extracted record in a fresh session
func (s *LookupService) SessionFor(rec *domain.CardRecord) *LookupSession {
	if rec == nil {
		rec = &domain.CardRecord{Grade: domain.UngradedLabel}
	}
	sports := s.classifier.IsSportsCard(rec)
	return &LookupSession{
		ID:           uuid.NewString(),
		Record:       rec,
		Category:     s.classifier.Categorize(rec),
		IsSportsCard: sports,
		Site:         domain.SiteFor(sports),
		CreatedAt:    time.Now(),
	}
}

// Query builds the full-fidelity search string for a session
func (s *LookupService) Query(session *LookupSession) string {
	return s.builder.Build(session.Record, FullQuery)
}

// Search performs one search attempt at one catalog. An exact redirect comes
// back as the singleton "Exact Match" result; otherwise rows are filtered and ranked.
func (s *LookupService) Search(ctx context.Context, query string, isSportsCard bool) (*domain.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, eris.Wrap(domain.ErrInvalidRequest, "empty query")
	}

	page, err := s.searchPage(ctx, query, isSportsCard)
	if err != nil {
		return nil, err
	}

	resp := &domain.SearchResponse{
		Query: query,
		Site:  domain.SiteFor(isSportsCard),
	}
	if page.ExactMatch {
		resp.ExactMatch = true
		resp.Results = ExactMatchResults(page)
		return resp, nil
	}

	resp.Results, err = s.matcher.Rank(ctx, query, page.Rows)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// FetchPrices returns the raw price table for a catalog item
func (s *LookupService) FetchPrices(ctx context.Context, url string) (*domain.PriceTable, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, eris.Wrap(domain.ErrInvalidRequest, "empty item url")
	}

	key := "prices:" + url
	var table domain.PriceTable
	if s.getFromCache(ctx, key, &table) {
		return &table, nil
	}

	fetched, err := s.catalog.FetchPrices(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(fetched.Grades) > 0 {
		s.setInCache(ctx, key, fetched)
	}
	return fetched, nil
}

// Select prices a chosen catalog item against the session's grade. An item
// without prices yields an empty reconciliation together with ErrNoPrices.
func (s *LookupService) Select(ctx context.Context, session *LookupSession, url string) (*domain.ReconciledPrices, error) {
	table, err := s.FetchPrices(ctx, url)
	if err != nil {
		return nil, err
	}
	prices := s.reconciler.Reconcile(table, session.Record.Grade, session.Record.Grader)
	if len(table.Grades) == 0 {
		return prices, domain.ErrNoPrices
	}
	return prices, nil
}

// Lookup walks the relaxation cascade until a query yields candidates. Each
// step is issued only after the previous one came back empty, and a step whose
// query repeats an earlier one is skipped. A unique exact redirect is priced
// straight away. When every step is empty the result carries OutcomeNotFound
// and the error is ErrItemNotFound.
func (s *LookupService) Lookup(ctx context.Context, session *LookupSession) (*domain.LookupResult, error) {
	rec := session.Record
	result := &domain.LookupResult{
		SessionID: session.ID,
		Record:    rec,
		Category:  session.Category,
		Site:      session.Site,
		ItemKind:  s.classifier.ItemKind(rec),
		Summary:   s.classifier.Summarize(rec),
		Attempts:  []domain.QueryAttempt{},
	}

	logger := s.logger.With(zap.String("session", session.ID), zap.String("site", string(session.Site)))
	seen := make(map[string]bool)

	for i, step := range RelaxationCascade {
		if !step.Applies(rec) {
			continue
		}
		query := s.builder.Build(rec, step.Options)
		if query == "" || seen[query] {
			continue
		}
		seen[query] = true

		resp, err := s.Search(ctx, query, session.IsSportsCard)
		if err != nil {
			logger.Warn("search failed", zap.String("step", step.Name), zap.String("query", query), zap.Error(err))
			return result, err
		}
		result.Attempts = append(result.Attempts, domain.QueryAttempt{
			Step:       step.Name,
			Query:      query,
			Candidates: len(resp.Results),
			ExactMatch: resp.ExactMatch,
		})
		logger.Debug("search attempt",
			zap.String("step", step.Name),
			zap.String("query", query),
			zap.Int("candidates", len(resp.Results)),
		)

		if len(resp.Results) == 0 {
			continue
		}

		result.Query = query
		result.Step = step.Name
		result.Relaxed = i > 0

		if resp.ExactMatch {
			return s.resolveExact(ctx, session, result, resp.Results[0])
		}

		result.Outcome = domain.OutcomeCandidates
		result.Results = resp.Results
		return result, nil
	}

	result.Outcome = domain.OutcomeNotFound
	logger.Info("no catalog match", zap.Int("attempts", len(result.Attempts)))
	return result, eris.Wrapf(domain.ErrItemNotFound, "%d queries tried", len(result.Attempts))
}

// resolveExact prices an exact redirect. Without prices, a record carrying
// variant data gets one more search without its variant facets so relatives
// of the item can be offered instead.
func (s *LookupService) resolveExact(
	ctx context.Context,
	session *LookupSession,
	result *domain.LookupResult,
	exact domain.SearchResult,
) (*domain.LookupResult, error) {
	rec := session.Record

	table, err := s.FetchPrices(ctx, exact.URL)
	if err != nil {
		return result, err
	}

	if len(table.Grades) > 0 {
		result.Outcome = domain.OutcomePrices
		result.Selected = &exact
		result.Prices = s.reconciler.Reconcile(table, rec.Grade, rec.Grader)
		return result, nil
	}

	if HasVariantData(rec) {
		query := s.builder.Build(rec, NoVariantQuery)
		if query != "" && query != result.Query {
			resp, err := s.Search(ctx, query, session.IsSportsCard)
			if err != nil {
				return result, err
			}
			result.Attempts = append(result.Attempts, domain.QueryAttempt{
				Step:       nearMatchStep,
				Query:      query,
				Candidates: len(resp.Results),
				ExactMatch: resp.ExactMatch,
			})
			if len(resp.Results) > 0 && !(resp.ExactMatch && resp.Results[0].URL == exact.URL) {
				result.Outcome = domain.OutcomeNearMatches
				result.Query = query
				result.Step = nearMatchStep
				result.Relaxed = true
				result.Results = resp.Results
				result.ExactMatchName = exact.Name
				return result, nil
			}
		}
	}

	result.Outcome = domain.OutcomeNoPrices
	result.Selected = &exact
	result.Prices = s.reconciler.Reconcile(table, rec.Grade, rec.Grader)
	return result, nil
}

// searchPage returns the catalog page for query, from cache when possible
func (s *LookupService) searchPage(ctx context.Context, query string, isSportsCard bool) (*domain.SearchPage, error) {
	key := generateCacheKey(query, isSportsCard)

	var page domain.SearchPage
	if s.getFromCache(ctx, key, &page) {
		return &page, nil
	}

	fetched, err := s.catalog.Search(ctx, query, isSportsCard)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		fetched = &domain.SearchPage{Query: query}
	}
	if fetched.ExactMatch || len(fetched.Rows) > 0 {
		s.setInCache(ctx, key, fetched)
	}
	return fetched, nil
}

// generateCacheKey creates a normalized cache key for a search.
// Format: "search:{site}:{lowercased query with single spaces}"
func generateCacheKey(query string, isSportsCard bool) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	return fmt.Sprintf("search:%s:%s", domain.SiteFor(isSportsCard), normalized)
}

func (s *LookupService) getFromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

// setInCache stores v; failures are logged, never returned
func (s *LookupService) setInCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
