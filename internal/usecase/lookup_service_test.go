package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iammike/cardcheck/internal/domain"
	"github.com/iammike/cardcheck/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog answers searches from a function and records every call
type fakeCatalog struct {
	mu       sync.Mutex
	search   func(query string, sports bool) (*domain.SearchPage, error)
	prices   map[string]map[string]float64
	queries  []string
	fetched  []string
	priceErr error
}

func (f *fakeCatalog) Search(ctx context.Context, query string, isSportsCard bool) (*domain.SearchPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.search == nil {
		return &domain.SearchPage{Query: query}, nil
	}
	return f.search(query, isSportsCard)
}

func (f *fakeCatalog) FetchPrices(ctx context.Context, url string) (*domain.PriceTable, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return &domain.PriceTable{URL: url, Grades: f.prices[url]}, nil
}

func rowsFor(rows ...domain.CandidateRow) func(string, bool) (*domain.SearchPage, error) {
	return func(query string, _ bool) (*domain.SearchPage, error) {
		return &domain.SearchPage{Query: query, Rows: rows}, nil
	}
}

func exactFor(name, url string) func(string, bool) (*domain.SearchPage, error) {
	return func(query string, _ bool) (*domain.SearchPage, error) {
		return &domain.SearchPage{Query: query, ExactMatch: true, ExactName: name, ExactURL: url}, nil
	}
}

const troutURL = "https://www.sportscardspro.com/game/baseball-cards-2023-topps-chrome/mike-trout-27"

func troutRecord() *domain.CardRecord {
	return &domain.CardRecord{
		Name:   "Mike Trout",
		Year:   "2023",
		Set:    "Topps Chrome",
		Number: "27",
		Sport:  "Baseball",
		Grade:  "10",
		Grader: "PSA",
	}
}

func steps(attempts []domain.QueryAttempt) []string {
	out := make([]string, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, a.Step)
	}
	return out
}

func TestLookup_CandidatesOnFullQuery(t *testing.T) {
	catalog := &fakeCatalog{search: rowsFor(
		domain.CandidateRow{Name: "Mike Trout #27", URL: troutURL, Category: "Baseball Cards 2023 Topps Chrome"},
		domain.CandidateRow{Name: "Mike Trout #28", URL: troutURL + "-x", Category: "Baseball Cards 2023 Topps Chrome"},
	)}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	session := svc.SessionFor(troutRecord())
	assert.Equal(t, domain.SiteSportsCards, session.Site)
	assert.NotEmpty(t, session.ID)

	result, err := svc.Lookup(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeCandidates, result.Outcome)
	assert.Equal(t, "full", result.Step)
	assert.Equal(t, "Mike Trout 2023 Topps Chrome #27", result.Query)
	assert.False(t, result.Relaxed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Mike Trout #27", result.Results[0].Name)
	assert.Equal(t, []string{"Mike Trout 2023 Topps Chrome #27"}, catalog.queries)
	assert.Equal(t, "Card", result.ItemKind)
	assert.Equal(t, session.ID, result.SessionID)
}

func TestLookup_RelaxesInOrder(t *testing.T) {
	catalog := &fakeCatalog{search: func(query string, _ bool) (*domain.SearchPage, error) {
		page := &domain.SearchPage{Query: query}
		if query == "Mike Trout 2023" {
			page.Rows = []domain.CandidateRow{{Name: "Mike Trout", URL: troutURL, Category: "Baseball Cards 2023 Topps"}}
		}
		return page, nil
	}}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	rec := troutRecord()
	rec.Parallel = "Gold Refractor"

	result, err := svc.Lookup(context.Background(), svc.SessionFor(rec))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Mike Trout 2023 Topps Chrome #27 Gold Refractor",
		"Mike Trout 2023 Topps Chrome #27",
		"Mike Trout 2023 Topps Chrome",
		"Mike Trout #27",
		"Mike Trout 2023",
	}, catalog.queries)
	assert.Equal(t, []string{"full", "no variant", "no number", "name and number", "name only"}, steps(result.Attempts))
	assert.Equal(t, "name only", result.Step)
	assert.True(t, result.Relaxed)
	assert.Equal(t, domain.OutcomeCandidates, result.Outcome)
}

func TestLookup_NotFoundSkipsRepeatedQueries(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	result, err := svc.Lookup(context.Background(), svc.SessionFor(&domain.CardRecord{Name: "Pikachu", Game: "Pokemon"}))

	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	require.NotNil(t, result)
	assert.Equal(t, domain.OutcomeNotFound, result.Outcome)
	assert.Equal(t, []string{"Pikachu"}, catalog.queries, "full and name-only build the same query")
	assert.Len(t, result.Attempts, 1)
	assert.Equal(t, domain.SiteGeneral, result.Site)
}

func TestLookup_TransportErrorStopsCascade(t *testing.T) {
	catalog := &fakeCatalog{search: func(string, bool) (*domain.SearchPage, error) {
		return nil, domain.ErrCatalogUnavailable
	}}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	_, err := svc.Lookup(context.Background(), svc.SessionFor(troutRecord()))

	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Len(t, catalog.queries, 1)
}

func TestLookup_ExactMatchIsPriced(t *testing.T) {
	catalog := &fakeCatalog{
		search: exactFor("Mike Trout #27", troutURL),
		prices: map[string]map[string]float64{
			troutURL: {"Ungraded": 12, "Grade 9": 40, "PSA 10": 600, "BGS 10": 900},
		},
	}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	result, err := svc.Lookup(context.Background(), svc.SessionFor(troutRecord()))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomePrices, result.Outcome)
	require.NotNil(t, result.Selected)
	assert.Equal(t, troutURL, result.Selected.URL)
	assert.Equal(t, domain.ExactMatchCategory, result.Selected.Category)
	require.NotNil(t, result.Prices)
	assert.Equal(t, "PSA 10", result.Prices.Rows[0].Grade)
	assert.True(t, result.Prices.Rows[0].Exact)
	assert.True(t, result.Attempts[0].ExactMatch)
}

func TestLookup_ExactMatchWithoutPricesOffersNearMatches(t *testing.T) {
	catalog := &fakeCatalog{search: func(query string, _ bool) (*domain.SearchPage, error) {
		if query == "Mike Trout 2023 Topps Chrome #27 Gold Refractor" {
			return &domain.SearchPage{Query: query, ExactMatch: true, ExactName: "Mike Trout [Gold Refractor] #27", ExactURL: troutURL + "-gold"}, nil
		}
		return &domain.SearchPage{Query: query, Rows: []domain.CandidateRow{
			{Name: "Mike Trout #27", URL: troutURL, Category: "Baseball Cards 2023 Topps Chrome"},
		}}, nil
	}}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	rec := troutRecord()
	rec.Parallel = "Gold Refractor"

	result, err := svc.Lookup(context.Background(), svc.SessionFor(rec))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeNearMatches, result.Outcome)
	assert.Equal(t, "Mike Trout [Gold Refractor] #27", result.ExactMatchName)
	assert.Equal(t, "Mike Trout 2023 Topps Chrome #27", result.Query)
	assert.Equal(t, []string{"full", "near matches"}, steps(result.Attempts))
	require.Len(t, result.Results, 1)
	assert.Nil(t, result.Prices)
}

func TestLookup_ExactMatchWithoutPricesOrVariant(t *testing.T) {
	catalog := &fakeCatalog{search: exactFor("Mike Trout #27", troutURL)}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	result, err := svc.Lookup(context.Background(), svc.SessionFor(troutRecord()))
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeNoPrices, result.Outcome)
	require.NotNil(t, result.Selected)
	assert.Empty(t, result.Prices.Rows)
	assert.Len(t, catalog.queries, 1)
}

func TestLookup_UsesCache(t *testing.T) {
	catalog := &fakeCatalog{
		search: exactFor("Mike Trout #27", troutURL),
		prices: map[string]map[string]float64{troutURL: {"PSA 10": 600}},
	}
	store := cache.NewMemoryCache()
	defer store.Close()
	svc := NewLookupService(catalog, store, LookupConfig{}, nil)

	for i := 0; i < 3; i++ {
		result, err := svc.Lookup(context.Background(), svc.SessionFor(troutRecord()))
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomePrices, result.Outcome)
		assert.Equal(t, 600.0, result.Prices.Rows[0].Price)
	}

	assert.Len(t, catalog.queries, 1)
	assert.Len(t, catalog.fetched, 1)
}

func TestLookup_EmptyPagesAreNotCached(t *testing.T) {
	catalog := &fakeCatalog{}
	store := cache.NewMemoryCache()
	defer store.Close()
	svc := NewLookupService(catalog, store, LookupConfig{}, nil)

	_, err := svc.Search(context.Background(), "nothing here", false)
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "nothing here", false)
	require.NoError(t, err)

	assert.Len(t, catalog.queries, 2)
	assert.Equal(t, 0, store.Size())
}

func TestSearch_SingleAttempt(t *testing.T) {
	catalog := &fakeCatalog{search: exactFor("Charizard #4", "https://www.pricecharting.com/game/pokemon-base-set/charizard-4")}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	resp, err := svc.Search(context.Background(), "  Charizard 4/102 ", false)
	require.NoError(t, err)

	assert.True(t, resp.ExactMatch)
	assert.Equal(t, domain.SiteGeneral, resp.Site)
	assert.Equal(t, "Charizard 4/102", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Charizard #4", resp.Results[0].Name)
	assert.Equal(t, []string{"Charizard 4/102"}, catalog.queries)

	_, err = svc.Search(context.Background(), "   ", true)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSelect(t *testing.T) {
	catalog := &fakeCatalog{prices: map[string]map[string]float64{
		troutURL: {"Ungraded": 12, "Grade 8": 30, "Grade 10": 200},
	}}
	svc := NewLookupService(catalog, nil, LookupConfig{}, nil)

	rec := troutRecord()
	rec.Grade, rec.Grader = "9", "PSA"
	session := svc.SessionFor(rec)

	prices, err := svc.Select(context.Background(), session, troutURL)
	require.NoError(t, err)
	assert.False(t, prices.HasExactMatch)
	assert.Equal(t, "Grade 8", prices.Below)
	assert.Equal(t, "Grade 10", prices.Above)

	prices, err = svc.Select(context.Background(), session, troutURL+"-empty")
	assert.ErrorIs(t, err, domain.ErrNoPrices)
	require.NotNil(t, prices)
	assert.Empty(t, prices.Rows)

	catalog.priceErr = domain.ErrCatalogFailure
	_, err = svc.Select(context.Background(), session, troutURL+"-broken")
	assert.True(t, errors.Is(err, domain.ErrCatalogFailure))

	_, err = svc.Select(context.Background(), session, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestNewSession_Comic(t *testing.T) {
	svc := NewLookupService(&fakeCatalog{}, nil, LookupConfig{}, nil)

	session := svc.NewSession(nil, "Amazing Spider-Man #129 CGC 9.8")

	assert.Equal(t, domain.CategoryComicBook, session.Category)
	assert.False(t, session.IsSportsCard)
	assert.Equal(t, domain.SiteGeneral, session.Site)
	assert.Equal(t, "Amazing Spider-Man", session.Record.Series)
	assert.Equal(t, "Amazing Spider-Man #129", svc.Query(session))
}

func TestSessionFor_NilRecord(t *testing.T) {
	svc := NewLookupService(&fakeCatalog{}, nil, LookupConfig{}, nil)

	session := svc.SessionFor(nil)
	require.NotNil(t, session.Record)
	assert.Equal(t, domain.UngradedLabel, session.Record.Grade)
	assert.NotEqual(t, session.ID, svc.SessionFor(nil).ID)
}

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "search:pricecharting:charizard 4/102", generateCacheKey("  Charizard   4/102", false))
	assert.Equal(t, "search:sportscardspro:mike trout #27", generateCacheKey("Mike Trout #27", true))
}
