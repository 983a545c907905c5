package usecase

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/iammike/cardcheck/internal/domain"
	"go.uber.org/zap"
)

// DefaultMaxResults caps how many ranked candidates a search returns
const DefaultMaxResults = 50

// Package-level compiled regex patterns for query token classification
var (
	queryYearPattern     = regexp.MustCompile(`^(19|20)\d{2}$`)
	queryNumberPattern   = regexp.MustCompile(`^#?(\d+)$`)
	queryPrintRunPattern = regexp.MustCompile(`^#?(\d+)/\d+$`)
	queryHyphenPattern   = regexp.MustCompile(`^#?([a-z0-9]+(?:-[a-z0-9]+)+)$`)
	queryCodePattern     = regexp.MustCompile(`^#?([a-z]{1,5}\d{1,4})$`)

	candidateHashNumber    = regexp.MustCompile(`(?i)#([a-z0-9-]+)`)
	candidateBracketNumber = regexp.MustCompile(`(?i)\[([a-z0-9-]+)\]`)
)

// ParsedQuery is a catalog query split into the roles its tokens play
type ParsedQuery struct {
	Words       []string
	CardNumber  string
	Year        string
	PlayerWords []string
	SetWords    []string
}

// ParseQuery classifies each lowercase query token
func ParseQuery(query string) ParsedQuery {
	pq := ParsedQuery{Words: strings.Fields(strings.ToLower(query))}

	for _, word := range pq.Words {
		if queryYearPattern.MatchString(word) {
			pq.Year = word
			continue
		}
		if num := cardNumberToken(word); num != "" {
			pq.CardNumber = num
			continue
		}
		if brandKeywords[word] {
			pq.SetWords = append(pq.SetWords, word)
			continue
		}
		pq.PlayerWords = append(pq.PlayerWords, word)
	}

	return pq
}

// cardNumberToken returns the card number a query token stands for, or ""
func cardNumberToken(word string) string {
	if m := queryNumberPattern.FindStringSubmatch(word); m != nil {
		return m[1]
	}
	if m := queryPrintRunPattern.FindStringSubmatch(word); m != nil {
		return m[1]
	}
	if m := queryHyphenPattern.FindStringSubmatch(word); m != nil && strings.ContainsAny(m[1], "0123456789") {
		return m[1]
	}
	if m := queryCodePattern.FindStringSubmatch(word); m != nil {
		return m[1]
	}
	return ""
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MaxResults         int
	EnableDebugLogging bool
}

// MatchingService filters and ranks catalog candidate rows against a query
type MatchingService struct {
	maxResults         int
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig, logger *zap.Logger) *MatchingService {
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		maxResults:         maxResults,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// Rank keeps the rows that plausibly match query, scores them, and returns them
// best first with duplicate URLs removed. No rows is an empty slice, not an error.
func (s *MatchingService) Rank(ctx context.Context, query string, rows []domain.CandidateRow) ([]domain.SearchResult, error) {
	pq := ParseQuery(query)

	if s.enableDebugLogging {
		s.logger.Debug("filtering candidates",
			zap.String("query", query),
			zap.Strings("player", pq.PlayerWords),
			zap.Strings("set", pq.SetWords),
			zap.String("number", pq.CardNumber),
			zap.String("year", pq.Year),
			zap.Int("rows", len(rows)),
		)
	}

	results := make([]domain.SearchResult, 0, len(rows))
	for _, row := range rows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if isBoilerplateRow(row.Name) {
			continue
		}
		if !pq.accepts(row) {
			if s.enableDebugLogging {
				s.logger.Debug("candidate rejected", zap.String("name", row.Name), zap.String("category", row.Category))
			}
			continue
		}

		results = append(results, domain.SearchResult{
			Name:     row.Name,
			URL:      row.URL,
			Category: row.Category,
			Score:    pq.Score(row.Name, row.Category),
		})
	}

	results = dedupeByURL(sortByScore(results))
	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}

	if s.enableDebugLogging {
		s.logger.Debug("candidates ranked", zap.String("query", query), zap.Int("kept", len(results)))
	}

	return results, nil
}

// Score counts the query tokens that occur in name + category, case-insensitively
func (pq ParsedQuery) Score(name, category string) int {
	full := strings.ToLower(name + " " + category)
	score := 0
	for _, w := range pq.Words {
		if strings.Contains(full, w) {
			score++
		}
	}
	return score
}

func (pq ParsedQuery) accepts(row domain.CandidateRow) bool {
	nameLower := strings.ToLower(row.Name)
	categoryLower := strings.ToLower(row.Category)

	if pq.CardNumber != "" {
		// A candidate without a visible number may still be the card
		if num := candidateNumber(row.Name); num != "" && num != strings.ToLower(pq.CardNumber) {
			return false
		}
		if pq.Year != "" && !strings.Contains(nameLower+" "+categoryLower, pq.Year) {
			return false
		}
	} else if len(pq.PlayerWords) > 0 && !strings.Contains(nameLower, pq.PlayerWords[0]) {
		return false
	}

	if len(pq.SetWords) > 0 {
		matched := false
		for _, w := range pq.SetWords {
			if strings.Contains(categoryLower, w) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// candidateNumber reads "#123" or "[LIOA-JW]" from a catalog item name.
// Bracketed variant tags such as "[Gold]" are not numbers.
func candidateNumber(name string) string {
	if m := candidateHashNumber.FindStringSubmatch(name); m != nil {
		return strings.ToLower(m[1])
	}
	for _, m := range candidateBracketNumber.FindAllStringSubmatch(name, -1) {
		if isBracketCode(m[1]) {
			return strings.ToLower(m[1])
		}
	}
	return ""
}

// isBracketCode accepts tokens carrying a digit, or upper-case hyphenated codes
func isBracketCode(token string) bool {
	if strings.ContainsAny(token, "0123456789") {
		return true
	}
	return strings.Contains(token, "-") && token == strings.ToUpper(token)
}

func isBoilerplateRow(name string) bool {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) <= 3 {
		return true
	}
	lower := strings.ToLower(trimmed)
	if boilerplateNames[lower] {
		return true
	}
	return containsAny(lower, boilerplatePrefixes)
}

// sortByScore orders results by descending score, keeping catalog order for ties
func sortByScore(results []domain.SearchResult) []domain.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// dedupeByURL keeps the first occurrence of each URL
func dedupeByURL(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]bool, len(results))
	unique := results[:0]
	for _, r := range results {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		unique = append(unique, r)
	}
	return unique
}

// ExactMatchResults wraps a catalog redirect as the singleton result list
func ExactMatchResults(page *domain.SearchPage) []domain.SearchResult {
	name := strings.TrimSpace(page.ExactName)
	if name == "" {
		name = domain.ExactMatchCategory
	}
	return []domain.SearchResult{{
		Name:     name,
		URL:      page.ExactURL,
		Category: domain.ExactMatchCategory,
	}}
}
