package harness

import (
	"math"
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
)

// minCategoryWordShare is the fraction of expected category words that must
// appear in a result's category when neither contains the other
const minCategoryWordShare = 0.6

// FindExpected looks for the expected item among search results. Names match
// when either contains the other, case-insensitively. With an expected category
// a result's category must also match: by containment either way, by sharing
// enough of the expected words, or by being the exact-redirect singleton.
func FindExpected(results []domain.SearchResult, expectedName, expectedCategory string) (*domain.SearchResult, bool) {
	name := strings.ToLower(strings.TrimSpace(expectedName))
	category := strings.ToLower(strings.TrimSpace(expectedCategory))

	for i := range results {
		r := &results[i]
		got := strings.ToLower(r.Name)
		if got == "" || !(strings.Contains(got, name) || strings.Contains(name, got)) {
			continue
		}
		if category == "" || categoryMatches(strings.ToLower(r.Category), category) {
			return r, true
		}
	}
	return nil, false
}

func categoryMatches(got, expected string) bool {
	if got == "" {
		return false
	}
	if strings.Contains(got, expected) || strings.Contains(expected, got) {
		return true
	}

	words := strings.Fields(expected)
	matched := 0
	for _, w := range words {
		if len(w) > 2 && strings.Contains(got, w) {
			matched++
		}
	}
	if matched >= int(math.Ceil(float64(len(words))*minCategoryWordShare)) {
		return true
	}

	return got == strings.ToLower(domain.ExactMatchCategory)
}
