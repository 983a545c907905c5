package usecase

import (
	"testing"

	"github.com/iammike/cardcheck/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsComicBook(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		rec  domain.CardRecord
		want bool
	}{
		{"era", domain.CardRecord{Era: "Silver Age"}, true},
		{"type comic", domain.CardRecord{ItemType: "Comic Book"}, true},
		{"series", domain.CardRecord{Series: "Saga"}, true},
		{"series holding card brand", domain.CardRecord{Series: "Topps Series 1"}, false},
		{"comic-only grader", domain.CardRecord{Grader: "cbcs"}, true},
		{"cgc alone is not enough", domain.CardRecord{Grader: "CGC"}, false},
		{"publisher", domain.CardRecord{Publisher: "Dark Horse Comics"}, true},
		{"unknown publisher", domain.CardRecord{Publisher: "Wizards of the Coast"}, false},
		{"title comic grader", domain.CardRecord{Title: "Batman #423 PGX 9.4"}, true},
		{"title keyword", domain.CardRecord{Title: "Spawn #1 Newsstand"}, true},
		{"plain sports card", domain.CardRecord{Name: "Mike Trout", Set: "Topps Chrome"}, false},
		{"empty", domain.CardRecord{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsComicBook(&tt.rec))
		})
	}
}

func TestIsSportsCard(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		rec  domain.CardRecord
		want bool
	}{
		{"recognized sport", domain.CardRecord{Sport: "Baseball"}, true},
		{"sport beats tcg game", domain.CardRecord{Sport: "Basketball", Game: "Pokemon"}, true},
		{"garbage sport falls through to default", domain.CardRecord{Sport: "N/A"}, true},
		{"garbage sport then tcg game", domain.CardRecord{Sport: "Raw", Game: "Magic: The Gathering"}, false},
		{"team", domain.CardRecord{Team: "New York Yankees", Set: "Marvel Crossover"}, true},
		{"tcg game", domain.CardRecord{Game: "Pokémon TCG"}, false},
		{"non-sports set", domain.CardRecord{Set: "Star Wars Chrome"}, false},
		{"non-sports manufacturer", domain.CardRecord{Manufacturer: "Konami"}, false},
		{"non-sports title", domain.CardRecord{Title: "Charizard Pokemon Base Set"}, false},
		{"comic never sports", domain.CardRecord{Era: "Modern Age", Sport: "Baseball"}, false},
		{"no signal defaults to sports", domain.CardRecord{Name: "Unknown Player"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsSportsCard(&tt.rec))
		})
	}
}

func TestCategorize(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, domain.CategoryComicBook, c.Categorize(&domain.CardRecord{Era: "Bronze Age"}))
	assert.Equal(t, domain.CategorySportsCard, c.Categorize(&domain.CardRecord{Sport: "Hockey"}))
	assert.Equal(t, domain.CategoryTradingCard, c.Categorize(&domain.CardRecord{Game: "Yu-Gi-Oh!"}))
	assert.False(t, c.IsSportsCard(nil))
}
