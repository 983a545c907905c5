package usecase

import (
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
)

// verdict is the outcome of one classification check
type verdict int

const (
	undecided verdict = iota
	yes
	no
)

type check struct {
	name string
	eval func(rec *domain.CardRecord) verdict
}

// Classifier decides an item's category with ordered decision lists.
// Evaluation order is significant: the first decisive check wins.
type Classifier struct {
	comicChecks  []check
	sportsChecks []check
}

// NewClassifier creates a classifier with the standard decision lists
func NewClassifier() *Classifier {
	return &Classifier{
		comicChecks:  comicDecisionList(),
		sportsChecks: sportsDecisionList(),
	}
}

// IsComicBook reports whether the record describes a comic book
func (c *Classifier) IsComicBook(rec *domain.CardRecord) bool {
	return decide(c.comicChecks, rec, false)
}

// IsSportsCard reports whether the record describes a sports card.
// With no signal either way it answers true.
func (c *Classifier) IsSportsCard(rec *domain.CardRecord) bool {
	if rec == nil || c.IsComicBook(rec) {
		return false
	}
	return decide(c.sportsChecks, rec, true)
}

// Categorize maps the two predicates onto a single category
func (c *Classifier) Categorize(rec *domain.CardRecord) domain.Category {
	switch {
	case c.IsComicBook(rec):
		return domain.CategoryComicBook
	case c.IsSportsCard(rec):
		return domain.CategorySportsCard
	default:
		return domain.CategoryTradingCard
	}
}

func decide(checks []check, rec *domain.CardRecord, fallback bool) bool {
	if rec == nil {
		return false
	}
	for _, chk := range checks {
		switch chk.eval(rec) {
		case yes:
			return true
		case no:
			return false
		}
	}
	return fallback
}

func comicDecisionList() []check {
	return []check{
		{"era present", func(rec *domain.CardRecord) verdict {
			if rec.Era != "" {
				return yes
			}
			return undecided
		}},
		{"type mentions comic", func(rec *domain.CardRecord) verdict {
			if strings.Contains(strings.ToLower(rec.ItemType), "comic") {
				return yes
			}
			return undecided
		}},
		// Some sellers put the card brand in the series field
		{"series without card brand", func(rec *domain.CardRecord) verdict {
			if rec.Series != "" && !containsAny(strings.ToLower(rec.Series), tradingCardBrands) {
				return yes
			}
			return undecided
		}},
		{"comic-only grader", func(rec *domain.CardRecord) verdict {
			if comicOnlyGraders[strings.ToUpper(strings.TrimSpace(rec.Grader))] {
				return yes
			}
			return undecided
		}},
		{"comic publisher", func(rec *domain.CardRecord) verdict {
			if rec.Publisher != "" && containsAny(strings.ToLower(rec.Publisher), comicPublishers) {
				return yes
			}
			return undecided
		}},
		{"comic title", func(rec *domain.CardRecord) verdict {
			if rec.Title == "" {
				return undecided
			}
			if comicGraderTitlePattern.MatchString(rec.Title) || containsAny(strings.ToLower(rec.Title), comicKeywords) {
				return yes
			}
			return undecided
		}},
	}
}

func sportsDecisionList() []check {
	return []check{
		{"recognized sport", func(rec *domain.CardRecord) verdict {
			sport := strings.ToLower(strings.TrimSpace(rec.Sport))
			if sport == "" || garbageSports[sport] {
				return undecided
			}
			if containsAny(sport, recognizedSports) {
				return yes
			}
			return undecided
		}},
		{"team present", func(rec *domain.CardRecord) verdict {
			if rec.Team != "" {
				return yes
			}
			return undecided
		}},
		{"trading card game", func(rec *domain.CardRecord) verdict {
			if rec.Game != "" && containsAny(strings.ToLower(rec.Game), tcgGames) {
				return no
			}
			return undecided
		}},
		{"non-sports keyword", func(rec *domain.CardRecord) verdict {
			text := strings.ToLower(rec.Set + " " + rec.Manufacturer + " " + rec.Title)
			if containsAny(text, nonSportsKeywords) {
				return no
			}
			return undecided
		}},
	}
}
