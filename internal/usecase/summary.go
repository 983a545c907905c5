package usecase

import (
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
)

// Summarize picks the fields worth showing for rec. Comics are titled by
// series and show the publisher; cards show the set, or the brand when the
// set is a placeholder.
func (c *Classifier) Summarize(rec *domain.CardRecord) domain.CardSummary {
	var sum domain.CardSummary
	if rec == nil {
		return sum
	}
	isComic := c.IsComicBook(rec)

	sum.Title = rec.Name
	if isComic && rec.Series != "" {
		sum.Title = rec.Series
	}

	set := cleanSet(rec.Set)
	if rec.Year != "" && !(set != "" && strings.Contains(set, rec.Year)) {
		sum.Year = rec.Year
	}

	if number := strings.TrimLeft(strings.TrimSpace(rec.Number), "#"); number != "" {
		sum.Number = number
		sum.NumberLabel = "Card #"
		if isComic {
			sum.NumberLabel = "Issue #"
		}
	}

	if isComic {
		sum.Publisher = rec.Publisher
		switch {
		case rec.Variant != "" && rec.CoverArtist != "":
			sum.Variant = rec.CoverArtist
		case rec.Variant != "":
			sum.Variant = "Cover Variant"
		}
	} else {
		if set != "" {
			sum.Set = set
		} else {
			sum.Brand = rec.Manufacturer
		}
		sum.Parallel = rec.Parallel
		sum.Insert = rec.InsertSet
	}

	switch {
	case rec.Grader != "" && rec.Grade != "":
		sum.Grade = rec.Grader + " " + rec.Grade
	default:
		sum.Grade = rec.Grade
	}
	return sum
}

// ItemKind names the item for user-facing text: "Comic" or "Card"
func (c *Classifier) ItemKind(rec *domain.CardRecord) string {
	if c.IsComicBook(rec) {
		return "Comic"
	}
	return "Card"
}
