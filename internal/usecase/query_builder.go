package usecase

import (
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
)

// QueryOptions selects which facets a catalog query carries
type QueryOptions struct {
	IncludeVariant bool
	IncludeNumber  bool
	IncludeYear    bool
	IncludeSet     bool
}

// FullQuery includes every facet
var FullQuery = QueryOptions{IncludeVariant: true, IncludeNumber: true, IncludeYear: true, IncludeSet: true}

// NoVariantQuery is FullQuery without parallel, insert and feature facets
var NoVariantQuery = QueryOptions{IncludeNumber: true, IncludeYear: true, IncludeSet: true}

// RelaxationStep is one rung of the query relaxation cascade
type RelaxationStep struct {
	Name    string
	Options QueryOptions

	// applies reports whether the step is worth a request for this record
	applies func(rec *domain.CardRecord) bool
}

// Applies reports whether the step should be attempted for rec
func (s RelaxationStep) Applies(rec *domain.CardRecord) bool {
	return s.applies == nil || s.applies(rec)
}

// RelaxationCascade lists the queries tried in order until one yields candidates.
// "name only" keeps the year; the step after it drops that too.
var RelaxationCascade = []RelaxationStep{
	{
		Name:    "full",
		Options: FullQuery,
	},
	{
		Name:    "no variant",
		Options: NoVariantQuery,
		applies: HasVariantData,
	},
	{
		Name:    "no number",
		Options: QueryOptions{IncludeYear: true, IncludeSet: true},
		applies: func(rec *domain.CardRecord) bool { return rec.Number != "" },
	},
	{
		Name:    "name and number",
		Options: QueryOptions{IncludeNumber: true},
		applies: func(rec *domain.CardRecord) bool { return rec.Number != "" },
	},
	{
		Name:    "name only",
		Options: QueryOptions{IncludeYear: true},
		applies: func(rec *domain.CardRecord) bool { return rec.Name != "" },
	},
	{
		Name:    "no year",
		Options: QueryOptions{},
		applies: func(rec *domain.CardRecord) bool { return rec.Year != "" },
	},
}

// QueryBuilder turns a record into catalog search strings
type QueryBuilder struct {
	classifier *Classifier
}

// NewQueryBuilder creates a query builder
func NewQueryBuilder(classifier *Classifier) *QueryBuilder {
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &QueryBuilder{classifier: classifier}
}

// Build assembles the search string for rec with the requested facets
func (b *QueryBuilder) Build(rec *domain.CardRecord, opts QueryOptions) string {
	if rec == nil {
		return ""
	}
	if b.classifier.IsComicBook(rec) {
		return buildComicQuery(rec, opts)
	}

	set := cleanSet(rec.Set)

	var parts []string
	if rec.Name != "" {
		parts = append(parts, rec.Name)
	}
	// Skip the year when the set name already carries it
	if opts.IncludeYear && rec.Year != "" && !(set != "" && strings.Contains(set, rec.Year)) {
		parts = append(parts, rec.Year)
	}
	if opts.IncludeSet {
		if set != "" {
			parts = append(parts, set)
		} else if rec.Manufacturer != "" {
			parts = append(parts, rec.Manufacturer)
		}
	}
	if opts.IncludeNumber && rec.Number != "" {
		if num := NormalizeCardNumber(rec.Number); num != "" {
			parts = append(parts, num)
		}
	}
	if opts.IncludeVariant {
		if rec.Parallel != "" {
			parts = append(parts, rec.Parallel)
		}
		if rec.InsertSet != "" {
			parts = append(parts, rec.InsertSet)
		}
		if hasSpecificFeatures(rec.Features) {
			parts = append(parts, rec.Features)
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// buildComicQuery uses series + issue, e.g. "Amazing Spider-Man 1973 #129 Romita"
func buildComicQuery(rec *domain.CardRecord, opts QueryOptions) string {
	var parts []string
	switch {
	case rec.Series != "":
		parts = append(parts, rec.Series)
	case rec.Name != "":
		parts = append(parts, rec.Name)
	}
	if opts.IncludeYear && rec.Year != "" {
		parts = append(parts, rec.Year)
	}
	if opts.IncludeNumber && rec.Number != "" {
		if num := NormalizeCardNumber(rec.Number); num != "" {
			parts = append(parts, num)
		}
	}
	// the cover artist is kept at every relaxation step
	if rec.Variant != "" && rec.CoverArtist != "" {
		if last := artistLastName(rec.CoverArtist); last != "" {
			parts = append(parts, last)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// NormalizeCardNumber strips "#", keeps the numerator of "N/M" and re-adds one "#".
// It is idempotent.
func NormalizeCardNumber(number string) string {
	num := strings.TrimSpace(number)
	num = strings.TrimLeft(num, "#")
	if i := strings.Index(num, "/"); i >= 0 {
		num = num[:i]
	}
	num = strings.TrimSpace(num)
	if num == "" {
		return ""
	}
	return "#" + num
}

// HasVariantData reports whether dropping variant facets could change the query
func HasVariantData(rec *domain.CardRecord) bool {
	if rec == nil {
		return false
	}
	return rec.Parallel != "" || rec.InsertSet != "" || hasSpecificFeatures(rec.Features)
}

func hasSpecificFeatures(features string) bool {
	f := strings.TrimSpace(features)
	return f != "" && !genericFeatures[strings.ToLower(f)]
}

// cleanSet drops set labels too generic to search on
func cleanSet(set string) string {
	s := strings.TrimSpace(set)
	if invalidSets[strings.ToLower(s)] {
		return ""
	}
	return s
}

// artistLastName takes the first credited artist and returns their last name
func artistLastName(artists string) string {
	first := strings.TrimSpace(strings.Split(artists, ",")[0])
	words := strings.Fields(first)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
