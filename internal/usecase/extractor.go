package usecase

import (
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
	"go.uber.org/zap"
)

// extractRule routes one listing field into the record.
// Rules are evaluated in order and the first whose predicate accepts the label handles the pair,
// so a rule that matches but declines to write still shields later rules.
type extractRule struct {
	name    string
	matches func(label string) bool
	apply   func(rec *domain.CardRecord, value string)
}

// Extractor turns listing fields and title text into a CardRecord
type Extractor struct {
	rules  []extractRule
	titles *TitleParser
	logger *zap.Logger
}

// NewExtractor creates an extractor with the standard rule table
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		rules:  extractionRules(),
		titles: NewTitleParser(logger),
		logger: logger,
	}
}

// Extract builds a normalized record. It never fails: fields no rule can fill stay empty.
func (e *Extractor) Extract(specifics domain.ItemSpecifics, title string) *domain.CardRecord {
	rec := &domain.CardRecord{Title: strings.TrimSpace(title)}

	for _, pair := range specifics {
		label := strings.ToLower(strings.TrimSpace(pair.Label))
		value := strings.TrimSpace(pair.Value)
		if label == "" || value == "" {
			continue
		}
		for _, rule := range e.rules {
			if rule.matches(label) {
				rule.apply(rec, value)
				e.logger.Debug("item specific",
					zap.String("label", label),
					zap.String("value", value),
					zap.String("rule", rule.name),
				)
				break
			}
		}
	}

	if rec.Title != "" && needsTitleFallback(rec) {
		e.applyTitle(rec, e.titles.Parse(rec.Title))
	}

	// A character field is generic; a quoted phrase in the title names the actual subject
	if rec.NameSource == domain.NameFromCharacter {
		if quoted := QuotedPhrase(rec.Title); quoted != "" {
			rec.Name = quoted
			rec.NameSource = domain.NameFromTitle
		}
	}

	if rec.ErrorNote == "" && titleMentionsError(rec.Title) {
		rec.ErrorNote = "Error"
	}

	if rec.Grade == "" {
		rec.Grade = domain.UngradedLabel
	}

	return rec
}

func needsTitleFallback(rec *domain.CardRecord) bool {
	return rec.Name == "" || rec.Year == "" || rec.Set == "" || rec.Number == "" || rec.Grade == ""
}

// applyTitle fills only facets structured fields left empty
func (e *Extractor) applyTitle(rec *domain.CardRecord, parsed TitleParse) {
	if rec.Name == "" && parsed.Name != "" {
		rec.Name = parsed.Name
		rec.NameSource = domain.NameFromTitle
	}
	if rec.Year == "" && parsed.Year != "" {
		rec.Year = parsed.Year
		rec.YearSource = domain.YearFromTitle
	}
	if rec.Set == "" && parsed.Set != "" {
		rec.Set = parsed.Set
	}
	if rec.Number == "" && parsed.Number != "" {
		rec.Number = parsed.Number
	}
	if parsed.Grade != "" {
		switch {
		case rec.Grade == "":
			rec.Grade = parsed.Grade
			if rec.Grader == "" {
				rec.Grader = parsed.Grader
			}
		case rec.Grader == "" && ParseGradeNumber(rec.Grade) == ParseGradeNumber(parsed.Grade):
			rec.Grader = parsed.Grader
		}
	}
	if parsed.IsComic {
		if rec.Series == "" {
			rec.Series = parsed.Series
		}
		if rec.Publisher == "" {
			rec.Publisher = parsed.Publisher
		}
	}
}

func titleMentionsError(title string) bool {
	lower := strings.ToLower(title)
	return strings.Contains(lower, "error") && !strings.Contains(lower, "error-free")
}

func labelIs(names ...string) func(string) bool {
	return func(label string) bool {
		for _, n := range names {
			if label == n {
				return true
			}
		}
		return false
	}
}

func labelContains(sub string) func(string) bool {
	return func(label string) bool {
		return strings.Contains(label, sub)
	}
}

func isPlaceholderName(value string) bool {
	return placeholderNames[strings.ToLower(value)]
}

func flagError(rec *domain.CardRecord, value string) {
	if rec.ErrorNote == "" && strings.Contains(strings.ToLower(value), "error") {
		rec.ErrorNote = "Error"
	}
}

// extractionRules is the ordered precedence table for structured listing fields
func extractionRules() []extractRule {
	return []extractRule{
		{
			name:    "player",
			matches: labelIs("player/athlete", "player", "athlete"),
			apply: func(rec *domain.CardRecord, v string) {
				if !isPlaceholderName(v) {
					rec.Name = v
					rec.NameSource = domain.NameFromPlayer
				}
			},
		},
		{
			name:    "card name",
			matches: labelIs("card name"),
			apply: func(rec *domain.CardRecord, v string) {
				if rec.NameSource != domain.NameFromPlayer && !isPlaceholderName(v) {
					rec.Name = v
					rec.NameSource = domain.NameFromCardName
				}
			},
		},
		{
			name:    "character",
			matches: labelIs("character"),
			apply: func(rec *domain.CardRecord, v string) {
				if rec.Name == "" && !isPlaceholderName(v) {
					rec.Name = v
					rec.NameSource = domain.NameFromCharacter
				}
			},
		},
		{
			name:    "set",
			matches: labelIs("set"),
			apply: func(rec *domain.CardRecord, v string) {
				rec.Set = v
			},
		},
		{
			name:    "product",
			matches: labelIs("product"),
			apply: func(rec *domain.CardRecord, v string) {
				if rec.Set == "" && !placeholderProducts[strings.ToLower(v)] {
					rec.Set = v
				}
			},
		},
		{
			name:    "insert set",
			matches: labelContains("insert"),
			apply: func(rec *domain.CardRecord, v string) {
				rec.InsertSet = v
			},
		},
		{
			name: "parallel",
			matches: func(label string) bool {
				return strings.Contains(label, "parallel") || strings.Contains(label, "variety")
			},
			apply: func(rec *domain.CardRecord, v string) {
				// Error cards are never parallels
				if strings.Contains(strings.ToLower(v), "error") {
					rec.ErrorNote = v
					return
				}
				rec.Parallel = v
			},
		},
		{
			name:    "year manufactured",
			matches: labelIs("year manufactured"),
			apply: func(rec *domain.CardRecord, v string) {
				rec.Year = v
				rec.YearSource = domain.YearFromManufactured
			},
		},
		{
			name:    "season",
			matches: labelIs("season"),
			apply: func(rec *domain.CardRecord, v string) {
				if rec.YearSource != domain.YearFromManufactured {
					rec.Year = v
					rec.YearSource = domain.YearFromSeason
				}
			},
		},
		{
			name:    "year",
			matches: labelIs("year"),
			apply: func(rec *domain.CardRecord, v string) {
				if rec.YearSource == "" {
					rec.Year = v
					rec.YearSource = domain.YearFromYear
				}
			},
		},
		{
			name:    "publication year",
			matches: labelIs("publication year"),
			apply: func(rec *domain.CardRecord, v string) {
				if rec.YearSource != domain.YearFromManufactured {
					rec.Year = v
					rec.YearSource = domain.YearFromPublication
				}
			},
		},
		{
			name: "grader",
			matches: func(label string) bool {
				return strings.Contains(label, "grader") && !strings.Contains(label, "certification")
			},
			apply: func(rec *domain.CardRecord, v string) {
				rec.Grader = ParseGraderValue(v)
			},
		},
		{
			name: "grade",
			matches: func(label string) bool {
				return strings.Contains(label, "grade") && !strings.Contains(label, "grader") && label != "graded"
			},
			apply: func(rec *domain.CardRecord, v string) {
				if m := gradeValueRegex.FindStringSubmatch(v); m != nil {
					rec.Grade = m[1]
					return
				}
				rec.Grade = v
			},
		},
		{
			name:    "condition",
			matches: labelIs("condition"),
			apply: func(rec *domain.CardRecord, v string) {
				if grader, grade, ok := ParseGraderGrade(v); ok {
					rec.Grader = grader
					rec.Grade = grade
				}
			},
		},
		{
			name:    "number",
			matches: labelIs("card number", "issue number", "issue"),
			apply: func(rec *domain.CardRecord, v string) {
				rec.Number = v
			},
		},
		{
			name:    "sport",
			matches: labelIs("sport"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Sport = v },
		},
		{
			name:    "team",
			matches: labelIs("team"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Team = v },
		},
		{
			name:    "manufacturer",
			matches: labelIs("manufacturer"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Manufacturer = v },
		},
		{
			name:    "game",
			matches: labelIs("game"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Game = v },
		},
		{
			name:    "features",
			matches: labelIs("features"),
			apply: func(rec *domain.CardRecord, v string) {
				rec.Features = v
				flagError(rec, v)
				if rec.Variant == "" && strings.Contains(strings.ToLower(v), "variant") {
					rec.Variant = "Variant Cover"
				}
			},
		},
		{
			name:    "variant type",
			matches: labelIs("variant type"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Variant = v },
		},
		{
			name:    "autographed",
			matches: labelIs("autographed"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Autographed = v },
		},
		{
			name:    "type",
			matches: labelIs("type", "card type"),
			apply: func(rec *domain.CardRecord, v string) {
				rec.ItemType = v
				flagError(rec, v)
			},
		},
		{
			name:    "attributes",
			matches: labelIs("card attributes", "attributes"),
			apply:   flagError,
		},
		{
			name:    "publisher",
			matches: labelIs("publisher"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Publisher = v },
		},
		{
			name:    "era",
			matches: labelIs("era"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Era = v },
		},
		{
			name:    "series",
			matches: labelIs("series", "series title", "comic series"),
			apply:   func(rec *domain.CardRecord, v string) { rec.Series = v },
		},
		{
			name:    "cover artist",
			matches: labelIs("cover artist"),
			apply:   func(rec *domain.CardRecord, v string) { rec.CoverArtist = v },
		},
	}
}

// ParseGraderValue reduces "Professional Sports Authenticator (PSA)" to "PSA".
// Unrecognised values are kept verbatim.
func ParseGraderValue(v string) string {
	if m := graderInParensRegex.FindStringSubmatch(v); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := graderLeadingRegex.FindStringSubmatch(v); m != nil {
		return strings.ToUpper(m[1])
	}
	return v
}
