package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// graderAbbreviations lists the grading services recognised in labels and titles
const graderAbbreviations = `PSA|BGS|CGC|SGC|TAG|CSG|HGA|AGS|GMA|KSA|CBCS|PGX`

var (
	gradeNumberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

	// "PSA 10", "BGS9.5", "CGC Graded 9.8"
	graderGradeRegex = regexp.MustCompile(`(?i)\b(` + graderAbbreviations + `)\s*(?:graded|grade)?\s*(\d+(?:\.\d+)?)`)

	graderInParensRegex = regexp.MustCompile(`(?i)\((` + graderAbbreviations + `)\)`)
	graderLeadingRegex  = regexp.MustCompile(`(?i)^(` + graderAbbreviations + `)\b`)

	// Grades live in 1..10 with at most one decimal; anything else in the value is a cert number or noise
	gradeValueRegex = regexp.MustCompile(`\b(10|[1-9](?:\.\d)?)\b`)

	letterDigitRegex = regexp.MustCompile(`([A-Za-z])(\d)`)
)

var knownGraders = func() map[string]bool {
	m := make(map[string]bool)
	for _, g := range strings.Split(graderAbbreviations, "|") {
		m[g] = true
	}
	return m
}()

// ParseGradeNumber extracts the first decimal number in a grade label.
// Returns 0 when the label has no digits; callers treat 0 as unranked.
func ParseGradeNumber(label string) float64 {
	match := gradeNumberRegex.FindString(label)
	if match == "" {
		return 0
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return n
}

// IsGradeMatch reports whether a catalog price label corresponds to the record's grade
func IsGradeMatch(priceLabel, recordGrade, recordGrader string) bool {
	priceLower := strings.ToLower(strings.TrimSpace(priceLabel))

	if strings.EqualFold(strings.TrimSpace(recordGrade), domain.UngradedLabel) {
		return priceLower == strings.ToLower(domain.UngradedLabel)
	}

	priceNum := ParseGradeNumber(priceLabel)
	recordNum := ParseGradeNumber(recordGrade)
	if priceNum == 0 || priceNum != recordNum {
		return false
	}

	// Several graders publish a "10"; the grader name disambiguates
	if priceNum == 10 && recordGrader != "" {
		return strings.Contains(priceLower, strings.ToLower(recordGrader))
	}

	return true
}

// ParseGraderGrade finds a grader abbreviation followed by a numeric grade.
// The grader is returned upper-cased.
func ParseGraderGrade(text string) (grader, grade string, ok bool) {
	m := graderGradeRegex.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), m[2], true
}

// FormatGradeName turns a catalog grade slug such as "psa-10" into "PSA 10"
func FormatGradeName(raw string) string {
	spaced := strings.ReplaceAll(raw, "-", " ")
	spaced = letterDigitRegex.ReplaceAllString(spaced, "$1 $2")

	caser := cases.Title(language.Und)
	words := strings.Fields(spaced)
	for i, w := range words {
		if upper := strings.ToUpper(w); knownGraders[upper] {
			words[i] = upper
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
