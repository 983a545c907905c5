package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// TitleParse holds the facets recovered from a free-text listing title
type TitleParse struct {
	Name      string
	Quoted    string
	Set       string
	Year      string
	Number    string
	Grade     string
	Grader    string
	Series    string
	Publisher string
	IsComic   bool
}

// TitleParser pulls card facets out of noisy seller titles
type TitleParser struct {
	logger *zap.Logger
}

// Compiled regex patterns for title parsing
var (
	// Pictographs, dingbats, stars and the joiners that glue emoji sequences together
	emojiPattern = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}\x{20E3}]`)

	hypePattern = regexp.MustCompile(`(?i)\b(?:` + strings.Join(hypeWords, "|") + `)\b`)

	// Trailing seller inventory codes like "*123" or "SKU: A-12"
	sellerCodePattern = regexp.MustCompile(`(?i)(?:\s*\*+\s*[a-z0-9-]*|\s+(?:sku|inv)\s*[:#]?\s*[a-z0-9-]+)\s*$`)

	titleYearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})(?:-\d{2})?\b`)

	hashNumberPattern = regexp.MustCompile(`#\s?([A-Za-z0-9]+(?:-[A-Za-z0-9]+)*)(?:/\d+)?`)

	// "No." must be followed by a digit so names like "Nolan" are left alone
	noNumberPattern = regexp.MustCompile(`\bNo\.?\s*(\d[A-Za-z0-9]*(?:-[A-Za-z0-9]+)*)(?:/\d+)?`)

	printRunPattern = regexp.MustCompile(`\b(\d{1,4})/\d{1,4}\b`)

	quotedPattern = regexp.MustCompile(`["“”„]([^"“”„]{2,})["“”„]`)

	// A capitalised two- or three-word name right after the card number
	nameAfterNumberPattern = regexp.MustCompile(`#[A-Za-z0-9-]+(?:/\d+)?\s+([A-Z][a-z]+(?:\s+[A-Z][a-zA-Z'.]+){1,2})`)

	comicGraderTitlePattern = regexp.MustCompile(`(?i)\b(?:cbcs|pgx)\s*\d`)

	comicSeriesPattern = regexp.MustCompile(`(?i)(?:^|[^A-Za-z])(` + quoteSeriesNames() + `)(?:$|[^A-Za-z])`)

	comicPublisherPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(comicPublishers), "|") + `)\b`)

	tcgSetPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(tcgSetPhrases), "|") + `)\b`)

	setBrandPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoteAll(setBrands), "|") + `)\b`)

	multipleSpacesPattern = regexp.MustCompile(`\s+`)

	wordTrimPattern = regexp.MustCompile(`^[^\p{L}\p{N}]+|[^\p{L}\p{N}.']+$`)
)

// publisherDisplay maps lowercase publisher keywords to catalog spelling
var publisherDisplay = map[string]string{
	"marvel":     "Marvel",
	"dc comics":  "DC Comics",
	"dc":         "DC Comics",
	"image":      "Image",
	"dark horse": "Dark Horse",
	"idw":        "IDW",
	"boom":       "BOOM! Studios",
	"dynamite":   "Dynamite",
	"valiant":    "Valiant",
	"archie":     "Archie",
	"oni press":  "Oni Press",
	"aftershock": "AfterShock",
	"scout":      "Scout",
	"zenescope":  "Zenescope",
	"ablaze":     "Ablaze",
	"titan":      "Titan",
}

// NewTitleParser creates a title parser
func NewTitleParser(logger *zap.Logger) *TitleParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TitleParser{logger: logger}
}

// Parse extracts grade, year, number, set, comic facets and a subject name from a title.
// It never fails; facets it cannot find are left empty.
func (p *TitleParser) Parse(title string) TitleParse {
	var out TitleParse
	if strings.TrimSpace(title) == "" {
		return out
	}

	// Series names contain hype words ("Amazing"), so look for them before stripping
	base := stripDecorations(title)
	cleaned := removeHype(base)
	lower := strings.ToLower(cleaned)

	if grader, grade, ok := ParseGraderGrade(cleaned); ok {
		out.Grader = grader
		out.Grade = grade
	}

	out.IsComic = detectComicTitle(base)
	if out.IsComic {
		out.Series, out.Publisher = extractComicFacets(base)
	}

	if m := titleYearPattern.FindStringSubmatch(cleaned); m != nil {
		out.Year = m[1]
	}

	out.Number = extractTitleNumber(cleaned)

	if !out.IsComic {
		out.Set = extractTitleSet(cleaned)
	}

	out.Quoted = QuotedPhrase(title)
	switch {
	case out.Quoted != "":
		out.Name = out.Quoted
	case out.IsComic && out.Series != "":
		out.Name = out.Series
	default:
		// the set phrase was already claimed; product words like "Draft" must not lead the name
		subject := withoutPhrase(cleaned, out.Set)
		if name := nameAfterNumber(subject); name != "" {
			out.Name = name
		} else {
			out.Name = remainderName(subject)
		}
	}

	p.logger.Debug("title parsed",
		zap.String("title", title),
		zap.String("cleaned", lower),
		zap.String("name", out.Name),
		zap.String("year", out.Year),
		zap.String("number", out.Number),
		zap.String("set", out.Set),
		zap.Bool("comic", out.IsComic),
	)

	return out
}

// QuotedPhrase returns the first quoted phrase in a title, or ""
func QuotedPhrase(title string) string {
	m := quotedPattern.FindStringSubmatch(norm.NFC.String(title))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// stripDecorations normalizes the title and drops emoji and trailing seller codes
func stripDecorations(title string) string {
	s := norm.NFC.String(title)
	s = emojiPattern.ReplaceAllString(s, " ")
	s = multipleSpacesPattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = sellerCodePattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func removeHype(s string) string {
	s = hypePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(s, " "))
}

// detectComicTitle applies the title half of the comic heuristic plus the known-series list.
// Trading card brands veto it.
func detectComicTitle(text string) bool {
	lower := strings.ToLower(text)
	if containsAny(lower, tradingCardBrands) {
		return false
	}
	return comicGraderTitlePattern.MatchString(text) ||
		containsAny(lower, comicKeywords) ||
		comicSeriesPattern.MatchString(text)
}

func extractComicFacets(text string) (series, publisher string) {
	if m := comicSeriesPattern.FindStringSubmatch(text); m != nil {
		for _, s := range comicSeries {
			if strings.EqualFold(s.Name, m[1]) {
				series = s.Name
				publisher = s.Publisher
				break
			}
		}
	}
	if m := comicPublisherPattern.FindStringSubmatch(text); m != nil {
		if display, ok := publisherDisplay[strings.ToLower(m[1])]; ok {
			publisher = display
		}
	}
	return series, publisher
}

func extractTitleNumber(text string) string {
	if m := hashNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := noNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := printRunPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractTitleSet finds a brand and the product words that follow it ("Topps Chrome Update"),
// falling back to a known trading-card-game set name
func extractTitleSet(text string) string {
	if loc := setBrandPattern.FindStringIndex(text); loc != nil {
		parts := []string{text[loc[0]:loc[1]]}
		for _, w := range strings.Fields(text[loc[1]:]) {
			if !setProductWords[strings.ToLower(w)] {
				break
			}
			parts = append(parts, w)
		}
		return strings.Join(parts, " ")
	}
	if m := tcgSetPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func nameAfterNumber(text string) string {
	m := nameAfterNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	words := strings.Fields(m[1])
	for len(words) > 0 && isTitleNoise(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	if len(words) < 2 {
		return ""
	}
	return strings.Join(words, " ")
}

func withoutPhrase(text, phrase string) string {
	if phrase == "" {
		return text
	}
	i := strings.Index(strings.ToLower(text), strings.ToLower(phrase))
	if i < 0 {
		return text
	}
	return strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(text[:i]+" "+text[i+len(phrase):], " "))
}

// remainderName strips every recognised token and keeps the first few words left over
func remainderName(text string) string {
	s := graderGradeRegex.ReplaceAllString(text, " ")
	s = titleYearPattern.ReplaceAllString(s, " ")
	s = hashNumberPattern.ReplaceAllString(s, " ")
	s = noNumberPattern.ReplaceAllString(s, " ")
	s = printRunPattern.ReplaceAllString(s, " ")
	s = tcgSetPattern.ReplaceAllString(s, " ")

	var words []string
	for _, raw := range strings.Fields(s) {
		w := wordTrimPattern.ReplaceAllString(raw, "")
		if len([]rune(w)) <= 1 || isNumeric(w) || isTitleNoise(w) {
			continue
		}
		words = append(words, w)
		if len(words) == 4 {
			break
		}
	}
	return strings.Join(words, " ")
}

func isTitleNoise(word string) bool {
	lower := strings.ToLower(word)
	return brandKeywords[lower] || titleNoiseWords[lower]
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func quoteAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = regexp.QuoteMeta(w)
	}
	return out
}

func quoteSeriesNames() string {
	names := make([]string, len(comicSeries))
	for i, s := range comicSeries {
		names[i] = regexp.QuoteMeta(s.Name)
	}
	return strings.Join(names, "|")
}
