package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UngradedLabel is the grade assigned when no grade is found anywhere in a listing
const UngradedLabel = "Ungraded"

// NameSource records which extraction rule populated CardRecord.Name
type NameSource string

const (
	NameFromPlayer    NameSource = "player"
	NameFromCardName  NameSource = "card_name"
	NameFromCharacter NameSource = "character"
	NameFromTitle     NameSource = "title"
)

// YearSource records which extraction rule populated CardRecord.Year
type YearSource string

const (
	YearFromManufactured YearSource = "manufactured"
	YearFromSeason       YearSource = "season"
	YearFromYear         YearSource = "year"
	YearFromPublication  YearSource = "publication"
	YearFromTitle        YearSource = "title"
)

// CardRecord is the normalized identification of a listed collectible
type CardRecord struct {
	Name   string `json:"name,omitempty"`
	Set    string `json:"set,omitempty"`
	Year   string `json:"year,omitempty"`
	Number string `json:"number,omitempty"`
	Grade  string `json:"grade,omitempty"`
	Grader string `json:"grader,omitempty"`
	Title  string `json:"title,omitempty"` // raw listing title, kept for fallback parsing

	Sport        string `json:"sport,omitempty"`
	Team         string `json:"team,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Game         string `json:"game,omitempty"`
	InsertSet    string `json:"insertSet,omitempty"`
	Parallel     string `json:"parallel,omitempty"`
	Features     string `json:"features,omitempty"`
	Autographed  string `json:"autographed,omitempty"`
	ErrorNote    string `json:"errorNote,omitempty"`
	ItemType     string `json:"itemType,omitempty"`

	// Comic-only attributes
	Publisher   string `json:"publisher,omitempty"`
	Era         string `json:"era,omitempty"`
	Series      string `json:"series,omitempty"`
	CoverArtist string `json:"coverArtist,omitempty"`
	Variant     string `json:"variant,omitempty"`

	NameSource NameSource `json:"nameSource,omitempty"`
	YearSource YearSource `json:"yearSource,omitempty"`
}

// LabelValue is one structured field scraped from a listing
type LabelValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ItemSpecifics is the ordered set of structured listing fields.
// It decodes from either a JSON object (key order preserved) or an array of LabelValue.
type ItemSpecifics []LabelValue

// UnmarshalJSON implements json.Unmarshaler
func (s *ItemSpecifics) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if trimmed[0] == '[' {
		var pairs []LabelValue
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return err
		}
		*s = pairs
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("item specifics: expected object or array, got %v", tok)
	}

	var pairs []LabelValue
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("item specifics: unexpected key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		pairs = append(pairs, LabelValue{Label: key, Value: scalarString(raw)})
	}

	*s = pairs
	return nil
}

// MarshalJSON emits the array form so order survives a round trip
func (s ItemSpecifics) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]LabelValue(s))
}

// scalarString renders a JSON value as plain text. Strings are unquoted,
// null becomes empty and anything else keeps its literal form.
func scalarString(raw json.RawMessage) string {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	return string(bytes.TrimSpace(raw))
}

// Category is the item category decided by the classifier
type Category string

const (
	CategorySportsCard  Category = "sports_card"
	CategoryTradingCard Category = "trading_card"
	CategoryComicBook   Category = "comic_book"
)

// Site identifies which catalog serves a category
type Site string

const (
	SiteSportsCards Site = "sportscardspro"
	SiteGeneral     Site = "pricecharting"
)

// SiteFor maps the sports flag to the catalog that lists those items
func SiteFor(isSportsCard bool) Site {
	if isSportsCard {
		return SiteSportsCards
	}
	return SiteGeneral
}
