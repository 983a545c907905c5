package domain

// Outcome says how a lookup ended
type Outcome string

const (
	// OutcomePrices means an exact item was resolved and priced
	OutcomePrices Outcome = "prices"
	// OutcomeCandidates means the caller must pick from ranked candidates
	OutcomeCandidates Outcome = "candidates"
	// OutcomeNearMatches means the exact item had no prices and a looser search found relatives
	OutcomeNearMatches Outcome = "near_matches"
	// OutcomeNoPrices means the exact item had no prices and nothing else turned up
	OutcomeNoPrices Outcome = "no_prices"
	// OutcomeNotFound means every query relaxation came back empty
	OutcomeNotFound Outcome = "not_found"
)

// QueryAttempt records one catalog search issued during a lookup
type QueryAttempt struct {
	Step       string `json:"step"`
	Query      string `json:"query"`
	Candidates int    `json:"candidates"`
	ExactMatch bool   `json:"exactMatch,omitempty"`
}

// CardSummary holds the display fields for a record
type CardSummary struct {
	Title       string `json:"title,omitempty"`
	Year        string `json:"year,omitempty"`
	Set         string `json:"set,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	NumberLabel string `json:"numberLabel,omitempty"`
	Number      string `json:"number,omitempty"`
	Variant     string `json:"variant,omitempty"`
	Parallel    string `json:"parallel,omitempty"`
	Insert      string `json:"insert,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

// LookupResult is everything a lookup learned, including the context an
// outer UI needs to report a bad match.
type LookupResult struct {
	SessionID string      `json:"sessionId"`
	Record    *CardRecord `json:"record"`
	Category  Category    `json:"category"`
	Site      Site        `json:"site"`
	ItemKind  string      `json:"itemKind"`
	Summary   CardSummary `json:"summary"`
	Outcome   Outcome     `json:"outcome"`

	// Query and Step name the attempt that produced Results or Selected
	Query    string         `json:"query,omitempty"`
	Step     string         `json:"step,omitempty"`
	Relaxed  bool           `json:"relaxed"`
	Attempts []QueryAttempt `json:"attempts"`

	Results        []SearchResult    `json:"results,omitempty"`
	ExactMatchName string            `json:"exactMatchName,omitempty"`
	Selected       *SearchResult     `json:"selected,omitempty"`
	Prices         *ReconciledPrices `json:"prices,omitempty"`
}
