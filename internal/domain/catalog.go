package domain

// ExactMatchCategory tags the singleton result returned when the catalog redirects straight to an item
const ExactMatchCategory = "Exact Match"

// SearchResult is one ranked catalog candidate
type SearchResult struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// CandidateRow is a search-page row as the catalog adapter saw it, before filtering and scoring
type CandidateRow struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

// SearchPage is the structured content of one catalog search attempt
type SearchPage struct {
	Query string `json:"query"`

	// ExactMatch is set when the catalog redirected straight to an item page
	ExactMatch bool   `json:"exactMatch"`
	ExactName  string `json:"exactName,omitempty"`
	ExactURL   string `json:"exactUrl,omitempty"`

	Rows []CandidateRow `json:"rows,omitempty"`
}

// SearchResponse is the outcome of a single search attempt against one catalog
type SearchResponse struct {
	Query      string         `json:"query"`
	Site       Site           `json:"site"`
	ExactMatch bool           `json:"exactMatch"`
	Results    []SearchResult `json:"results"`
}

// PriceTable maps catalog grade labels to prices for one item
type PriceTable struct {
	URL    string             `json:"url"`
	Grades map[string]float64 `json:"grades"`
}

// PriceRow is one reconciled price-table row in display order
type PriceRow struct {
	Grade       string  `json:"grade"`
	Price       float64 `json:"price"`
	Display     string  `json:"display"`
	Exact       bool    `json:"exact,omitempty"`
	Surrounding bool    `json:"surrounding,omitempty"`
}

// ReconciledPrices is a price table ordered relative to a record's own grade
type ReconciledPrices struct {
	URL           string     `json:"url"`
	HasExactMatch bool       `json:"hasExactMatch"`
	Below         string     `json:"below,omitempty"`
	Above         string     `json:"above,omitempty"`
	Rows          []PriceRow `json:"rows"`
}
