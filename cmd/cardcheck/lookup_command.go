package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iammike/cardcheck/internal/bootstrap"
	"github.com/iammike/cardcheck/internal/domain"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var title string
	var specs []string
	var specsFile string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Run the full identification pipeline for one listing",
		Long: `Extract a card or comic record from a listing title and item specifics,
route it to the right catalog and walk the query relaxations until the catalog
answers. An exact catalog hit is priced against the listing's grade.

Examples:
  cardcheck lookup --title "2023 Topps Chrome Mike Trout #27 PSA 10"
  cardcheck lookup --spec "Player/Athlete=Mike Trout" --spec "Set=Topps Chrome" --spec "Card Number=27"
  cardcheck lookup --specs-file listing.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specifics, err := parseSpecs(specs)
			if err != nil {
				return err
			}
			if specsFile != "" {
				fromFile, err := readSpecsFile(specsFile)
				if err != nil {
					return err
				}
				specifics = append(fromFile, specifics...)
			}
			if strings.TrimSpace(title) == "" && len(specifics) == 0 {
				return eris.Wrap(domain.ErrInvalidRequest, "lookup needs --title or at least one --spec")
			}

			return ctx.withServices(func(svc *bootstrap.Services, logger *zap.Logger) error {
				session := svc.Lookup.NewSession(specifics, title)
				result, err := svc.Lookup.Lookup(cmd.Context(), session)
				if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
					return err
				}

				if ctx.jsonOutput() {
					if jsonErr := writeJSON(cmd, result); jsonErr != nil {
						return jsonErr
					}
					return err
				}

				printLookup(cmd.OutOrStdout(), result)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Listing title")
	cmd.Flags().StringArrayVarP(&specs, "spec", "s", nil, "Item specific as label=value (repeatable, order kept)")
	cmd.Flags().StringVar(&specsFile, "specs-file", "", "JSON file with item specifics (object or [{label, value}] array)")

	return cmd
}

// parseSpecs turns label=value flags into ordered item specifics
func parseSpecs(values []string) (domain.ItemSpecifics, error) {
	specifics := make(domain.ItemSpecifics, 0, len(values))
	for _, raw := range values {
		label, value, ok := strings.Cut(raw, "=")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, eris.Wrapf(domain.ErrInvalidRequest, "spec %q must be label=value", raw)
		}
		specifics = append(specifics, domain.LabelValue{Label: label, Value: strings.TrimSpace(value)})
	}
	return specifics, nil
}

func readSpecsFile(path string) (domain.ItemSpecifics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read specs file %s", path)
	}
	var specifics domain.ItemSpecifics
	if err := json.Unmarshal(data, &specifics); err != nil {
		return nil, eris.Wrapf(err, "decode specs file %s", path)
	}
	return specifics, nil
}

func printLookup(w io.Writer, result *domain.LookupResult) {
	fmt.Fprintf(w, "%s → %s (%s)\n", result.ItemKind, result.Site, result.Category)
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, summaryRows(result.Summary), nil))

	switch result.Outcome {
	case domain.OutcomePrices:
		fmt.Fprintf(w, "\nExact match: %s\n%s\n", result.Selected.Name, result.Selected.URL)
		fmt.Fprintln(w, renderPrices(result.Prices))
	case domain.OutcomeNoPrices:
		fmt.Fprintf(w, "\nExact match: %s\nNo price data for this item.\n", result.Selected.Name)
	case domain.OutcomeNearMatches:
		fmt.Fprintf(w, "\nExact match %q has no prices; near matches for %q:\n", result.ExactMatchName, result.Query)
		fmt.Fprintln(w, renderResults(result.Results))
	case domain.OutcomeCandidates:
		relaxed := ""
		if result.Relaxed {
			relaxed = " (relaxed: " + result.Step + ")"
		}
		fmt.Fprintf(w, "\nCandidates for %q%s:\n", result.Query, relaxed)
		fmt.Fprintln(w, renderResults(result.Results))
	case domain.OutcomeNotFound:
		fmt.Fprintln(w, "\nNo match found in catalog.")
	}

	if len(result.Attempts) > 0 {
		rows := make([][]string, 0, len(result.Attempts))
		for _, a := range result.Attempts {
			rows = append(rows, []string{a.Step, a.Query, strconv.Itoa(a.Candidates), yesNo(a.ExactMatch)})
		}
		fmt.Fprintln(w, "\nQueries tried:")
		fmt.Fprintln(w, renderTable([]string{"Step", "Query", "Candidates", "Exact"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
	}
}

func summaryRows(s domain.CardSummary) [][]string {
	numberLabel := s.NumberLabel
	if numberLabel == "" {
		numberLabel = "Number"
	}
	fields := [][]string{
		{"Title", s.Title},
		{"Year", s.Year},
		{"Set", s.Set},
		{"Brand", s.Brand},
		{"Publisher", s.Publisher},
		{numberLabel, s.Number},
		{"Variant", s.Variant},
		{"Parallel", s.Parallel},
		{"Insert", s.Insert},
		{"Grade", s.Grade},
	}
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		if f[1] != "" {
			rows = append(rows, f)
		}
	}
	return rows
}

func renderResults(results []domain.SearchResult) string {
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{strconv.Itoa(i + 1), r.Name, r.Category, strconv.Itoa(r.Score), r.URL})
	}
	return renderTable(
		[]string{"#", "Name", "Category", "Score", "URL"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func renderPrices(prices *domain.ReconciledPrices) string {
	if prices == nil {
		return ""
	}
	rows := make([][]string, 0, len(prices.Rows))
	for _, row := range prices.Rows {
		marker := ""
		switch {
		case row.Exact:
			marker = "your grade"
		case row.Surrounding:
			marker = "nearest"
		}
		rows = append(rows, []string{row.Grade, row.Display, marker})
	}
	return renderTable([]string{"Grade", "Price", ""}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}
