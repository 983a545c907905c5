package main

import (
	"fmt"
	"strings"

	"github.com/iammike/cardcheck/internal/bootstrap"
	"github.com/iammike/cardcheck/internal/domain"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPricesCommand(ctx *commandContext) *cobra.Command {
	var itemURL string
	var grade string
	var grader string

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show the price table of a catalog item",
		Long: `Fetch a catalog item page and list its prices. With --grade the rows
are ordered around that grade: the exact grade first, or the nearest grades
below and above when the catalog has no exact row.

Examples:
  cardcheck prices --url https://www.sportscardspro.com/game/baseball-cards-2023-topps-chrome/mike-trout-27
  cardcheck prices --url <item url> --grade 9.5 --grader BGS`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(itemURL) == "" {
				return eris.Wrap(domain.ErrInvalidRequest, "prices needs --url")
			}

			return ctx.withServices(func(svc *bootstrap.Services, logger *zap.Logger) error {
				table, err := svc.Lookup.FetchPrices(cmd.Context(), itemURL)
				if err != nil {
					return err
				}

				wantGrade, wantGrader := resolveGrade(grade, grader)
				prices := svc.Lookup.Reconciler().Reconcile(table, wantGrade, wantGrader)
				if ctx.jsonOutput() {
					if err := writeJSON(cmd, prices); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, table.URL)
					if wantGrade != "" && !prices.HasExactMatch && (prices.Below != "" || prices.Above != "") {
						fmt.Fprintf(out, "No exact price for grade %s; showing nearest grades.\n", wantGrade)
					}
					fmt.Fprintln(out, renderPrices(prices))
				}

				if len(table.Grades) == 0 {
					return eris.Wrapf(domain.ErrNoPrices, "%s", table.URL)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&itemURL, "url", "u", "", "Catalog item page URL")
	cmd.Flags().StringVarP(&grade, "grade", "g", "", "Grade to order prices around (e.g. 9.5, psa-10 or Ungraded)")
	cmd.Flags().StringVar(&grader, "grader", "", "Grading company (e.g. PSA, BGS or \"Beckett Grading Services (BGS)\")")

	return cmd
}
