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

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var query string
	var sports bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a single catalog search",
		Long: `Search one catalog exactly once with the given query. No relaxation is
attempted; use lookup for the full pipeline.

Examples:
  cardcheck search --query "Mike Trout 2023 Topps Chrome #27" --sports
  cardcheck search --query "Charizard Base Set #4"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(query) == "" {
				return eris.Wrap(domain.ErrInvalidRequest, "search needs --query")
			}

			return ctx.withServices(func(svc *bootstrap.Services, logger *zap.Logger) error {
				resp, err := svc.Lookup.Search(cmd.Context(), query, sports)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					if err := writeJSON(cmd, resp); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					if resp.ExactMatch {
						fmt.Fprintf(out, "Exact match on %s:\n", resp.Site)
					} else {
						fmt.Fprintf(out, "%d candidates on %s:\n", len(resp.Results), resp.Site)
					}
					fmt.Fprintln(out, renderResults(resp.Results))
				}

				if len(resp.Results) == 0 {
					return eris.Wrapf(domain.ErrNoCandidates, "query %q", resp.Query)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search text")
	cmd.Flags().BoolVar(&sports, "sports", false, "Search the sports card catalog instead of the general one")

	return cmd
}
