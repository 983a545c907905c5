package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/iammike/cardcheck/internal/bootstrap"
	"github.com/iammike/cardcheck/internal/harness"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var casesPath string
	var batchSize int
	var batchDelay string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run a case file against the live catalogs",
		Long: `Run every case in a JSON case file through extraction, routing, query
building and one catalog search, then check that the expected item is among
the results. Cases run in concurrent batches with a pause between batches.
Exits non-zero when any case fails.

Examples:
  cardcheck validate --cases testdata/cases.json
  cardcheck validate --cases cases.json --batch-size 3 --batch-delay 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(casesPath) == "" {
				return eris.New("validate needs --cases")
			}
			cases, err := harness.LoadCases(casesPath)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runnerCfg := harness.Config{
				BatchSize:  cfg.Harness.BatchSize,
				BatchDelay: cfg.Harness.BatchDelay,
			}
			if cmd.Flags().Changed("batch-size") {
				runnerCfg.BatchSize = batchSize
			}
			if cmd.Flags().Changed("batch-delay") {
				d, err := parseDuration(batchDelay)
				if err != nil {
					return err
				}
				runnerCfg.BatchDelay = d
			}

			return ctx.withServices(func(svc *bootstrap.Services, logger *zap.Logger) error {
				runner := harness.NewRunner(svc.Lookup, runnerCfg, logger.Named("harness"))
				if !ctx.jsonOutput() {
					fmt.Fprintf(cmd.OutOrStdout(), "Running %d cases (%d concurrent)...\n", len(cases), max(runnerCfg.BatchSize, 1))
				}

				rep, err := runner.Run(cmd.Context(), cases)
				if rep != nil {
					if ctx.jsonOutput() {
						if jsonErr := writeJSON(cmd, reportJSON(rep)); jsonErr != nil {
							return jsonErr
						}
					} else {
						printReport(cmd.OutOrStdout(), rep)
					}
				}
				if err != nil {
					return err
				}
				if !rep.OK() {
					return fmt.Errorf("%d of %d cases failed", rep.Failed, len(rep.Results))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&casesPath, "cases", "", "Path to the JSON case file")
	cmd.Flags().IntVar(&batchSize, "batch-size", harness.DefaultBatchSize, "Cases run concurrently per batch")
	cmd.Flags().StringVar(&batchDelay, "batch-delay", harness.DefaultBatchDelay.String(), "Pause between batches")

	return cmd
}

func printReport(w io.Writer, rep *harness.Report) {
	rows := make([][]string, 0, len(rep.Results))
	for _, res := range rep.Results {
		rows = append(rows, []string{res.Case.Label(), strings.ToUpper(string(res.Status)), res.Message})
	}
	fmt.Fprintln(w, renderTable([]string{"Case", "Result", "Detail"}, rows, nil))
	fmt.Fprintf(w, "Results: %s in %s\n", rep.Summary(), rep.Duration.Round(timeRounding))

	failures := rep.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailures:")
	for _, f := range failures {
		fmt.Fprintf(w, "\n- %s\n  Reason: %s\n", f.Case.Label(), f.Reason)
		if f.Query != "" {
			fmt.Fprintf(w, "  Query: %s\n", f.Query)
		}
		if len(f.TopResults) > 0 {
			fmt.Fprintln(w, "  Top results:")
			for _, r := range f.TopResults {
				fmt.Fprintf(w, "    - %q (%s)\n", r.Name, r.Category)
			}
		}
	}
}

type caseJSON struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Site    string `json:"site,omitempty"`
	Query   string `json:"query,omitempty"`
}

func reportJSON(rep *harness.Report) map[string]any {
	cases := make([]caseJSON, 0, len(rep.Results))
	for _, res := range rep.Results {
		cases = append(cases, caseJSON{
			Name:    res.Case.Label(),
			Status:  string(res.Status),
			Message: res.Message,
			Reason:  res.Reason,
			Site:    string(res.Site),
			Query:   res.Query,
		})
	}
	return map[string]any{
		"passed":      rep.Passed,
		"failed":      rep.Failed,
		"unvalidated": rep.Unvalidated,
		"cases":       cases,
	}
}
