package main

import (
	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/report"
	"github.com/Veraticus/tally/internal/tui"
	"github.com/spf13/cobra"
)

func reportCmd(a *app) *cobra.Command {
	var (
		timeframe   string
		format      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize income and spending",
		Long: `Show totals, spending by category, and trends for the last week (7 days),
month (30 days), or year (365 days). The week and month series at the bottom
always cover the last 4 weeks and 6 months.`,
		Example: `  tally report --timeframe year
  tally report --format json
  tally report --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tf, err := report.ParseTimeframe(timeframe)
			if err != nil {
				return err
			}
			if err := checkFormat(format); err != nil {
				return err
			}

			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				if interactive {
					return tui.Run(cmd.Context(), l, tui.WithTimeframe(tf))
				}

				r, err := l.Report(cmd.Context(), tf)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), r)
				}

				prefs, err := l.Preferences(cmd.Context())
				if err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), cli.RenderReport(r, prefs.Currency))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", string(report.TimeframeMonth), "week, month, or year")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the report in a terminal UI")

	return cmd
}
