package main

import (
	"fmt"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/spf13/cobra"
)

func settingsCmd(a *app) *cobra.Command {
	var (
		currency      string
		monthlyBudget float64
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the preferred currency and monthly budget",
		Example: `  tally settings
  tally settings --currency EUR --monthly-budget 2500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				ctx := cmd.Context()

				if cmd.Flags().Changed("currency") {
					if err := l.SetCurrency(ctx, currency); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("monthly-budget") {
					if err := l.SetMonthlyBudget(ctx, monthlyBudget); err != nil {
						return err
					}
				}

				prefs, err := l.Preferences(ctx)
				if err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), cli.RenderBox("Settings", fmt.Sprintf("Currency        %s\nMonthly budget  %s",
					prefs.Currency, cli.FormatMoney(prefs.MonthlyBudget, prefs.Currency))))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "preferred ISO 4217 currency code")
	cmd.Flags().Float64Var(&monthlyBudget, "monthly-budget", 0, "overall monthly spending budget")

	return cmd
}
