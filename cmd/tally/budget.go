package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/spf13/cobra"
)

func budgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage category budgets",
		Long:  `List, set, and remove spending limits for expense categories.`,
		Args:  cobra.NoArgs,
		RunE:  runBudgetList(a),
	}

	cmd.AddCommand(listBudgetsCmd(a))
	cmd.AddCommand(setBudgetCmd(a))
	cmd.AddCommand(removeBudgetCmd(a))

	return cmd
}

func listBudgetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show spending against every budget",
		Args:  cobra.NoArgs,
		RunE:  runBudgetList(a),
	}
}

func runBudgetList(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
			ctx := cmd.Context()

			lines, err := l.Budgets(ctx)
			if err != nil {
				return fmt.Errorf("failed to get budgets: %w", err)
			}
			status, err := l.MonthlyStatus(ctx)
			if err != nil {
				return fmt.Errorf("failed to get monthly status: %w", err)
			}
			prefs, err := l.Preferences(ctx)
			if err != nil {
				return err
			}

			writeln(cmd.OutOrStdout(), cli.RenderBudgets(lines, status, prefs.Currency))
			return nil
		})
	}
}

func setBudgetCmd(a *app) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:     "set <category> <limit>",
		Short:   "Create or update the budget of an expense category",
		Example: `  tally budget set food 400 --color green`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid limit %q: %w", args[1], err)
			}

			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				if err := l.SetBudget(cmd.Context(), args[0], limit, color); err != nil {
					return err
				}
				prefs, err := l.Preferences(cmd.Context())
				if err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Budget for %s set to %s", args[0], cli.FormatMoney(limit, prefs.Currency))))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "display color name (default: keep current)")

	return cmd
}

func removeBudgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category>",
		Short: "Remove the budget of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				if err := l.RemoveBudget(cmd.Context(), args[0]); err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), cli.FormatSuccess("Removed budget for "+args[0]))
				return nil
			})
		},
	}
}
