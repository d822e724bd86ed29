package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
	"github.com/spf13/cobra"
)

func addCmd(a *app) *cobra.Command {
	var (
		amount      float64
		txType      string
		category    string
		description string
		date        string
		currency    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Long: fmt.Sprintf(`Record a transaction. Dates default to today and may not be in the future.

Expense categories: %s
Income categories:  %s`,
			strings.Join(model.ExpenseCategories, ", "),
			strings.Join(model.IncomeCategories, ", ")),
		Example: `  tally add --amount 12.50 --category food --description "Lunch"
  tally add --type income --amount 3000 --category salary --description "June pay" --date 2024-06-28`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entry := ledger.Entry{
				Amount:      amount,
				Type:        txType,
				Category:    category,
				Description: description,
				Currency:    currency,
				Date:        time.Now(),
			}
			if date != "" {
				d, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				entry.Date = d
			}

			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				txn, err := l.AddTransaction(cmd.Context(), entry)
				if err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s of %s in %s (%s)",
					txn.Type, cli.FormatMoney(txn.Amount, txn.Currency), txn.Category, txn.ID)))
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "amount, greater than zero")
	cmd.Flags().StringVarP(&txType, "type", "t", string(model.TypeExpense), "income or expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category for the transaction type")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the money was for")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 code (default: preferred currency)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("description")

	return cmd
}

func listCmd(a *app) *cobra.Command {
	var (
		limit    int
		txType   string
		category string
		from     string
		to       string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			filter := service.TransactionFilter{
				Limit:    limit,
				Category: strings.ToLower(category),
			}
			if txType != "" {
				t, err := model.ParseTransactionType(txType)
				if err != nil {
					return err
				}
				filter.Type = t
			}
			if from != "" {
				d, err := model.ParseDate(from)
				if err != nil {
					return err
				}
				filter.StartDate = &d
			}
			if to != "" {
				d, err := model.ParseDate(to)
				if err != nil {
					return err
				}
				filter.EndDate = &d
			}

			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				txns, err := l.ListTransactions(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), txns)
				}
				writeln(cmd.OutOrStdout(), cli.RenderTransactions(txns))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many transactions (0 for all)")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "only income or only expense")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only this category")
	cmd.Flags().StringVar(&from, "from", "", "earliest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "latest date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")

	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				if err := l.DeleteTransaction(cmd.Context(), args[0]); err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted transaction "+args[0]))
				return nil
			})
		},
	}
}
