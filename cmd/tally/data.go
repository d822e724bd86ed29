package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/spf13/cobra"
)

var errCancelled = errors.New("canceled, nothing was changed")

// confirm asks on stdout and reads the answer from stdin, unless force is set.
func confirm(cmd *cobra.Command, force bool, question string) error {
	if force {
		return nil
	}
	ok, err := cli.Confirm(cmd.Context(), cli.NewNonBlockingReader(cmd.InOrStdin()), cmd.OutOrStdout(), question)
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	return nil
}

func importCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file.json|->",
		Short: "Replace all data with an exported snapshot",
		Long: `Import a snapshot written by 'tally export', replacing every stored
transaction, budget, and setting. Older exports that keep transactions under
"expenses" are accepted. Keys that are missing or malformed fall back to
defaults and are reported as warnings.

Use - to read from standard input (requires --force).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader
			if args[0] == "-" {
				if !force {
					return common.NewUserError("reading from stdin needs --force", common.ErrInvalidInput)
				}
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						slog.Warn("Failed to close import file", "error", err)
					}
				}()
				r = f
			}

			if err := confirm(cmd, force, "Replace all stored data with "+args[0]+"?"); err != nil {
				return err
			}

			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				issues, err := l.Import(cmd.Context(), r)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, issue := range issues {
					writeln(out, cli.FormatWarning(issue.String()))
				}

				snap, err := l.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				writeln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions and %d budgets",
					len(snap.Transactions), len(snap.Budgets))))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func exportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write all data as a JSON snapshot",
		Long:  `Export transactions, budgets, and settings as JSON, to a file or standard output.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				if len(args) == 0 {
					return l.Export(cmd.Context(), cmd.OutOrStdout())
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				if err := l.Export(cmd.Context(), f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}

				writeln(cmd.OutOrStdout(), cli.FormatSuccess("Exported to "+args[0]))
				return nil
			})
		},
	}
}

func clearCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction and restore default settings",
		Long: `Clear permanently deletes all transactions and resets budgets and settings
to their defaults. There is no undo; export first if in doubt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := confirm(cmd, force, "Delete all transactions and reset settings?"); err != nil {
				return err
			}

			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				if err := l.Clear(cmd.Context()); err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), cli.FormatSuccess("All data cleared"))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}
