package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/tally/internal/cli"
	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.
Credits are recorded as income and debits as expenses. Transactions that were
imported before are skipped, so overlapping statements are safe.

Examples:
  # Import single file
  tally import-ofx ~/Downloads/checking_jan_2024.qfx

  # Import all QFX files in a directory
  tally import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			if a.interrupts != nil {
				a.interrupts.SetMessage("Import interrupted. Files imported so far are kept.")
			}

			return a.withLedger(cmd.Context(), func(l *ledger.Ledger) error {
				return runImportOFX(cmd, l, files, dryRun)
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Preview import without saving")

	return cmd
}

// expandFiles expands glob patterns, keeping plain paths that match nothing
// but exist.
func expandFiles(patterns []string) ([]string, error) {
	var allFiles []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		allFiles = append(allFiles, matches...)
	}

	if len(allFiles) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrInvalidInput)
	}
	return allFiles, nil
}

type fileResult struct {
	err   error
	name  string
	found int
	added int
}

func runImportOFX(cmd *cobra.Command, l *ledger.Ledger, files []string, dryRun bool) error {
	ctx := cmd.Context()
	parser := ofx.NewParser()
	progress := cli.NewImportProgress(cmd.ErrOrStderr(), len(files))
	defer progress.Finish()

	results := make([]fileResult, 0, len(files))
	for _, filePath := range files {
		if ctx.Err() != nil {
			break
		}

		res := fileResult{name: filepath.Base(filePath)}
		res.found, res.added, res.err = importOFXFile(cmd, l, parser, filePath, dryRun)
		if res.err != nil {
			slog.Error("Failed to import OFX file", "file", filePath, "error", res.err)
		}
		results = append(results, res)
		progress.Step(res.name)
	}

	out := cmd.OutOrStdout()
	writeln(out, "\n📁 File import summary:")
	var total, failed int
	for _, res := range results {
		if res.err != nil {
			failed++
			writeln(out, "  "+cli.FormatError(fmt.Sprintf("%s: %v", res.name, res.err)))
			continue
		}
		total += res.added
		printf(out, "  - %s: %d transactions, %d new\n", res.name, res.found, res.added)
	}

	if dryRun {
		writeln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be added", total)))
	} else {
		writeln(out, cli.FormatSuccess(fmt.Sprintf("Added %d transactions", total)))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed == len(files) {
		return errors.New("no file could be imported")
	}
	return nil
}

func importOFXFile(cmd *cobra.Command, l *ledger.Ledger, parser *ofx.Parser, path string, dryRun bool) (found, added int, err error) {
	ctx := cmd.Context()

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	transactions, err := parser.ParseFile(ctx, f)
	if err != nil {
		return 0, 0, err
	}

	if dryRun {
		fresh, err := l.NewTransactions(ctx, transactions)
		if err != nil {
			return len(transactions), 0, err
		}
		return len(transactions), len(fresh), nil
	}

	added, err = l.ImportTransactions(ctx, transactions)
	if err != nil {
		return len(transactions), 0, err
	}
	return len(transactions), added, nil
}
