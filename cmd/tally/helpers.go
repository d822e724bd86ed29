package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/tally/internal/ledger"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/storage"
)

// openLedger opens the configured database, migrates it, and seeds defaults
// on first use. The returned cleanup closes the database.
func (a *app) openLedger(ctx context.Context) (*ledger.Ledger, func(), error) {
	store, err := storage.NewSQLiteStorage(a.cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	l := ledger.New(store, model.Preferences{
		Currency:      a.cfg.Currency,
		MonthlyBudget: a.cfg.MonthlyBudget,
	})
	if err := l.Init(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	return l, cleanup, nil
}

// withLedger runs fn against an open ledger and closes it afterwards.
func (a *app) withLedger(ctx context.Context, fn func(*ledger.Ledger) error) error {
	l, cleanup, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(l)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

const (
	formatTable = "table"
	formatJSON  = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}
