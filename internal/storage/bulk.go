package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Veraticus/tally/internal/model"
)

// ReplaceAll swaps the entire store content for the given snapshot in one
// database transaction. Nothing changes if any part fails.
func (s *SQLiteStorage) ReplaceAll(ctx context.Context, transactions []model.Transaction, budgets []model.Budget, prefs model.Preferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSnapshot(transactions, budgets, prefs); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.replaceAllTx(ctx, tx, transactions, budgets, prefs)
	})
}

func (s *SQLiteStorage) replaceAllTx(ctx context.Context, tx *sql.Tx, transactions []model.Transaction, budgets []model.Budget, prefs model.Preferences) error {
	if err := s.clearAllTx(ctx, tx); err != nil {
		return err
	}
	if len(transactions) > 0 {
		if err := s.saveTransactionsTx(ctx, tx, transactions); err != nil {
			return err
		}
	}
	if err := s.insertBudgetsTx(ctx, tx, budgets); err != nil {
		return err
	}
	if err := s.savePreferencesTx(ctx, tx, prefs); err != nil {
		return err
	}

	slog.Debug("Replaced store content",
		"transactions", len(transactions),
		"budgets", len(budgets))
	return nil
}

// ClearAll deletes every transaction, budget, and preference.
func (s *SQLiteStorage) ClearAll(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		return s.clearAllTx(ctx, tx)
	})
}

func (s *SQLiteStorage) clearAllTx(ctx context.Context, q queryable) error {
	for _, table := range []string{"transactions", "budgets", "preferences"} {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
