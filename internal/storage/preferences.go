package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// GetPreferences returns the stored preferences, or common.ErrNotFound when
// none have been saved yet.
func (s *SQLiteStorage) GetPreferences(ctx context.Context) (*model.Preferences, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getPreferencesTx(ctx, s.db)
}

func (s *SQLiteStorage) getPreferencesTx(ctx context.Context, q queryable) (*model.Preferences, error) {
	var prefs model.Preferences
	err := q.QueryRowContext(ctx, `
		SELECT currency, monthly_budget FROM preferences WHERE id = 1
	`).Scan(&prefs.Currency, &prefs.MonthlyBudget)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

// SavePreferences stores prefs, replacing any previous values.
func (s *SQLiteStorage) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePreferences(prefs); err != nil {
		return err
	}
	return s.savePreferencesTx(ctx, s.db, prefs)
}

func (s *SQLiteStorage) savePreferencesTx(ctx context.Context, q queryable, prefs model.Preferences) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO preferences (id, currency, monthly_budget)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			currency = excluded.currency,
			monthly_budget = excluded.monthly_budget
	`, prefs.Currency, prefs.MonthlyBudget)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
