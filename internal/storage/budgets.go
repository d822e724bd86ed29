package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// GetBudgets returns all budgets in the order they were first created.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getBudgetsTx(ctx, s.db)
}

func (s *SQLiteStorage) getBudgetsTx(ctx context.Context, q queryable) ([]model.Budget, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT category, limit_amount, color
		FROM budgets
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	budgets := []model.Budget{}
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.Category, &b.Limit, &b.Color); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}
	return budgets, nil
}

// SaveBudget creates a budget or updates the limit of an existing one in
// place. An empty color keeps the stored color.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}
	return s.saveBudgetTx(ctx, s.db, budget)
}

func (s *SQLiteStorage) saveBudgetTx(ctx context.Context, q queryable, budget model.Budget) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO budgets (category, limit_amount, color, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM budgets))
		ON CONFLICT(category) DO UPDATE SET
			limit_amount = excluded.limit_amount,
			color = CASE WHEN excluded.color = '' THEN budgets.color ELSE excluded.color END
	`, budget.Category, budget.Limit, budget.Color)
	if err != nil {
		return fmt.Errorf("failed to save budget %s: %w", budget.Category, err)
	}
	return nil
}

// DeleteBudget removes the budget for category.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}
	return s.deleteBudgetTx(ctx, s.db, category)
}

func (s *SQLiteStorage) deleteBudgetTx(ctx context.Context, q queryable, category string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM budgets WHERE category = ?`, category)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("budget %s: %w", category, common.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStorage) insertBudgetsTx(ctx context.Context, tx *sql.Tx, budgets []model.Budget) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO budgets (category, limit_amount, color, position)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, b := range budgets {
		if _, err := stmt.ExecContext(ctx, b.Category, b.Limit, b.Color, i+1); err != nil {
			return fmt.Errorf("failed to insert budget %s: %w", b.Category, err)
		}
	}
	return nil
}
