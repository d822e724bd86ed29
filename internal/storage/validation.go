// Package storage provides the SQLite persistence layer for tally.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/service"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidBudget      = errors.New("invalid budget")
	ErrInvalidPreferences = errors.New("invalid preferences")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if strings.TrimSpace(txn.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if !(txn.Amount > 0) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if _, err := model.ParseTransactionType(string(txn.Type)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	if strings.TrimSpace(txn.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if strings.TrimSpace(txn.Currency) == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidTransaction)
	}
	return nil
}

// validateBudget validates a budget.
func validateBudget(budget model.Budget) error {
	if strings.TrimSpace(budget.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if budget.Limit < 0 {
		return fmt.Errorf("%w: limit cannot be negative", ErrInvalidBudget)
	}
	return nil
}

// validatePreferences validates user preferences.
func validatePreferences(prefs model.Preferences) error {
	if strings.TrimSpace(prefs.Currency) == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidPreferences)
	}
	if prefs.MonthlyBudget < 0 {
		return fmt.Errorf("%w: monthly budget cannot be negative", ErrInvalidPreferences)
	}
	return nil
}

func validateFilter(filter service.TransactionFilter) error {
	if filter.Limit < 0 || filter.Offset < 0 {
		return fmt.Errorf("%w: limit and offset cannot be negative", ErrInvalidFilter)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}
	return nil
}

// validateSnapshot validates the full content handed to ReplaceAll. Empty
// transaction and budget lists are allowed there.
func validateSnapshot(transactions []model.Transaction, budgets []model.Budget, prefs model.Preferences) error {
	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	for i, b := range budgets {
		if err := validateBudget(b); err != nil {
			return fmt.Errorf("budget at index %d: %w", i, err)
		}
	}
	return validatePreferences(prefs)
}
