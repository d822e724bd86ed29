// Package model defines the ledger records shared by every layer: transactions,
// budgets, and preferences.
package model

import (
	"fmt"
	"time"
)

// TransactionType tells whether money came in or went out.
type TransactionType string

const (
	// TypeIncome is money received.
	TypeIncome TransactionType = "income"
	// TypeExpense is money spent.
	TypeExpense TransactionType = "expense"
)

// DateLayout is the calendar date format used for input and snapshots.
const DateLayout = "2006-01-02"

// Transaction represents a single recorded money movement.
// Amount is always positive; Type carries the direction.
type Transaction struct {
	Date        time.Time       `json:"date"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	Amount      float64         `json:"amount"`
}

// IsExpense reports whether the transaction is an expense.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// IsIncome reports whether the transaction is income.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// ParseTransactionType converts a string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome, TypeExpense:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// CalendarDate truncates t to midnight UTC of its calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a calendar date. Full RFC 3339 timestamps are accepted
// and reduced to their calendar day.
func ParseDate(s string) (time.Time, error) {
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return CalendarDate(ts), nil
}
