// Package snapshot reads and writes the portable JSON form of a ledger:
// transactions, budgets, currency, and monthly budget.
//
// Decoding is lenient per key. A missing or malformed key falls back to its
// default and is reported as an Issue instead of failing the whole import.
// Only input that is not a JSON object at all is rejected.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/Veraticus/tally/internal/model"
)

// ErrInvalidSnapshot is returned when the input is not a JSON object.
var ErrInvalidSnapshot = errors.New("invalid data format")

// Snapshot is the complete persisted state of a ledger.
type Snapshot struct {
	Transactions []model.Transaction
	Budgets      []model.Budget
	Preferences  model.Preferences
}

// Defaults supplies values for keys absent from an imported document.
type Defaults struct {
	Currency      string
	MonthlyBudget float64
}

// DefaultsFrom builds Defaults from preferences, substituting the fallbacks
// for empty values.
func DefaultsFrom(p model.Preferences) Defaults {
	d := Defaults{Currency: p.Currency, MonthlyBudget: p.MonthlyBudget}
	if d.Currency == "" {
		d.Currency = model.FallbackCurrency
	}
	if d.MonthlyBudget <= 0 {
		d.MonthlyBudget = model.FallbackMonthlyBudget
	}
	return d
}

// Issue describes one part of an imported document that was replaced by a
// default or skipped.
type Issue struct {
	Key    string
	Reason string
	// Index is the position of the offending record, or -1 for a whole key.
	Index int
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.Key, i.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s", i.Key, i.Index, i.Reason)
}
