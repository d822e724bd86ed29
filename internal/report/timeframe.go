// Package report turns a flat list of transactions into the summaries and
// series that report views display.
//
// Every function in this package is pure. Inputs are never modified, nothing
// is read from the store or the system clock, and the reference instant is
// always passed in as now. Running the same call twice yields identical output.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Timeframe selects a rolling lookback window ending at the reference instant.
type Timeframe string

// Supported timeframes.
const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// ErrUnknownTimeframe is returned when a selector is not week, month, or year.
var ErrUnknownTimeframe = errors.New("unknown timeframe")

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// Timeframes lists the selectors in widening order.
func Timeframes() []Timeframe {
	return []Timeframe{TimeframeWeek, TimeframeMonth, TimeframeYear}
}

// ParseTimeframe converts a selector string into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case TimeframeWeek, TimeframeMonth, TimeframeYear:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q (want week, month, or year)", ErrUnknownTimeframe, s)
	}
}

// Days returns the window length in days, or 0 for an unknown timeframe.
func (tf Timeframe) Days() int {
	switch tf {
	case TimeframeWeek:
		return 7
	case TimeframeMonth:
		return 30
	case TimeframeYear:
		return 365
	default:
		return 0
	}
}

// FilterByTimeframe keeps the transactions whose date lies within the rolling
// window of tf around now. The window is not calendar aligned: "month" means
// the last 30 days, not the current calendar month.
//
// Distance is measured in whole days by rounding the absolute difference
// between now and the transaction date up to the next day, so a transaction
// 7.1 days old is outside "week". Relative order of the input is preserved.
// An unknown timeframe applies no window and returns every transaction.
func FilterByTimeframe(txns []model.Transaction, tf Timeframe, now time.Time) []model.Transaction {
	window := tf.Days()
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if window == 0 || ElapsedDays(txn.Date, now) <= int64(window) {
			out = append(out, txn)
		}
	}
	return out
}

// ElapsedDays returns the absolute distance between date and now in days,
// rounded up to the next whole day.
func ElapsedDays(date, now time.Time) int64 {
	diff := now.Sub(date).Milliseconds()
	if diff < 0 {
		diff = -diff
	}
	days := diff / millisPerDay
	if diff%millisPerDay != 0 {
		days++
	}
	return days
}
