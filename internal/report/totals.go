package report

import "github.com/Veraticus/tally/internal/model"

// Totals summarizes income and expense over a set of transactions.
type Totals struct {
	Income  float64 `json:"total_income"`
	Expense float64 `json:"total_expense"`
	Balance float64 `json:"balance"`
}

// ComputeTotals sums amounts by type. Amounts in different currencies are
// added nominally; no conversion happens. Use Currencies to detect that case.
func ComputeTotals(txns []model.Transaction) Totals {
	var t Totals
	for _, txn := range txns {
		switch txn.Type {
		case model.TypeIncome:
			t.Income += txn.Amount
		case model.TypeExpense:
			t.Expense += txn.Amount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// Currencies returns the distinct currency codes in txns in first-seen order.
// More than one entry means totals mix currencies.
func Currencies(txns []model.Transaction) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, txn := range txns {
		if _, ok := seen[txn.Currency]; ok {
			continue
		}
		seen[txn.Currency] = struct{}{}
		out = append(out, txn.Currency)
	}
	return out
}

// MonthOverMonthTrend returns the percent change in expense from the
// second-to-last bucket to the last one. It is 0 when there are fewer than
// two buckets or the earlier bucket has no expense.
func MonthOverMonthTrend(buckets []PeriodBucket) float64 {
	if len(buckets) < 2 {
		return 0
	}
	previous := buckets[len(buckets)-2].Expense
	current := buckets[len(buckets)-1].Expense
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// AverageExpense returns the mean expense across buckets, 0 for none.
func AverageExpense(buckets []PeriodBucket) float64 {
	if len(buckets) == 0 {
		return 0
	}
	var sum float64
	for _, b := range buckets {
		sum += b.Expense
	}
	return sum / float64(len(buckets))
}
