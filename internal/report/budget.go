package report

import (
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// PercentOfBudget returns spent as a percentage of limit. The result is not
// clamped, so overspending yields values above 100.
//
// A zero limit has no meaningful percentage: the function returns (0, false)
// and callers must check ok before displaying the value.
func PercentOfBudget(spent, limit float64) (percent float64, ok bool) {
	if limit == 0 {
		return 0, false
	}
	return spent / limit * 100, true
}

// BudgetLine is the progress of one category against its budget.
type BudgetLine struct {
	Category  string  `json:"category"`
	Color     string  `json:"color,omitempty"`
	Limit     float64 `json:"limit"`
	Spent     float64 `json:"spent"`
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
	// Defined is false when the limit is zero and Percent carries no meaning.
	Defined bool `json:"defined"`
}

// Over reports whether spending exceeds the limit.
func (l BudgetLine) Over() bool {
	return l.Spent > l.Limit
}

// OverBy returns how far spending exceeds the limit, or 0.
func (l BudgetLine) OverBy() float64 {
	if !l.Over() {
		return 0
	}
	return l.Spent - l.Limit
}

// BudgetProgress measures expense totals of txns against each budget, in the
// order the budgets are given. Categories with transactions but no budget are
// not listed.
func BudgetProgress(txns []model.Transaction, budgets []model.Budget) []BudgetLine {
	spent := BucketByCategory(txns)
	lines := make([]BudgetLine, 0, len(budgets))
	for _, b := range budgets {
		line := BudgetLine{
			Category: b.Category,
			Color:    b.Color,
			Limit:    b.Limit,
			Spent:    spent.Get(b.Category),
		}
		line.Percent, line.Defined = PercentOfBudget(line.Spent, line.Limit)
		line.Remaining = line.Limit - line.Spent
		lines = append(lines, line)
	}
	return lines
}

// MonthlyStatus compares expenses in the calendar month of now with the
// overall monthly budget.
type MonthlyStatus struct {
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
	Defined   bool    `json:"defined"`
}

// MonthlyBudgetStatus computes MonthlyStatus for the month containing now.
func MonthlyBudgetStatus(txns []model.Transaction, monthlyBudget float64, now time.Time) MonthlyStatus {
	y, m, _ := now.Date()
	var spent float64
	for _, txn := range txns {
		ty, tm, _ := txn.Date.Date()
		if txn.IsExpense() && ty == y && tm == m {
			spent += txn.Amount
		}
	}
	status := MonthlyStatus{
		Budget:    monthlyBudget,
		Spent:     spent,
		Remaining: monthlyBudget - spent,
	}
	status.Percent, status.Defined = PercentOfBudget(spent, monthlyBudget)
	return status
}
