package report

import (
	"cmp"
	"slices"

	"github.com/Veraticus/tally/internal/model"
)

// CategoryAmount is the expense total for one category.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryShare is a category total with its share of all expenses in percent.
type CategoryShare struct {
	CategoryAmount
	Percent float64 `json:"percent"`
}

// CategoryTotals holds per-category expense totals in the order each category
// was first encountered in the input.
type CategoryTotals []CategoryAmount

// BucketByCategory sums expense amounts per category. Income is excluded.
// Categories without expenses are absent; callers that want zero entries
// merge against model.ExpenseCategories themselves. Sums are not rounded.
func BucketByCategory(txns []model.Transaction) CategoryTotals {
	index := make(map[string]int)
	totals := CategoryTotals{}
	for _, txn := range txns {
		if !txn.IsExpense() {
			continue
		}
		i, ok := index[txn.Category]
		if !ok {
			i = len(totals)
			index[txn.Category] = i
			totals = append(totals, CategoryAmount{Category: txn.Category})
		}
		totals[i].Amount += txn.Amount
	}
	return totals
}

// Map returns the totals keyed by category.
func (c CategoryTotals) Map() map[string]float64 {
	m := make(map[string]float64, len(c))
	for _, ca := range c {
		m[ca.Category] = ca.Amount
	}
	return m
}

// Get returns the total for category, or 0 when it has no expenses.
func (c CategoryTotals) Get(category string) float64 {
	for _, ca := range c {
		if ca.Category == category {
			return ca.Amount
		}
	}
	return 0
}

// Total sums every category.
func (c CategoryTotals) Total() float64 {
	var sum float64
	for _, ca := range c {
		sum += ca.Amount
	}
	return sum
}

// Ranked returns a copy sorted by descending total. The sort is stable, so
// ties keep first-encountered order.
func (c CategoryTotals) Ranked() CategoryTotals {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b CategoryAmount) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	return out
}

// Top returns the category with the highest total.
func (c CategoryTotals) Top() (CategoryAmount, bool) {
	ranked := c.Ranked()
	if len(ranked) == 0 {
		return CategoryAmount{}, false
	}
	return ranked[0], true
}

// Shares returns each category with its percentage of the overall total.
// When the total is zero every share is zero.
func (c CategoryTotals) Shares() []CategoryShare {
	total := c.Total()
	out := make([]CategoryShare, 0, len(c))
	for _, ca := range c {
		share := CategoryShare{CategoryAmount: ca}
		if total != 0 {
			share.Percent = ca.Amount / total * 100
		}
		out = append(out, share)
	}
	return out
}

// Points converts the totals into chart points labeled by category.
func (c CategoryTotals) Points() []Point {
	out := make([]Point, 0, len(c))
	for _, ca := range c {
		out = append(out, Point{Label: ca.Category, Value: ca.Amount})
	}
	return out
}
