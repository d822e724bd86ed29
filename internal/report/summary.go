package report

import (
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Report bundles every series a report view shows for one timeframe.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	TopCategory *CategoryAmount `json:"top_category,omitempty"`
	Timeframe   Timeframe       `json:"timeframe"`
	// TrendGranularity is day for week and month, month for year.
	TrendGranularity Granularity    `json:"trend_granularity"`
	Categories       CategoryTotals `json:"categories"`
	Trend            []PeriodBucket `json:"trend"`
	RecentWeeks      []PeriodBucket `json:"recent_weeks"`
	RecentMonths     []PeriodBucket `json:"recent_months"`
	Currencies       []string       `json:"currencies"`
	Totals           Totals         `json:"totals"`
	// MonthOverMonth is the expense change of this month against last month, in percent.
	MonthOverMonth float64 `json:"month_over_month"`
	// AverageMonthlyExpense is averaged over RecentMonths.
	AverageMonthlyExpense float64 `json:"average_monthly_expense"`
	TransactionCount      int     `json:"transaction_count"`
}

// MixedCurrencies reports whether the filtered totals add up more than one currency.
func (r Report) MixedCurrencies() bool {
	return len(r.Currencies) > 1
}

// Build assembles a Report. Totals, categories, and the trend series cover
// only the transactions inside the timeframe window. The recent week and
// month series carry their own fixed windows and use every transaction.
func Build(txns []model.Transaction, tf Timeframe, now time.Time) Report {
	filtered := FilterByTimeframe(txns, tf, now)

	granularity := GranularityDay
	if tf == TimeframeYear {
		granularity = GranularityMonth
	}

	categories := BucketByCategory(filtered).Ranked()
	recentMonths := BucketByPeriod(txns, GranularityRecentMonths, now)

	r := Report{
		GeneratedAt:           now,
		Timeframe:             tf,
		TrendGranularity:      granularity,
		TransactionCount:      len(filtered),
		Totals:                ComputeTotals(filtered),
		Categories:            categories,
		Trend:                 BucketByPeriod(filtered, granularity, now),
		RecentWeeks:           BucketByPeriod(txns, GranularityRecentWeeks, now),
		RecentMonths:          recentMonths,
		MonthOverMonth:        MonthOverMonthTrend(recentMonths),
		AverageMonthlyExpense: AverageExpense(recentMonths),
		Currencies:            Currencies(filtered),
	}
	if top, ok := categories.Top(); ok {
		r.TopCategory = &top
	}
	return r
}

// ExpenseTransactions returns the expense entries of txns, preserving order.
func ExpenseTransactions(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.IsExpense() {
			out = append(out, txn)
		}
	}
	return out
}
