package report

import (
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func expense(id string, amount float64, category, date string) model.Transaction {
	return model.Transaction{
		ID:          id,
		Amount:      amount,
		Type:        model.TypeExpense,
		Category:    category,
		Description: id,
		Date:        day(date),
		Currency:    "USD",
	}
}

func income(id string, amount float64, category, date string) model.Transaction {
	txn := expense(id, amount, category, date)
	txn.Type = model.TypeIncome
	return txn
}

func ids(txns []model.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, txn := range txns {
		out = append(out, txn.ID)
	}
	return out
}

func TestFilterByTimeframe(t *testing.T) {
	now := day("2024-06-01")
	txns := []model.Transaction{
		expense("7d", 1, "food", "2024-05-25"),
		expense("8d", 1, "food", "2024-05-24"),
		expense("30d", 1, "food", "2024-05-02"),
		expense("31d", 1, "food", "2024-05-01"),
		expense("365d", 1, "food", "2023-06-02"),
		expense("366d", 1, "food", "2023-06-01"),
		expense("today", 1, "food", "2024-06-01"),
		expense("tomorrow", 1, "food", "2024-06-02"),
	}

	tests := []struct {
		tf   Timeframe
		want []string
	}{
		{TimeframeWeek, []string{"7d", "today", "tomorrow"}},
		{TimeframeMonth, []string{"7d", "8d", "30d", "today", "tomorrow"}},
		{TimeframeYear, []string{"7d", "8d", "30d", "31d", "365d", "today", "tomorrow"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tf), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterByTimeframe(txns, tt.tf, now)))
		})
	}
}

func TestFilterByTimeframe_PartialDayRoundsUp(t *testing.T) {
	// 7 days and 2.4 hours: 7.1 days old.
	now := day("2024-06-01").Add(144 * time.Minute)
	txns := []model.Transaction{expense("old", 1, "food", "2024-05-25")}

	assert.Empty(t, FilterByTimeframe(txns, TimeframeWeek, now))
	assert.Len(t, FilterByTimeframe(txns, TimeframeMonth, now), 1)
	assert.Equal(t, int64(8), ElapsedDays(txns[0].Date, now))
}

func TestFilterByTimeframe_Empty(t *testing.T) {
	got := FilterByTimeframe(nil, TimeframeMonth, day("2024-06-01"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterByTimeframe_DoesNotMutateInput(t *testing.T) {
	txns := []model.Transaction{
		expense("a", 1, "food", "2020-01-01"),
		expense("b", 2, "food", "2024-05-31"),
	}
	before := append([]model.Transaction(nil), txns...)
	_ = FilterByTimeframe(txns, TimeframeWeek, day("2024-06-01"))
	assert.Equal(t, before, txns)
}

func TestFilterByTimeframe_Monotonic(t *testing.T) {
	now := day("2024-06-15").Add(13 * time.Hour)
	var txns []model.Transaction
	start := day("2023-01-01")
	for i := 0; i < 600; i += 3 {
		txns = append(txns, expense(start.AddDate(0, 0, i).Format(model.DateLayout), 1, "food",
			start.AddDate(0, 0, i).Format(model.DateLayout)))
	}

	week := ids(FilterByTimeframe(txns, TimeframeWeek, now))
	month := ids(FilterByTimeframe(txns, TimeframeMonth, now))
	year := ids(FilterByTimeframe(txns, TimeframeYear, now))

	assert.Subset(t, month, week)
	assert.Subset(t, year, month)
	assert.Less(t, len(week), len(month))
	assert.Less(t, len(month), len(year))
}

func TestParseTimeframe(t *testing.T) {
	for _, tf := range Timeframes() {
		got, err := ParseTimeframe(string(tf))
		require.NoError(t, err)
		assert.Equal(t, tf, got)
	}

	_, err := ParseTimeframe("decade")
	assert.True(t, errors.Is(err, ErrUnknownTimeframe))
}

func TestBucketByCategory(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 100, "food", "2024-01-01"),
		income("2", 50, "salary", "2024-01-02"),
		expense("3", 20, "rent", "2024-01-03"),
		expense("4", 5.5, "food", "2024-01-04"),
	}

	got := BucketByCategory(txns)

	assert.Equal(t, CategoryTotals{
		{Category: "food", Amount: 105.5},
		{Category: "rent", Amount: 20},
	}, got)
	assert.Equal(t, map[string]float64{"food": 105.5, "rent": 20}, got.Map())
	assert.Zero(t, got.Get("salary"))
}

func TestCategoryTotals_RankedBreaksTiesByFirstSeen(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 10, "travel", "2024-01-01"),
		expense("2", 30, "food", "2024-01-01"),
		expense("3", 10, "rent", "2024-01-01"),
		expense("4", 30, "health", "2024-01-01"),
	}

	totals := BucketByCategory(txns)
	ranked := totals.Ranked()

	assert.Equal(t, []string{"food", "health", "travel", "rent"}, categoryNames(ranked))
	assert.Equal(t, []string{"travel", "food", "rent", "health"}, categoryNames(totals), "input must stay unsorted")

	top, ok := totals.Top()
	require.True(t, ok)
	assert.Equal(t, "food", top.Category)

	_, ok = CategoryTotals{}.Top()
	assert.False(t, ok)
}

func TestCategoryTotals_Shares(t *testing.T) {
	totals := CategoryTotals{{Category: "food", Amount: 75}, {Category: "rent", Amount: 25}}
	shares := totals.Shares()
	require.Len(t, shares, 2)
	assert.InDelta(t, 75.0, shares[0].Percent, 1e-9)
	assert.InDelta(t, 25.0, shares[1].Percent, 1e-9)

	for _, s := range (CategoryTotals{{Category: "food"}}).Shares() {
		assert.Zero(t, s.Percent)
	}
}

func categoryNames(c CategoryTotals) []string {
	out := make([]string, 0, len(c))
	for _, ca := range c {
		out = append(out, ca.Category)
	}
	return out
}

func TestCategorySumMatchesExpenseTotal(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 12, "food", "2024-01-01"),
		expense("2", 7, "rent", "2024-01-05"),
		income("3", 1000, "salary", "2024-01-05"),
		expense("4", 3, "food", "2024-02-11"),
		expense("5", 250, "travel", "2024-03-01"),
		income("6", 40, "gift", "2024-03-04"),
	}

	byCategory := BucketByCategory(txns)
	totals := ComputeTotals(ExpenseTransactions(txns))

	assert.Equal(t, totals.Expense, byCategory.Total())
	assert.Zero(t, totals.Income)
}

func TestComputeTotals(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 100, "food", "2024-01-01"),
		income("2", 50, "salary", "2024-01-02"),
	}

	totals := ComputeTotals(FilterByTimeframe(txns, TimeframeYear, day("2024-06-01")))

	assert.Equal(t, Totals{Income: 50, Expense: 100, Balance: -50}, totals)
	assert.Equal(t, CategoryTotals{{Category: "food", Amount: 100}}, BucketByCategory(txns))
}

func TestComputeTotals_BalanceIdentity(t *testing.T) {
	txns := []model.Transaction{
		income("1", 0.1, "salary", "2024-01-01"),
		expense("2", 0.2, "food", "2024-01-01"),
		income("3", 1234.56, "freelance", "2024-01-01"),
		expense("4", 99.99, "rent", "2024-01-01"),
	}

	totals := ComputeTotals(txns)
	assert.Equal(t, totals.Income-totals.Expense, totals.Balance)
}

func TestComputeTotals_MixedCurrenciesAreSummedNominally(t *testing.T) {
	eur := expense("2", 10, "food", "2024-01-01")
	eur.Currency = "EUR"
	txns := []model.Transaction{expense("1", 10, "food", "2024-01-01"), eur}

	assert.Equal(t, 20.0, ComputeTotals(txns).Expense)
	assert.Equal(t, []string{"USD", "EUR"}, Currencies(txns))
}

func TestPercentOfBudget(t *testing.T) {
	pct, ok := PercentOfBudget(120, 100)
	assert.True(t, ok)
	assert.Equal(t, 120.0, pct)

	pct, ok = PercentOfBudget(50, 0)
	assert.False(t, ok)
	assert.Zero(t, pct)

	pct, ok = PercentOfBudget(0, 10)
	assert.True(t, ok)
	assert.Zero(t, pct)
}

func TestBucketByPeriod_Day(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 10, "food", "2024-01-03"),
		income("2", 500, "salary", "2024-01-01"),
		expense("3", 5, "food", "2024-01-03"),
	}

	buckets := BucketByPeriod(txns, GranularityDay, day("2024-01-10"))

	require.Len(t, buckets, 3)
	assert.Equal(t, []Point{{"Jan 1", 500}, {"Jan 2", 0}, {"Jan 3", 0}}, Points(buckets, IncomeValue))
	assert.Equal(t, []Point{{"Jan 1", 0}, {"Jan 2", 0}, {"Jan 3", 15}}, Points(buckets, ExpenseValue))
	assert.Equal(t, 500.0, buckets[0].Net())
}

func TestBucketByPeriod_Month(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 10, "food", "2024-02-01"),
		expense("2", 20, "food", "2023-11-15"),
		income("3", 30, "salary", "2023-11-30"),
	}

	buckets := BucketByPeriod(txns, GranularityMonth, day("2024-06-01"))

	require.Len(t, buckets, 4)
	assert.Equal(t, []string{"Nov 2023", "Dec 2023", "Jan 2024", "Feb 2024"}, labels(buckets))
	assert.Equal(t, 20.0, buckets[0].Expense)
	assert.Equal(t, 30.0, buckets[0].Income)
	assert.Zero(t, buckets[1].Expense)
	assert.Equal(t, 10.0, buckets[3].Expense)
	assert.Equal(t, day("2023-11-30"), buckets[0].End)
}

func TestBucketByPeriod_RecentWeeks(t *testing.T) {
	// 2024-06-05 is a Wednesday; the current week starts Sunday 2024-06-02.
	now := day("2024-06-05").Add(15 * time.Hour)
	txns := []model.Transaction{
		expense("w1", 10, "food", "2024-05-12"),
		expense("w2", 20, "food", "2024-05-25"),
		expense("w4", 5, "food", "2024-06-08"),
		income("w4-income", 40, "salary", "2024-06-03"),
		expense("before", 100, "food", "2024-05-11"),
		expense("after", 100, "food", "2024-06-09"),
	}

	buckets := BucketByPeriod(txns, GranularityRecentWeeks, now)

	require.Len(t, buckets, RecentWeekCount)
	assert.Equal(t, []string{"Week 1", "Week 2", "Week 3", "Week 4"}, labels(buckets))
	assert.Equal(t, []Point{{"Week 1", 10}, {"Week 2", 20}, {"Week 3", 0}, {"Week 4", 5}}, Points(buckets, ExpenseValue))
	assert.Equal(t, 40.0, buckets[3].Income)
	assert.Equal(t, day("2024-06-02"), buckets[3].Start)
	assert.Equal(t, day("2024-06-08"), buckets[3].End)
	assert.Equal(t, day("2024-05-12"), buckets[0].Start)
}

func TestBucketByPeriod_RecentMonths(t *testing.T) {
	now := day("2024-03-31")
	txns := []model.Transaction{
		expense("dropped", 99, "food", "2023-09-30"),
		expense("oct", 1, "food", "2023-10-01"),
		expense("feb", 2, "food", "2024-02-29"),
		expense("mar", 3, "food", "2024-03-31"),
		income("mar-income", 7, "salary", "2024-03-01"),
	}

	buckets := BucketByPeriod(txns, GranularityRecentMonths, now)

	require.Len(t, buckets, RecentMonthCount)
	assert.Equal(t, []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}, labels(buckets))
	assert.Equal(t, []Point{{"Oct", 1}, {"Nov", 0}, {"Dec", 0}, {"Jan", 0}, {"Feb", 2}, {"Mar", 3}}, Points(buckets, ExpenseValue))
	assert.Equal(t, 7.0, buckets[5].Income)
}

func TestBucketByPeriod_Empty(t *testing.T) {
	now := day("2024-06-01")

	assert.Empty(t, BucketByPeriod(nil, GranularityDay, now))
	assert.Empty(t, BucketByPeriod(nil, GranularityMonth, now))

	for _, g := range []Granularity{GranularityRecentWeeks, GranularityRecentMonths} {
		for _, b := range BucketByPeriod(nil, g, now) {
			assert.Zero(t, b.Income)
			assert.Zero(t, b.Expense)
		}
	}
	assert.Len(t, BucketByPeriod(nil, GranularityRecentWeeks, now), RecentWeekCount)
	assert.Len(t, BucketByPeriod(nil, GranularityRecentMonths, now), RecentMonthCount)
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("recent-weeks")
	require.NoError(t, err)
	assert.Equal(t, GranularityRecentWeeks, g)

	_, err = ParseGranularity("fortnight")
	assert.ErrorIs(t, err, ErrUnknownGranularity)
}

func labels(buckets []PeriodBucket) []string {
	out := make([]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.Label)
	}
	return out
}

func TestMonthOverMonthTrend(t *testing.T) {
	assert.Equal(t, 50.0, MonthOverMonthTrend([]PeriodBucket{{Expense: 100}, {Expense: 150}}))
	assert.Equal(t, -25.0, MonthOverMonthTrend([]PeriodBucket{{Expense: 9}, {Expense: 100}, {Expense: 75}}))
	assert.Zero(t, MonthOverMonthTrend([]PeriodBucket{{Expense: 0}, {Expense: 150}}))
	assert.Zero(t, MonthOverMonthTrend([]PeriodBucket{{Expense: 150}}))
	assert.Zero(t, MonthOverMonthTrend(nil))
}

func TestAverageExpense(t *testing.T) {
	assert.Equal(t, 20.0, AverageExpense([]PeriodBucket{{Expense: 10}, {Expense: 30}}))
	assert.Zero(t, AverageExpense(nil))
}

func TestBudgetProgress(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 120, "food", "2024-01-01"),
		expense("2", 30, "travel", "2024-01-01"),
		income("3", 1000, "salary", "2024-01-01"),
	}
	budgets := []model.Budget{
		{Category: "food", Limit: 100, Color: "emerald"},
		{Category: "rent", Limit: 0},
		{Category: "health", Limit: 50},
	}

	lines := BudgetProgress(txns, budgets)

	require.Len(t, lines, 3)

	food := lines[0]
	assert.Equal(t, "food", food.Category)
	assert.Equal(t, 120.0, food.Spent)
	assert.Equal(t, 120.0, food.Percent)
	assert.True(t, food.Defined)
	assert.True(t, food.Over())
	assert.Equal(t, 20.0, food.OverBy())
	assert.Equal(t, -20.0, food.Remaining)

	rent := lines[1]
	assert.False(t, rent.Defined)
	assert.Zero(t, rent.Percent)

	health := lines[2]
	assert.Zero(t, health.Spent)
	assert.False(t, health.Over())
	assert.Zero(t, health.OverBy())
	assert.Equal(t, 50.0, health.Remaining)
}

func TestMonthlyBudgetStatus(t *testing.T) {
	txns := []model.Transaction{
		expense("1", 200, "food", "2024-06-01"),
		expense("2", 300, "rent", "2024-06-30"),
		expense("3", 999, "rent", "2024-05-31"),
		income("4", 5000, "salary", "2024-06-01"),
	}

	status := MonthlyBudgetStatus(txns, 1000, day("2024-06-15"))
	assert.Equal(t, MonthlyStatus{Budget: 1000, Spent: 500, Remaining: 500, Percent: 50, Defined: true}, status)

	status = MonthlyBudgetStatus(txns, 0, day("2024-06-15"))
	assert.False(t, status.Defined)
}

func TestBuild(t *testing.T) {
	now := day("2024-06-01")
	txns := []model.Transaction{
		expense("1", 100, "food", "2024-01-01"),
		income("2", 50, "salary", "2024-01-02"),
		expense("3", 40, "rent", "2024-05-20"),
		expense("old", 1000, "travel", "2022-01-01"),
	}

	r := Build(txns, TimeframeYear, now)

	assert.Equal(t, TimeframeYear, r.Timeframe)
	assert.Equal(t, GranularityMonth, r.TrendGranularity)
	assert.Equal(t, 3, r.TransactionCount)
	assert.Equal(t, Totals{Income: 50, Expense: 140, Balance: -90}, r.Totals)
	assert.Equal(t, []string{"food", "rent"}, categoryNames(r.Categories))
	require.NotNil(t, r.TopCategory)
	assert.Equal(t, "food", r.TopCategory.Category)
	assert.Equal(t, []string{"Jan 2024", "Feb 2024", "Mar 2024", "Apr 2024", "May 2024"}, labels(r.Trend))
	assert.Len(t, r.RecentWeeks, RecentWeekCount)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, labels(r.RecentMonths))
	assert.False(t, r.MixedCurrencies())

	week := Build(txns, TimeframeWeek, now)
	assert.Equal(t, GranularityDay, week.TrendGranularity)
	assert.Equal(t, 0, week.TransactionCount)
	assert.Nil(t, week.TopCategory)
}

func TestBuild_Empty(t *testing.T) {
	r := Build(nil, TimeframeMonth, day("2024-06-01"))

	assert.Zero(t, r.TransactionCount)
	assert.Equal(t, Totals{}, r.Totals)
	assert.Empty(t, r.Categories)
	assert.Empty(t, r.Trend)
	assert.Empty(t, r.Currencies)
	assert.Nil(t, r.TopCategory)
	assert.Zero(t, r.MonthOverMonth)
	assert.Zero(t, r.AverageMonthlyExpense)
}

func TestBuild_Idempotent(t *testing.T) {
	now := day("2024-06-01").Add(7 * time.Hour)
	txns := []model.Transaction{
		expense("1", 10.25, "food", "2024-05-30"),
		income("2", 3000, "salary", "2024-05-01"),
		expense("3", 0.1, "other", "2024-04-15"),
		expense("4", 0.2, "other", "2024-05-31"),
	}

	for _, tf := range Timeframes() {
		assert.Equal(t, Build(txns, tf, now), Build(txns, tf, now), string(tf))
	}
}
