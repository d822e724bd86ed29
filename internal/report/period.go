package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Granularity selects how BucketByPeriod groups transactions in time.
type Granularity string

// Supported granularities.
const (
	// GranularityDay buckets by calendar day across the span of the input.
	GranularityDay Granularity = "day"
	// GranularityMonth buckets by calendar month across the span of the input.
	GranularityMonth Granularity = "month"
	// GranularityRecentWeeks produces the last RecentWeekCount weeks ending with the week of now.
	GranularityRecentWeeks Granularity = "recent-weeks"
	// GranularityRecentMonths produces the last RecentMonthCount calendar months ending with the month of now.
	GranularityRecentMonths Granularity = "recent-months"
)

const (
	// RecentWeekCount is the number of buckets produced by GranularityRecentWeeks.
	RecentWeekCount = 4
	// RecentMonthCount is the number of buckets produced by GranularityRecentMonths.
	RecentMonthCount = 6
)

// ErrUnknownGranularity is returned for an unrecognized granularity selector.
var ErrUnknownGranularity = errors.New("unknown granularity")

// PeriodBucket aggregates income and expense over the calendar days Start..End inclusive.
type PeriodBucket struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Label   string    `json:"label"`
	Income  float64   `json:"income"`
	Expense float64   `json:"expense"`
}

// Net returns income minus expense for the bucket.
func (b PeriodBucket) Net() float64 {
	return b.Income - b.Expense
}

// Point is a labeled value ready for a chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Value selectors for Points.
var (
	ExpenseValue = func(b PeriodBucket) float64 { return b.Expense }
	IncomeValue  = func(b PeriodBucket) float64 { return b.Income }
	NetValue     = func(b PeriodBucket) float64 { return b.Net() }
)

// Points projects buckets into chart points using the given selector.
func Points(buckets []PeriodBucket, value func(PeriodBucket) float64) []Point {
	out := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, Point{Label: b.Label, Value: value(b)})
	}
	return out
}

// ParseGranularity converts a selector string into a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDay, GranularityMonth, GranularityRecentWeeks, GranularityRecentMonths:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
}

// BucketByPeriod groups transactions into chronological buckets (oldest
// first), summing income and expense separately. Buckets that receive no
// transactions are reported with zero totals rather than omitted.
//
// GranularityDay and GranularityMonth cover the span from the earliest to the
// latest transaction and return nothing for empty input. The recent
// granularities always return a fixed number of buckets anchored on now;
// transactions outside those windows are dropped.
func BucketByPeriod(txns []model.Transaction, g Granularity, now time.Time) []PeriodBucket {
	switch g {
	case GranularityDay:
		return bucketByDay(txns)
	case GranularityMonth:
		return bucketByMonth(txns)
	case GranularityRecentWeeks:
		return bucketRecentWeeks(txns, now)
	case GranularityRecentMonths:
		return bucketRecentMonths(txns, now)
	default:
		return []PeriodBucket{}
	}
}

func bucketByDay(txns []model.Transaction) []PeriodBucket {
	first, last, ok := dateSpan(txns)
	if !ok {
		return []PeriodBucket{}
	}

	n := daysBetween(first, last) + 1
	buckets := make([]PeriodBucket, n)
	for i := range buckets {
		day := first.AddDate(0, 0, i)
		buckets[i] = PeriodBucket{Start: day, End: day, Label: day.Format("Jan 2")}
	}
	for _, txn := range txns {
		accumulate(&buckets[daysBetween(first, model.CalendarDate(txn.Date))], txn)
	}
	return buckets
}

func bucketByMonth(txns []model.Transaction) []PeriodBucket {
	first, last, ok := dateSpan(txns)
	if !ok {
		return []PeriodBucket{}
	}

	start := firstOfMonth(first)
	n := monthsBetween(start, last) + 1
	buckets := make([]PeriodBucket, n)
	for i := range buckets {
		month := start.AddDate(0, i, 0)
		buckets[i] = PeriodBucket{
			Start: month,
			End:   month.AddDate(0, 1, -1),
			Label: month.Format("Jan 2006"),
		}
	}
	for _, txn := range txns {
		accumulate(&buckets[monthsBetween(start, txn.Date)], txn)
	}
	return buckets
}

// bucketRecentWeeks anchors week boundaries on the weekday of now: the last
// bucket starts on the Sunday on or before now. These are not ISO weeks.
func bucketRecentWeeks(txns []model.Transaction, now time.Time) []PeriodBucket {
	today := model.CalendarDate(now)
	lastStart := today.AddDate(0, 0, -int(today.Weekday()))
	firstStart := lastStart.AddDate(0, 0, -7*(RecentWeekCount-1))

	buckets := make([]PeriodBucket, RecentWeekCount)
	for i := range buckets {
		start := firstStart.AddDate(0, 0, 7*i)
		buckets[i] = PeriodBucket{
			Start: start,
			End:   start.AddDate(0, 0, 6),
			Label: fmt.Sprintf("Week %d", i+1),
		}
	}

	end := buckets[RecentWeekCount-1].End
	for _, txn := range txns {
		day := model.CalendarDate(txn.Date)
		if day.Before(firstStart) || day.After(end) {
			continue
		}
		accumulate(&buckets[daysBetween(firstStart, day)/7], txn)
	}
	return buckets
}

func bucketRecentMonths(txns []model.Transaction, now time.Time) []PeriodBucket {
	current := firstOfMonth(now)
	firstStart := current.AddDate(0, -(RecentMonthCount - 1), 0)

	buckets := make([]PeriodBucket, RecentMonthCount)
	for i := range buckets {
		start := firstStart.AddDate(0, i, 0)
		buckets[i] = PeriodBucket{
			Start: start,
			End:   start.AddDate(0, 1, -1),
			Label: start.Format("Jan"),
		}
	}

	for _, txn := range txns {
		i := monthsBetween(firstStart, txn.Date)
		if i < 0 || i >= RecentMonthCount {
			continue
		}
		accumulate(&buckets[i], txn)
	}
	return buckets
}

func accumulate(b *PeriodBucket, txn model.Transaction) {
	switch txn.Type {
	case model.TypeIncome:
		b.Income += txn.Amount
	case model.TypeExpense:
		b.Expense += txn.Amount
	}
}

// dateSpan returns the earliest and latest calendar dates in txns.
func dateSpan(txns []model.Transaction) (first, last time.Time, ok bool) {
	for i, txn := range txns {
		day := model.CalendarDate(txn.Date)
		if i == 0 || day.Before(first) {
			first = day
		}
		if i == 0 || day.After(last) {
			last = day
		}
	}
	return first, last, len(txns) > 0
}

// daysBetween counts calendar days from a to b. Both must be UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
