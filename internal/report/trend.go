package report

import (
	"fmt"
	"sort"

	"fintrack/internal/core"
)

// Granularity selects the trend bucket width.
type Granularity string

const (
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// IsValid reports whether the granularity is known.
func (g Granularity) IsValid() bool {
	return g == Weekly || g == Monthly
}

// TrendBucket is one (bucket key, total) pair of a trend series.
type TrendBucket struct {
	Key   string
	Total core.Money
}

// MonthKey derives the monthly bucket key, e.g. "2024-01". Keys are
// zero-padded fixed width so lexical ordering matches chronological ordering.
func MonthKey(d core.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
}

// WeekKey derives the weekly bucket key, e.g. "2024-W05".
//
// The week number is ceil((dayOfYear + weekdayOfJan1) / 7) with Sunday as
// weekday 0. This is deliberately not ISO-8601 week numbering: weeks are tied
// to calendar-year boundaries, so numbers can disagree with ISO weeks around
// January 1. The behavior is preserved from the original bucketing scheme.
func WeekKey(d core.Date) string {
	jan1 := core.NewDate(d.Year(), 1, 1)
	week := (d.YearDay() + int(jan1.Weekday()) + 6) / 7
	return fmt.Sprintf("%04d-W%02d", d.Year(), week)
}

// Trend buckets expense amounts for one currency by week or month, sorted
// ascending by key. Bucketing uses each transaction's own date; "now" is
// never involved, so output is deterministic for a given input set.
//
// Records whose date failed to parse at load time (zero date) are excluded
// rather than grouped under a junk key; skipped reports how many were left
// out so callers can surface the anomaly.
func Trend(txs []core.Transaction, currency string, g Granularity) (buckets []TrendBucket, skipped int) {
	sums := make(map[string]int64)
	for _, tx := range txs {
		if tx.Type != core.Expense || currencyOf(tx) != currency {
			continue
		}
		if tx.Date.IsZero() {
			skipped++
			continue
		}
		key := MonthKey(tx.Date)
		if g == Weekly {
			key = WeekKey(tx.Date)
		}
		sums[key] += tx.Amount.Cents
	}

	buckets = make([]TrendBucket, 0, len(sums))
	for key, cents := range sums {
		buckets = append(buckets, TrendBucket{Key: key, Total: core.Money{Cents: cents}})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets, skipped
}
