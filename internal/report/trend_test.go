package report

import (
	"testing"

	"fintrack/internal/core"
)

func TestTrendMonthlyScenario(t *testing.T) {
	buckets, skipped := Trend(sampleLedger(), "USD", Monthly)
	if skipped != 0 {
		t.Fatalf("expected no skipped records, got %d", skipped)
	}
	want := []TrendBucket{
		{Key: "2024-01", Total: core.Money{Cents: 5000}},
		{Key: "2024-02", Total: core.Money{Cents: 3000}},
	}
	if len(buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %v", len(want), buckets)
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], buckets[i])
		}
	}
}

func TestTrendExpensesOnly(t *testing.T) {
	buckets, _ := Trend(sampleLedger(), "USD", Monthly)
	var sum int64
	for _, b := range buckets {
		sum += b.Total.Cents
	}
	if sum != 8000 {
		t.Fatalf("income leaked into trend: sum %d", sum)
	}
}

func TestTrendSkipsZeroDates(t *testing.T) {
	txs := append(sampleLedger(),
		core.Normalize(core.Record{ID: "bad", Type: "expense", AmountCents: 100, Category: "Food", Date: "garbage"}),
	)
	buckets, skipped := Trend(txs, "USD", Monthly)
	if skipped != 1 {
		t.Fatalf("expected 1 skipped record, got %d", skipped)
	}
	for _, b := range buckets {
		if b.Key == "" || b.Key == "0000-00" {
			t.Fatalf("junk bucket leaked: %+v", buckets)
		}
	}
}

func TestTrendSortedAscending(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, 1, "Food", "2024-12-31", "USD"),
		tx("2", core.Expense, 1, "Food", "2024-01-01", "USD"),
		tx("3", core.Expense, 1, "Food", "2023-06-15", "USD"),
	}
	buckets, _ := Trend(txs, "USD", Monthly)
	for i := 1; i < len(buckets); i++ {
		if buckets[i-1].Key >= buckets[i].Key {
			t.Fatalf("buckets not ascending: %v", buckets)
		}
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(core.NewDate(2024, 1, 5)); got != "2024-01" {
		t.Fatalf("expected 2024-01, got %q", got)
	}
	if got := MonthKey(core.NewDate(2024, 11, 30)); got != "2024-11" {
		t.Fatalf("expected 2024-11, got %q", got)
	}
}

func TestWeekKey(t *testing.T) {
	// 2024-01-01 is a Monday; Jan 1 weekday offset is 1, so day 1 lands in
	// week ceil((1+1)/7) = 1.
	cases := []struct {
		d    core.Date
		want string
	}{
		{core.NewDate(2024, 1, 1), "2024-W01"},
		{core.NewDate(2024, 1, 6), "2024-W01"},  // day 6 -> ceil(7/7) = 1
		{core.NewDate(2024, 1, 7), "2024-W02"},  // day 7 -> ceil(8/7) = 2
		{core.NewDate(2024, 12, 31), "2024-W53"}, // day 366 -> ceil(367/7) = 53
	}
	for _, tc := range cases {
		if got := WeekKey(tc.d); got != tc.want {
			t.Fatalf("%s expected %q, got %q", tc.d, tc.want, got)
		}
	}
}

func TestWeeklyTrendBucketsWithinYear(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, 100, "Food", "2024-01-01", "USD"),
		tx("2", core.Expense, 200, "Food", "2024-01-06", "USD"),
		tx("3", core.Expense, 300, "Food", "2024-01-07", "USD"),
	}
	buckets, _ := Trend(txs, "USD", Weekly)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 weekly buckets, got %v", buckets)
	}
	if buckets[0].Key != "2024-W01" || buckets[0].Total.Cents != 300 {
		t.Fatalf("week 1: %+v", buckets[0])
	}
	if buckets[1].Key != "2024-W02" || buckets[1].Total.Cents != 300 {
		t.Fatalf("week 2: %+v", buckets[1])
	}
}
