package chart

import (
	"context"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/report"
)

type staticSource struct {
	txs      []core.Transaction
	currency string
	gran     report.Granularity
}

func (s *staticSource) Transactions() []core.Transaction     { return s.txs }
func (s *staticSource) SelectedCurrency() string             { return s.currency }
func (s *staticSource) TrendGranularity() report.Granularity { return s.gran }

func tx(typ core.TransactionType, cents int64, category string, date core.Date) core.Transaction {
	return core.Transaction{
		ID:       "t-" + category,
		Type:     typ,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     date,
		Currency: "USD",
	}
}

func populatedSource() *staticSource {
	return &staticSource{
		currency: "USD",
		gran:     report.Monthly,
		txs: []core.Transaction{
			tx(core.Income, 200000, "Salary", core.NewDate(2024, 1, 15)),
			tx(core.Expense, 5000, "Food", core.NewDate(2024, 1, 20)),
			tx(core.Expense, 3000, "Transportation", core.NewDate(2024, 2, 3)),
		},
	}
}

func TestCaptureAllRegions(t *testing.T) {
	r := NewRegistry(populatedSource())
	for _, region := range Regions() {
		img, err := r.Capture(context.Background(), region, 1)
		if err != nil {
			t.Fatalf("capture %s: %v", region, err)
		}
		if img.Bounds().Dx() != 640 || img.Bounds().Dy() != 360 {
			t.Fatalf("%s rendered %v at 1x", region, img.Bounds())
		}
	}
}

func TestCaptureScalesBitmap(t *testing.T) {
	r := NewRegistry(populatedSource())
	img, err := r.Capture(context.Background(), RegionExpenseBreakdown, 2)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if img.Bounds().Dx() != 1280 || img.Bounds().Dy() != 720 {
		t.Fatalf("rendered %v at 2x", img.Bounds())
	}
}

func TestCaptureUnknownRegion(t *testing.T) {
	r := NewRegistry(populatedSource())
	_, err := r.Capture(context.Background(), "net-worth", 1)
	if export.KindOf(err) != export.KindRegionNotFound {
		t.Fatalf("expected RegionNotFound, got %v", err)
	}
}

func TestCaptureEmptyLedger(t *testing.T) {
	r := NewRegistry(&staticSource{currency: "USD", gran: report.Monthly})
	for _, region := range Regions() {
		_, err := r.Capture(context.Background(), region, 1)
		if export.KindOf(err) != export.KindEmptyCapture {
			t.Fatalf("%s: expected EmptyCapture, got %v", region, err)
		}
	}
}

func TestCaptureCurrencyIsolation(t *testing.T) {
	src := populatedSource()
	src.currency = "EUR" // ledger only holds USD entries
	r := NewRegistry(src)
	_, err := r.Capture(context.Background(), RegionExpenseBreakdown, 1)
	if export.KindOf(err) != export.KindEmptyCapture {
		t.Fatalf("expected EmptyCapture for unused currency, got %v", err)
	}
}

func TestCaptureSingleTrendBucket(t *testing.T) {
	src := &staticSource{
		currency: "USD",
		gran:     report.Weekly,
		txs: []core.Transaction{
			tx(core.Expense, 1200, "Food", core.NewDate(2024, 3, 10)),
		},
	}
	r := NewRegistry(src)
	img, err := r.Capture(context.Background(), RegionMonthlyTrends, 1)
	if err != nil {
		t.Fatalf("single bucket should render as flat segment: %v", err)
	}
	if img.Bounds().Dx() == 0 {
		t.Fatal("blank bitmap")
	}
}

func TestTitles(t *testing.T) {
	if Title(RegionExpenseBreakdown) != "Expense Breakdown" {
		t.Fatal("breakdown title")
	}
	if Title("mystery") != "mystery" {
		t.Fatal("unknown regions keep their id")
	}
}
