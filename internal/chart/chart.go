// Package chart renders aggregated financial data into bitmap charts.
//
// The package exposes one rendered region per visualization; regions are
// addressed by stable IDs so the export pipeline can capture them without
// knowing which chart type backs each one.
package chart

import (
	"fintrack/internal/core"
	"fintrack/internal/report"
)

// Region IDs addressable by the export pipeline.
const (
	RegionExpenseBreakdown = "expense-breakdown"
	RegionMonthlyTrends    = "monthly-trends"
	RegionCurrencyTotals   = "currency-totals"
)

// Regions lists every renderable region in report page order.
func Regions() []string {
	return []string{RegionExpenseBreakdown, RegionMonthlyTrends, RegionCurrencyTotals}
}

// DataSource supplies the ledger data and view selection charts render from.
type DataSource interface {
	Transactions() []core.Transaction
	SelectedCurrency() string
	TrendGranularity() report.Granularity
}

// Base render size at 1x, before the capture upscaling factor.
const (
	baseWidth  = 640
	baseHeight = 360
)
