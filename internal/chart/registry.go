package chart

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	gochart "github.com/wcharczuk/go-chart/v2"

	"fintrack/internal/export"
)

// Registry resolves region IDs to chart renderers and rasterizes them into
// bitmaps. It is the Rasterizer the export pipeline captures through.
type Registry struct {
	src DataSource
}

func NewRegistry(src DataSource) *Registry {
	return &Registry{src: src}
}

// Title returns the human-readable heading for a region, used on document
// pages. Unknown regions get the raw id back.
func Title(regionID string) string {
	switch regionID {
	case RegionExpenseBreakdown:
		return "Expense Breakdown"
	case RegionMonthlyTrends:
		return "Monthly Trends"
	case RegionCurrencyTotals:
		return "Income vs Expenses"
	}
	return regionID
}

// Capture renders the region at the given upscaling factor and decodes the
// result back to an image. A region with no matching data reports an empty
// capture rather than rendering a blank chart.
func (r *Registry) Capture(ctx context.Context, regionID string, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width := int(baseWidth * scale)
	height := int(baseHeight * scale)
	txs := r.src.Transactions()
	currency := r.src.SelectedCurrency()

	var c renderable
	switch regionID {
	case RegionExpenseBreakdown:
		c = breakdownPie(txs, currency, width, height)
	case RegionMonthlyTrends:
		c = trendLine(txs, currency, r.src.TrendGranularity(), width, height)
	case RegionCurrencyTotals:
		c = totalsBars(txs, currency, width, height)
	default:
		return nil, export.NewRegionNotFound(regionID)
	}
	if c == nil {
		return nil, export.NewEmptyCapture(regionID)
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", regionID, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", regionID, err)
	}
	return img, nil
}
