package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

// renderable is the common surface of go-chart's chart types.
type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

// breakdownPie builds the per-category expense pie for one currency. Returns
// nil when there is nothing to slice.
func breakdownPie(txs []core.Transaction, currency string, width, height int) renderable {
	buckets := report.Breakdown(txs, currency)
	if len(buckets) == 0 {
		return nil
	}

	values := make([]gochart.Value, 0, len(buckets))
	for _, b := range buckets {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%s)", b.Category, core.FormatAmount(b.Amount, currency)),
			Value: b.Amount.Units(),
		})
	}
	return &gochart.PieChart{
		Width:  width,
		Height: height,
		Values: values,
	}
}

// trendLine builds the expense trend line for one currency. Returns nil when
// no bucket has a dated expense.
func trendLine(txs []core.Transaction, currency string, g report.Granularity, width, height int) renderable {
	buckets, _ := report.Trend(txs, currency, g)
	if len(buckets) == 0 {
		return nil
	}

	xs := make([]float64, 0, len(buckets)+1)
	ys := make([]float64, 0, len(buckets)+1)
	ticks := make([]gochart.Tick, 0, len(buckets)+1)
	for i, b := range buckets {
		xs = append(xs, float64(i))
		ys = append(ys, b.Total.Units())
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: b.Key})
	}
	// A continuous series needs two points to draw a stroke; a lone bucket is
	// shown as a flat segment.
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
		ticks = append(ticks, gochart.Tick{Value: 1, Label: buckets[0].Key})
	}

	return &gochart.Chart{
		Width:  width,
		Height: height,
		XAxis: gochart.XAxis{
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			ValueFormatter: amountFormatter(currency),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Expenses",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: gochart.ColorBlue,
					StrokeWidth: 2,
					FillColor:   gochart.ColorBlue.WithAlpha(40),
				},
			},
		},
	}
}

// totalsBars builds the income-vs-expenses bars for one currency. Returns nil
// when the currency has no transactions at all.
func totalsBars(txs []core.Transaction, currency string, width, height int) renderable {
	totals := report.TotalsFor(txs, currency)
	if totals.Income.Cents == 0 && totals.Expenses.Cents == 0 {
		return nil
	}

	return &gochart.BarChart{
		Width:    width,
		Height:   height,
		BarWidth: 80,
		Bars: []gochart.Value{
			{
				Label: "Income",
				Value: totals.Income.Units(),
				Style: gochart.Style{FillColor: gochart.ColorGreen, StrokeColor: gochart.ColorGreen},
			},
			{
				Label: "Expenses",
				Value: totals.Expenses.Units(),
				Style: gochart.Style{FillColor: gochart.ColorRed, StrokeColor: gochart.ColorRed},
			},
		},
		YAxis: gochart.YAxis{
			ValueFormatter: amountFormatter(currency),
		},
	}
}

func amountFormatter(currency string) gochart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		return core.FormatAmount(core.Money{Cents: int64(f*100 + 0.5)}, currency)
	}
}
