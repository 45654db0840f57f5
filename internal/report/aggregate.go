// Package report computes derived views over the transaction sequence.
//
// Every function here is pure: it takes the current sequence, touches no
// state, and never returns an error. Currencies are independent buckets;
// amounts are summed per currency code and never converted.
package report

import (
	"sort"

	"fintrack/internal/core"
)

// Totals is the per-currency summary. Balance = Income - Expenses.
type Totals struct {
	Income   core.Money
	Expenses core.Money
	Balance  core.Money
}

// CategoryAmount is one bucket of a per-category breakdown.
type CategoryAmount struct {
	Category string
	Amount   core.Money
}

// TotalsByCurrency partitions transactions by currency code and computes
// income, expense and balance sums per partition. Records missing a currency
// are counted under the default code.
func TotalsByCurrency(txs []core.Transaction) map[string]Totals {
	out := make(map[string]Totals)
	for _, tx := range txs {
		code := currencyOf(tx)
		t := out[code]
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expenses = t.Expenses.Add(tx.Amount)
		}
		t.Balance = t.Income.Sub(t.Expenses)
		out[code] = t
	}
	return out
}

// TotalsFor returns the summary for a single currency.
func TotalsFor(txs []core.Transaction, currency string) Totals {
	return TotalsByCurrency(txs)[currency]
}

// Breakdown sums expense amounts by category for one currency, largest bucket
// first (ties broken by category name). The bucket sum always equals the
// currency's total expenses.
func Breakdown(txs []core.Transaction, currency string) []CategoryAmount {
	sums := make(map[string]int64)
	for _, tx := range txs {
		if tx.Type != core.Expense || currencyOf(tx) != currency {
			continue
		}
		sums[tx.Category] += tx.Amount.Cents
	}

	out := make([]CategoryAmount, 0, len(sums))
	for cat, cents := range sums {
		out = append(out, CategoryAmount{Category: cat, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func currencyOf(tx core.Transaction) string {
	if tx.Currency == "" {
		return core.DefaultCurrency
	}
	return tx.Currency
}
