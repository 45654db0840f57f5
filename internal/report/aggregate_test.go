package report

import (
	"testing"

	"fintrack/internal/core"
)

func tx(id string, typ core.TransactionType, cents int64, category, date, currency string) core.Transaction {
	d, _ := core.ParseDate(date)
	return core.Transaction{
		ID:       id,
		Type:     typ,
		Amount:   core.Money{Cents: cents},
		Category: category,
		Date:     d,
		Currency: currency,
	}
}

func sampleLedger() []core.Transaction {
	return []core.Transaction{
		tx("1", core.Expense, 5000, "Food", "2024-01-05", "USD"),
		tx("2", core.Income, 200000, "Salary", "2024-01-10", "USD"),
		tx("3", core.Expense, 3000, "Food", "2024-02-01", "USD"),
	}
}

func TestTotalsByCurrencyScenario(t *testing.T) {
	totals := TotalsByCurrency(sampleLedger())
	usd, ok := totals["USD"]
	if !ok {
		t.Fatalf("expected USD bucket, got %v", totals)
	}
	if usd.Income.Cents != 200000 {
		t.Fatalf("income: expected 200000, got %d", usd.Income.Cents)
	}
	if usd.Expenses.Cents != 8000 {
		t.Fatalf("expenses: expected 8000, got %d", usd.Expenses.Cents)
	}
	if usd.Balance.Cents != 192000 {
		t.Fatalf("balance: expected 192000, got %d", usd.Balance.Cents)
	}
}

func TestTotalsKeepCurrenciesSeparate(t *testing.T) {
	txs := append(sampleLedger(),
		tx("4", core.Expense, 700, "Travel", "2024-01-20", "EUR"),
		tx("5", core.Income, 1000, "Salary", "2024-01-21", "EUR"),
	)
	totals := TotalsByCurrency(txs)
	if len(totals) != 2 {
		t.Fatalf("expected 2 currency buckets, got %d", len(totals))
	}
	if totals["EUR"].Balance.Cents != 300 {
		t.Fatalf("EUR balance: expected 300, got %d", totals["EUR"].Balance.Cents)
	}
	// USD bucket unaffected by EUR records.
	if totals["USD"].Balance.Cents != 192000 {
		t.Fatalf("USD balance: expected 192000, got %d", totals["USD"].Balance.Cents)
	}
}

func TestTotalsDefaultCurrency(t *testing.T) {
	txs := []core.Transaction{tx("1", core.Expense, 100, "Food", "2024-01-01", "")}
	totals := TotalsByCurrency(txs)
	if totals[core.DefaultCurrency].Expenses.Cents != 100 {
		t.Fatalf("expected missing currency to land in %s, got %v", core.DefaultCurrency, totals)
	}
}

func TestBalanceProperty(t *testing.T) {
	txs := append(sampleLedger(),
		tx("4", core.Income, 123, "Gifts", "2024-03-01", "USD"),
		tx("5", core.Expense, 45, "Shopping", "2024-03-02", "USD"),
	)
	for code, tot := range TotalsByCurrency(txs) {
		if tot.Balance.Cents != tot.Income.Cents-tot.Expenses.Cents {
			t.Fatalf("%s: balance %d != income %d - expenses %d",
				code, tot.Balance.Cents, tot.Income.Cents, tot.Expenses.Cents)
		}
	}
}

func TestBreakdownScenario(t *testing.T) {
	buckets := Breakdown(sampleLedger(), "USD")
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %v", buckets)
	}
	if buckets[0].Category != "Food" || buckets[0].Amount.Cents != 8000 {
		t.Fatalf("expected Food=8000, got %+v", buckets[0])
	}
}

func TestBreakdownSumsToTotalExpenses(t *testing.T) {
	txs := append(sampleLedger(),
		tx("4", core.Expense, 999, "Travel", "2024-01-07", "USD"),
		tx("5", core.Expense, 1, "Shopping", "2024-01-08", "USD"),
		tx("6", core.Expense, 500, "Food", "2024-01-09", "EUR"), // other currency excluded
	)
	var sum int64
	for _, b := range Breakdown(txs, "USD") {
		sum += b.Amount.Cents
	}
	if want := TotalsFor(txs, "USD").Expenses.Cents; sum != want {
		t.Fatalf("breakdown sum %d != total expenses %d", sum, want)
	}
}

func TestBreakdownOrderedLargestFirst(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, 10, "Shopping", "2024-01-01", "USD"),
		tx("2", core.Expense, 500, "Food", "2024-01-02", "USD"),
		tx("3", core.Expense, 40, "Travel", "2024-01-03", "USD"),
	}
	buckets := Breakdown(txs, "USD")
	for i := 1; i < len(buckets); i++ {
		if buckets[i-1].Amount.Cents < buckets[i].Amount.Cents {
			t.Fatalf("buckets not ordered: %+v", buckets)
		}
	}
}
