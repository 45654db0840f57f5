package report

import (
	"sort"
	"strings"

	"fintrack/internal/core"
)

// SortKey orders the list view.
type SortKey string

const (
	SortDateDesc    SortKey = "date_desc"
	SortDateAsc     SortKey = "date_asc"
	SortAmountDesc  SortKey = "amount_desc"
	SortCategoryAsc SortKey = "category_asc"
)

// Filter narrows the list view. All set predicates are conjunctive; zero
// values match everything.
type Filter struct {
	// Query is a case-insensitive substring match against description OR
	// category.
	Query    string
	Type     core.TransactionType
	Category string
	Currency string
}

// Match reports whether the transaction passes every set predicate.
func (f Filter) Match(tx core.Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	if f.Currency != "" && currencyOf(tx) != f.Currency {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		desc := strings.ToLower(tx.Description)
		cat := strings.ToLower(tx.Category)
		if !strings.Contains(desc, q) && !strings.Contains(cat, q) {
			return false
		}
	}
	return true
}

// Apply filters and sorts a copy of the sequence. The input is never
// modified; sorting is stable so equal keys keep their stored order.
func Apply(txs []core.Transaction, f Filter, key SortKey) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}

	switch key {
	case SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	case SortAmountDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.Cents > out[j].Amount.Cents })
	case SortCategoryAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	}
	return out
}
