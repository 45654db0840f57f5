package core

import "strings"

// Record is the persisted wire form of a transaction. The whole sequence is
// serialized as one JSON document on every change.
type Record struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// Normalize is the versioned-load transform applied to every record read from
// storage. It is total: it never fails and isolates all backward-compatibility
// logic in one place.
//
//   - A missing currency field (records written before currencies existed)
//     defaults to DefaultCurrency. Records that already carry a currency are
//     left untouched.
//   - An unparseable date maps to the zero Date. Such records stay in the
//     ledger and in totals but are excluded from trend buckets, which report
//     them as skipped.
//
// The normalized form is in-memory only; storage is rewritten on the next
// natural save, not eagerly.
func Normalize(r Record) Transaction {
	currency := strings.TrimSpace(r.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	date, err := ParseDate(r.Date)
	if err != nil {
		date = Date{}
	}

	return Transaction{
		ID:          r.ID,
		Type:        TransactionType(strings.ToLower(strings.TrimSpace(r.Type))),
		Amount:      Money{Cents: r.AmountCents},
		Category:    r.Category,
		Date:        date,
		Description: r.Description,
		Currency:    currency,
	}
}

// ToRecord converts a transaction to its persisted form.
func ToRecord(t Transaction) Record {
	return Record{
		ID:          t.ID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Date:        t.Date.String(),
		Description: t.Description,
		Currency:    t.Currency,
	}
}
