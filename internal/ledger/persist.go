package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/kv"
)

// Storage keys. The transaction sequence is one whole-document value; the
// default currency preference is a second one.
const (
	KeyTransactions    = "transactions"
	KeyDefaultCurrency = "default_currency"
)

// Persister mirrors the ledger into a kv.Store. It implements Observer, so
// every mutation triggers a synchronous whole-sequence write; there is no
// batching or debounce. Write failures are logged and swallowed: persistence
// across restarts degrades, the running session does not.
type Persister struct {
	store kv.Store
}

func NewPersister(store kv.Store) *Persister {
	return &Persister{store: store}
}

// LedgerChanged implements Observer.
func (p *Persister) LedgerChanged(ctx context.Context, change Change, snapshot []core.Transaction) {
	if change.Op == OpPreference {
		if err := p.store.Set(ctx, KeyDefaultCurrency, []byte(change.DefaultCurrency)); err != nil {
			slog.ErrorContext(ctx, "Failed to persist currency preference",
				"error", err, "currency", change.DefaultCurrency)
		}
		return
	}

	records := make([]core.Record, len(snapshot))
	for i, tx := range snapshot {
		records[i] = core.ToRecord(tx)
	}
	data, err := json.Marshal(records)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal ledger", "error", err, "count", len(records))
		return
	}
	if err := p.store.Set(ctx, KeyTransactions, data); err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger",
			"error", err, "op", string(change.Op), "id", change.ID, "count", len(records))
	}
}

// Load rehydrates the persisted sequence and preference. Every record passes
// through core.Normalize, so pre-currency records pick up the default code in
// memory; storage is rewritten only on the next natural save. badDates counts
// records whose persisted date no longer parses.
func (p *Persister) Load(ctx context.Context) (items []core.Transaction, defaultCurrency string, badDates int, err error) {
	data, err := p.store.Get(ctx, KeyTransactions)
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
		// First run.
	case err != nil:
		return nil, "", 0, fmt.Errorf("load transactions: %w", err)
	default:
		var records []core.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, "", 0, fmt.Errorf("decode transactions: %w", err)
		}
		items = make([]core.Transaction, len(records))
		for i, r := range records {
			items[i] = core.Normalize(r)
			if items[i].Date.IsZero() {
				badDates++
			}
		}
	}

	pref, err := p.store.Get(ctx, KeyDefaultCurrency)
	if err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return nil, "", 0, fmt.Errorf("load currency preference: %w", err)
	}

	return items, string(pref), badDates, nil
}
