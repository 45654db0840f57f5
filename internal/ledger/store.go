// Package ledger owns the ordered transaction sequence.
//
// The store itself is pure in-memory state; persistence and event publishing
// are side-effecting observers notified after each mutation. This keeps the
// store and the aggregation engine unit-testable without a backend, and it
// means a failing backend never takes the session down: in-memory state stays
// authoritative.
package ledger

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Op identifies the kind of mutation behind a change notification.
type Op string

const (
	OpAdd        Op = "add"
	OpDelete     Op = "delete"
	OpPreference Op = "preference"
)

// Change describes one mutation of the ledger.
type Change struct {
	Op Op
	// ID of the affected transaction for OpAdd/OpDelete.
	ID string
	// DefaultCurrency carries the new preference for OpPreference.
	DefaultCurrency string
}

// Observer is notified synchronously after every mutation with the change and
// a snapshot of the whole sequence. Observers must not mutate the snapshot.
type Observer interface {
	LedgerChanged(ctx context.Context, change Change, snapshot []core.Transaction)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, change Change, snapshot []core.Transaction)

func (f ObserverFunc) LedgerChanged(ctx context.Context, change Change, snapshot []core.Transaction) {
	f(ctx, change, snapshot)
}

// Store holds the transaction sequence, newest first.
type Store struct {
	mu              sync.Mutex
	items           []core.Transaction
	defaultCurrency string
	observers       []Observer
}

// New creates an empty store.
func New() *Store {
	return &Store{defaultCurrency: core.DefaultCurrency}
}

// NewWith seeds the store with an already-normalized sequence (newest first)
// and a default-currency preference, as produced by Persister.Load.
func NewWith(items []core.Transaction, defaultCurrency string) *Store {
	s := New()
	s.items = append(s.items, items...)
	if strings.TrimSpace(defaultCurrency) != "" {
		s.defaultCurrency = defaultCurrency
	}
	return s
}

// Subscribe registers an observer for subsequent mutations.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Add validates the transaction, assigns it an ID if it has none, prepends it
// (the sequence is newest first) and notifies observers.
func (s *Store) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if strings.TrimSpace(tx.Currency) == "" {
		tx.Currency = core.DefaultCurrency
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.items = append([]core.Transaction{tx}, s.items...)
	snapshot := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	notify(ctx, observers, Change{Op: OpAdd, ID: tx.ID}, snapshot)
	return tx, nil
}

// Delete removes the transaction with the given id, leaving the relative
// order of all others unchanged. Deleting an unknown id is a no-op and does
// not notify observers.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := -1
	for i, tx := range s.items {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	snapshot := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	notify(ctx, observers, Change{Op: OpDelete, ID: id}, snapshot)
	return true
}

// List returns a copy of the sequence, newest first.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// DefaultCurrency returns the preferred currency for summary views.
func (s *Store) DefaultCurrency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultCurrency
}

// SetDefaultCurrency updates the preference and notifies observers. Unknown
// codes are accepted; formatting degrades gracefully downstream.
func (s *Store) SetDefaultCurrency(ctx context.Context, code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}

	s.mu.Lock()
	s.defaultCurrency = code
	snapshot := s.snapshotLocked()
	observers := s.observers
	s.mu.Unlock()

	notify(ctx, observers, Change{Op: OpPreference, DefaultCurrency: code}, snapshot)
}

func (s *Store) snapshotLocked() []core.Transaction {
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

func notify(ctx context.Context, observers []Observer, change Change, snapshot []core.Transaction) {
	for _, o := range observers {
		o.LedgerChanged(ctx, change, snapshot)
	}
}
