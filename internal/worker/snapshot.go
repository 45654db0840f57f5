// Package worker archives periodic ledger snapshots.
//
// The worker runs as its own process, sharing the key-value store with the
// web app. It writes a timestamped JSON copy of the full sequence whenever a
// change event arrives over AMQP and on a fixed interval as a backstop for
// lost messages.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// Consumer is the AMQP surface the worker listens on.
type Consumer interface {
	ConsumeChanges(ctx context.Context, handler func(*amqp.ChangeMessage) error) error
}

// SnapshotWorker copies the persisted ledger into dated archive files.
type SnapshotWorker struct {
	persister *ledger.Persister
	dir       string
	interval  time.Duration
	logger    *log.Logger
	now       func() time.Time
}

func NewSnapshotWorker(persister *ledger.Persister, dir string, interval time.Duration, logger *log.Logger) *SnapshotWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SnapshotWorker{
		persister: persister,
		dir:       dir,
		interval:  interval,
		logger:    logger.WithComponent(log.ComponentWorker),
		now:       time.Now,
	}
}

// snapshot is the archive file layout.
type snapshot struct {
	TakenAt         time.Time     `json:"taken_at"`
	DefaultCurrency string        `json:"default_currency,omitempty"`
	Count           int           `json:"count"`
	Transactions    []core.Record `json:"transactions"`
}

// Snapshot loads the current ledger and writes one archive file. The returned
// path identifies the written file.
func (w *SnapshotWorker) Snapshot(ctx context.Context) (string, error) {
	items, currency, badDates, err := w.persister.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}
	if badDates > 0 {
		w.logger.Warn("snapshot includes records with unparseable dates", log.FieldCount, badDates)
	}

	records := make([]core.Record, len(items))
	for i, tx := range items {
		records[i] = core.ToRecord(tx)
	}

	taken := w.now().UTC()
	data, err := json.MarshalIndent(snapshot{
		TakenAt:         taken,
		DefaultCurrency: currency,
		Count:           len(records),
		Transactions:    records,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	path := filepath.Join(w.dir, "ledger-"+taken.Format("20060102-150405")+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	w.logger.Info("wrote ledger snapshot", "path", path, log.FieldCount, len(records))
	return path, nil
}

// HandleChange processes one change event from the queue. Returning an error
// requeues the delivery.
func (w *SnapshotWorker) HandleChange(ctx context.Context) func(*amqp.ChangeMessage) error {
	return func(msg *amqp.ChangeMessage) error {
		w.logger.Info("processing ledger change",
			log.FieldOperation, msg.Op, log.FieldTxID, msg.ID)
		_, err := w.Snapshot(ctx)
		return err
	}
}

// Run consumes change events and takes interval snapshots until the context
// ends. Both loops stop together.
func (w *SnapshotWorker) Run(ctx context.Context, consumer Consumer) error {
	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			err := consumer.ConsumeChanges(ctx, w.HandleChange(ctx))
			if err == context.Canceled {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := w.Snapshot(ctx); err != nil {
					w.logger.Error("periodic snapshot failed", log.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}
