// Package kv defines the key-value persistence surface the ledger saves to.
//
// Values are whole JSON documents; every Set overwrites the full value for a
// key. There are no partial or incremental updates.
package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for keys that were never written.
var ErrKeyNotFound = errors.New("key not found")

// Store is the persistence port. Implementations must be safe for use from
// the single-threaded event flow plus the snapshot worker.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
