// Package backend selects and constructs the key-value store persisting the
// ledger, based on configuration.
package backend

import (
	"context"

	"fintrack/internal/config"
	"fintrack/internal/kv"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result contains the store instance and optional cleanup function.
type Result struct {
	Store   kv.Store
	Cleanup CleanupFunc
}

// Type represents the kind of key-value backend.
type Type string

const (
	MemoryBackend Type = "memory"
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	RedisBackend  Type = "redis"
)

// String implements fmt.Stringer.
func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, FileBackend, SQLiteBackend, RedisBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{MemoryBackend, FileBackend, SQLiteBackend, RedisBackend}
}

// Factory creates key-value stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, cfg *config.Config) (*Result, error)
}
