package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/kv"
	"fintrack/internal/log"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new store factory.
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateStore implements Factory.CreateStore.
func (f *DefaultFactory) CreateStore(_ context.Context, cfg *config.Config) (*Result, error) {
	t := Type(cfg.KVBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.KVBackend)
	}

	switch t {
	case MemoryBackend:
		return f.createMemory()
	case FileBackend:
		return f.createFile(cfg)
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case RedisBackend:
		return f.createRedis(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", t)
	}
}

func (f *DefaultFactory) createMemory() (*Result, error) {
	f.logger.Info("initialized memory backend")
	return &Result{Store: kv.NewMemory()}, nil
}

func (f *DefaultFactory) createFile(cfg *config.Config) (*Result, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	store, err := kv.NewFile(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file backend: %w", err)
	}

	f.logger.Info("initialized file backend", "data_dir", dataDir)
	return &Result{Store: store}, nil
}

func (f *DefaultFactory) createSQLite(cfg *config.Config) (*Result, error) {
	store, err := kv.NewSQLite(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
	}

	f.logger.Info("initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createRedis(cfg *config.Config) (*Result, error) {
	store, err := kv.NewRedis(cfg.RedisURL, "")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis backend: %w", err)
	}

	f.logger.Info("initialized Redis backend")
	return &Result{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}
