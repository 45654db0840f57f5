package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	// The worker reads the same key-value store the web app writes.
	factory := backend.NewFactory(logger)
	res, err := factory.CreateStore(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to initialize storage backend",
			log.FieldError, err, log.FieldBackend, cfg.KVBackend)
		os.Exit(1)
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Error("backend cleanup failed", log.FieldError, err)
			}
		}()
	}

	persister := ledger.NewPersister(res.Store)
	snapshotWorker := worker.NewSnapshotWorker(persister, cfg.SnapshotDir, cfg.SnapshotInterval, logger)

	// Change events are optional; without a broker the worker still snapshots
	// on the interval.
	var consumer worker.Consumer
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		consumer = amqpClient
		logger.Info("initialized AMQP client",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("no AMQP URL configured, running on interval snapshots only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	// Take one snapshot at startup so a fresh deployment archives the
	// current state before any events arrive.
	if _, err := snapshotWorker.Snapshot(ctx); err != nil {
		logger.Error("startup snapshot failed", log.FieldError, err)
		// Keep running; the interval loop will retry.
	}

	if err := snapshotWorker.Run(ctx, consumer); err != nil && err != context.Canceled {
		logger.Error("worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("worker stopped gracefully")
}
