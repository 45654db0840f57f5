package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("starting fintrack")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	// Build the key-value backend persisting the ledger.
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

	// Rehydrate the persisted sequence into the in-memory store.
	persister := ledger.NewPersister(res.Store)
	items, currency, badDates, err := persister.Load(context.Background())
	if err != nil {
		logger.Error("failed to load ledger", log.FieldError, err)
		os.Exit(1)
	}
	if badDates > 0 {
		logger.Warn("loaded records with unparseable dates", log.FieldCount, badDates)
	}
	if currency == "" {
		currency = cfg.DefaultCurrency
	}
	store := ledger.NewWith(items, currency)
	store.Subscribe(persister)
	logger.Info("ledger loaded",
		log.FieldCount, store.Len(),
		log.FieldCurrency, store.DefaultCurrency(),
		log.FieldBackend, cfg.KVBackend)

	// Publish change events when a broker is configured; the app runs fine
	// without one.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			store.Subscribe(amqpClient)
			logger.Info("initialized AMQP client",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, logger, apphttp.Options{
		SettleDelay: cfg.ExportSettleDelay,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second // chart exports render synchronously
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("starting fintrack server", "port", cfg.Port, log.FieldBackend, cfg.KVBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}
