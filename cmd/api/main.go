package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/debtwise-ledger/internal/api"
	"github.com/debtwise-ledger/internal/api/service"
	"github.com/debtwise-ledger/internal/config"
	"github.com/debtwise-ledger/internal/data/cache"
	"github.com/debtwise-ledger/internal/data/mongo"
	"github.com/debtwise-ledger/internal/data/postgres"
	"github.com/debtwise-ledger/internal/logger"
	"github.com/debtwise-ledger/internal/obs"
	"github.com/debtwise-ledger/internal/platform/messaging/producers"
	"github.com/debtwise-ledger/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger and metrics
	log := logger.NewLogger(cfg)
	obs.Init()

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Redis is optional; the balance cache degrades to direct projection
	redisClient, err := persistence.NewRedisClient(appCtx, log, &cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, balance caching disabled", "error", err)
		redisClient = nil
	}

	// Initialize Kafka producer streaming appended ledger events
	eventProducer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories and cache
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	ledgerRepo := postgres.NewLedgerRepository(log, postgresDB)
	businessRepo := mongo.NewBusinessRepository(log, mongoDB.Database())
	balanceCache := cache.NewBalanceCache(log, redisClient, cfg.Redis.CacheTTL)

	// Initialize snapshot loader with its worker pool
	snapshotLoader, err := service.NewPooledSnapshotLoader(log, accountRepo, ledgerRepo, balanceCache, cfg.WorkerPool.Size)
	if err != nil {
		log.Error("Failed to initialize snapshot loader", "error", err)
		os.Exit(1)
	}

	// Initialize services
	services := api.Services{
		Accounts:       service.NewAccountService(log, postgresDB, accountRepo, ledgerRepo, balanceCache, eventProducer),
		Balances:       service.NewBalanceService(log, postgresDB, accountRepo, ledgerRepo, balanceCache, eventProducer),
		Links:          service.NewLinkService(log, postgresDB, accountRepo, ledgerRepo, balanceCache, eventProducer),
		Allocations:    service.NewAllocationService(log, snapshotLoader),
		BusinessLedger: service.NewBusinessService(log, businessRepo),
	}

	// Initialize REST server
	server := api.NewServer(log, cfg, services)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new work arrives
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	snapshotLoader.Shutdown()

	if err = eventProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if redisClient != nil {
		if err = redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", "error", err)
		}
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
