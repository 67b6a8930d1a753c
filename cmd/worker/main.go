package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/config"
	"github.com/cosmogony-cities/internal/pkg/logger"
	"github.com/cosmogony-cities/internal/repository/cache"
	"github.com/cosmogony-cities/internal/repository/postgres"
	redisRepo "github.com/cosmogony-cities/internal/repository/redis"
	"github.com/cosmogony-cities/internal/usecase"
	"github.com/cosmogony-cities/internal/worker"
	"github.com/cosmogony-cities/internal/worker/cities"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Cities Import Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("default_input", cfg.Import.Input))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis; streams are required here
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Repositories and use case
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)
	importUC := usecase.NewImportUseCase(
		usecase.OpenFileSource,
		postgres.NewRegionLoader(db),
		cache.NewCacheRepository(redisClient),
		streamRepo,
		log,
	)

	// 6. Worker
	importWorker := cities.NewImportWorker(
		streamRepo,
		importUC,
		usecase.ImportOptions{
			Input:     cfg.Import.Input,
			Table:     cfg.Import.Table,
			BatchSize: cfg.Import.BatchSize,
			Workers:   cfg.Import.Workers,
			Timeout:   cfg.Import.Timeout,
		},
		cfg.Worker.ConsumerGroup,
		cfg.Worker.ConsumerName,
		cfg.Worker.MaxRetries,
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(importWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
