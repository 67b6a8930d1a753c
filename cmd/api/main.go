package main

// @title Cosmogony Cities API
// @version 1.0.0
// @description Read API над городами, загруженными из выгрузки cosmogony в administrative_regions.

// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/cosmogony-cities/docs"
	"github.com/cosmogony-cities/internal/config"
	httpDelivery "github.com/cosmogony-cities/internal/delivery/http"
	"github.com/cosmogony-cities/internal/delivery/http/handler"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/pkg/logger"
	"github.com/cosmogony-cities/internal/repository/cache"
	"github.com/cosmogony-cities/internal/repository/postgres"
	"github.com/cosmogony-cities/internal/usecase"
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

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Cosmogony Cities API",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("table", cfg.Import.Table))

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

	// 4. Connect to Redis (optional)
	var (
		redisClient *cache.Redis
		cacheRepo   repository.CacheRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
	}

	// 5. Repositories and use cases
	regionRepo := postgres.NewRegionRepository(db, cfg.Import.Table)
	statsRepo := postgres.NewStatsRepository(db, cfg.Import.Table, log)

	regionUC := usecase.NewRegionUseCase(regionRepo, cacheRepo, log, cfg.Cache.RegionCacheTTL)
	statsUC := usecase.NewStatsUseCase(statsRepo, cacheRepo, log, cfg.Cache.StatsCacheTTL)

	// 6. HTTP
	checks := map[string]handler.HealthChecker{"postgres": db}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewHealthHandler(log, checks),
		handler.NewRegionHandler(regionUC, log),
		handler.NewStatsHandler(statsUC, log),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped")
}
