package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/config"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/pkg/logger"
	"github.com/cosmogony-cities/internal/repository/cache"
	"github.com/cosmogony-cities/internal/repository/postgres"
	redisRepo "github.com/cosmogony-cities/internal/repository/redis"
	"github.com/cosmogony-cities/internal/usecase"
)

type importOptions struct {
	input            string
	connectionString string
	table            string
	batchSize        int
	workers          int
	timeout          time.Duration
	dryRun           bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import cities from a cosmogony export (.json, .jsonl, optionally .gz)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.applyTo(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runImport(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Cosmogony export to read (default $IMPORT_INPUT)")
	cmd.Flags().StringVarP(&opts.connectionString, "connection-string", "c", "", "PostgreSQL connection string (default $DATABASE_URL or DB_* variables)")
	cmd.Flags().StringVar(&opts.table, "table", "", "Destination table (default $IMPORT_TABLE)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Rows per INSERT statement (default $IMPORT_BATCH_SIZE)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parallel render workers (default $IMPORT_WORKERS)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the whole run after this duration (default $IMPORT_TIMEOUT)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Read and render but do not touch the database")

	return cmd
}

// applyTo overrides environment values with the flags given on the command line
func (o importOptions) applyTo(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Import.Input = o.input
	}
	if flags.Changed("connection-string") {
		cfg.Database.URL = o.connectionString
	}
	if flags.Changed("table") {
		cfg.Import.Table = o.table
	}
	if flags.Changed("batch-size") {
		cfg.Import.BatchSize = o.batchSize
	}
	if flags.Changed("workers") {
		cfg.Import.Workers = o.workers
	}
	if flags.Changed("timeout") {
		cfg.Import.Timeout = o.timeout
	}
	if flags.Changed("dry-run") {
		cfg.Import.DryRun = o.dryRun
	}
}

func runImport(ctx context.Context, cfg *config.Config) error {
	if cfg.Import.Input == "" {
		return errors.New("no input given: use --input or IMPORT_INPUT")
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting cities import",
		zap.String("input", cfg.Import.Input),
		zap.String("table", cfg.Import.Table),
		zap.Int("batch_size", cfg.Import.BatchSize),
		zap.Int("workers", cfg.Import.Workers),
		zap.Bool("dry_run", cfg.Import.DryRun))

	var loader repository.RegionLoader
	if !cfg.Import.DryRun {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			logCauses(log, "Failed to connect to PostgreSQL", err)
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		loader = postgres.NewRegionLoader(db)
	}

	var (
		cacheRepo  repository.CacheRepository
		streamRepo repository.StreamRepository
	)
	if cfg.Redis.Enabled && !cfg.Import.DryRun {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			// уведомления необязательны, импорт продолжается
			log.Warn("Redis unavailable, cache invalidation and events disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = cache.NewCacheRepository(redisClient)
			streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)
		}
	}

	uc := usecase.NewImportUseCase(usecase.OpenFileSource, loader, cacheRepo, streamRepo, log)
	result, err := uc.Run(ctx, usecase.ImportOptions{
		Input:     cfg.Import.Input,
		Table:     cfg.Import.Table,
		BatchSize: cfg.Import.BatchSize,
		Workers:   cfg.Import.Workers,
		Timeout:   cfg.Import.Timeout,
		DryRun:    cfg.Import.DryRun,
	})
	if err != nil {
		logCauses(log, "Import failed", err)
		return err
	}

	log.Info("Import complete",
		zap.String("run_id", result.RunID.String()),
		zap.Int("cities", result.Cities),
		zap.Int64("rows", result.Rows),
		zap.Duration("duration", result.Duration))
	return nil
}

// logCauses logs err and every error it wraps, outermost first
func logCauses(log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err), zap.Strings("causes", causeChain(err)))
}

func causeChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				chain = append(chain, causeChain(inner)...)
			}
			return chain
		default:
			err = errors.Unwrap(err)
		}
	}
	return chain
}
