package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/importer"
	"github.com/cosmogony-cities/internal/metrics"
	"github.com/cosmogony-cities/internal/source"
)

// Cache key prefixes dropped after every committed import.
const (
	RegionCachePrefix = "region:"
	StatsCachePrefix  = "stats:"
)

// ZoneSource yields zones until io.EOF. See source.Reader.
type ZoneSource interface {
	Next() (domain.Zone, error)
	Close() error
}

// SourceOpener opens the input named by path.
type SourceOpener func(path string) (ZoneSource, error)

// OpenFileSource opens a cosmogony export from disk.
func OpenFileSource(path string) (ZoneSource, error) {
	r, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ImportOptions describes one run.
type ImportOptions struct {
	Input     string
	Table     string
	BatchSize int
	Workers   int
	Timeout   time.Duration
	DryRun    bool
	// RequestID links the run to a stream request, if any.
	RequestID *uuid.UUID
}

func (o ImportOptions) validate() error {
	switch {
	case o.Input == "":
		return errors.New("input path is required")
	case o.Table == "":
		return errors.New("table name is required")
	case o.BatchSize < 1 || o.BatchSize > importer.MaxBatchSize:
		return fmt.Errorf("batch size %d out of range 1..%d", o.BatchSize, importer.MaxBatchSize)
	}
	return nil
}

// ImportUseCase runs the read, normalize, render and load pipeline.
type ImportUseCase struct {
	open       SourceOpener
	loader     repository.RegionLoader
	cacheRepo  repository.CacheRepository
	streamRepo repository.StreamRepository
	logger     *zap.Logger
}

// NewImportUseCase создает новый экземпляр ImportUseCase.
// cacheRepo и streamRepo могут быть nil, если Redis выключен.
func NewImportUseCase(
	open SourceOpener,
	loader repository.RegionLoader,
	cacheRepo repository.CacheRepository,
	streamRepo repository.StreamRepository,
	logger *zap.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		open:       open,
		loader:     loader,
		cacheRepo:  cacheRepo,
		streamRepo: streamRepo,
		logger:     logger,
	}
}

// Run executes one import. The returned result is never nil once the options
// are valid; on error it holds what was counted before the failure and nothing
// has been committed.
func (uc *ImportUseCase) Run(ctx context.Context, opts ImportOptions) (*domain.ImportResult, error) {
	if err := opts.validate(); err != nil {
		metrics.ObserveImport(nil, err)
		return nil, fmt.Errorf("invalid import options: %w", err)
	}

	result := &domain.ImportResult{
		RunID:  uuid.New(),
		Table:  opts.Table,
		DryRun: opts.DryRun,
	}
	log := uc.logger.With(
		zap.String("run_id", result.RunID.String()),
		zap.String("table", opts.Table),
	)
	started := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	err := uc.run(ctx, opts, result, log)
	result.Duration = time.Since(started)
	metrics.ObserveImport(result, err)

	if err != nil {
		log.Error("Import failed",
			zap.Int("zones", result.Zones),
			zap.Int("cities", result.Cities),
			zap.Duration("duration", result.Duration),
			zap.Error(err))
		return result, err
	}

	log.Info("Import finished",
		zap.Int("zones", result.Zones),
		zap.Int("cities", result.Cities),
		zap.Int("skipped", result.Skipped),
		zap.Int("batches", result.Batches),
		zap.Int64("rows", result.Rows),
		zap.Bool("dry_run", result.DryRun),
		zap.Duration("duration", result.Duration))

	if !opts.DryRun {
		uc.afterCommit(ctx, result, opts.RequestID, log)
	}
	return result, nil
}

func (uc *ImportUseCase) run(ctx context.Context, opts ImportOptions, result *domain.ImportResult, log *zap.Logger) error {
	regions, err := uc.readCities(ctx, opts.Input, result, log)
	if err != nil {
		return err
	}

	batches, err := importer.Dispatch(ctx, opts.Table, importer.Chunk(regions, opts.BatchSize), opts.Workers)
	if err != nil {
		return fmt.Errorf("render batches: %w", err)
	}
	result.Batches = len(batches)

	if opts.DryRun {
		log.Info("Dry run, loader skipped", zap.Int("batches", len(batches)))
		return nil
	}

	rows, err := uc.loader.Load(ctx, opts.Table, batches)
	if err != nil {
		return fmt.Errorf("load regions: %w", err)
	}
	result.Rows = rows
	return nil
}

// readCities keeps the normalized city zones of the input in input order.
func (uc *ImportUseCase) readCities(ctx context.Context, input string, result *domain.ImportResult, log *zap.Logger) ([]domain.AdministrativeRegion, error) {
	src, err := uc.open(input)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", input, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn("Failed to close input", zap.Error(err))
		}
	}()

	var regions []domain.AdministrativeRegion
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		zone, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var decErr *source.DecodeError
		if errors.As(err, &decErr) {
			result.Skipped++
			log.Warn("Skipping zone", zap.Int("index", decErr.Index), zap.Error(decErr.Err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read input %s: %w", input, err)
		}

		result.Zones++
		if !zone.IsCity() {
			continue
		}
		regions = append(regions, importer.Normalize(zone))
	}

	result.Cities = len(regions)
	log.Debug("Input read",
		zap.Int("zones", result.Zones),
		zap.Int("cities", result.Cities),
		zap.Int("skipped", result.Skipped))
	return regions, nil
}

// afterCommit drops stale lookups and announces the new content. Failures here
// are logged only: the data is already committed.
func (uc *ImportUseCase) afterCommit(ctx context.Context, result *domain.ImportResult, requestID *uuid.UUID, log *zap.Logger) {
	// notifications are not bound by the run deadline
	ctx = context.WithoutCancel(ctx)

	if uc.cacheRepo != nil {
		for _, prefix := range []string{RegionCachePrefix, StatsCachePrefix} {
			n, err := uc.cacheRepo.DeleteByPrefix(ctx, prefix)
			if err != nil {
				log.Warn("Failed to invalidate cache", zap.String("prefix", prefix), zap.Error(err))
				continue
			}
			log.Debug("Cache invalidated", zap.String("prefix", prefix), zap.Int64("keys", n))
		}
	}

	uc.PublishCompleted(ctx, result, requestID, nil)
}

// PublishCompleted sends the run outcome to the completion stream, if streams are enabled.
func (uc *ImportUseCase) PublishCompleted(ctx context.Context, result *domain.ImportResult, requestID *uuid.UUID, runErr error) {
	if uc.streamRepo == nil {
		return
	}
	if result == nil {
		result = &domain.ImportResult{}
	}

	event := result.CompletedEvent(requestID, runErr)
	if err := uc.streamRepo.PublishToStream(ctx, domain.StreamCitiesImported, event); err != nil {
		uc.logger.Warn("Failed to publish import event",
			zap.String("run_id", result.RunID.String()),
			zap.Error(err))
	}
}
