package cities

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/usecase"
	"github.com/cosmogony-cities/internal/worker"
)

const defaultRetryDelay = 5 * time.Second

// ImportRunner is the part of usecase.ImportUseCase the worker drives.
type ImportRunner interface {
	Run(ctx context.Context, opts usecase.ImportOptions) (*domain.ImportResult, error)
	PublishCompleted(ctx context.Context, result *domain.ImportResult, requestID *uuid.UUID, runErr error)
}

// ImportWorker выполняет импорт городов по запросам из stream:cities:import
type ImportWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	runner       ImportRunner
	defaults     usecase.ImportOptions
	consumerName string
	maxRetries   int
	retryDelay   time.Duration
}

// NewImportWorker создает новый ImportWorker. defaults задает параметры импорта,
// которые запрос может переопределить (пока только путь к файлу).
func NewImportWorker(
	streamRepo repository.StreamRepository,
	runner ImportRunner,
	defaults usecase.ImportOptions,
	consumerGroup string,
	consumerName string,
	maxRetries int,
	logger *zap.Logger,
) *ImportWorker {
	if consumerName == "" {
		hostname, _ := os.Hostname()
		consumerName = fmt.Sprintf("%s-%d", hostname, os.Getpid())
	}

	return &ImportWorker{
		BaseWorker:   worker.NewBaseWorker("cities-import", consumerGroup, logger),
		streamRepo:   streamRepo,
		runner:       runner,
		defaults:     defaults,
		consumerName: consumerName,
		maxRetries:   maxRetries,
		retryDelay:   defaultRetryDelay,
	}
}

// SetRetryDelay меняет паузу между попытками
func (w *ImportWorker) SetRetryDelay(d time.Duration) {
	w.retryDelay = d
}

// Start читает запросы, пока воркер не остановлен или не отменен ctx
func (w *ImportWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ImportWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_retries", w.maxRetries))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamCitiesImport, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// Stop отменяет текущий импорт: транзакция откатывается, сообщение остается pending
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.StopChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamCitiesImport, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				logger.Info("Stream closed")
				return nil
			}
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *ImportWorker) handleMessage(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var event domain.ImportRequestEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse import request, skipping", zap.Error(err))
		// ACK битое сообщение чтобы не застревало
		w.ack(ctx, msg.ID, logger)
		return
	}

	opts := w.defaults
	if event.Input != "" {
		opts.Input = event.Input
	}
	requestID := event.RequestID
	opts.RequestID = &requestID
	logger = logger.With(zap.String("request_id", requestID.String()))

	result, err := w.runWithRetries(ctx, opts, logger)
	if ctx.Err() != nil {
		logger.Info("Import interrupted, message left pending")
		return
	}
	if err != nil {
		logger.Error("Import failed, giving up", zap.Int("attempts", w.maxRetries+1), zap.Error(err))
		w.runner.PublishCompleted(ctx, result, &requestID, err)
	}

	w.ack(ctx, msg.ID, logger)
}

func (w *ImportWorker) runWithRetries(ctx context.Context, opts usecase.ImportOptions, logger *zap.Logger) (*domain.ImportResult, error) {
	var (
		result *domain.ImportResult
		err    error
	)

	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying import", zap.Int("attempt", attempt+1), zap.Error(err))
			select {
			case <-time.After(w.retryDelay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}

		result, err = w.runner.Run(ctx, opts)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return result, err
		}
	}

	return result, err
}

func (w *ImportWorker) ack(ctx context.Context, messageID string, logger *zap.Logger) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamCitiesImport, w.ConsumerGroup(), messageID); err != nil {
		// Не критично - сообщение будет переобработано
		logger.Error("Failed to ack message", zap.Error(err))
	}
}
