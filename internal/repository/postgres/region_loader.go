package postgres

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/importer"
)

// loadTx is the part of *sqlx.Tx the loader needs.
type loadTx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	Commit() error
	Rollback() error
}

type regionLoader struct {
	begin  func(ctx context.Context) (loadTx, error)
	logger *zap.Logger
}

// NewRegionLoader создает загрузчик, заменяющий содержимое таблицы в одной транзакции
func NewRegionLoader(db *DB) repository.RegionLoader {
	return &regionLoader{
		begin: func(ctx context.Context) (loadTx, error) {
			tx, err := db.BeginTxx(ctx, nil)
			if err != nil {
				return nil, err
			}
			return tx, nil
		},
		logger: db.logger,
	}
}

// Load clears table and inserts the batches in order. Readers see either the
// previous content or the complete new one.
func (l *regionLoader) Load(ctx context.Context, table string, batches []domain.InsertBatch) (rows int64, err error) {
	tx, err := l.begin(ctx)
	if err != nil {
		return 0, &ConnectionError{Err: err}
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			l.logger.Error("Failed to rollback load transaction", zap.Error(rbErr))
		}
	}()

	truncate := "TRUNCATE TABLE " + importer.QuoteTable(table)
	if _, err := tx.ExecContext(ctx, truncate); err != nil {
		return 0, &StatementError{Stage: StageTruncate, Seq: -1, Statement: truncate, Err: err}
	}

	for _, batch := range batches {
		res, err := tx.ExecContext(ctx, batch.Statement, batch.Args...)
		if err != nil {
			return 0, &StatementError{
				Stage:     StageInsert,
				Seq:       batch.Seq,
				Rows:      batch.Rows,
				Statement: batch.Statement,
				Err:       err,
			}
		}

		affected, raErr := res.RowsAffected()
		if raErr != nil {
			affected = int64(batch.Rows)
		}
		rows += affected

		l.logger.Debug("Batch inserted",
			zap.String("table", table),
			zap.Int("batch", batch.Seq),
			zap.Int64("rows", affected))
	}

	if err := tx.Commit(); err != nil {
		return 0, &StatementError{Stage: StageCommit, Seq: -1, Err: err}
	}

	return rows, nil
}
