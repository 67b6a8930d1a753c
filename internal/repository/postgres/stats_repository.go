package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/importer"
)

type statsRepository struct {
	db     *DB
	table  string
	logger *zap.Logger
}

// NewStatsRepository создает новый экземпляр stats repository
func NewStatsRepository(db *DB, table string, logger *zap.Logger) repository.StatsRepository {
	return &statsRepository{
		db:     db,
		table:  importer.QuoteTable(table),
		logger: logger,
	}
}

// GetStatistics возвращает количество регионов, с границей и с кодом INSEE
func (r *statsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS regions,
			COUNT(boundary) AS with_boundary,
			COUNT(insee) AS with_insee
		FROM %s
	`, r.table)

	var stats domain.Statistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		r.logger.Error("failed to get region stats", zap.Error(err))
		return nil, fmt.Errorf("get region stats: %w", err)
	}

	return &stats, nil
}
