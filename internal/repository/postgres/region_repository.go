package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/importer"
	apperrors "github.com/cosmogony-cities/internal/pkg/errors"
)

const regionColumns = `
	id, name, uri, post_code, insee, level,
	ST_Y(coord::geometry) AS lat,
	ST_X(coord::geometry) AS lon`

type regionRepository struct {
	db     *sqlx.DB
	table  string
	logger *zap.Logger
}

// NewRegionRepository создает новый экземпляр RegionRepository над таблицей table
func NewRegionRepository(db *DB, table string) repository.RegionRepository {
	return &regionRepository{
		db:     db.DB,
		table:  importer.QuoteTable(table),
		logger: db.logger,
	}
}

// GetByID возвращает регион по ID
func (r *regionRepository) GetByID(ctx context.Context, id int64) (*domain.RegionSummary, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, regionColumns, r.table)

	var region domain.RegionSummary
	err := r.db.GetContext(ctx, &region, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrRegionNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get region by ID", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &region, nil
}

// GetByURI возвращает регион по uri
func (r *regionRepository) GetByURI(ctx context.Context, uri string) (*domain.RegionSummary, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE uri = $1 ORDER BY id LIMIT 1`, regionColumns, r.table)

	var region domain.RegionSummary
	err := r.db.GetContext(ctx, &region, query, uri)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrRegionNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get region by URI", zap.String("uri", uri), zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &region, nil
}

// GetByPoint возвращает регионы, граница которых содержит точку, от меньшего к большему
func (r *regionRepository) GetByPoint(ctx context.Context, lat, lon float64) ([]*domain.RegionSummary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE boundary IS NOT NULL
		  AND ST_Covers(boundary, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography)
		ORDER BY ST_Area(boundary) ASC, id ASC
	`, regionColumns, r.table)

	var regions []*domain.RegionSummary
	if err := r.db.SelectContext(ctx, &regions, query, lon, lat); err != nil {
		r.logger.Error("Failed to get regions by point",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
		return nil, apperrors.ErrDatabaseError
	}

	return regions, nil
}
