package repository

import (
	"context"

	"github.com/cosmogony-cities/internal/domain"
)

// RegionLoader заменяет содержимое таблицы регионов
type RegionLoader interface {
	// Load truncates table and executes the batches in order inside one transaction.
	// It returns the number of inserted rows; on error nothing is committed.
	Load(ctx context.Context, table string, batches []domain.InsertBatch) (int64, error)
}

// RegionRepository читает загруженные регионы
type RegionRepository interface {
	// GetByID возвращает регион по идентификатору зоны
	GetByID(ctx context.Context, id int64) (*domain.RegionSummary, error)

	// GetByURI возвращает регион по uri (admin:fr:<insee> или admin:osm:<osm_id>)
	GetByURI(ctx context.Context, uri string) (*domain.RegionSummary, error)

	// GetByPoint возвращает регионы, чья граница содержит точку
	GetByPoint(ctx context.Context, lat, lon float64) ([]*domain.RegionSummary, error)
}
