package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain/repository"
	"github.com/cosmogony-cities/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewRegionLoaderForTest creates a region loader with test database and logger
func NewRegionLoaderForTest(db *sqlx.DB, logger *zap.Logger) repository.RegionLoader {
	return postgres.NewRegionLoader(NewDBForTest(db, logger))
}

// NewRegionRepositoryForTest creates a region repository with test database and logger
func NewRegionRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.RegionRepository {
	return postgres.NewRegionRepository(NewDBForTest(db, logger), RegionsTable)
}

// NewStatsRepositoryForTest creates a stats repository with test database and logger
func NewStatsRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StatsRepository {
	return postgres.NewStatsRepository(NewDBForTest(db, logger), RegionsTable, logger)
}
