package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
)

// RegionRow is a stored region read back with its geometries as text
type RegionRow struct {
	ID       int64          `db:"id"`
	Name     string         `db:"name"`
	URI      string         `db:"uri"`
	PostCode sql.NullString `db:"post_code"`
	Insee    sql.NullString `db:"insee"`
	Level    sql.NullInt64  `db:"level"`
	Coord    sql.NullString `db:"coord"`
	Boundary sql.NullString `db:"boundary"`
}

// GetRegionRow reads one row of the regions table by ID
func (tdb *TestDB) GetRegionRow(ctx context.Context, id int64) (*RegionRow, error) {
	var row RegionRow
	err := tdb.DB.GetContext(ctx, &row, `
		SELECT id, name, uri, post_code, insee, level,
			ST_AsText(coord) AS coord,
			ST_AsText(boundary) AS boundary
		FROM `+RegionsTable+`
		WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get region %d: %w", id, err)
	}
	return &row, nil
}
