package domain

// CityAdminLevel is the admin level given to every imported city.
const CityAdminLevel = 8

// URI prefixes of AdministrativeRegion.URI.
const (
	URIPrefixInsee = "admin:fr:"
	URIPrefixOSM   = "admin:osm:"
)

// AdministrativeRegion is a city ready to be stored in administrative_regions.
// Nil pointers are stored as SQL NULL.
type AdministrativeRegion struct {
	ID       int64
	Name     string
	URI      string
	PostCode *string
	Insee    *string
	Level    int
	Coord    *Point
	Boundary *MultiPolygon
}

// RegionSummary is a stored region as returned by the read API.
type RegionSummary struct {
	ID       int64    `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	URI      string   `json:"uri" db:"uri"`
	PostCode *string  `json:"post_code,omitempty" db:"post_code"`
	Insee    *string  `json:"insee,omitempty" db:"insee"`
	Level    *int     `json:"level,omitempty" db:"level"`
	Lat      *float64 `json:"lat,omitempty" db:"lat"`
	Lon      *float64 `json:"lon,omitempty" db:"lon"`
}

// Statistics summarizes the destination table.
type Statistics struct {
	Regions      int64 `json:"regions" db:"regions"`
	WithBoundary int64 `json:"with_boundary" db:"with_boundary"`
	WithInsee    int64 `json:"with_insee" db:"with_insee"`
}
