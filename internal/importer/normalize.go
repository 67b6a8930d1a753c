// Package importer turns cosmogony zones into rendered INSERT batches for
// the administrative_regions table.
package importer

import (
	"sort"

	"github.com/cosmogony-cities/internal/domain"
)

// Normalize converts a city zone into its storage form. It never fails:
// missing tags or geometries become nil fields.
func Normalize(zone domain.Zone) domain.AdministrativeRegion {
	region := domain.AdministrativeRegion{
		ID:       zone.ID,
		Name:     zone.Name,
		Level:    domain.CityAdminLevel,
		PostCode: postCode(zone.Tags.Postcodes()),
		Coord:    zone.Center,
		Boundary: zone.Boundary,
	}

	// INSEE codes are kept verbatim, leading zeros included.
	if insee, ok := zone.Tags.Insee(); ok {
		region.Insee = &insee
		region.URI = domain.URIPrefixInsee + insee
	} else {
		region.URI = domain.URIPrefixOSM + zone.OSMID
	}

	return region
}

// postCode sorts the codes as strings and keeps the first one, or "first-last"
// when there are several. The range is lexicographic, not numeric.
func postCode(codes []string) *string {
	if len(codes) == 0 {
		return nil
	}

	sort.Strings(codes)

	code := codes[0]
	if len(codes) > 1 {
		code = codes[0] + "-" + codes[len(codes)-1]
	}
	return &code
}
