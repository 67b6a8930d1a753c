package domain

import "strings"

// ZoneType is the cosmogony classification of a zone.
type ZoneType string

const (
	ZoneTypeSuburb            ZoneType = "suburb"
	ZoneTypeCityDistrict      ZoneType = "city_district"
	ZoneTypeCity              ZoneType = "city"
	ZoneTypeStateDistrict     ZoneType = "state_district"
	ZoneTypeState             ZoneType = "state"
	ZoneTypeCountryRegion     ZoneType = "country_region"
	ZoneTypeCountry           ZoneType = "country"
	ZoneTypeNonAdministrative ZoneType = "non_administrative"
)

// Zone is one raw administrative area read from a cosmogony export.
type Zone struct {
	ID       int64
	OSMID    string
	Name     string
	Tags     Tags
	Center   *Point
	Boundary *MultiPolygon
	// ZoneType is nil when the exporter could not classify the zone.
	ZoneType *ZoneType
}

// IsCity reports whether the zone is classified as a city.
func (z *Zone) IsCity() bool {
	return z.ZoneType != nil && *z.ZoneType == ZoneTypeCity
}

// Tag keys read during normalization.
const (
	TagInsee      = "ref:INSEE"
	TagPostcode   = "addr:postcode"
	TagPostalCode = "postal_code"
)

// PostcodeSeparator joins several postal codes inside one tag value.
const PostcodeSeparator = ";"

// Tags is the free-form OSM tag mapping of a zone.
type Tags map[string]string

// Insee returns the French national reference code, if the zone has a non-empty one.
func (t Tags) Insee() (string, bool) {
	v, ok := t[TagInsee]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Postcodes returns the non-empty postal code segments in tag order.
// addr:postcode wins; postal_code is only read when addr:postcode is missing.
func (t Tags) Postcodes() []string {
	raw, ok := t[TagPostcode]
	if !ok {
		raw = t[TagPostalCode]
	}

	var codes []string
	for _, code := range strings.Split(raw, PostcodeSeparator) {
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
