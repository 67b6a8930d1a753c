package domain

// Point is a single WGS84 position. X is the longitude, Y the latitude.
type Point struct {
	X float64 `json:"lon"`
	Y float64 `json:"lat"`
}

// Ring is a closed sequence of points in its original winding order.
type Ring []Point

// Polygon is an exterior ring followed by zero or more hole rings.
type Polygon struct {
	Exterior  Ring
	Interiors []Ring
}

// Rings returns the exterior ring first, then the holes.
func (p Polygon) Rings() []Ring {
	rings := make([]Ring, 0, len(p.Interiors)+1)
	rings = append(rings, p.Exterior)
	return append(rings, p.Interiors...)
}

// MultiPolygon is an ordered set of simple polygons.
type MultiPolygon []Polygon
