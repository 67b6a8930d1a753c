// Package wkt encodes points and multi-polygons as well-known text.
package wkt

import (
	"strconv"
	"strings"

	"github.com/cosmogony-cities/internal/domain"
)

const emptyMultiPolygon = "MULTIPOLYGON EMPTY"

// EncodePoint returns POINT(x y), or nil when there is no point.
func EncodePoint(p *domain.Point) *string {
	if p == nil {
		return nil
	}
	var b strings.Builder
	b.WriteString("POINT(")
	writeCoord(&b, *p)
	b.WriteByte(')')
	s := b.String()
	return &s
}

// EncodeMultiPolygon returns MULTIPOLYGON(((ring),(hole)),(...)), or nil when there is
// no boundary. A present but empty multipolygon is MULTIPOLYGON EMPTY, not nil.
// Rings keep their order and winding.
func EncodeMultiPolygon(mp *domain.MultiPolygon) *string {
	if mp == nil {
		return nil
	}
	if len(*mp) == 0 {
		s := emptyMultiPolygon
		return &s
	}

	var b strings.Builder
	b.WriteString("MULTIPOLYGON(")
	for i, poly := range *mp {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for j, ring := range poly.Rings() {
			if j > 0 {
				b.WriteByte(',')
			}
			writeRing(&b, ring)
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	s := b.String()
	return &s
}

func writeRing(b *strings.Builder, ring domain.Ring) {
	b.WriteByte('(')
	for i, p := range ring {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCoord(b, p)
	}
	b.WriteByte(')')
}

func writeCoord(b *strings.Builder, p domain.Point) {
	b.WriteString(formatFloat(p.X))
	b.WriteByte(' ')
	b.WriteString(formatFloat(p.Y))
}

// formatFloat prints the shortest decimal that parses back to the same float64.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
