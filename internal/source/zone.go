package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cosmogony-cities/internal/domain"
)

type rawZone struct {
	ID       zoneIndex         `json:"id"`
	OSMID    string            `json:"osm_id"`
	Name     string            `json:"name"`
	ZoneType *domain.ZoneType  `json:"zone_type"`
	Tags     map[string]string `json:"tags"`
	Center   *geometry         `json:"center"`
	Geometry *geometry         `json:"geometry"`
}

// zoneIndex accepts both a bare number and the {"index": n} form.
type zoneIndex int64

func (z *zoneIndex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Index int64 `json:"index"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		*z = zoneIndex(wrapped.Index)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*z = zoneIndex(n)
	return nil
}

// geometry is a GeoJSON geometry object.
type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func decodeZone(raw json.RawMessage) (domain.Zone, error) {
	var rz rawZone
	if err := json.Unmarshal(raw, &rz); err != nil {
		return domain.Zone{}, err
	}

	if rz.OSMID == "" {
		return domain.Zone{}, errors.New("missing osm_id")
	}

	zone := domain.Zone{
		ID:       int64(rz.ID),
		OSMID:    rz.OSMID,
		Name:     rz.Name,
		Tags:     domain.Tags(rz.Tags),
		ZoneType: rz.ZoneType,
	}

	if rz.Center != nil {
		center, err := rz.Center.point()
		if err != nil {
			return domain.Zone{}, fmt.Errorf("center: %w", err)
		}
		zone.Center = center
	}

	if rz.Geometry != nil {
		boundary, err := rz.Geometry.multiPolygon()
		if err != nil {
			return domain.Zone{}, fmt.Errorf("geometry: %w", err)
		}
		zone.Boundary = boundary
	}

	return zone, nil
}

func (g *geometry) point() (*domain.Point, error) {
	if g.Type != "Point" {
		return nil, fmt.Errorf("expected Point, got %q", g.Type)
	}

	var pos []float64
	if err := json.Unmarshal(g.Coordinates, &pos); err != nil {
		return nil, err
	}
	p, err := position(pos)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (g *geometry) multiPolygon() (*domain.MultiPolygon, error) {
	switch g.Type {
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, err
		}
		mp := make(domain.MultiPolygon, 0, len(coords))
		for i, rings := range coords {
			poly, err := polygon(rings)
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
			mp = append(mp, poly)
		}
		return &mp, nil

	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, err
		}
		poly, err := polygon(rings)
		if err != nil {
			return nil, err
		}
		return &domain.MultiPolygon{poly}, nil

	default:
		return nil, fmt.Errorf("expected MultiPolygon, got %q", g.Type)
	}
}

func polygon(rings [][][]float64) (domain.Polygon, error) {
	if len(rings) == 0 {
		return domain.Polygon{}, errors.New("polygon without exterior ring")
	}

	exterior, err := ring(rings[0])
	if err != nil {
		return domain.Polygon{}, err
	}
	poly := domain.Polygon{Exterior: exterior}

	for _, r := range rings[1:] {
		hole, err := ring(r)
		if err != nil {
			return domain.Polygon{}, err
		}
		poly.Interiors = append(poly.Interiors, hole)
	}
	return poly, nil
}

func ring(positions [][]float64) (domain.Ring, error) {
	r := make(domain.Ring, 0, len(positions))
	for _, pos := range positions {
		p, err := position(pos)
		if err != nil {
			return nil, err
		}
		r = append(r, p)
	}
	return r, nil
}

// position keeps x and y; an altitude, if any, is dropped.
func position(pos []float64) (domain.Point, error) {
	if len(pos) < 2 {
		return domain.Point{}, fmt.Errorf("position with %d coordinates", len(pos))
	}
	return domain.Point{X: pos[0], Y: pos[1]}, nil
}
