// Package region holds the spatial region of interest for an extraction run.
package region

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Bounding box of the Sundarbans survey area, corners (88.0, 21.5) and
// (90.0, 22.5) in lon/lat degrees.
var defaultBound = orb.Bound{Min: orb.Point{88.0, 21.5}, Max: orb.Point{90.0, 22.5}}

// Region is an immutable region of interest: a single point or polygon with
// a fixed centroid.
type Region struct {
	geom orb.Geometry
}

// Default returns the region used when none is configured: the centroid of
// the Sundarbans bounding box.
func Default() Region {
	return FromBound(defaultBound)
}

// FromPoint builds a point region from lon/lat degrees.
func FromPoint(lon, lat float64) Region {
	return Region{geom: orb.Point{lon, lat}}
}

// FromBound reduces a bounding box to its centroid point, the same
// derivation the default region uses.
func FromBound(b orb.Bound) Region {
	return Region{geom: orb.Point{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
	}}
}

// FromGeoJSONFile loads a region from a GeoJSON file holding a geometry, a
// feature, or a feature collection. For collections the first feature is
// used.
func FromGeoJSONFile(path string) (Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Region{}, fmt.Errorf("read region file: %w", err)
	}
	r, err := FromGeoJSON(data)
	if err != nil {
		return Region{}, fmt.Errorf("region file %s: %w", path, err)
	}
	return r, nil
}

// FromGeoJSON parses a GeoJSON document into a Region.
func FromGeoJSON(data []byte) (Region, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Region{}, fmt.Errorf("parse geojson: %w", err)
	}

	var geom orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Region{}, fmt.Errorf("parse feature collection: %w", err)
		}
		if len(fc.Features) == 0 {
			return Region{}, errors.New("feature collection has no features")
		}
		geom = fc.Features[0].Geometry
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Region{}, fmt.Errorf("parse feature: %w", err)
		}
		geom = f.Geometry
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Region{}, fmt.Errorf("parse geometry: %w", err)
		}
		geom = g.Geometry()
	}
	return fromGeometry(geom)
}

// ParseBBox parses "minLon,minLat,maxLon,maxLat" into a centroid-point
// region.
func ParseBBox(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("bounding box %q: want minLon,minLat,maxLon,maxLat", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Region{}, fmt.Errorf("bounding box value %q: %w", p, err)
		}
		vals[i] = v
	}
	if vals[0] > vals[2] || vals[1] > vals[3] {
		return Region{}, fmt.Errorf("bounding box %q: min corner exceeds max corner", s)
	}
	return FromBound(orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}), nil
}

func fromGeometry(g orb.Geometry) (Region, error) {
	if g == nil {
		return Region{}, errors.New("feature has no geometry")
	}
	switch g.(type) {
	case orb.Point, orb.Polygon:
		return Region{geom: g}, nil
	default:
		return Region{}, fmt.Errorf("unsupported region geometry %s: want Point or Polygon", g.GeoJSONType())
	}
}

// IsZero reports whether no geometry is attached.
func (r Region) IsZero() bool {
	return r.geom == nil
}

// Geometry returns the underlying geometry.
func (r Region) Geometry() orb.Geometry {
	return r.geom
}

// GeoJSON returns the geometry in GeoJSON form for wire transfer.
func (r Region) GeoJSON() *geojson.Geometry {
	return geojson.NewGeometry(r.geom)
}

// Centroid returns the fixed representative coordinate of the region: the
// point itself for point regions, the area centroid for polygons.
func (r Region) Centroid() orb.Point {
	switch g := r.geom.(type) {
	case orb.Point:
		return g
	default:
		c, _ := planar.CentroidArea(r.geom)
		return c
	}
}

// Lon returns the longitude of the region's centroid.
func (r Region) Lon() float64 {
	return r.Centroid().Lon()
}

// Lat returns the latitude of the region's centroid.
func (r Region) Lat() float64 {
	return r.Centroid().Lat()
}
