package domain

// RD ↔ WGS84 conversion via a first-order affine approximation anchored at
// the Amersfoort reference point, with constant per-axis scale factors.
//
// This is deliberately not a rigorous EPSG:28992 projection: over the Dutch
// extent the error stays within tens of meters, which the bounding-box
// correlator absorbs. The transform is pure, total over all finite inputs,
// and exactly invertible, so round trips reproduce the input up to floating
// point noise.

const (
	// Amersfoort: RD origin of the national grid and its WGS84 equivalent.
	rdAnchorX = 155000.0
	rdAnchorY = 463000.0
	anchorLon = 5.387206
	anchorLat = 52.155172

	// Meters per degree at the anchor latitude.
	metersPerDegreeLat = 111194.9
	metersPerDegreeLon = 68455.0
)

// ProjectedPoint is a coordinate in the RD metric grid.
type ProjectedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GeographicPoint is a WGS84 lon/lat coordinate.
type GeographicPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// ToGeographic converts an RD grid point to WGS84.
func ToGeographic(p ProjectedPoint) GeographicPoint {
	return GeographicPoint{
		Lon: anchorLon + (p.X-rdAnchorX)/metersPerDegreeLon,
		Lat: anchorLat + (p.Y-rdAnchorY)/metersPerDegreeLat,
	}
}

// ToProjected converts a WGS84 point back to the RD grid.
func ToProjected(p GeographicPoint) ProjectedPoint {
	return ProjectedPoint{
		X: rdAnchorX + (p.Lon-anchorLon)*metersPerDegreeLon,
		Y: rdAnchorY + (p.Lat-anchorLat)*metersPerDegreeLat,
	}
}

// GeometryToGeographic returns a copy of an RD geometry with every position
// converted to WGS84. The input geometry is not mutated.
func GeometryToGeographic(g Geometry) Geometry {
	return Geometry{
		Type: g.Type,
		Coordinates: mapPositions(g.Coordinates, func(x, y float64) (float64, float64) {
			geo := ToGeographic(ProjectedPoint{X: x, Y: y})
			return geo.Lon, geo.Lat
		}),
		CRS: CRSWGS84,
	}
}
