package domain

// BoundingBox is an axis-aligned box in geographic coordinates. Boxes are
// derived from geometry on demand, never stored, so a transformed geometry
// can never carry a stale box.
type BoundingBox struct {
	MinLng float64 `json:"minLng"`
	MinLat float64 `json:"minLat"`
	MaxLng float64 `json:"maxLng"`
	MaxLat float64 `json:"maxLat"`
}

// Bounds computes the bounding box of a geometry. ok is false when the
// geometry holds no positions at all.
func Bounds(g Geometry) (box BoundingBox, ok bool) {
	first := true
	visitPositions(g.Coordinates, func(x, y float64) {
		if first {
			box = BoundingBox{MinLng: x, MinLat: y, MaxLng: x, MaxLat: y}
			first = false
			return
		}
		if x < box.MinLng {
			box.MinLng = x
		}
		if x > box.MaxLng {
			box.MaxLng = x
		}
		if y < box.MinLat {
			box.MinLat = y
		}
		if y > box.MaxLat {
			box.MaxLat = y
		}
	})
	return box, !first
}

// Overlaps reports whether two boxes intersect. Two boxes overlap unless
// one lies entirely left of, right of, above, or below the other; touching
// edges count as overlap. The test is symmetric.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	if b.MaxLng < o.MinLng || b.MinLng > o.MaxLng {
		return false
	}
	if b.MaxLat < o.MinLat || b.MinLat > o.MaxLat {
		return false
	}
	return true
}

// OverlappingIndices selects the depth polygons whose precomputed boxes
// overlap the zone box. This bounding-box pass picks candidate depth
// evidence for a zone; it is not a polygon clip, and zero or many matches
// are both normal.
func OverlappingIndices(zone BoundingBox, depthBoxes []BoundingBox) []int {
	var matches []int
	for i, db := range depthBoxes {
		if zone.Overlaps(db) {
			matches = append(matches, i)
		}
	}
	return matches
}
