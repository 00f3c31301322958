package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polygon(coords ...[]float64) Geometry {
	ring := make([]any, len(coords))
	for i, c := range coords {
		ring[i] = c
	}
	return Geometry{Type: "Polygon", Coordinates: []any{ring}}
}

func TestBounds_Polygon(t *testing.T) {
	g := polygon(
		[]float64{5.0, 52.0},
		[]float64{5.2, 52.0},
		[]float64{5.2, 52.1},
		[]float64{5.0, 52.1},
		[]float64{5.0, 52.0},
	)

	box, ok := Bounds(g)
	require.True(t, ok)
	assert.Equal(t, BoundingBox{MinLng: 5.0, MinLat: 52.0, MaxLng: 5.2, MaxLat: 52.1}, box)
}

func TestBounds_MultiPolygon(t *testing.T) {
	g := Geometry{
		Type: "MultiPolygon",
		Coordinates: []any{
			[]any{[]any{
				[]any{5.0, 52.0}, []any{5.1, 52.0}, []any{5.1, 52.1}, []any{5.0, 52.0},
			}},
			[]any{[]any{
				[]any{6.0, 53.0}, []any{6.1, 53.0}, []any{6.1, 53.1}, []any{6.0, 53.0},
			}},
		},
	}

	box, ok := Bounds(g)
	require.True(t, ok)
	assert.Equal(t, BoundingBox{MinLng: 5.0, MinLat: 52.0, MaxLng: 6.1, MaxLat: 53.1}, box)
}

func TestBounds_EmptyGeometry(t *testing.T) {
	_, ok := Bounds(Geometry{Type: "Polygon", Coordinates: []any{}})
	assert.False(t, ok)
}

func TestOverlaps_Symmetry(t *testing.T) {
	boxes := []BoundingBox{
		{MinLng: 0, MinLat: 0, MaxLng: 2, MaxLat: 2},
		{MinLng: 1, MinLat: 1, MaxLng: 3, MaxLat: 3},
		{MinLng: 5, MinLat: 5, MaxLng: 6, MaxLat: 6},
		{MinLng: 2, MinLat: 0, MaxLng: 4, MaxLat: 2}, // touching edge
		{MinLng: 0, MinLat: 3, MaxLng: 2, MaxLat: 4},
	}

	for i, a := range boxes {
		for j, b := range boxes {
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "symmetry for boxes %d,%d", i, j)
		}
	}
}

func TestOverlaps_FourWaySeparation(t *testing.T) {
	center := BoundingBox{MinLng: 2, MinLat: 2, MaxLng: 4, MaxLat: 4}

	left := BoundingBox{MinLng: 0, MinLat: 2, MaxLng: 1, MaxLat: 4}
	right := BoundingBox{MinLng: 5, MinLat: 2, MaxLng: 6, MaxLat: 4}
	below := BoundingBox{MinLng: 2, MinLat: 0, MaxLng: 4, MaxLat: 1}
	above := BoundingBox{MinLng: 2, MinLat: 5, MaxLng: 4, MaxLat: 6}

	assert.False(t, center.Overlaps(left))
	assert.False(t, center.Overlaps(right))
	assert.False(t, center.Overlaps(below))
	assert.False(t, center.Overlaps(above))
}

func TestOverlaps_TouchingEdgesCount(t *testing.T) {
	a := BoundingBox{MinLng: 0, MinLat: 0, MaxLng: 2, MaxLat: 2}
	b := BoundingBox{MinLng: 2, MinLat: 0, MaxLng: 4, MaxLat: 2}

	assert.True(t, a.Overlaps(b))
}

func TestOverlappingIndices(t *testing.T) {
	zone := BoundingBox{MinLng: 0, MinLat: 0, MaxLng: 2, MaxLat: 2}
	depthBoxes := []BoundingBox{
		{MinLng: 1, MinLat: 1, MaxLng: 3, MaxLat: 3}, // overlaps
		{MinLng: 5, MinLat: 5, MaxLng: 6, MaxLat: 6}, // disjoint
		{MinLng: -1, MinLat: -1, MaxLng: 1, MaxLat: 1}, // overlaps
	}

	assert.Equal(t, []int{0, 2}, OverlappingIndices(zone, depthBoxes))
}

func TestOverlappingIndices_NoMatches(t *testing.T) {
	zone := BoundingBox{MinLng: 0, MinLat: 0, MaxLng: 1, MaxLat: 1}

	assert.Nil(t, OverlappingIndices(zone, []BoundingBox{
		{MinLng: 5, MinLat: 5, MaxLng: 6, MaxLat: 6},
	}))
	assert.Nil(t, OverlappingIndices(zone, nil))
}
