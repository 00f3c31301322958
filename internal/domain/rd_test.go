package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToGeographic_Anchor(t *testing.T) {
	geo := ToGeographic(ProjectedPoint{X: 155000, Y: 463000})

	assert.InDelta(t, 5.387206, geo.Lon, 1e-9)
	assert.InDelta(t, 52.155172, geo.Lat, 1e-9)
}

func TestToGeographic_NorthEastOfAnchor(t *testing.T) {
	// One km north and one km east of Amersfoort.
	geo := ToGeographic(ProjectedPoint{X: 156000, Y: 464000})

	assert.Greater(t, geo.Lon, 5.387206)
	assert.Greater(t, geo.Lat, 52.155172)
	// 1 km ≈ 0.009° lat and ≈ 0.0146° lon at this latitude.
	assert.InDelta(t, 52.155172+0.008993, geo.Lat, 1e-4)
	assert.InDelta(t, 5.387206+0.014608, geo.Lon, 1e-4)
}

func TestRoundTrip_WithinOperatingExtent(t *testing.T) {
	// Corners and center of the RD grid's useful extent.
	points := []ProjectedPoint{
		{X: 155000, Y: 463000}, // Amersfoort
		{X: 13600, Y: 306900},  // far southwest
		{X: 278000, Y: 619300}, // far northeast
		{X: 180000, Y: 330000}, // Maas valley
		{X: 90000, Y: 440000},  // coastal west
	}

	for _, p := range points {
		back := ToProjected(ToGeographic(p))
		assert.InDelta(t, p.X, back.X, 1e-6, "x for %+v", p)
		assert.InDelta(t, p.Y, back.Y, 1e-6, "y for %+v", p)
	}
}

func TestTransform_TotalOverFiniteInputs(t *testing.T) {
	// The affine transform never fails, even far outside the grid.
	geo := ToGeographic(ProjectedPoint{X: -1e9, Y: 1e9})
	assert.False(t, math.IsNaN(geo.Lon))
	assert.False(t, math.IsNaN(geo.Lat))
}

func TestGeometryToGeographic_DoesNotMutateInput(t *testing.T) {
	src := Geometry{
		Type: "Polygon",
		Coordinates: []any{
			[]any{
				[]any{155000.0, 463000.0},
				[]any{156000.0, 463000.0},
				[]any{156000.0, 464000.0},
				[]any{155000.0, 463000.0},
			},
		},
	}

	out := GeometryToGeographic(src)

	assert.Equal(t, "Polygon", out.Type)

	// Source still holds RD values.
	ring := src.Coordinates.([]any)[0].([]any)
	assert.Equal(t, 155000.0, ring[0].([]any)[0])

	// Output holds WGS84 values.
	outPos := out.Coordinates.([]any)[0].([]any)[0].([]float64)
	assert.InDelta(t, 5.387206, outPos[0], 1e-6)
	assert.InDelta(t, 52.155172, outPos[1], 1e-6)
}
