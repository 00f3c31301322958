package domain

// Position walkers for GeoJSON coordinate arrays. JSON decoding yields
// nested []any values whose innermost elements are [lon, lat] (or [x, y])
// pairs of float64; geometry built in Go code may use []float64 directly.
// The walkers accept both shapes so geometries survive a decode/transform/
// encode round trip regardless of origin.

// isPosition reports whether v is an innermost coordinate pair.
func isPosition(v []any) bool {
	if len(v) < 2 {
		return false
	}
	_, ok := v[0].(float64)
	return ok
}

// visitPositions calls fn for every coordinate pair in c.
func visitPositions(c any, fn func(x, y float64)) {
	switch v := c.(type) {
	case []float64:
		if len(v) >= 2 {
			fn(v[0], v[1])
		}
	case []any:
		if isPosition(v) {
			x, xok := v[0].(float64)
			y, yok := v[1].(float64)
			if xok && yok {
				fn(x, y)
			}
			return
		}
		for _, child := range v {
			visitPositions(child, fn)
		}
	}
}

// mapPositions returns a copy of c with every coordinate pair rewritten by
// fn. The input is never mutated.
func mapPositions(c any, fn func(x, y float64) (float64, float64)) any {
	switch v := c.(type) {
	case []float64:
		if len(v) < 2 {
			return v
		}
		x, y := fn(v[0], v[1])
		return []float64{x, y}
	case []any:
		if isPosition(v) {
			x, xok := v[0].(float64)
			y, yok := v[1].(float64)
			if !xok || !yok {
				return v
			}
			nx, ny := fn(x, y)
			return []float64{nx, ny}
		}
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = mapPositions(child, fn)
		}
		return out
	default:
		return c
	}
}
