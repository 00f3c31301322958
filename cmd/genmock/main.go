// Command genmock generates mock GeoJSON fixtures for the risk-zone and
// water-depth feeds. It uses the actual domain package for coordinate
// conversion so fixture geometry matches real feed behavior, and it is
// deterministic: the same seed always produces the same fixtures.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -seed 42
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/waterkaart/flood-risk-engine/internal/domain"
)

// zoneDef describes one synthetic risk zone: a Dutch free-text description
// and a cell in the placement grid.
type zoneDef struct {
	description string
	row, col    int
}

// Descriptions cover every classification branch: dike-ring categories,
// river escalation, breach zones, regional defenses, coastal works, and
// unclassifiable text.
var zoneDefs = []zoneDef{
	{"Dijkring 16, type a, langs de Waal", 0, 0},
	{"Dijkring 43, type a", 0, 1},
	{"Dijkring 41, type b, Maas en Waal", 0, 2},
	{"Gebied type c achter secundaire kering", 0, 3},
	{"Buitendijks gebied type d", 1, 0},
	{"Scenario dijkdoorbraak Lekdijk", 1, 1},
	{"Bresvorming bij rivierdijk", 1, 2},
	{"Boezemgebied met regionale kering", 1, 3},
	{"Duingebied langs de kust", 2, 0},
	{"Zeewering Hollandse kust", 2, 1},
	{"Overstroombaar gebied", 2, 2},
	{"Laaggelegen polder nabij de IJssel", 2, 3},
}

// Legend texts per scenario, indexed by depth cell. Wording mixes every
// pattern the parser handles plus unparseable entries.
var legendsByScenario = map[domain.Scenario][]string{
	domain.ScenarioT10: {
		"minder dan 0,2 meter",
		"tussen 0,2 en 0,5 meter",
		"0,5 m",
		"zie legenda",
	},
	domain.ScenarioT100: {
		"tussen 0,5 en 1,0 meter",
		"1,0 tot 2,0 meter",
		"meer dan 2,0 m",
		"tussen 0,2 en 0,5 meter",
		"minder dan 0,5 meter",
		"onbekende diepte",
	},
	domain.ScenarioT1000: {
		"meer dan 2,0 m",
		"dieper dan 5 meter",
		"tussen 1,0 en 2,0 meter",
		"2,5 m",
		"meer dan 2,0 m",
		"tussen 0,5 en 1,0 meter",
		"1,5 - 3,0 m",
		"groter dan 4,0 meter",
	},
}

// Placement grid anchored in the Dutch river delta. Zones occupy whole
// cells; depth polygons are jittered so some straddle zone boundaries and
// some fall outside every zone.
const (
	gridOriginLng = 5.0
	gridOriginLat = 51.7
	cellSizeDeg   = 0.1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for fixture files")
	seed := flag.Int64("seed", 42, "random seed for jitter")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	zones := buildZones()
	if err := writeJSON(filepath.Join(*outDir, "zones.json"), zones); err != nil {
		return fmt.Errorf("writing zone fixture: %w", err)
	}
	log.Printf("zones: %d features", len(zones.Features))

	for _, scenario := range domain.Scenarios {
		depths := buildDepths(scenario, rng)
		path := filepath.Join(*outDir, fmt.Sprintf("depths_%s.json", scenario))
		if err := writeJSON(path, depths); err != nil {
			return fmt.Errorf("writing depth fixture %s: %w", scenario, err)
		}
		log.Printf("%s: %d depth features", scenario, len(depths.Features))
	}

	printStats(zones)
	return nil
}

// featureCollection mirrors the wire shape both feeds serve.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	ID         string          `json:"id"`
	Properties map[string]any  `json:"properties"`
	Geometry   domain.Geometry `json:"geometry"`
}

func buildZones() featureCollection {
	fc := featureCollection{Type: "FeatureCollection"}
	for i, def := range zoneDefs {
		minLng := gridOriginLng + float64(def.col)*cellSizeDeg
		minLat := gridOriginLat + float64(def.row)*cellSizeDeg
		fc.Features = append(fc.Features, feature{
			ID:         fmt.Sprintf("zone-%02d", i+1),
			Properties: map[string]any{"description": def.description},
			Geometry:   polygonWGS84(minLng, minLat, cellSizeDeg, cellSizeDeg),
		})
	}
	return fc
}

func buildDepths(scenario domain.Scenario, rng *rand.Rand) featureCollection {
	legends := legendsByScenario[scenario]
	fc := featureCollection{Type: "FeatureCollection"}

	for i, legend := range legends {
		// Walk the zone grid, offset by half a cell so depth polygons
		// overlap zone edges rather than nesting cleanly inside cells.
		col := i % 4
		row := (i / 4) % 3
		minLng := gridOriginLng + (float64(col)+0.5)*cellSizeDeg + jitter(rng, 0.02)
		minLat := gridOriginLat + (float64(row)+0.5)*cellSizeDeg + jitter(rng, 0.02)

		// Last depth feature per scenario lands east of the grid, outside
		// every zone, to exercise the depth-only path.
		if i == len(legends)-1 {
			minLng = gridOriginLng + 5*cellSizeDeg
		}

		fc.Features = append(fc.Features, feature{
			ID:         fmt.Sprintf("depth-%s-%02d", scenario, i+1),
			Properties: map[string]any{"legend": legend},
			Geometry:   polygonRD(minLng, minLat, 0.08, 0.08),
		})
	}
	return fc
}

func jitter(rng *rand.Rand, amplitude float64) float64 {
	return (rng.Float64()*2 - 1) * amplitude
}

// polygonWGS84 returns a closed rectangular ring in geographic coordinates.
func polygonWGS84(minLng, minLat, width, height float64) domain.Geometry {
	ring := []any{
		[]float64{minLng, minLat},
		[]float64{minLng + width, minLat},
		[]float64{minLng + width, minLat + height},
		[]float64{minLng, minLat + height},
		[]float64{minLng, minLat},
	}
	return domain.Geometry{Type: "Polygon", Coordinates: []any{ring}}
}

// polygonRD returns the same rectangle expressed in the RD projected grid,
// the way the depth feed serves geometry.
func polygonRD(minLng, minLat, width, height float64) domain.Geometry {
	corners := []domain.GeographicPoint{
		{Lon: minLng, Lat: minLat},
		{Lon: minLng + width, Lat: minLat},
		{Lon: minLng + width, Lat: minLat + height},
		{Lon: minLng, Lat: minLat + height},
		{Lon: minLng, Lat: minLat},
	}
	ring := make([]any, 0, len(corners))
	for _, c := range corners {
		p := domain.ToProjected(c)
		ring = append(ring, []float64{p.X, p.Y})
	}
	return domain.Geometry{Type: "Polygon", Coordinates: []any{ring}}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(zones featureCollection) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Zones: %d\n", len(zones.Features))

	levelCounts := map[domain.RiskLevel]int{}
	for _, f := range zones.Features {
		desc, _ := f.Properties["description"].(string)
		levelCounts[domain.ClassifyZone(desc)]++
	}
	fmt.Printf("Zone levels: very_high=%d high=%d medium=%d low=%d very_low=%d\n",
		levelCounts[domain.RiskVeryHigh], levelCounts[domain.RiskHigh],
		levelCounts[domain.RiskMedium], levelCounts[domain.RiskLow],
		levelCounts[domain.RiskVeryLow])

	for _, scenario := range domain.Scenarios {
		parsed := 0
		for _, legend := range legendsByScenario[scenario] {
			if domain.ParseDepth(legend) != nil {
				parsed++
			}
		}
		fmt.Printf("%s: %d legends, %d parseable\n",
			scenario, len(legendsByScenario[scenario]), parsed)
	}
}
