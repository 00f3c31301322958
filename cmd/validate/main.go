// Command validate performs end-to-end integrity checks over the mock feed
// fixtures: GeoJSON well-formedness, classification coverage, a full
// aggregation pass per scenario through the real aggregator, and coordinate
// round-trip accuracy.
//
// Usage:
//
//	go run ./cmd/validate -fixtures data/mock
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/waterkaart/flood-risk-engine/internal/aggregate"
	"github.com/waterkaart/flood-risk-engine/internal/domain"
	"github.com/waterkaart/flood-risk-engine/internal/observability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixtureDir := flag.String("fixtures", "", "directory containing mock feed fixtures")
	flag.Parse()

	if *fixtureDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*fixtureDir); code != 0 {
		os.Exit(code)
	}
}

func run(fixtureDir string) int {
	// Fix the clock so ComputedAt is reproducible across runs.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Flood Risk Fixture Validation ===")
	fmt.Println()

	zones, err := loadZones(filepath.Join(fixtureDir, "zones.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load zone fixture: %v\n", err)
		return 1
	}

	depthsByScenario := map[domain.Scenario][]domain.DepthFeature{}
	for _, scenario := range domain.Scenarios {
		path := filepath.Join(fixtureDir, fmt.Sprintf("depths_%s.json", scenario))
		depths, err := loadDepths(path, scenario)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load depth fixture %s: %v\n", scenario, err)
			return 1
		}
		depthsByScenario[scenario] = depths
	}

	phases := []*phase{
		validateFixtureIntegrity(zones, depthsByScenario),
		validateClassification(zones, depthsByScenario),
		validateAggregation(zones, depthsByScenario),
		validateCoordinateSymmetry(depthsByScenario),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-46s %s\n", p.name, status)
	}

	depthTotal := 0
	for _, depths := range depthsByScenario {
		depthTotal += len(depths)
	}
	fmt.Println()
	fmt.Printf("Features: %d zones, %d depth polygons across %d scenarios\n",
		len(zones), depthTotal, len(depthsByScenario))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Fixture loading ──

// fixtureCollection mirrors the wire shape genmock writes.
type fixtureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		ID         string          `json:"id"`
		Properties map[string]any  `json:"properties"`
		Geometry   domain.Geometry `json:"geometry"`
	} `json:"features"`
}

func loadCollection(path string) (fixtureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixtureCollection{}, err
	}
	var fc fixtureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return fixtureCollection{}, err
	}
	if fc.Type != "FeatureCollection" {
		return fixtureCollection{}, fmt.Errorf("type is %q, want FeatureCollection", fc.Type)
	}
	return fc, nil
}

func loadZones(path string) ([]domain.ZoneFeature, error) {
	fc, err := loadCollection(path)
	if err != nil {
		return nil, err
	}
	zones := make([]domain.ZoneFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		geom := f.Geometry
		geom.CRS = domain.CRSWGS84
		desc, _ := f.Properties["description"].(string)
		zones = append(zones, domain.ZoneFeature{
			ID:          f.ID,
			Description: desc,
			Geometry:    geom,
		})
	}
	return zones, nil
}

func loadDepths(path string, scenario domain.Scenario) ([]domain.DepthFeature, error) {
	fc, err := loadCollection(path)
	if err != nil {
		return nil, err
	}
	depths := make([]domain.DepthFeature, 0, len(fc.Features))
	for _, f := range fc.Features {
		geom := f.Geometry
		geom.CRS = domain.CRSRD
		legend, _ := f.Properties["legend"].(string)
		depths = append(depths, domain.DepthFeature{
			ID:         f.ID,
			Scenario:   scenario,
			LegendText: legend,
			Geometry:   geom,
		})
	}
	return depths, nil
}

// ── Phase 1: Fixture Integrity ──
// Validates GeoJSON well-formedness: unique IDs, closed rings, non-empty text.

func validateFixtureIntegrity(zones []domain.ZoneFeature, depthsByScenario map[domain.Scenario][]domain.DepthFeature) *phase {
	p := &phase{name: "Phase 1: Fixture Integrity (GeoJSON)"}

	seen := map[string]bool{}
	for i, z := range zones {
		if z.ID == "" {
			p.errorf("zone %d: missing id", i)
		} else if seen[z.ID] {
			p.errorf("zone %d: duplicate id %q", i, z.ID)
		}
		seen[z.ID] = true

		if z.Description == "" {
			p.errorf("zone %s: empty description", z.ID)
		}
		checkPolygon(p, "zone "+z.ID, z.Geometry)
	}

	for scenario, depths := range depthsByScenario {
		seen := map[string]bool{}
		for i, d := range depths {
			if d.ID == "" {
				p.errorf("%s depth %d: missing id", scenario, i)
			} else if seen[d.ID] {
				p.errorf("%s depth %d: duplicate id %q", scenario, i, d.ID)
			}
			seen[d.ID] = true

			if d.LegendText == "" {
				p.errorf("%s depth %s: empty legend", scenario, d.ID)
			}
			checkPolygon(p, fmt.Sprintf("%s depth %s", scenario, d.ID), d.Geometry)
		}
	}
	return p
}

// checkPolygon verifies the geometry is a polygon with at least one closed
// ring of four or more positions, and that a bounding box can be derived.
func checkPolygon(p *phase, label string, g domain.Geometry) {
	if g.Type != "Polygon" {
		p.errorf("%s: geometry type is %q, want Polygon", label, g.Type)
		return
	}
	if _, ok := domain.Bounds(g); !ok {
		p.errorf("%s: geometry has no positions", label)
		return
	}

	rings, ok := g.Coordinates.([]any)
	if !ok || len(rings) == 0 {
		p.errorf("%s: coordinates are not a ring list", label)
		return
	}
	for ri, raw := range rings {
		ring, ok := raw.([]any)
		if !ok {
			p.errorf("%s: ring %d is not a position list", label, ri)
			continue
		}
		if len(ring) < 4 {
			p.errorf("%s: ring %d has %d positions, want >= 4", label, ri, len(ring))
			continue
		}
		first, lastPos := position(ring[0]), position(ring[len(ring)-1])
		if first == nil || lastPos == nil {
			p.errorf("%s: ring %d has malformed positions", label, ri)
			continue
		}
		if first[0] != lastPos[0] || first[1] != lastPos[1] {
			p.errorf("%s: ring %d is not closed", label, ri)
		}
	}
}

func position(v any) []float64 {
	switch pos := v.(type) {
	case []float64:
		return pos
	case []any:
		out := make([]float64, 0, len(pos))
		for _, c := range pos {
			f, ok := c.(float64)
			if !ok {
				return nil
			}
			out = append(out, f)
		}
		return out
	}
	return nil
}

// ── Phase 2: Classification Coverage ──
// Validates that descriptions and legends exercise the classifiers.

func validateClassification(zones []domain.ZoneFeature, depthsByScenario map[domain.Scenario][]domain.DepthFeature) *phase {
	p := &phase{name: "Phase 2: Classification Coverage"}

	levelsSeen := map[domain.RiskLevel]bool{}
	for _, z := range zones {
		level := domain.ClassifyZone(z.Description)
		if !level.Valid() || level == domain.RiskUnknown {
			p.errorf("zone %s: description %q classified to %q", z.ID, z.Description, level)
			continue
		}
		levelsSeen[level] = true
	}
	for _, level := range []domain.RiskLevel{domain.RiskVeryLow, domain.RiskLow, domain.RiskMedium, domain.RiskHigh, domain.RiskVeryHigh} {
		if !levelsSeen[level] {
			p.errorf("no zone classifies to %q; fixture loses branch coverage", level)
		}
	}

	for scenario, depths := range depthsByScenario {
		parsed := 0
		for _, d := range depths {
			r := domain.ParseDepth(d.LegendText)
			if r == nil {
				continue
			}
			parsed++
			if r.Min > r.Max {
				p.errorf("%s depth %s: parsed range inverted: min=%g max=%g", scenario, d.ID, r.Min, r.Max)
			}
			if level := domain.ClassifyDepth(r); level == domain.RiskUnknown {
				p.errorf("%s depth %s: parsed range %v classified unknown", scenario, d.ID, *r)
			}
		}
		if parsed == 0 {
			p.errorf("%s: no legend parses; fixture is useless for depth enrichment", scenario)
		}
	}
	return p
}

// ── Phase 3: Aggregation Consistency ──
// Runs the real aggregator over the fixtures and checks its output contract.

// fixtureSource serves the loaded fixtures through the feed interfaces.
type fixtureSource struct {
	zones  []domain.ZoneFeature
	depths map[domain.Scenario][]domain.DepthFeature
}

func (s *fixtureSource) FetchZones(context.Context) ([]domain.ZoneFeature, error) {
	return s.zones, nil
}

func (s *fixtureSource) FetchDepths(_ context.Context, scenario domain.Scenario) ([]domain.DepthFeature, error) {
	return s.depths[scenario], nil
}

func validateAggregation(zones []domain.ZoneFeature, depthsByScenario map[domain.Scenario][]domain.DepthFeature) *phase {
	p := &phase{name: "Phase 3: Aggregation Consistency"}

	source := &fixtureSource{zones: zones, depths: depthsByScenario}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	aggregator := aggregate.New(source, source, nil, logger, observability.NewMetricsForTesting(), 5*time.Second)

	for _, scenario := range domain.Scenarios {
		collection, err := aggregator.Aggregate(context.Background(), scenario)
		if err != nil {
			p.errorf("%s: aggregation failed: %v", scenario, err)
			continue
		}
		checkCollection(p, scenario, collection, len(zones))
	}
	return p
}

func checkCollection(p *phase, scenario domain.Scenario, c domain.RiskCollection, zoneCount int) {
	if c.Type != "FeatureCollection" {
		p.errorf("%s: type is %q", scenario, c.Type)
	}
	if c.Scenario != scenario {
		p.errorf("%s: collection tagged %q", scenario, c.Scenario)
	}

	// Ranking must be non-increasing by combined score.
	for i := 1; i < len(c.Features); i++ {
		prev, cur := c.Features[i-1].Properties, c.Features[i].Properties
		if cur.CombinedRiskScore > prev.CombinedRiskScore {
			p.errorf("%s: feature %d (score %d) ranked after %d (score %d)",
				scenario, i, cur.CombinedRiskScore, i-1, prev.CombinedRiskScore)
		}
	}

	// Stats must reconcile with the feature list.
	if c.Stats.Total != len(c.Features) {
		p.errorf("%s: stats.total=%d but %d features", scenario, c.Stats.Total, len(c.Features))
	}
	if got := c.Stats.ZoneOnly + c.Stats.DepthEnriched; got != zoneCount {
		p.errorf("%s: zoneOnly+depthEnriched=%d, want %d zones", scenario, got, zoneCount)
	}
	byLevel := 0
	for _, n := range c.Stats.ByLevel {
		byLevel += n
	}
	if byLevel != len(c.Features) {
		p.errorf("%s: byLevel sums to %d, want %d", scenario, byLevel, len(c.Features))
	}

	for _, f := range c.Features {
		props := f.Properties
		if !props.CombinedRiskLevel.Valid() {
			p.errorf("%s feature %s: invalid combined level %q", scenario, f.ID, props.CombinedRiskLevel)
		}
		if props.CombinedRiskScore != props.CombinedRiskLevel.Score() {
			p.errorf("%s feature %s: score %d does not match level %q", scenario, f.ID, props.CombinedRiskScore, props.CombinedRiskLevel)
		}
		if props.Scenario != scenario {
			p.errorf("%s feature %s: tagged scenario %q", scenario, f.ID, props.Scenario)
		}
		if len(props.Sources) == 0 {
			p.errorf("%s feature %s: empty sources", scenario, f.ID)
		}
		// Depth evidence and the depth source tag must agree.
		hasDepthSource := false
		for _, s := range props.Sources {
			if s == domain.SourceWaterDepths {
				hasDepthSource = true
			}
		}
		if props.DepthRiskLevel != domain.RiskUnknown && !hasDepthSource {
			p.errorf("%s feature %s: depth level %q without %s source", scenario, f.ID, props.DepthRiskLevel, domain.SourceWaterDepths)
		}
		// Depth-only features must clear the noise floor.
		if props.ZoneRiskLevel == domain.RiskUnknown && props.CombinedRiskLevel.Score() < domain.RiskLow.Score() {
			p.errorf("%s feature %s: depth-only feature below noise floor (%q)", scenario, f.ID, props.CombinedRiskLevel)
		}
	}
}

// ── Phase 4: Coordinate Symmetry ──
// Validates that RD → WGS84 → RD round-trips within half a meter.

const roundTripToleranceMeters = 0.5

func validateCoordinateSymmetry(depthsByScenario map[domain.Scenario][]domain.DepthFeature) *phase {
	p := &phase{name: "Phase 4: Coordinate Symmetry (RD round-trip)"}

	for scenario, depths := range depthsByScenario {
		for _, d := range depths {
			for _, ring := range d.Geometry.Coordinates.([]any) {
				ringPositions, ok := ring.([]any)
				if !ok {
					continue
				}
				for _, raw := range ringPositions {
					pos := position(raw)
					if len(pos) < 2 {
						continue
					}
					orig := domain.ProjectedPoint{X: pos[0], Y: pos[1]}
					back := domain.ToProjected(domain.ToGeographic(orig))
					dx, dy := back.X-orig.X, back.Y-orig.Y
					if dist := math.Hypot(dx, dy); dist > roundTripToleranceMeters {
						p.errorf("%s depth %s: round-trip error %.3fm at (%.1f, %.1f)",
							scenario, d.ID, dist, orig.X, orig.Y)
					}
				}
			}
		}
	}
	return p
}
