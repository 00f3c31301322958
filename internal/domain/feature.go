package domain

import (
	"errors"
	"fmt"
	"time"
)

// RiskLevel is the discrete flood-risk scale shared by zone, depth, and
// combined classifications.
type RiskLevel string

const (
	RiskUnknown  RiskLevel = "unknown"
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// Score maps a risk level to its ranking integer. Severity increases
// strictly with the score except unknown, which ranks below everything.
func (l RiskLevel) Score() int {
	switch l {
	case RiskVeryLow:
		return 1
	case RiskLow:
		return 2
	case RiskMedium:
		return 3
	case RiskHigh:
		return 4
	case RiskVeryHigh:
		return 5
	default:
		return 0
	}
}

// Valid reports whether l is one of the defined risk levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskUnknown, RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskVeryHigh:
		return true
	default:
		return false
	}
}

// riskByScore is the inverse of Score for the five real levels.
var riskByScore = map[int]RiskLevel{
	1: RiskVeryLow,
	2: RiskLow,
	3: RiskMedium,
	4: RiskHigh,
	5: RiskVeryHigh,
}

// escalate returns the level one step more severe, capped at very_high.
// Unknown escalates to nothing and is returned unchanged.
func escalate(l RiskLevel) RiskLevel {
	s := l.Score()
	if s == 0 || s == 5 {
		return l
	}
	return riskByScore[s+1]
}

// Scenario identifies one annual-probability flood case.
type Scenario string

const (
	ScenarioT10   Scenario = "t10"
	ScenarioT100  Scenario = "t100"
	ScenarioT1000 Scenario = "t1000"
)

// Scenarios lists all defined scenarios in increasing return period.
var Scenarios = []Scenario{ScenarioT10, ScenarioT100, ScenarioT1000}

// ErrUnknownScenario marks a scenario identifier outside the defined set.
// It is a validation error for the caller, never an upstream fault.
var ErrUnknownScenario = errors.New("unknown scenario")

// ParseScenario validates a scenario identifier from an inbound request.
func ParseScenario(s string) (Scenario, error) {
	switch Scenario(s) {
	case ScenarioT10, ScenarioT100, ScenarioT1000:
		return Scenario(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
	}
}

// Valid reports whether s is one of the defined scenarios.
func (s Scenario) Valid() bool {
	_, err := ParseScenario(string(s))
	return err == nil
}

// AnnualProbability returns the annual flood probability for the scenario.
func (s Scenario) AnnualProbability() float64 {
	switch s {
	case ScenarioT10:
		return 1.0 / 10
	case ScenarioT100:
		return 1.0 / 100
	case ScenarioT1000:
		return 1.0 / 1000
	default:
		return 0
	}
}

// Label returns the Dutch human-readable label for the scenario.
func (s Scenario) Label() string {
	switch s {
	case ScenarioT10:
		return "Grote kans (1/10 per jaar)"
	case ScenarioT100:
		return "Middelgrote kans (1/100 per jaar)"
	case ScenarioT1000:
		return "Kleine kans (1/1000 per jaar)"
	default:
		return ""
	}
}

// CRS tags the coordinate reference system of a geometry. Geometries in
// different systems are never correlated without an explicit transform.
type CRS string

const (
	CRSWGS84 CRS = "EPSG:4326"  // geographic lon/lat
	CRSRD    CRS = "EPSG:28992" // Dutch Rijksdriehoek metric grid
)

// Geometry is a lightweight GeoJSON geometry. Coordinates hold the nested
// position arrays exactly as decoded from JSON; positions are visited and
// rewritten through walkers rather than per-type structs. A Geometry is
// treated as immutable once produced by a feed fetch — transforms return a
// new value.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`

	// CRS is an in-memory tag, not part of the GeoJSON wire form.
	CRS CRS `json:"-"`
}

// DepthRange is a parsed water-depth interval in meters, min ≤ max.
type DepthRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Average returns the midpoint of the range, the value classified by
// ClassifyDepth.
func (r DepthRange) Average() float64 { return (r.Min + r.Max) / 2 }

// ZoneFeature is one polygon from the qualitative risk-zone feed. The feed
// supplies no structured risk level; RiskLevel is derived from Description.
type ZoneFeature struct {
	ID          string
	Description string
	Geometry    Geometry
	RiskLevel   RiskLevel
}

// DepthFeature is one polygon from a scenario's water-depth feed.
// ParsedDepth is nil when the legend text matches no known pattern, in which
// case RiskLevel is unknown.
type DepthFeature struct {
	ID          string
	Scenario    Scenario
	LegendText  string
	ParsedDepth *DepthRange
	RiskLevel   RiskLevel
	Geometry    Geometry
}

// Source identifiers recorded in combined-feature provenance.
const (
	SourceRiskZones   = "risk_zones"
	SourceWaterDepths = "water_depths"
)

// CombinedProperties carries the merged classification for one output
// feature.
type CombinedProperties struct {
	ZoneRiskLevel         RiskLevel `json:"zoneRiskLevel"`
	DepthRiskLevel        RiskLevel `json:"depthRiskLevel"`
	CombinedRiskLevel     RiskLevel `json:"combinedRiskLevel"`
	CombinedRiskScore     int       `json:"combinedRiskScore"`
	MaxWaterDepth         *float64  `json:"maxWaterDepth"`
	OverlappingDepthCount int       `json:"overlappingDepthCount"`
	Scenario              Scenario  `json:"scenario"`
	Sources               []string  `json:"sources"`
}

// CombinedFeature is one ranked output feature. The geometry comes from the
// zone for zone-derived features and from the depth polygon for synthetic
// depth-only features.
type CombinedFeature struct {
	Type       string             `json:"type"`
	ID         string             `json:"id"`
	Geometry   Geometry           `json:"geometry"`
	Properties CombinedProperties `json:"properties"`
}

// Stats summarizes one aggregation pass.
type Stats struct {
	Total         int               `json:"total"`
	ByLevel       map[RiskLevel]int `json:"byLevel"`
	ZoneOnly      int               `json:"zoneOnly"`
	DepthEnriched int               `json:"depthEnriched"`
	DepthOnly     int               `json:"depthOnly"`
}

// RiskCollection is the aggregated, ranked risk layer for one scenario.
type RiskCollection struct {
	Type       string            `json:"type"`
	Scenario   Scenario          `json:"scenario"`
	Label      string            `json:"label"`
	ComputedAt time.Time         `json:"computedAt"`
	Features   []CombinedFeature `json:"features"`
	Stats      Stats             `json:"stats"`
}

// AggregationSummary is the event published after a fresh aggregation.
type AggregationSummary struct {
	Scenario   Scenario  `json:"scenario"`
	ComputedAt time.Time `json:"computed_at"`
	Stats      Stats     `json:"stats"`
}
