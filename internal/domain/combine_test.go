package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allZoneLevels = []RiskLevel{RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}
var allDepthLevels = []RiskLevel{RiskUnknown, RiskVeryLow, RiskLow, RiskMedium, RiskHigh, RiskVeryHigh}

func TestCombine_TableIsTotal(t *testing.T) {
	for _, zone := range allZoneLevels {
		for _, depth := range allDepthLevels {
			combined := Combine(zone, depth)
			assert.True(t, combined.Valid(), "combine(%s, %s)", zone, depth)
			assert.NotEqual(t, RiskUnknown, combined, "combine(%s, %s)", zone, depth)
		}
	}
}

func TestCombine_UnknownDepthFallsBackToZone(t *testing.T) {
	for _, zone := range allZoneLevels {
		assert.Equal(t, zone, Combine(zone, RiskUnknown), "zone %s", zone)
	}
}

func TestCombine_DepthEscalates(t *testing.T) {
	// Depth evidence at or above the zone level always yields at least the
	// depth level.
	for _, zone := range allZoneLevels {
		for _, depth := range allZoneLevels {
			if depth.Score() < zone.Score() {
				continue
			}
			combined := Combine(zone, depth)
			assert.GreaterOrEqual(t, combined.Score(), depth.Score(),
				"combine(%s, %s)", zone, depth)
		}
	}
}

func TestCombine_DowngradeLimitedToOneStep(t *testing.T) {
	// Lower-severity depth evidence may write a zone down by at most one
	// step, and only when it sits at least two levels below the zone.
	for _, zone := range allZoneLevels {
		for _, depth := range allDepthLevels {
			combined := Combine(zone, depth)
			assert.GreaterOrEqual(t, combined.Score(), zone.Score()-1,
				"combine(%s, %s) dropped more than one step", zone, depth)
			if depth == RiskUnknown || depth.Score() >= zone.Score()-1 {
				assert.GreaterOrEqual(t, combined.Score(), zone.Score(),
					"combine(%s, %s) downgraded without two-level gap", zone, depth)
			}
		}
	}
}

func TestCombine_SevereZoneNeverSilentlyDowngraded(t *testing.T) {
	// A severe zone keeps at least high even against low depth evidence.
	assert.GreaterOrEqual(t, Combine(RiskVeryHigh, RiskLow).Score(), RiskHigh.Score())
}

func TestCombine_UnknownZonePassesDepthThrough(t *testing.T) {
	// Synthetic depth-only features carry an unknown zone level.
	assert.Equal(t, RiskHigh, Combine(RiskUnknown, RiskHigh))
	assert.Equal(t, RiskUnknown, Combine(RiskUnknown, RiskUnknown))
}

func TestRepresentativeDepth_MaxAverageWins(t *testing.T) {
	depths := []DepthFeature{
		{ID: "shallow", ParsedDepth: &DepthRange{Min: 0.2, Max: 0.5}},
		{ID: "deep", ParsedDepth: &DepthRange{Min: 2.0, Max: 4.0}},
		{ID: "mid", ParsedDepth: &DepthRange{Min: 1.0, Max: 2.0}},
	}

	rep, ok := RepresentativeDepth(depths)
	require.True(t, ok)
	assert.Equal(t, "deep", rep.ID)
}

func TestRepresentativeDepth_ParsedOutranksUnparsed(t *testing.T) {
	depths := []DepthFeature{
		{ID: "unparsed"},
		{ID: "parsed", ParsedDepth: &DepthRange{Min: 0.0, Max: 0.2}},
	}

	rep, ok := RepresentativeDepth(depths)
	require.True(t, ok)
	assert.Equal(t, "parsed", rep.ID)
}

func TestRepresentativeDepth_AllUnparsed(t *testing.T) {
	rep, ok := RepresentativeDepth([]DepthFeature{{ID: "a"}, {ID: "b"}})
	require.True(t, ok)
	assert.Equal(t, "a", rep.ID)
}

func TestRepresentativeDepth_EmptySet(t *testing.T) {
	_, ok := RepresentativeDepth(nil)
	assert.False(t, ok)
}
