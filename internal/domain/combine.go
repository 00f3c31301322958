package domain

// combineTable is the risk-combination policy, indexed [zone][depth].
// The relationship between qualitative zone evidence and quantitative depth
// evidence is a policy decision, so it is encoded literally rather than as
// a formula. Two properties hold by construction:
//
//   - depth evidence escalates or confirms the zone level; unknown depth
//     always falls back to the zone level
//   - a downgrade happens only when the depth level is at least two levels
//     below the zone level, and then by exactly one step, so a severe zone
//     is never silently written down (combine(very_high, low) stays high)
var combineTable = map[RiskLevel]map[RiskLevel]RiskLevel{
	RiskVeryLow: {
		RiskUnknown:  RiskVeryLow,
		RiskVeryLow:  RiskVeryLow,
		RiskLow:      RiskLow,
		RiskMedium:   RiskMedium,
		RiskHigh:     RiskHigh,
		RiskVeryHigh: RiskVeryHigh,
	},
	RiskLow: {
		RiskUnknown:  RiskLow,
		RiskVeryLow:  RiskLow,
		RiskLow:      RiskLow,
		RiskMedium:   RiskMedium,
		RiskHigh:     RiskHigh,
		RiskVeryHigh: RiskVeryHigh,
	},
	RiskMedium: {
		RiskUnknown:  RiskMedium,
		RiskVeryLow:  RiskLow,
		RiskLow:      RiskMedium,
		RiskMedium:   RiskMedium,
		RiskHigh:     RiskHigh,
		RiskVeryHigh: RiskVeryHigh,
	},
	RiskHigh: {
		RiskUnknown:  RiskHigh,
		RiskVeryLow:  RiskMedium,
		RiskLow:      RiskMedium,
		RiskMedium:   RiskHigh,
		RiskHigh:     RiskHigh,
		RiskVeryHigh: RiskVeryHigh,
	},
	RiskVeryHigh: {
		RiskUnknown:  RiskVeryHigh,
		RiskVeryLow:  RiskHigh,
		RiskLow:      RiskHigh,
		RiskMedium:   RiskVeryHigh,
		RiskHigh:     RiskVeryHigh,
		RiskVeryHigh: RiskVeryHigh,
	},
}

// Combine merges a zone risk and a depth risk through the policy table.
// An unknown zone level (synthetic depth-only features) passes the depth
// level through unchanged.
func Combine(zone, depth RiskLevel) RiskLevel {
	row, ok := combineTable[zone]
	if !ok {
		if depth.Valid() {
			return depth
		}
		return RiskUnknown
	}
	if combined, ok := row[depth]; ok {
		return combined
	}
	return zone
}

// RepresentativeDepth picks the overlapping depth feature whose parsed
// average depth is highest — a deliberate worst-case bias for a
// safety-relevant layer. Features without a parsed range cannot outrank a
// parsed one; they win only when nothing in the set parsed, in which case
// the representative carries unknown risk. ok is false for an empty set.
func RepresentativeDepth(depths []DepthFeature) (DepthFeature, bool) {
	if len(depths) == 0 {
		return DepthFeature{}, false
	}

	best := depths[0]
	for _, d := range depths[1:] {
		if deeperThan(d, best) {
			best = d
		}
	}
	return best, true
}

func deeperThan(a, b DepthFeature) bool {
	switch {
	case a.ParsedDepth == nil:
		return false
	case b.ParsedDepth == nil:
		return true
	default:
		return a.ParsedDepth.Average() > b.ParsedDepth.Average()
	}
}
