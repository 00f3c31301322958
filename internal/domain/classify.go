package domain

import "strings"

// floodProneRivers names waterways with a history of high water and dike
// stress. A dike-ring category mentioning one of these escalates one level.
var floodProneRivers = []string{"maas", "waal", "rijn", "ijssel", "lek", "merwede"}

// zoneRule is one step of the zone classification cascade: a predicate on
// the lowercased description and the level it yields. Rules are evaluated
// top to bottom, first match wins, which keeps the policy data-driven and
// testable without any I/O.
type zoneRule struct {
	match func(desc string) bool
	level func(desc string) RiskLevel
}

// zoneRules mirrors how domain experts triage qualitative descriptions when
// no structured hazard code is present: the dike-ring protection categories
// first (type a = least protected through type d = most protected, each
// escalated when a flood-prone river is named), then fallback keyword
// families for breach locations, regional defenses, and coastal zones.
var zoneRules = []zoneRule{
	{matchAny("type a"), riverEscalated(RiskHigh)},
	{matchAny("type b"), riverEscalated(RiskMedium)},
	{matchAny("type c"), riverEscalated(RiskLow)},
	{matchAny("type d"), riverEscalated(RiskVeryLow)},
	{matchAny("doorbraak", "bres", "dijkdoorbraak"), fixed(RiskHigh)},
	{matchAny("regionale kering", "boezem", "regionale waterkering"), fixed(RiskMedium)},
	{matchAny("kust", "duin", "zeewering"), fixed(RiskLow)},
}

// ClassifyZone derives a risk level from a zone's free-text description.
// Unmatched descriptions default to medium: a zone present in the risk
// dataset is never assumed harmless just because its wording is unfamiliar.
func ClassifyZone(description string) RiskLevel {
	desc := strings.ToLower(description)
	for _, rule := range zoneRules {
		if rule.match(desc) {
			return rule.level(desc)
		}
	}
	return RiskMedium
}

func matchAny(keywords ...string) func(string) bool {
	return func(desc string) bool {
		for _, kw := range keywords {
			if strings.Contains(desc, kw) {
				return true
			}
		}
		return false
	}
}

func fixed(l RiskLevel) func(string) RiskLevel {
	return func(string) RiskLevel { return l }
}

func riverEscalated(base RiskLevel) func(string) RiskLevel {
	return func(desc string) RiskLevel {
		for _, river := range floodProneRivers {
			if strings.Contains(desc, river) {
				return escalate(base)
			}
		}
		return base
	}
}

// ClassifyDepth maps a parsed depth range to a risk level via a threshold
// ladder on the average of min and max, boundaries inclusive:
//
//	≥2.0m very_high | ≥1.0m high | ≥0.5m medium | ≥0.2m low | else very_low
//
// A nil range (legend matched no pattern) yields unknown.
func ClassifyDepth(r *DepthRange) RiskLevel {
	if r == nil {
		return RiskUnknown
	}

	avg := r.Average()
	switch {
	case avg >= 2.0:
		return RiskVeryHigh
	case avg >= 1.0:
		return RiskHigh
	case avg >= 0.5:
		return RiskMedium
	case avg >= 0.2:
		return RiskLow
	default:
		return RiskVeryLow
	}
}

// EnrichDepthFeature parses the legend text and derives the depth risk
// level. The geometry is left in its source CRS; the aggregator transforms
// it separately.
func EnrichDepthFeature(f DepthFeature) DepthFeature {
	f.ParsedDepth = ParseDepth(f.LegendText)
	f.RiskLevel = ClassifyDepth(f.ParsedDepth)
	return f
}
