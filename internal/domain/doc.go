// Package domain models Dutch flood-risk and water-depth data.
//
// # Data Sources
//
// Two upstream feeds contribute to the aggregated risk layer:
//
//   - The risk-zone feed serves qualitative flood-risk zones (risicokaart
//     style) as GeoJSON in WGS84. Each zone carries only a free-text Dutch
//     description; there is no structured hazard code. Risk is derived from
//     the description by [ClassifyZone].
//   - The depth feeds serve quantitative maximum water-depth polygons per
//     probability scenario, as GeoJSON in the RD projected grid. Each polygon
//     carries a free-text Dutch legend string encoding a depth range, parsed
//     by [ParseDepth].
//
// # Scenarios
//
// A scenario is a named annual-probability flood case. Three are defined:
//
//	t10    1/10 per year     "Grote kans"
//	t100   1/100 per year    "Middelgrote kans"
//	t1000  1/1000 per year   "Kleine kans"
//
// Exactly one scenario is active per aggregation pass; depth evidence from
// different scenarios is never mixed within one combined feature.
//
// # Legend Text Conventions
//
// Depth legends use Dutch phrasing with comma decimal separators:
//
//	"tussen 0,5 en 1,0 meter"  →  bounded range {0.5, 1.0}
//	"meer dan 2,0 m"           →  lower bound only, mapped to {2.0, 4.0}
//	"minder dan 0,5 m"         →  upper bound only, mapped to {0.0, 0.5}
//	"1,5 m"                    →  bare magnitude, mapped to {1.5, 1.5}
//
// Text matching no pattern yields no parsed range and an unknown depth risk;
// wording drift in upstream legends is expected, never an error.
//
// # Risk Scale
//
// The five-level scale plus unknown maps to integer scores used for ranking:
//
//	unknown=0  very_low=1  low=2  medium=3  high=4  very_high=5
//
// Depth risk is a threshold ladder on the average of a parsed range
// (see [ClassifyDepth]). Zone risk is a first-match-wins keyword cascade
// over the Dutch description: dike-ring category keywords ("type a" through
// "type d", least to most protected) escalated one level when a historically
// flood-prone river (Maas, Waal, Rijn, IJssel, Lek, Merwede) is named, then
// fallback families for breach locations, regional defenses, and coastal
// zones (see [ClassifyZone]).
//
// # Coordinate Systems
//
// Zone geometries arrive in WGS84 (EPSG:4326); depth geometries arrive in the
// Dutch Rijksdriehoek grid (EPSG:28992-style metric planar coordinates) and
// are transformed before correlation. The transform is a first-order affine
// approximation anchored at Amersfoort, accurate to tens of meters over the
// Netherlands — adequate for bounding-box correlation and visualization, not
// for surveying. See [ToGeographic].
package domain
