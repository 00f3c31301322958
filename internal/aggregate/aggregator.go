// Package aggregate merges the qualitative risk-zone feed with a scenario's
// quantitative water-depth feed into one ranked, geographically indexed
// risk layer.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/waterkaart/flood-risk-engine/internal/domain"
	"github.com/waterkaart/flood-risk-engine/internal/observability"
)

// ZoneSource retrieves the qualitative risk-zone dataset.
type ZoneSource interface {
	FetchZones(ctx context.Context) ([]domain.ZoneFeature, error)
}

// DepthSource retrieves the water-depth dataset for one scenario.
type DepthSource interface {
	FetchDepths(ctx context.Context, scenario domain.Scenario) ([]domain.DepthFeature, error)
}

// SummaryPublisher receives a summary event after each fresh aggregation.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary domain.AggregationSummary) error
}

// Aggregator orchestrates one aggregation pass: concurrent feed retrieval,
// coordinate normalization, spatial correlation, classification, combination,
// and ranking.
type Aggregator struct {
	zones     ZoneSource
	depths    DepthSource
	publisher SummaryPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	fetchTimeout time.Duration
	ready        atomic.Bool
}

// New creates an Aggregator. Pass a nil publisher to disable summary events.
func New(zones ZoneSource, depths DepthSource, publisher SummaryPublisher, logger *slog.Logger, metrics *observability.Metrics, fetchTimeout time.Duration) *Aggregator {
	return &Aggregator{
		zones:        zones,
		depths:       depths,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		fetchTimeout: fetchTimeout,
	}
}

// CheckReadiness returns nil once at least one aggregation has completed.
func (a *Aggregator) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("no aggregation has completed yet")
	}
	return nil
}

// Aggregate builds the ranked risk layer for one scenario. The only error
// it returns is scenario validation; upstream failures degrade to an empty
// feature set for the failing feed, so a valid request always yields some
// ranked output.
func (a *Aggregator) Aggregate(ctx context.Context, scenario domain.Scenario) (domain.RiskCollection, error) {
	if !scenario.Valid() {
		return domain.RiskCollection{}, fmt.Errorf("%w: %q", domain.ErrUnknownScenario, scenario)
	}

	start := time.Now()

	// Correlation needs both feeds, so the fetches fan out and join here.
	var (
		zones  []domain.ZoneFeature
		depths []domain.DepthFeature
		wg     sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		zones = a.fetchZonesOrEmpty(ctx)
	}()
	go func() {
		defer wg.Done()
		depths = a.fetchDepthsOrEmpty(ctx, scenario)
	}()
	wg.Wait()

	collection := a.assemble(scenario, zones, depths)

	a.metrics.Aggregations.WithLabelValues(string(scenario)).Inc()
	a.metrics.AggregationDuration.Observe(time.Since(start).Seconds())
	a.metrics.FeaturesEmitted.Observe(float64(len(collection.Features)))
	a.metrics.LastComputed.WithLabelValues(string(scenario)).Set(float64(collection.ComputedAt.Unix()))
	a.ready.Store(true)

	a.publishSummary(ctx, collection)

	a.logger.Info("aggregation completed",
		"scenario", scenario,
		"features", len(collection.Features),
		"zone_only", collection.Stats.ZoneOnly,
		"depth_enriched", collection.Stats.DepthEnriched,
		"depth_only", collection.Stats.DepthOnly,
		"duration", time.Since(start),
	)

	return collection, nil
}

// fetchZonesOrEmpty applies the partial-result policy: a failed or timed-out
// zone fetch degrades to an empty set, because a depth-only layer is more
// useful than no layer.
func (a *Aggregator) fetchZonesOrEmpty(ctx context.Context) []domain.ZoneFeature {
	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	start := time.Now()
	zones, err := a.zones.FetchZones(fetchCtx)
	a.metrics.FeedFetchSeconds.WithLabelValues(domain.SourceRiskZones).Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.FeedFetches.WithLabelValues(domain.SourceRiskZones, "error").Inc()
		a.logger.Warn("risk-zone fetch failed, continuing without zones", "error", err)
		return nil
	}
	a.metrics.FeedFetches.WithLabelValues(domain.SourceRiskZones, "success").Inc()
	return zones
}

// fetchDepthsOrEmpty is the depth-feed counterpart of fetchZonesOrEmpty.
func (a *Aggregator) fetchDepthsOrEmpty(ctx context.Context, scenario domain.Scenario) []domain.DepthFeature {
	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	start := time.Now()
	depths, err := a.depths.FetchDepths(fetchCtx, scenario)
	a.metrics.FeedFetchSeconds.WithLabelValues(domain.SourceWaterDepths).Observe(time.Since(start).Seconds())
	if err != nil {
		a.metrics.FeedFetches.WithLabelValues(domain.SourceWaterDepths, "error").Inc()
		a.logger.Warn("depth fetch failed, continuing without depth data",
			"scenario", scenario, "error", err)
		return nil
	}
	a.metrics.FeedFetches.WithLabelValues(domain.SourceWaterDepths, "success").Inc()
	return depths
}

// candidateDepth pairs an enriched, transformed depth feature with its
// bounding box for correlation.
type candidateDepth struct {
	feature domain.DepthFeature
	box     domain.BoundingBox
}

// assemble runs the synchronous part of the pass: enrich, transform,
// correlate, classify, combine, rank.
func (a *Aggregator) assemble(scenario domain.Scenario, zones []domain.ZoneFeature, depths []domain.DepthFeature) domain.RiskCollection {
	candidates := prepareDepths(depths)

	boxes := make([]domain.BoundingBox, len(candidates))
	for i, c := range candidates {
		boxes[i] = c.box
	}

	features := make([]domain.CombinedFeature, 0, len(zones))
	matched := make([]bool, len(candidates))
	var stats domain.Stats

	for _, zone := range zones {
		zone.RiskLevel = domain.ClassifyZone(zone.Description)

		var overlapping []domain.DepthFeature
		if zoneBox, ok := domain.Bounds(zone.Geometry); ok {
			for _, idx := range domain.OverlappingIndices(zoneBox, boxes) {
				overlapping = append(overlapping, candidates[idx].feature)
				matched[idx] = true
			}
		}

		features = append(features, combineZone(zone, overlapping, scenario))
		if len(overlapping) == 0 {
			stats.ZoneOnly++
		} else {
			stats.DepthEnriched++
		}
	}

	// Depth polygons overlapping no zone still carry standalone value, but
	// only above the noise floor.
	for i, c := range candidates {
		if matched[i] || c.feature.RiskLevel.Score() < domain.RiskLow.Score() {
			continue
		}
		features = append(features, depthOnlyFeature(c.feature, scenario))
		stats.DepthOnly++
	}

	// Rank by severity; the stable sort keeps the original feed order as
	// tie-break so identical input yields identical output.
	sort.SliceStable(features, func(i, j int) bool {
		return features[i].Properties.CombinedRiskScore > features[j].Properties.CombinedRiskScore
	})

	stats.Total = len(features)
	stats.ByLevel = countByLevel(features)

	return domain.RiskCollection{
		Type:       "FeatureCollection",
		Scenario:   scenario,
		Label:      scenario.Label(),
		ComputedAt: domain.Now().UTC(),
		Features:   features,
		Stats:      stats,
	}
}

// prepareDepths enriches raw depth features (legend parsing, depth risk),
// normalizes their geometry to WGS84, and drops features without any
// positions, which cannot be correlated.
func prepareDepths(depths []domain.DepthFeature) []candidateDepth {
	candidates := make([]candidateDepth, 0, len(depths))
	for _, d := range depths {
		d = domain.EnrichDepthFeature(d)
		if d.Geometry.CRS != domain.CRSWGS84 {
			d.Geometry = domain.GeometryToGeographic(d.Geometry)
		}
		box, ok := domain.Bounds(d.Geometry)
		if !ok {
			continue
		}
		candidates = append(candidates, candidateDepth{feature: d, box: box})
	}
	return candidates
}

// combineZone builds the combined feature for one zone. The zone geometry is
// authoritative; the most severe overlapping depth polygon supplies the
// depth evidence.
func combineZone(zone domain.ZoneFeature, overlapping []domain.DepthFeature, scenario domain.Scenario) domain.CombinedFeature {
	depthRisk := domain.RiskUnknown
	var maxDepth *float64
	sources := []string{domain.SourceRiskZones}

	if rep, ok := domain.RepresentativeDepth(overlapping); ok {
		depthRisk = rep.RiskLevel
		if rep.ParsedDepth != nil {
			v := rep.ParsedDepth.Max
			maxDepth = &v
		}
		sources = append(sources, domain.SourceWaterDepths)
	}

	combined := domain.Combine(zone.RiskLevel, depthRisk)

	return domain.CombinedFeature{
		Type:     "Feature",
		ID:       zone.ID,
		Geometry: zone.Geometry,
		Properties: domain.CombinedProperties{
			ZoneRiskLevel:         zone.RiskLevel,
			DepthRiskLevel:        depthRisk,
			CombinedRiskLevel:     combined,
			CombinedRiskScore:     combined.Score(),
			MaxWaterDepth:         maxDepth,
			OverlappingDepthCount: len(overlapping),
			Scenario:              scenario,
			Sources:               sources,
		},
	}
}

// depthOnlyFeature synthesizes a combined feature for a depth polygon that
// overlaps no zone.
func depthOnlyFeature(depth domain.DepthFeature, scenario domain.Scenario) domain.CombinedFeature {
	var maxDepth *float64
	if depth.ParsedDepth != nil {
		v := depth.ParsedDepth.Max
		maxDepth = &v
	}

	return domain.CombinedFeature{
		Type:     "Feature",
		ID:       "depth-" + depth.ID,
		Geometry: depth.Geometry,
		Properties: domain.CombinedProperties{
			ZoneRiskLevel:         domain.RiskUnknown,
			DepthRiskLevel:        depth.RiskLevel,
			CombinedRiskLevel:     depth.RiskLevel,
			CombinedRiskScore:     depth.RiskLevel.Score(),
			MaxWaterDepth:         maxDepth,
			OverlappingDepthCount: 0,
			Scenario:              scenario,
			Sources:               []string{domain.SourceWaterDepths},
		},
	}
}

func countByLevel(features []domain.CombinedFeature) map[domain.RiskLevel]int {
	counts := map[domain.RiskLevel]int{
		domain.RiskVeryLow:  0,
		domain.RiskLow:      0,
		domain.RiskMedium:   0,
		domain.RiskHigh:     0,
		domain.RiskVeryHigh: 0,
	}
	for _, f := range features {
		counts[f.Properties.CombinedRiskLevel]++
	}
	return counts
}

// publishSummary emits the summary event when a publisher is configured.
// Publishing is best effort; a broker outage never fails an aggregation.
func (a *Aggregator) publishSummary(ctx context.Context, collection domain.RiskCollection) {
	if a.publisher == nil {
		return
	}
	summary := domain.AggregationSummary{
		Scenario:   collection.Scenario,
		ComputedAt: collection.ComputedAt,
		Stats:      collection.Stats,
	}
	if err := a.publisher.PublishSummary(ctx, summary); err != nil {
		a.logger.Warn("summary publish failed", "scenario", collection.Scenario, "error", err)
	}
}
