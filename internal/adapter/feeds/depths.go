package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/waterkaart/flood-risk-engine/internal/domain"
)

// DepthClient fetches a scenario's water-depth feature collection. The feed
// serves GeoJSON in the RD projected grid where each feature carries a
// free-text Dutch legend string; geometries are tagged RD here and
// transformed by the aggregator.
type DepthClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewDepthClient creates a water-depth feed client.
func NewDepthClient(baseURL string, timeout time.Duration, logger *slog.Logger) *DepthClient {
	return &DepthClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchDepths retrieves and decodes the depth dataset for one scenario.
func (c *DepthClient) FetchDepths(ctx context.Context, scenario domain.Scenario) ([]domain.DepthFeature, error) {
	params := url.Values{"scenario": {string(scenario)}}

	var fc rawFeatureCollection
	if err := getJSON(ctx, c.httpClient, c.baseURL+"?"+params.Encode(), &fc); err != nil {
		return nil, fmt.Errorf("depth feed %s: %w", scenario, err)
	}

	depths := make([]domain.DepthFeature, 0, len(fc.Features))
	for i, f := range fc.Features {
		geom := f.Geometry
		geom.CRS = domain.CRSRD
		depths = append(depths, domain.DepthFeature{
			ID:         featureID(f, fmt.Sprintf("depth-%s", scenario), i),
			Scenario:   scenario,
			LegendText: firstString(f.Properties, "legend", "legenda"),
			Geometry:   geom,
		})
	}
	return depths, nil
}
