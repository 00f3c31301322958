// Package feeds implements HTTP clients for the two upstream GeoJSON feeds:
// the qualitative risk-zone dataset and the per-scenario water-depth
// datasets.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/waterkaart/flood-risk-engine/internal/domain"
)

// ZoneClient fetches the risk-zone feature collection. The feed serves
// WGS84 GeoJSON where each feature carries a free-text Dutch description.
type ZoneClient struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewZoneClient creates a risk-zone feed client.
func NewZoneClient(url string, timeout time.Duration, logger *slog.Logger) *ZoneClient {
	return &ZoneClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchZones retrieves and decodes the zone dataset.
func (c *ZoneClient) FetchZones(ctx context.Context) ([]domain.ZoneFeature, error) {
	var fc rawFeatureCollection
	if err := getJSON(ctx, c.httpClient, c.url, &fc); err != nil {
		return nil, fmt.Errorf("zone feed: %w", err)
	}

	zones := make([]domain.ZoneFeature, 0, len(fc.Features))
	for i, f := range fc.Features {
		geom := f.Geometry
		geom.CRS = domain.CRSWGS84
		zones = append(zones, domain.ZoneFeature{
			ID:          featureID(f, "zone", i),
			Description: firstString(f.Properties, "description", "omschrijving"),
			Geometry:    geom,
		})
	}
	return zones, nil
}

// getJSON performs a GET and decodes the JSON body, wrapping transport,
// status, and decode failures.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("feed error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Raw GeoJSON wire types shared by both feeds.

type rawFeatureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	ID         string          `json:"id"`
	Properties map[string]any  `json:"properties"`
	Geometry   domain.Geometry `json:"geometry"`
}

// featureID prefers the feature-level id, then a properties id, then a
// positional fallback so every feature stays addressable.
func featureID(f rawFeature, prefix string, index int) string {
	if f.ID != "" {
		return f.ID
	}
	if id := firstString(f.Properties, "id"); id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", prefix, index)
}

// firstString returns the first non-empty string value among the candidate
// property keys. Upstream wording of property names is not stable.
func firstString(props map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
