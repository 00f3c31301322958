package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waterkaart/flood-risk-engine/internal/domain"
	"github.com/waterkaart/flood-risk-engine/internal/observability"
)

// countingAggregator records compute calls per scenario.
type countingAggregator struct {
	calls map[domain.Scenario]int
	err   error
}

func newCountingAggregator() *countingAggregator {
	return &countingAggregator{calls: map[domain.Scenario]int{}}
}

func (a *countingAggregator) Aggregate(_ context.Context, scenario domain.Scenario) (domain.RiskCollection, error) {
	a.calls[scenario]++
	if a.err != nil {
		return domain.RiskCollection{}, a.err
	}
	return domain.RiskCollection{
		Type:     "FeatureCollection",
		Scenario: scenario,
	}, nil
}

func newTestCache(inner Aggregating, ttl time.Duration, clock clockwork.Clock) *Cache {
	return NewCache(inner, ttl, clock, observability.NewMetricsForTesting())
}

func TestCache_HitWithinTTL_SingleCompute(t *testing.T) {
	inner := newCountingAggregator()
	clock := clockwork.NewFakeClock()
	cache := newTestCache(inner, time.Hour, clock)

	first, err := cache.Get(context.Background(), domain.ScenarioT100)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)

	second, err := cache.Get(context.Background(), domain.ScenarioT100)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls[domain.ScenarioT100], "second request within TTL must be served from cache")
	assert.Equal(t, first, second)
}

func TestCache_RecomputesAfterExpiry(t *testing.T) {
	inner := newCountingAggregator()
	clock := clockwork.NewFakeClock()
	cache := newTestCache(inner, time.Hour, clock)

	_, err := cache.Get(context.Background(), domain.ScenarioT100)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)

	_, err = cache.Get(context.Background(), domain.ScenarioT100)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls[domain.ScenarioT100])
}

func TestCache_ScenariosHaveIndependentSlots(t *testing.T) {
	inner := newCountingAggregator()
	clock := clockwork.NewFakeClock()
	cache := newTestCache(inner, time.Hour, clock)

	_, err := cache.Get(context.Background(), domain.ScenarioT10)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), domain.ScenarioT1000)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), domain.ScenarioT10)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls[domain.ScenarioT10])
	assert.Equal(t, 1, inner.calls[domain.ScenarioT1000])
	assert.Equal(t, 0, inner.calls[domain.ScenarioT100])
}

func TestCache_ConcurrentMissesComputeOnce(t *testing.T) {
	inner := newCountingAggregator()
	cache := newTestCache(inner, time.Hour, clockwork.NewFakeClock())

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			_, err := cache.Get(context.Background(), domain.ScenarioT100)
			assert.NoError(t, err)
		}()
	}
	for range 8 {
		<-done
	}

	assert.Equal(t, 1, inner.calls[domain.ScenarioT100])
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	inner := newCountingAggregator()
	inner.err = assert.AnError
	clock := clockwork.NewFakeClock()
	cache := newTestCache(inner, time.Hour, clock)

	_, err := cache.Get(context.Background(), domain.ScenarioT100)
	require.Error(t, err)

	inner.err = nil
	_, err = cache.Get(context.Background(), domain.ScenarioT100)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls[domain.ScenarioT100])
}

func TestCache_InvalidScenarioBypassesSlots(t *testing.T) {
	inner := newCountingAggregator()
	cache := newTestCache(inner, time.Hour, clockwork.NewFakeClock())

	_, _ = cache.Get(context.Background(), domain.Scenario("t50"))
	_, _ = cache.Get(context.Background(), domain.Scenario("t50"))

	// The aggregator decides how to reject it; the cache never stores it.
	assert.Equal(t, 2, inner.calls[domain.Scenario("t50")])
}
