package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/waterkaart/flood-risk-engine/internal/domain"
	"github.com/waterkaart/flood-risk-engine/internal/observability"
)

// Aggregating is the computation behind the cache.
type Aggregating interface {
	Aggregate(ctx context.Context, scenario domain.Scenario) (domain.RiskCollection, error)
}

// Cache serves one aggregated result per scenario with a TTL. Entries are
// replaced wholesale under a per-scenario mutex, so a reader observes either
// the old or the new complete entry, and concurrent misses for the same
// scenario trigger exactly one upstream fetch pair. Distinct scenarios never
// share a slot and never serialize against each other.
type Cache struct {
	inner   Aggregating
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu    sync.Mutex
	slots map[domain.Scenario]*cacheSlot
}

type cacheSlot struct {
	mu         sync.Mutex
	entry      *domain.RiskCollection
	computedAt time.Time
}

// NewCache creates a scenario cache. Pass a nil clock for real time.
func NewCache(inner Aggregating, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		slots:   make(map[domain.Scenario]*cacheSlot),
	}
}

// Get returns the cached collection for the scenario while it is younger
// than the TTL, recomputing it otherwise. Validation errors pass through
// without touching any slot.
func (c *Cache) Get(ctx context.Context, scenario domain.Scenario) (domain.RiskCollection, error) {
	if !scenario.Valid() {
		// Let the aggregator produce its validation error; nothing is
		// fetched or cached for an unknown scenario.
		return c.inner.Aggregate(ctx, scenario)
	}

	slot := c.slot(scenario)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.entry != nil && c.clock.Now().Sub(slot.computedAt) < c.ttl {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return *slot.entry, nil
	}

	c.metrics.CacheLookups.WithLabelValues("miss").Inc()
	fresh, err := c.inner.Aggregate(ctx, scenario)
	if err != nil {
		return domain.RiskCollection{}, err
	}

	slot.entry = &fresh
	slot.computedAt = c.clock.Now()
	return fresh, nil
}

func (c *Cache) slot(scenario domain.Scenario) *cacheSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[scenario]
	if !ok {
		s = &cacheSlot{}
		c.slots[scenario] = s
	}
	return s
}
