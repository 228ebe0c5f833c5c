// Package memory holds in-process adapters used when no external store is
// configured, and as test doubles.
package memory

import (
	"context"
	"sync"
	"time"

	"kmfi/internal/ports"
	"kmfi/internal/scoring"
)

type cacheKey struct {
	cycleID string
	regime  scoring.Regime
}

type cacheEntry struct {
	report  ports.CycleReport
	expires time.Time
}

// ScoreCache is a cycle-keyed in-process cache. A zero TTL keeps entries
// until the cycle is invalidated.
type ScoreCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[cacheKey]cacheEntry
}

func NewScoreCache(ttl time.Duration) *ScoreCache {
	return &ScoreCache{ttl: ttl, now: time.Now, entries: make(map[cacheKey]cacheEntry)}
}

func (c *ScoreCache) Get(_ context.Context, cycleID string, regime scoring.Regime) (ports.CycleReport, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[cacheKey{cycleID, regime}]
	c.mu.RUnlock()
	if !ok {
		return ports.CycleReport{}, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, cacheKey{cycleID, regime})
		c.mu.Unlock()
		return ports.CycleReport{}, false, nil
	}
	return e.report, true, nil
}

func (c *ScoreCache) Put(_ context.Context, report ports.CycleReport) error {
	e := cacheEntry{report: report}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[cacheKey{report.CycleID, report.Regime}] = e
	c.mu.Unlock()
	return nil
}

func (c *ScoreCache) Invalidate(_ context.Context, cycleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.cycleID == cycleID {
			delete(c.entries, k)
		}
	}
	return nil
}
