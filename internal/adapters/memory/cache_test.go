package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmfi/internal/ports"
	"kmfi/internal/scoring"
)

func TestScoreCache_InvalidateDropsEveryRegime(t *testing.T) {
	ctx := context.Background()
	c := NewScoreCache(0)
	require.NoError(t, c.Put(ctx, ports.CycleReport{CycleID: "2024", Regime: scoring.RegimeDashboard}))
	require.NoError(t, c.Put(ctx, ports.CycleReport{CycleID: "2024", Regime: scoring.RegimeIndex}))
	require.NoError(t, c.Put(ctx, ports.CycleReport{CycleID: "2023", Regime: scoring.RegimeIndex}))

	_, ok, err := c.Get(ctx, "2024", scoring.RegimeIndex)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Invalidate(ctx, "2024"))
	_, ok, _ = c.Get(ctx, "2024", scoring.RegimeIndex)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "2024", scoring.RegimeDashboard)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "2023", scoring.RegimeIndex)
	assert.True(t, ok)
}

func TestScoreCache_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewScoreCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, ports.CycleReport{CycleID: "2024", Regime: scoring.RegimeIndex}))
	_, ok, _ := c.Get(ctx, "2024", scoring.RegimeIndex)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, "2024", scoring.RegimeIndex)
	assert.False(t, ok)
}
