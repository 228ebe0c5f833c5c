package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmfi/internal/domain"
	"kmfi/internal/ports"
	"kmfi/internal/scoring"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "kmfi:scores:2024:index", key("2024", scoring.RegimeIndex))
	assert.Equal(t, "kmfi:scores:2024:dashboard", key("2024", scoring.RegimeDashboard))
}

func TestNewScoreCache_URL(t *testing.T) {
	c, err := NewScoreCache("redis://localhost:6379/2", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, c.client.Options().DB)
	assert.Equal(t, time.Hour, c.ttl)
	require.NoError(t, c.Close())

	_, err = NewScoreCache("http://nope", time.Hour)
	assert.Error(t, err)
}

func TestReportEncoding_KeepsPrecision(t *testing.T) {
	third := 200.0 / 3
	fresh := ports.CycleReport{
		CycleID: "2024",
		Regime:  scoring.RegimeIndex,
		Scores: []scoring.CompanyScore{
			{
				CompanyID: "t1", Tier: domain.Tier1,
				SATTotal:         scoring.Total{Percent: scoring.Scored(third)},
				SelfScore:        scoring.Scored(third),
				ProductTestScore: scoring.Scored(1.005),
				Brands:           []scoring.BrandScore{},
			},
			{
				CompanyID: "t3", Tier: domain.Tier3,
				IVCTotal:  scoring.Total{Percent: scoring.Scored(80), Complete: true},
				SelfScore: scoring.Scored(80),
				IEGTotal:  scoring.Total{Percent: scoring.Unscored},
				Brands:    []scoring.BrandScore{},
			},
		},
		Errors: []ports.CompanyError{},
	}

	raw, err := encodeReport(fresh)
	require.NoError(t, err)
	cached, err := decodeReport(raw)
	require.NoError(t, err)

	assert.Equal(t, fresh, cached)
	assert.Equal(t, third, cached.Scores[0].SATTotal.Percent.Value)
	assert.False(t, cached.Scores[1].IEGTotal.Percent.Scored)

	w := scoring.IndexWeights
	want, err := scoring.BlendedIndustryAverage(fresh.Scores, w)
	require.NoError(t, err)
	got, err := scoring.BlendedIndustryAverage(cached.Scores, w)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReportEncoding_EmptyReport(t *testing.T) {
	raw, err := encodeReport(ports.CycleReport{CycleID: "2024", Regime: scoring.RegimeDashboard,
		Scores: []scoring.CompanyScore{}, Errors: []ports.CompanyError{}})
	require.NoError(t, err)
	cached, err := decodeReport(raw)
	require.NoError(t, err)
	assert.NotNil(t, cached.Scores)
	assert.NotNil(t, cached.Errors)
}
