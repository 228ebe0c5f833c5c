package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmfi/internal/scoring"
)

func TestIndustryAverage_PerFieldExclusion(t *testing.T) {
	avg := scoring.IndustryAverage([]scoring.EntityScores{
		{ID: "a", Self: scoring.Scored(80), PT: scoring.Scored(60), IEG: scoring.Scored(90), Composite: scoring.Scored(76)},
		{ID: "b", Self: scoring.Scored(70), PT: scoring.Scored(50), IEG: scoring.Scored(60), Composite: scoring.Scored(62)},
		{ID: "c", Self: scoring.Scored(60), PT: scoring.Scored(40), IEG: scoring.Unscored, Composite: scoring.Scored(42)},
	})

	assert.InDelta(t, 70, avg.Self.Value, 1e-9)
	assert.InDelta(t, 50, avg.PT.Value, 1e-9)
	assert.InDelta(t, 75, avg.IEG.Value, 1e-9, "entity without IEG must not drag the mean down")
	assert.InDelta(t, 60, avg.Composite.Value, 1e-9)
	assert.Equal(t, scoring.FieldCounts{Self: 3, PT: 3, IEG: 2, Composite: 3}, avg.Counts)
}

func TestIndustryAverage_Empty(t *testing.T) {
	avg := scoring.IndustryAverage(nil)
	assert.False(t, avg.Self.Scored)
	assert.False(t, avg.PT.Scored)
	assert.False(t, avg.IEG.Scored)
	assert.False(t, avg.Composite.Scored)
}

func TestBlendedIndustryAverage_MixedTiers(t *testing.T) {
	var scores []scoring.CompanyScore
	for _, c := range fixtureCompanies() {
		s, err := scoring.ScoreCompany(c, scoring.DashboardWeights, scoring.PointsTotal)
		require.NoError(t, err)
		scores = append(scores, s)
	}

	avg, err := scoring.BlendedIndustryAverage(scores, scoring.DashboardWeights)
	require.NoError(t, err)

	// Bolt (TIER_1, self 100) enters the blend at 66
	assert.InDelta(t, (66.0+80+75)/3, avg.Self.Value, 1e-9)
	assert.InDelta(t, 70, avg.PT.Value, 1e-9)
	assert.InDelta(t, 70, avg.IEG.Value, 1e-9)
	assert.Equal(t, 2, avg.Counts.IEG)
	// composites: bolt 0.5*66+0.3*70+0.2*50 = 64, acme 76, cora 61.5
	assert.InDelta(t, (64.0+76+61.5)/3, avg.Composite.Value, 1e-9)
}

func TestBlendedIndustryAverage_SingleTierNotDiscounted(t *testing.T) {
	s, err := scoring.ScoreCompany(fixtureCompanies()[1], scoring.DashboardWeights, scoring.PointsTotal)
	require.NoError(t, err)

	avg, err := scoring.BlendedIndustryAverage([]scoring.CompanyScore{s}, scoring.DashboardWeights)
	require.NoError(t, err)
	assert.InDelta(t, 100, avg.Self.Value, 1e-9)
	assert.InDelta(t, s.Composite.Value.Value, avg.Composite.Value, 1e-9)
}
