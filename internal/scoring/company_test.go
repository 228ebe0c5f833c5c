package scoring_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmfi/internal/domain"
	"kmfi/internal/scoring"
)

func TestScoreCompany_Fixtures(t *testing.T) {
	tests := []struct {
		idx       int
		self      float64
		pt        float64
		ieg       scoring.Percent
		dashboard float64
		index     float64
		complete  bool
	}{
		{idx: 0, self: 80, pt: 60, ieg: scoring.Scored(90), dashboard: 76, index: 78, complete: true},
		{idx: 1, self: 100, pt: 70, ieg: scoring.Scored(50), dashboard: 81, index: 84, complete: true},
		{idx: 2, self: 75, pt: 80, ieg: scoring.Unscored, dashboard: 61.5, index: 61, complete: false},
	}
	companies := fixtureCompanies()
	for _, tt := range tests {
		c := companies[tt.idx]
		t.Run(c.Name, func(t *testing.T) {
			dash, err := scoring.ScoreCompany(c, scoring.DashboardWeights, scoring.PointsTotal)
			require.NoError(t, err)
			assert.Equal(t, c.ID, dash.CompanyID)
			assert.InDelta(t, tt.self, dash.SelfScore.Value, 1e-9)
			assert.InDelta(t, tt.pt, dash.ProductTestScore.Value, 1e-9)
			assert.Equal(t, tt.ieg.Scored, dash.IEGTotal.Percent.Scored)
			assert.InDelta(t, tt.ieg.Value, dash.IEGTotal.Percent.Value, 1e-9)
			assert.InDelta(t, tt.dashboard, dash.Composite.Value.Value, 1e-9)
			assert.Equal(t, tt.complete, dash.Composite.Completeness)

			idx, err := scoring.ScoreCompany(c, scoring.IndexWeights, scoring.PointsTotal)
			require.NoError(t, err)
			assert.InDelta(t, tt.index, idx.Composite.Value.Value, 1e-9)
		})
	}
}

func TestScoreCompany_ProductTestAveragesScoredBrandsOnly(t *testing.T) {
	c := fixtureCompanies()[0]
	c.Brands = append(c.Brands,
		domain.Brand{
			ID: "b-acme-2", ProductType: domain.ProductType{Name: "Wheat Flour"},
			ProductTests: []domain.ProductTest{{ID: "t9", SampleProductionDate: day("2023-05-01"), Fortification: domain.Fortification{Score: ptr(100)}}},
		},
		domain.Brand{ID: "b-acme-3", ProductType: domain.ProductType{Name: "Wheat Flour"}},
	)
	s, err := scoring.ScoreCompany(c, scoring.DashboardWeights, scoring.PointsTotal)
	require.NoError(t, err)
	assert.Len(t, s.Brands, 3)
	assert.InDelta(t, 80, s.ProductTestScore.Value, 1e-9)
}

func TestScoreCompany_ErrorsNameTheField(t *testing.T) {
	c := fixtureCompanies()[0]
	c.Brands[0].ProductTests[1].Fortification.Score = ptr(140)
	_, err := scoring.ScoreCompany(c, scoring.DashboardWeights, scoring.PointsTotal)
	var ve *scoring.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "brands[0].fortification.score", ve.Field)

	c = fixtureCompanies()[2]
	c.SAT[3].Raw = ptr(12)
	_, err = scoring.ScoreCompany(c, scoring.DashboardWeights, scoring.PointsTotal)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "satScores.Public Engagement.score", ve.Field)

	c = fixtureCompanies()[2]
	c.Tier = ""
	_, err = scoring.ScoreCompany(c, scoring.DashboardWeights, scoring.PointsTotal)
	assert.ErrorIs(t, err, scoring.ErrValidation)
}

func TestCompanyScore_JSONShape(t *testing.T) {
	s, err := scoring.ScoreCompany(fixtureCompanies()[2], scoring.DashboardWeights, scoring.PointsTotal)
	require.NoError(t, err)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "NaN")

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "c-cora", out["companyId"])
	assert.Nil(t, out["iegTotal"].(map[string]any)["value"])

	comp := out["composite"].(map[string]any)
	assert.Equal(t, 61.5, comp["value"])
	assert.Equal(t, false, comp["completeness"])

	ieg := out["categoryBreakdown"].(map[string]any)["ieg"].(map[string]any)
	assert.Len(t, ieg, 5)
	for name, v := range ieg {
		assert.Nil(t, v, name)
	}
}

func TestPercent_JSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal([]scoring.Percent{scoring.Scored(76.004), scoring.Unscored, scoring.Scored(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `[76, null, 0]`, string(raw))

	var back []scoring.Percent
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, []scoring.Percent{scoring.Scored(76), scoring.Unscored, scoring.Scored(0)}, back)

	assert.Equal(t, "-", scoring.Unscored.String())
	assert.Equal(t, "66.67", scoring.Scored(200.0/3).String())
}
