package scoring_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmfi/internal/domain"
	"kmfi/internal/scoring"
)

func rankIDs(r []scoring.RankedCompany) []string {
	ids := make([]string, len(r))
	for i, c := range r {
		ids[i] = c.CompanyID
	}
	return ids
}

func TestRank_FixtureOrderIsReproducible(t *testing.T) {
	companies := fixtureCompanies()
	res, err := scoring.ScoreBatch(context.Background(), companies, scoring.IndexWeights, scoring.PointsTotal, 3)
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	first := scoring.Rank(res.Scores)
	assert.Equal(t, []string{"c-bolt", "c-acme", "c-cora"}, rankIDs(first))
	assert.Equal(t, []int{1, 2, 3}, []int{first[0].Rank, first[1].Rank, first[2].Rank})

	for i := 0; i < 20; i++ {
		reversed := []domain.Company{companies[2], companies[1], companies[0]}
		again, err := scoring.ScoreBatch(context.Background(), reversed, scoring.IndexWeights, scoring.PointsTotal, 2)
		require.NoError(t, err)
		assert.Equal(t, rankIDs(first), rankIDs(scoring.Rank(again.Scores)))
	}
}

func TestRank_DashboardRegime(t *testing.T) {
	res, err := scoring.ScoreBatch(context.Background(), fixtureCompanies(), scoring.DashboardWeights, scoring.PointsTotal, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-bolt", "c-acme", "c-cora"}, rankIDs(scoring.Rank(res.Scores)))
}

func TestRank_TiesAndUnscored(t *testing.T) {
	scores := []scoring.CompanyScore{
		{CompanyID: "4", CompanyName: "Delta", Composite: scoring.Composite{Value: scoring.Unscored}},
		{CompanyID: "3", CompanyName: "Gamma", Composite: scoring.Composite{Value: scoring.Scored(70.001)}},
		{CompanyID: "2", CompanyName: "Beta", Composite: scoring.Composite{Value: scoring.Scored(70)}},
		{CompanyID: "1", CompanyName: "Alpha", Composite: scoring.Composite{Value: scoring.Scored(65)}},
		{CompanyID: "0", CompanyName: "Beta", Composite: scoring.Composite{Value: scoring.Scored(90)}},
	}
	ranked := scoring.Rank(scores)
	assert.Equal(t, []string{"0", "2", "3", "1", "4"}, rankIDs(ranked))
	assert.Equal(t, []int{1, 2, 2, 4, 0}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank, ranked[3].Rank, ranked[4].Rank})
}
