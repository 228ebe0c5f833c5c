package scoring_test

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmfi/internal/scoring"
)

func TestNormalizeCategoryScore_Bounds(t *testing.T) {
	for _, c := range scoring.Categories() {
		t.Run(c.Name, func(t *testing.T) {
			top, err := scoring.NormalizeCategoryScore(ptr(c.Max), c.Name)
			require.NoError(t, err)
			assert.True(t, top.Scored)
			assert.InDelta(t, 100, top.Value, 1e-9)

			zero, err := scoring.NormalizeCategoryScore(ptr(0), c.Name)
			require.NoError(t, err)
			assert.True(t, zero.Scored)
			assert.Equal(t, 0.0, zero.Value)
		})
	}
}

func TestNormalizeCategoryScore_Maxima(t *testing.T) {
	want := map[string]float64{
		scoring.PeopleManagement: 15,
		scoring.Production:       25,
		scoring.Procurement:      25,
		scoring.PublicEngagement: 10,
		scoring.Governance:       25,
	}
	var sum float64
	for _, c := range scoring.Categories() {
		assert.Equal(t, want[c.Name], c.Max, c.Name)
		sum += c.Max
	}
	assert.Equal(t, scoring.CombinedMax, sum)

	p, err := scoring.NormalizeCategoryScore(ptr(5), scoring.PublicEngagement)
	require.NoError(t, err)
	assert.InDelta(t, 50, p.Value, 1e-9)
}

func TestNormalizeCategoryScore_MissingIsNotZero(t *testing.T) {
	p, err := scoring.NormalizeCategoryScore(nil, scoring.Governance)
	require.NoError(t, err)
	assert.False(t, p.Scored)
	assert.NotEqual(t, scoring.Scored(0), p)
	assert.Equal(t, scoring.Unscored, p)
}

func TestNormalizeCategoryScore_UnknownCategory(t *testing.T) {
	_, err := scoring.NormalizeCategoryScore(ptr(3), "Marketing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, scoring.ErrUnknownCategory))

	var uc *scoring.UnknownCategoryError
	require.True(t, errors.As(err, &uc))
	assert.Equal(t, "Marketing", uc.Name)

	// unknown names are rejected even when the score is missing
	_, err = scoring.NormalizeCategoryScore(nil, "Marketing")
	assert.ErrorIs(t, err, scoring.ErrUnknownCategory)
}

func TestNormalizeCategoryScore_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		cat  string
	}{
		{"negative", -1, scoring.Production},
		{"above max", 15.5, scoring.PeopleManagement},
		{"above public engagement max", 11, scoring.PublicEngagement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scoring.NormalizeCategoryScore(ptr(tt.raw), tt.cat)
			require.Error(t, err)
			assert.ErrorIs(t, err, scoring.ErrValidation)
			var ve *scoring.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Field, tt.cat)
		})
	}
}

func TestLookupCategory(t *testing.T) {
	c, err := scoring.LookupCategory("Production, Quality Assurance & Distribution")
	require.NoError(t, err)
	assert.Equal(t, scoring.Production, c.Name)

	c, err = scoring.LookupCategory("  people management systems ")
	require.NoError(t, err)
	assert.Equal(t, "people_management", c.ID)

	c, err = scoring.LookupCategory("governance")
	require.NoError(t, err)
	assert.Equal(t, scoring.Governance, c.Name)

	c, err = scoring.LookupCategory("production quality")
	require.NoError(t, err)
	assert.Equal(t, scoring.Production, c.Name)

	for _, name := range []string{"Prod", "Productionless", "Productions, Ltd", "Productions"} {
		_, err = scoring.LookupCategory(name)
		assert.ErrorIs(t, err, scoring.ErrUnknownCategory, name)
	}
}

func TestNormalizeCategoryScore_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	cs := scoring.Categories()
	properties.Property("in-range raw scores normalize into [0,100]", prop.ForAll(
		func(idx int, frac float64) bool {
			c := cs[idx]
			p, err := scoring.NormalizeCategoryScore(ptr(c.Max*frac), c.Name)
			return err == nil && p.Scored && p.Value >= 0 && p.Value <= 100+1e-9
		},
		gen.IntRange(0, len(cs)-1),
		gen.Float64Range(0, 1),
	))

	properties.Property("normalization is monotonic", prop.ForAll(
		func(idx int, a, b float64) bool {
			c := cs[idx]
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			pl, err1 := scoring.NormalizeCategoryScore(ptr(c.Max*lo), c.Name)
			ph, err2 := scoring.NormalizeCategoryScore(ptr(c.Max*hi), c.Name)
			return err1 == nil && err2 == nil && pl.Value <= ph.Value
		},
		gen.IntRange(0, len(cs)-1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
