package scoring_test

import (
	"time"

	"kmfi/internal/domain"
	"kmfi/internal/scoring"
)

func ptr(v float64) *float64 { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// cats builds category scores in reporting order; nil entries are unscored.
func cats(vals ...*float64) []domain.CategoryScore {
	out := make([]domain.CategoryScore, 0, len(vals))
	for i, v := range vals {
		c := scoring.Categories()[i]
		out = append(out, domain.CategoryScore{CategoryID: c.ID, CategoryName: c.Name, Raw: v, Max: c.Max})
	}
	return out
}

// pointsOf returns raw points that are pct percent of every category maximum.
func pointsOf(pct float64) []domain.CategoryScore {
	vals := make([]*float64, 0, 5)
	for _, c := range scoring.Categories() {
		vals = append(vals, ptr(c.Max*pct/100))
	}
	return cats(vals...)
}

// fixtureCompanies returns three companies: a TIER_3 with validated scores, a
// TIER_1 on the aflatoxin path, and a TIER_3 with no IEG score.
func fixtureCompanies() []domain.Company {
	return []domain.Company{
		{
			ID: "c-acme", Name: "Acme Mills", Tier: domain.Tier3,
			IVC: pointsOf(80),
			IEG: pointsOf(90),
			Brands: []domain.Brand{{
				ID: "b-acme-1", Name: "Acme Flour", CompanyID: "c-acme",
				ProductType: domain.ProductType{Name: "Wheat Flour"},
				ProductTests: []domain.ProductTest{
					{ID: "t1", SampleProductionDate: day("2023-01-01"), Fortification: domain.Fortification{Score: ptr(40)}},
					{ID: "t2", SampleProductionDate: day("2023-06-01"), Fortification: domain.Fortification{Score: ptr(60)}},
				},
			}},
		},
		{
			ID: "c-bolt", Name: "Bolt Foods", Tier: domain.Tier1,
			SAT: pointsOf(100),
			IEG: pointsOf(50),
			Brands: []domain.Brand{{
				ID: "b-bolt-1", Name: "Bolt Maize", CompanyID: "c-bolt",
				ProductType: domain.ProductType{Name: "Maize Flour", Aflatoxin: true},
				ProductTests: []domain.ProductTest{
					{ID: "t3", SampleProductionDate: day("2023-03-01"), Fortification: domain.Fortification{OverallKMFIWeightedScore: ptr(70)}, AflatoxinScore: ptr(80)},
				},
			}},
		},
		{
			ID: "c-cora", Name: "Cora Oils", Tier: domain.Tier3,
			SAT: pointsOf(75),
			Brands: []domain.Brand{{
				ID: "b-cora-1", Name: "Cora Oil", CompanyID: "c-cora",
				ProductType: domain.ProductType{Name: "Edible Oil"},
				ProductTests: []domain.ProductTest{
					{ID: "t4", SampleProductionDate: day("2023-02-01"), Fortification: domain.Fortification{Score: ptr(80)}},
				},
			}},
		},
	}
}
