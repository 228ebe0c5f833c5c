package scoring

import (
	"time"

	"kmfi/internal/domain"
)

// AflatoxinIndicatorWeight weights the aflatoxin add-on indicator. The
// indicator is reported next to the product test score, never inside it.
const AflatoxinIndicatorWeight = 0.10

// SelectLatestProductTest returns the test with the most recent sample
// production date. Tests sharing the newest date resolve to the one listed
// first. Returns false for an empty list.
func SelectLatestProductTest(tests []domain.ProductTest) (domain.ProductTest, bool, error) {
	var (
		latest domain.ProductTest
		found  bool
	)
	for _, t := range tests {
		if t.SampleProductionDate.IsZero() {
			return domain.ProductTest{}, false, invalid("productTests.sample_production_date", t.ID, "missing date")
		}
		if !found || t.SampleProductionDate.After(latest.SampleProductionDate) {
			latest = t
			found = true
		}
	}
	return latest, found, nil
}

// ProductTestScore picks the fortification field the product type scores by:
// overallKMFIWeightedScore on the aflatoxin path, score otherwise. An absent
// field is Unscored and must be excluded from averages.
func ProductTestScore(test domain.ProductTest, pt domain.ProductType) (Percent, error) {
	field := "fortification.score"
	src := test.Fortification.Score
	if pt.Aflatoxin {
		field = "fortification.overallKMFIWeightedScore"
		src = test.Fortification.OverallKMFIWeightedScore
	}
	if src == nil {
		return Unscored, nil
	}
	p := Scored(*src)
	if err := checkPercent(field, p); err != nil {
		return Unscored, err
	}
	return p, nil
}

type BrandScore struct {
	BrandID            string     `json:"brandId"`
	BrandName          string     `json:"brandName"`
	ProductType        string     `json:"productType"`
	Aflatoxin          bool       `json:"aflatoxin"`
	LatestTestDate     *time.Time `json:"latestTestDate"`
	ProductTestScore   Percent    `json:"productTestScore"`
	AflatoxinScore     Percent    `json:"aflatoxinScore"`
	AflatoxinIndicator Percent    `json:"aflatoxinIndicator"`
}

// ScoreBrand scores a brand from its most recent product test only.
func ScoreBrand(b domain.Brand) (BrandScore, error) {
	out := BrandScore{
		BrandID:     b.ID,
		BrandName:   b.Name,
		ProductType: b.ProductType.Name,
		Aflatoxin:   b.ProductType.Aflatoxin,
	}
	latest, ok, err := SelectLatestProductTest(b.ProductTests)
	if err != nil || !ok {
		return out, err
	}
	d := latest.SampleProductionDate
	out.LatestTestDate = &d

	if out.ProductTestScore, err = ProductTestScore(latest, b.ProductType); err != nil {
		return out, err
	}
	if b.ProductType.Aflatoxin && latest.AflatoxinScore != nil {
		af := Scored(*latest.AflatoxinScore)
		if err := checkPercent("aflatoxinScore", af); err != nil {
			return out, err
		}
		out.AflatoxinScore = af
		out.AflatoxinIndicator = Scored(af.Value * AflatoxinIndicatorWeight)
	}
	return out, nil
}
