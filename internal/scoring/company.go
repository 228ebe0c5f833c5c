package scoring

import (
	"fmt"

	"kmfi/internal/domain"
)

type CategoryBreakdown struct {
	SAT map[string]Percent `json:"sat"`
	IVC map[string]Percent `json:"ivc"`
	IEG map[string]Percent `json:"ieg"`
}

// CompanyScore is the output record for one company. It is safe to hand to
// any chart or report renderer: unscored values encode as null.
type CompanyScore struct {
	CompanyID         string            `json:"companyId"`
	CompanyName       string            `json:"companyName"`
	Tier              domain.Tier       `json:"tier"`
	CategoryBreakdown CategoryBreakdown `json:"categoryBreakdown"`
	SATTotal          Total             `json:"satTotal"`
	IVCTotal          Total             `json:"ivcTotal"`
	IEGTotal          Total             `json:"iegTotal"`
	SelfScore         Percent           `json:"selfScore"`
	ProductTestScore  Percent           `json:"productTestScore"`
	Brands            []BrandScore      `json:"brands"`
	Composite         Composite         `json:"composite"`
}

// ScoreCompany runs one full aggregation pass for a company: category
// breakdowns and totals for each source, the company's own self score, the
// product testing score averaged over brands with a scored latest test, and
// the weighted composite.
func ScoreCompany(c domain.Company, w Weights, method Totaling) (CompanyScore, error) {
	if c.ID == "" {
		return CompanyScore{}, invalid("id", nil, "required")
	}
	if !c.Tier.Valid() {
		return CompanyScore{}, invalid("tier", string(c.Tier), "must be TIER_1 or TIER_3")
	}
	if err := w.Validate(); err != nil {
		return CompanyScore{}, err
	}
	out := CompanyScore{CompanyID: c.ID, CompanyName: c.Name, Tier: c.Tier}

	sources := []struct {
		prefix string
		scores []domain.CategoryScore
		bd     *map[string]Percent
		total  *Total
	}{
		{"satScores.", c.SAT, &out.CategoryBreakdown.SAT, &out.SATTotal},
		{"ivcScores.", c.IVC, &out.CategoryBreakdown.IVC, &out.IVCTotal},
		{"iegScores.", c.IEG, &out.CategoryBreakdown.IEG, &out.IEGTotal},
	}
	for _, src := range sources {
		total, err := AggregateCategoryTotal(src.scores, method)
		if err != nil {
			return CompanyScore{}, prefixed(src.prefix, err)
		}
		bd, err := Breakdown(src.scores)
		if err != nil {
			return CompanyScore{}, prefixed(src.prefix, err)
		}
		*src.total = total
		*src.bd = bd
	}

	self, err := TierAdjustedSelfScore(c.Tier, out.SATTotal.Percent, out.IVCTotal.Percent, ScopeEntity)
	if err != nil {
		return CompanyScore{}, err
	}
	out.SelfScore = self

	var pt mean
	out.Brands = make([]BrandScore, 0, len(c.Brands))
	for i, b := range c.Brands {
		bs, err := ScoreBrand(b)
		if err != nil {
			return CompanyScore{}, prefixed(fmt.Sprintf("brands[%d].", i), err)
		}
		pt.add(bs.ProductTestScore)
		out.Brands = append(out.Brands, bs)
	}
	out.ProductTestScore = pt.value()

	out.Composite, err = CompositeScore(out.SelfScore, out.ProductTestScore, out.IEGTotal.Percent, w)
	if err != nil {
		return CompanyScore{}, err
	}
	return out, nil
}
