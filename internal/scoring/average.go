package scoring

import "kmfi/internal/domain"

// EntityScores is one company or brand inside an average.
type EntityScores struct {
	ID        string
	Self      Percent
	PT        Percent
	IEG       Percent
	Composite Percent
}

// FieldCounts records how many entities contributed to each mean.
type FieldCounts struct {
	Self      int `json:"self"`
	PT        int `json:"pt"`
	IEG       int `json:"ieg"`
	Composite int `json:"composite"`
}

type Averages struct {
	Self      Percent     `json:"self"`
	PT        Percent     `json:"pt"`
	IEG       Percent     `json:"ieg"`
	Composite Percent     `json:"composite"`
	Counts    FieldCounts `json:"counts"`
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(p Percent) {
	if p.Scored {
		m.sum += p.Value
		m.n++
	}
}

func (m mean) value() Percent {
	if m.n == 0 {
		return Unscored
	}
	return Scored(m.sum / float64(m.n))
}

// IndustryAverage takes the arithmetic mean of each field separately. An
// entity missing a field is left out of that field's denominator only.
func IndustryAverage(entities []EntityScores) Averages {
	var self, pt, ieg, comp mean
	for _, e := range entities {
		self.add(e.Self)
		pt.add(e.PT)
		ieg.add(e.IEG)
		comp.add(e.Composite)
	}
	return Averages{
		Self:      self.value(),
		PT:        pt.value(),
		IEG:       ieg.value(),
		Composite: comp.value(),
		Counts:    FieldCounts{Self: self.n, PT: pt.n, IEG: ieg.n, Composite: comp.n},
	}
}

// BlendedIndustryAverage averages company scores across an industry. When the
// set mixes TIER_1 and TIER_3 companies, TIER_1 self scores are discounted and
// composites recomputed with the discounted self score before averaging. Each
// company counts once.
func BlendedIndustryAverage(scores []CompanyScore, w Weights) (Averages, error) {
	if err := w.Validate(); err != nil {
		return Averages{}, err
	}
	var has1, has3 bool
	for _, s := range scores {
		switch s.Tier {
		case domain.Tier1:
			has1 = true
		case domain.Tier3:
			has3 = true
		}
	}
	scope := ScopeEntity
	if has1 && has3 {
		scope = ScopeBlended
	}
	entities := make([]EntityScores, 0, len(scores))
	for _, s := range scores {
		self, err := TierAdjustedSelfScore(s.Tier, s.SATTotal.Percent, s.IVCTotal.Percent, scope)
		if err != nil {
			return Averages{}, err
		}
		comp, err := CompositeScore(self, s.ProductTestScore, s.IEGTotal.Percent, w)
		if err != nil {
			return Averages{}, err
		}
		entities = append(entities, EntityScores{
			ID:        s.CompanyID,
			Self:      self,
			PT:        s.ProductTestScore,
			IEG:       s.IEGTotal.Percent,
			Composite: comp.Value,
		})
	}
	return IndustryAverage(entities), nil
}
