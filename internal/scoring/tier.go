package scoring

import "kmfi/internal/domain"

// Tier1Discount scales TIER_1 self scores when they are combined with TIER_3
// entities into one average.
const Tier1Discount = 0.66

// Scope says whether a self score is used for the entity itself or inside an
// average mixing tiers.
type Scope int

const (
	ScopeEntity Scope = iota
	ScopeBlended
)

// TierAdjustedSelfScore picks the applicable self score: the validated IVC
// total when scored, else the SAT total. In ScopeBlended, TIER_1 scores are
// discounted by Tier1Discount; a company's own composite never is.
func TierAdjustedSelfScore(tier domain.Tier, sat, ivc Percent, scope Scope) (Percent, error) {
	if !tier.Valid() {
		return Unscored, invalid("tier", string(tier), "must be TIER_1 or TIER_3")
	}
	if err := checkPercent("satTotal", sat); err != nil {
		return Unscored, err
	}
	if err := checkPercent("ivcTotal", ivc); err != nil {
		return Unscored, err
	}
	self := sat
	if ivc.Scored {
		self = ivc
	}
	if self.Scored && scope == ScopeBlended && tier == domain.Tier1 {
		self = Scored(self.Value * Tier1Discount)
	}
	return self, nil
}
