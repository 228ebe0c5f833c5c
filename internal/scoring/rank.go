package scoring

import (
	"cmp"
	"slices"
	"strings"
)

type RankedCompany struct {
	// Rank is 1-based with competition ties (1, 1, 3). Companies with an
	// unscored composite get 0 and sort last.
	Rank int `json:"rank"`
	CompanyScore
}

// Rank orders companies by composite, highest first. Composites are compared
// at two decimal places, the precision they are reported at; ties break on
// company name, then id, so the order is reproducible for identical input.
func Rank(scores []CompanyScore) []RankedCompany {
	out := make([]RankedCompany, len(scores))
	for i, s := range scores {
		out[i] = RankedCompany{CompanyScore: s}
	}
	slices.SortStableFunc(out, func(a, b RankedCompany) int {
		av, bv := a.Composite.Value, b.Composite.Value
		if av.Scored != bv.Scored {
			if av.Scored {
				return -1
			}
			return 1
		}
		if av.Scored {
			if c := cmp.Compare(roundTo(bv.Value, 2), roundTo(av.Value, 2)); c != 0 {
				return c
			}
		}
		if c := strings.Compare(a.CompanyName, b.CompanyName); c != 0 {
			return c
		}
		return strings.Compare(a.CompanyID, b.CompanyID)
	})
	for i := range out {
		v := out[i].Composite.Value
		if !v.Scored {
			continue
		}
		if i > 0 && out[i-1].Rank > 0 && roundTo(out[i-1].Composite.Value.Value, 2) == roundTo(v.Value, 2) {
			out[i].Rank = out[i-1].Rank
		} else {
			out[i].Rank = i + 1
		}
	}
	return out
}
