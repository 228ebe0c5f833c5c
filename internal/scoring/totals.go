package scoring

import (
	"fmt"

	"kmfi/internal/domain"
)

// Totaling names how per-category scores roll up into one total. The two
// conventions give different results whenever category maxima differ.
type Totaling string

const (
	// PointsTotal sums raw points and divides by CombinedMax. Canonical.
	PointsTotal Totaling = "points"
	// CategoryAverage averages the per-category percentages.
	CategoryAverage Totaling = "average"
)

func ParseTotaling(s string) (Totaling, error) {
	switch Totaling(s) {
	case PointsTotal, CategoryAverage:
		return Totaling(s), nil
	case "":
		return PointsTotal, nil
	}
	return "", invalid("totaling", s, fmt.Sprintf("must be %q or %q", PointsTotal, CategoryAverage))
}

// Total is a category roll-up. Complete is false when any of the five
// categories is unscored.
type Total struct {
	Percent  Percent `json:"value"`
	Complete bool    `json:"complete"`
}

// AggregateCategoryTotal rolls up one source's category scores. Unscored
// categories are left out; if none are scored the total is Unscored.
func AggregateCategoryTotal(scores []domain.CategoryScore, method Totaling) (Total, error) {
	if method != PointsTotal && method != CategoryAverage {
		return Total{}, invalid("totaling", string(method), "unknown totaling method")
	}
	seen := make(map[string]bool, len(categories))
	var points, pctSum float64
	n := 0
	for _, s := range scores {
		cat, err := LookupCategory(s.CategoryName)
		if err != nil {
			return Total{}, err
		}
		if seen[cat.ID] {
			return Total{}, invalid("category", s.CategoryName, "duplicate category")
		}
		seen[cat.ID] = true
		if s.Max != 0 && s.Max != cat.Max {
			return Total{}, invalid(cat.Name+".max", s.Max, fmt.Sprintf("expected %v", cat.Max))
		}
		pct, err := NormalizeCategoryScore(s.Raw, cat.Name)
		if err != nil {
			return Total{}, err
		}
		if !pct.Scored {
			continue
		}
		points += *s.Raw
		pctSum += pct.Value
		n++
	}
	if n == 0 {
		return Total{Percent: Unscored}, nil
	}
	t := Total{Complete: n == len(categories)}
	switch method {
	case PointsTotal:
		t.Percent = Scored(points / CombinedMax * 100)
	case CategoryAverage:
		t.Percent = Scored(pctSum / float64(n))
	}
	return t, nil
}

// Breakdown normalizes each category, keyed by canonical category name. All
// five categories are present; missing ones map to Unscored.
func Breakdown(scores []domain.CategoryScore) (map[string]Percent, error) {
	out := make(map[string]Percent, len(categories))
	for _, c := range categories {
		out[c.Name] = Unscored
	}
	for _, s := range scores {
		pct, err := NormalizeCategoryScore(s.Raw, s.CategoryName)
		if err != nil {
			return nil, err
		}
		cat, _ := LookupCategory(s.CategoryName)
		out[cat.Name] = pct
	}
	return out, nil
}
