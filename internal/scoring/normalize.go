package scoring

// NormalizeCategoryScore scales a raw point value to a percentage of the
// category maximum. A nil raw score yields Unscored.
func NormalizeCategoryScore(raw *float64, categoryName string) (Percent, error) {
	cat, err := LookupCategory(categoryName)
	if err != nil {
		return Unscored, err
	}
	if raw == nil {
		return Unscored, nil
	}
	v := *raw
	field := cat.Name + ".score"
	if !finite(v) {
		return Unscored, invalid(field, v, "not a finite number")
	}
	if v < 0 {
		return Unscored, invalid(field, v, "must not be negative")
	}
	if v > cat.Max {
		return Unscored, invalid(field, v, "exceeds category maximum")
	}
	return Scored(v / cat.Max * 100), nil
}
