package scoring

import "strings"

// Category is one of the five fixed assessment categories. Max is the point
// value a raw score is normalized against.
type Category struct {
	ID   string
	Name string
	Max  float64
}

const (
	PeopleManagement = "People Management Systems"
	Production       = "Production"
	Procurement      = "Procurement & Inputs Management"
	PublicEngagement = "Public Engagement"
	Governance       = "Governance & Leadership Culture"
)

// CombinedMax is the sum of all category maxima.
const CombinedMax = 100.0

var categories = []Category{
	{ID: "people_management", Name: PeopleManagement, Max: 15},
	{ID: "production", Name: Production, Max: 25},
	{ID: "procurement", Name: Procurement, Max: 25},
	{ID: "public_engagement", Name: PublicEngagement, Max: 10},
	{ID: "governance", Name: Governance, Max: 25},
}

// Categories returns the fixed categories in reporting order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory resolves a category by canonical name or id, case-insensitive.
// The backend labels production with a long suffix ("Production, Quality
// Assurance & Distribution"), so "Production" followed by a separator matches
// it. A longer word such as "Productions" does not.
func LookupCategory(name string) (Category, error) {
	n := strings.TrimSpace(name)
	for _, c := range categories {
		if strings.EqualFold(n, c.Name) || strings.EqualFold(n, c.ID) {
			return c, nil
		}
	}
	if len(n) > len(Production) && strings.EqualFold(n[:len(Production)], Production) {
		switch n[len(Production)] {
		case ',', ' ':
			return categories[1], nil
		}
	}
	return Category{}, &UnknownCategoryError{Name: name}
}
