package ingest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"kmfi/internal/domain"
	"kmfi/internal/scoring"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate checks struct-level constraints and reports the first failure as a
// *scoring.ValidationError named by its JSON path.
func (r CompanyRecord) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return &scoring.ValidationError{Field: field, Value: fe.Value(), Reason: "failed " + fe.Tag()}
	}
	return err
}

// Normalize validates a record and converts it into a domain.Company. SAT, IVC
// and IEG scores all come out in the same CategoryScore shape, keyed by the
// canonical category name.
func Normalize(r CompanyRecord) (domain.Company, error) {
	if err := r.Validate(); err != nil {
		return domain.Company{}, err
	}
	c := domain.Company{
		ID:   string(r.ID),
		Name: r.CompanyName,
		Tier: domain.Tier(r.Tier),
	}

	var err error
	if c.SAT, err = categoryScores(r.SATScores); err != nil {
		return domain.Company{}, err
	}
	if c.IVC, err = categoryScores(r.IVCScores); err != nil {
		return domain.Company{}, err
	}
	ieg := make([]ScoreRecord, len(r.IEGScores))
	for i, s := range r.IEGScores {
		ieg[i] = ScoreRecord{Name: s.Category.Name, Score: s.Value}
	}
	if c.IEG, err = categoryScores(ieg); err != nil {
		return domain.Company{}, err
	}

	c.Brands = make([]domain.Brand, 0, len(r.Brands))
	for i, b := range r.Brands {
		brand := domain.Brand{
			ID:        string(b.ID),
			Name:      b.Name,
			CompanyID: c.ID,
			ProductType: domain.ProductType{
				Name:      b.ProductType.Name,
				Aflatoxin: b.ProductType.Aflatoxin,
			},
		}
		for j, t := range b.ProductTests {
			d, ok := parseDate(t.SampleProductionDate)
			if !ok {
				return domain.Company{}, &scoring.ValidationError{
					Field:  fmt.Sprintf("brands[%d].productTests[%d].sample_production_date", i, j),
					Value:  t.SampleProductionDate,
					Reason: "unparseable date",
				}
			}
			brand.ProductTests = append(brand.ProductTests, domain.ProductTest{
				ID:                   string(t.ID),
				SampleProductionDate: d,
				Fortification: domain.Fortification{
					Score:                    t.Fortification.Score,
					OverallKMFIWeightedScore: t.Fortification.OverallKMFIWeightedScore,
				},
				AflatoxinScore: t.AflatoxinScore,
			})
		}
		c.Brands = append(c.Brands, brand)
	}
	return c, nil
}

func categoryScores(in []ScoreRecord) ([]domain.CategoryScore, error) {
	out := make([]domain.CategoryScore, 0, len(in))
	for _, s := range in {
		cat, err := scoring.LookupCategory(s.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CategoryScore{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Raw:          s.Score,
			Max:          cat.Max,
		})
	}
	return out, nil
}

// NormalizeAll converts every record it can. Records that fail are reported
// per company and skipped.
func NormalizeAll(recs []CompanyRecord) ([]domain.Company, []scoring.EntityError) {
	companies := make([]domain.Company, 0, len(recs))
	var failed []scoring.EntityError
	for _, r := range recs {
		c, err := Normalize(r)
		if err != nil {
			failed = append(failed, scoring.EntityError{CompanyID: string(r.ID), Err: err})
			continue
		}
		companies = append(companies, c)
	}
	return companies, failed
}
