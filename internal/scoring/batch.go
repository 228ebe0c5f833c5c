package scoring

import (
	"context"

	"golang.org/x/sync/errgroup"

	"kmfi/internal/domain"
)

// EntityError pairs a company with the error that kept it out of a batch.
type EntityError struct {
	CompanyID string `json:"companyId"`
	Err       error  `json:"-"`
}

func (e EntityError) Error() string { return e.CompanyID + ": " + e.Err.Error() }

func (e EntityError) Unwrap() error { return e.Err }

// BatchResult keeps successful scores in input order alongside per-company
// failures.
type BatchResult struct {
	Scores []CompanyScore
	Errors []EntityError
}

// ScoreBatch scores companies independently and in parallel. One company's bad
// record never aborts the batch. The returned error is non-nil only for
// invalid weights or totaling, or when ctx is cancelled.
func ScoreBatch(ctx context.Context, companies []domain.Company, w Weights, method Totaling, concurrency int) (BatchResult, error) {
	if err := w.Validate(); err != nil {
		return BatchResult{}, err
	}
	if method != PointsTotal && method != CategoryAverage {
		return BatchResult{}, invalid("totaling", string(method), "unknown totaling method")
	}
	if concurrency < 1 {
		concurrency = 1
	}

	scores := make([]CompanyScore, len(companies))
	errs := make([]error, len(companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range companies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i], errs[i] = ScoreCompany(companies[i], w, method)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	for i, c := range companies {
		if errs[i] != nil {
			res.Errors = append(res.Errors, EntityError{CompanyID: c.ID, Err: errs[i]})
			continue
		}
		res.Scores = append(res.Scores, scores[i])
	}
	return res, nil
}
