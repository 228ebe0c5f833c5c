package scores

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rotisserie/eris"

	"kmfi/internal/ingest"
	"kmfi/internal/ports"
	"kmfi/internal/scoring"
)

// Service loads a cycle's company records, runs them through the aggregator
// and serves the results. Each (cycle, regime) pass is computed once and kept
// in the cache until the cycle is invalidated.
type Service struct {
	cycles      ports.Cycles
	companies   ports.CompanyRepository
	snapshots   ports.SnapshotRepository
	cache       ports.ScoreCache
	totaling    scoring.Totaling
	concurrency int
	log         *slog.Logger
}

type Option func(*Service)

func WithTotaling(m scoring.Totaling) Option { return func(s *Service) { s.totaling = m } }

func WithConcurrency(n int) Option { return func(s *Service) { s.concurrency = n } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

func New(cycles ports.Cycles, companies ports.CompanyRepository, snapshots ports.SnapshotRepository, cache ports.ScoreCache, opts ...Option) *Service {
	s := &Service{
		cycles:      cycles,
		companies:   companies,
		snapshots:   snapshots,
		cache:       cache,
		totaling:    scoring.PointsTotal,
		concurrency: 4,
		log:         slog.Default().With("component", "scores"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute runs a fresh aggregation pass, bypassing the cache.
func (s *Service) Compute(ctx context.Context, cycleID string, regime scoring.Regime) (ports.CycleReport, error) {
	w, err := scoring.WeightsFor(regime)
	if err != nil {
		return ports.CycleReport{}, err
	}
	if _, err := s.cycles.Get(ctx, cycleID); err != nil {
		return ports.CycleReport{}, err
	}
	recs, failed, err := s.companies.ListCompanyRecords(ctx, cycleID)
	if err != nil {
		return ports.CycleReport{}, eris.Wrapf(err, "scores: list companies for cycle %s", cycleID)
	}

	companies, invalid := ingest.NormalizeAll(recs)
	failed = append(failed, invalid...)
	res, err := scoring.ScoreBatch(ctx, companies, w, s.totaling, s.concurrency)
	if err != nil {
		return ports.CycleReport{}, err
	}
	failed = append(failed, res.Errors...)

	report := ports.CycleReport{
		CycleID: cycleID,
		Regime:  regime,
		Scores:  res.Scores,
		Errors:  make([]ports.CompanyError, 0, len(failed)),
	}
	for _, f := range failed {
		s.log.WarnContext(ctx, "company excluded from cycle scores",
			"cycle", cycleID, "company", f.CompanyID, "error", f.Err)
		report.Errors = append(report.Errors, ports.CompanyError{CompanyID: f.CompanyID, Message: f.Err.Error()})
	}
	if report.Scores == nil {
		report.Scores = []scoring.CompanyScore{}
	}
	return report, nil
}

// CycleScores returns the cached report for the cycle, computing it on a miss.
// Cache failures are logged and fall through to a fresh computation.
func (s *Service) CycleScores(ctx context.Context, cycleID string, regime scoring.Regime) (ports.CycleReport, error) {
	if _, err := scoring.WeightsFor(regime); err != nil {
		return ports.CycleReport{}, err
	}
	if s.cache != nil {
		report, ok, err := s.cache.Get(ctx, cycleID, regime)
		if err != nil {
			s.log.WarnContext(ctx, "score cache read failed", "cycle", cycleID, "regime", regime, "error", err)
		} else if ok {
			return report, nil
		}
	}
	report, err := s.Compute(ctx, cycleID, regime)
	if err != nil {
		return ports.CycleReport{}, err
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, report); err != nil {
			s.log.WarnContext(ctx, "score cache write failed", "cycle", cycleID, "regime", regime, "error", err)
		}
	}
	return report, nil
}

// CompanyScore scores a single company straight from its record so that
// validation errors reach the caller typed.
func (s *Service) CompanyScore(ctx context.Context, cycleID, companyID string, regime scoring.Regime) (scoring.CompanyScore, error) {
	w, err := scoring.WeightsFor(regime)
	if err != nil {
		return scoring.CompanyScore{}, err
	}
	rec, err := s.companies.GetCompanyRecord(ctx, cycleID, companyID)
	if err != nil {
		return scoring.CompanyScore{}, err
	}
	c, err := ingest.Normalize(rec)
	if err != nil {
		return scoring.CompanyScore{}, err
	}
	return scoring.ScoreCompany(c, w, s.totaling)
}

func (s *Service) Ranking(ctx context.Context, cycleID string, regime scoring.Regime) ([]scoring.RankedCompany, error) {
	report, err := s.CycleScores(ctx, cycleID, regime)
	if err != nil {
		return nil, err
	}
	return scoring.Rank(report.Scores), nil
}

func (s *Service) Industry(ctx context.Context, cycleID string, regime scoring.Regime) (scoring.Averages, error) {
	w, err := scoring.WeightsFor(regime)
	if err != nil {
		return scoring.Averages{}, err
	}
	report, err := s.CycleScores(ctx, cycleID, regime)
	if err != nil {
		return scoring.Averages{}, err
	}
	return scoring.BlendedIndustryAverage(report.Scores, w)
}

// Comparison reports the company's composite in this cycle and the previous
// one. A company absent from the previous cycle gets an unscored previous
// value rather than an error.
func (s *Service) Comparison(ctx context.Context, cycleID, companyID string, regime scoring.Regime) (ports.Comparison, error) {
	prevCycle, hasPrev, err := s.cycles.Previous(ctx, cycleID)
	if err != nil {
		return ports.Comparison{}, err
	}
	cur, err := s.CompanyScore(ctx, cycleID, companyID, regime)
	if err != nil {
		return ports.Comparison{}, err
	}
	out := ports.Comparison{
		CompanyID: companyID,
		CycleID:   cycleID,
		Current:   cur.Composite.Value,
	}
	if !hasPrev {
		return out, nil
	}
	out.PreviousCycleID = &prevCycle.ID
	prev, err := s.CompanyScore(ctx, prevCycle.ID, companyID, regime)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return out, nil
	case err != nil:
		return ports.Comparison{}, eris.Wrapf(err, "scores: previous cycle %s", prevCycle.ID)
	}
	out.Previous = prev.Composite.Value
	if out.Current.Scored && out.Previous.Scored {
		out.Delta = scoring.Scored(out.Current.Value - out.Previous.Value)
	}
	return out, nil
}

// Recompute drops cached reports for the cycle, recomputes every regime and
// persists the results as snapshots.
func (s *Service) Recompute(ctx context.Context, cycleID string) error {
	if err := s.cycles.EnsureUnlocked(ctx, cycleID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cycleID); err != nil {
			return eris.Wrapf(err, "scores: invalidate cycle %s", cycleID)
		}
	}
	for _, regime := range []scoring.Regime{scoring.RegimeDashboard, scoring.RegimeIndex} {
		report, err := s.Compute(ctx, cycleID, regime)
		if err != nil {
			return err
		}
		if s.snapshots != nil {
			if err := s.snapshots.SaveSnapshot(ctx, report); err != nil {
				return eris.Wrapf(err, "scores: save %s snapshot", regime)
			}
		}
		if s.cache != nil {
			if err := s.cache.Put(ctx, report); err != nil {
				s.log.WarnContext(ctx, "score cache write failed", "cycle", cycleID, "regime", regime, "error", err)
			}
		}
		s.log.InfoContext(ctx, "cycle recomputed",
			"cycle", cycleID, "regime", regime, "scored", len(report.Scores), "failed", len(report.Errors))
	}
	return nil
}
