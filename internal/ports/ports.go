package ports

import (
	"context"

	"kmfi/internal/domain"
	"kmfi/internal/scoring"
)

// CompanyError is a per-company failure inside a cycle report.
type CompanyError struct {
	CompanyID string `json:"companyId"`
	Message   string `json:"error"`
}

// CycleReport is one aggregation pass over every company in a cycle.
type CycleReport struct {
	CycleID string                 `json:"cycleId"`
	Regime  scoring.Regime         `json:"regime"`
	Scores  []scoring.CompanyScore `json:"scores"`
	Errors  []CompanyError         `json:"errors"`
}

// Comparison puts a company's composite next to its previous-cycle composite.
type Comparison struct {
	CompanyID       string          `json:"companyId"`
	CycleID         string          `json:"cycleId"`
	PreviousCycleID *string         `json:"previousCycleId"`
	Current         scoring.Percent `json:"current"`
	Previous        scoring.Percent `json:"previous"`
	Delta           scoring.Percent `json:"delta"`
}

// Scores serves aggregated company scores for a cycle.
type Scores interface {
	CycleScores(ctx context.Context, cycleID string, regime scoring.Regime) (CycleReport, error)
	CompanyScore(ctx context.Context, cycleID, companyID string, regime scoring.Regime) (scoring.CompanyScore, error)
	Ranking(ctx context.Context, cycleID string, regime scoring.Regime) ([]scoring.RankedCompany, error)
	Industry(ctx context.Context, cycleID string, regime scoring.Regime) (scoring.Averages, error)
	Comparison(ctx context.Context, cycleID, companyID string, regime scoring.Regime) (Comparison, error)
}

// Cycles resolves assessment cycles.
type Cycles interface {
	Get(ctx context.Context, cycleID string) (domain.Cycle, error)
	// Previous returns the cycle linked by previous_id; false when there is none.
	Previous(ctx context.Context, cycleID string) (domain.Cycle, bool, error)
	EnsureUnlocked(ctx context.Context, cycleID string) error
}
