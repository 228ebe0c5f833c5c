package ports

import (
	"context"
	"errors"

	"kmfi/internal/domain"
	"kmfi/internal/ingest"
	"kmfi/internal/scoring"
)

var (
	ErrNotFound = errors.New("not found")
	ErrLocked   = errors.New("cycle is locked")
)

type CycleRepository interface {
	GetCycle(ctx context.Context, cycleID string) (domain.Cycle, error)
}

// CompanyRepository returns company records as the backend stored them for a
// cycle. Records that cannot be decoded are reported per company instead of
// failing the listing. Normalization happens in the caller.
type CompanyRepository interface {
	ListCompanyRecords(ctx context.Context, cycleID string) ([]ingest.CompanyRecord, []scoring.EntityError, error)
	GetCompanyRecord(ctx context.Context, cycleID, companyID string) (ingest.CompanyRecord, error)
}

// SnapshotRepository persists computed cycle reports.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, report CycleReport) error
}

// ScoreCache holds one computed report per cycle and regime. Invalidate drops
// every regime for the cycle.
type ScoreCache interface {
	Get(ctx context.Context, cycleID string, regime scoring.Regime) (CycleReport, bool, error)
	Put(ctx context.Context, report CycleReport) error
	Invalidate(ctx context.Context, cycleID string) error
}
