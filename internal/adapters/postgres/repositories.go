package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"kmfi/internal/domain"
	"kmfi/internal/ingest"
	"kmfi/internal/ports"
	"kmfi/internal/scoring"
)

// CycleRepository
func (db *DB) GetCycle(ctx context.Context, cycleID string) (domain.Cycle, error) {
	var c domain.Cycle
	err := db.Pool.QueryRow(ctx, `
        SELECT id, name, start_date, end_date, previous_id, locked
        FROM cycles WHERE id = $1
    `, cycleID).Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.PreviousID, &c.Locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Cycle{}, ports.ErrNotFound
	}
	if err != nil {
		return domain.Cycle{}, eris.Wrapf(err, "postgres: get cycle %s", cycleID)
	}
	return c, nil
}

// CompanyRepository
func (db *DB) ListCompanyRecords(ctx context.Context, cycleID string) ([]ingest.CompanyRecord, []scoring.EntityError, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT company_id, record FROM company_records
        WHERE cycle_id = $1
        ORDER BY company_id
    `, cycleID)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "postgres: list company records for %s", cycleID)
	}
	defer rows.Close()

	var (
		recs   []ingest.CompanyRecord
		failed []scoring.EntityError
	)
	for rows.Next() {
		var (
			companyID string
			raw       []byte
		)
		if err := rows.Scan(&companyID, &raw); err != nil {
			return nil, nil, eris.Wrap(err, "postgres: scan company record")
		}
		rec, err := ingest.DecodeCompany(raw)
		if err != nil {
			failed = append(failed, scoring.EntityError{CompanyID: companyID, Err: err})
			continue
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, eris.Wrapf(err, "postgres: read company records for %s", cycleID)
	}
	return recs, failed, nil
}

func (db *DB) GetCompanyRecord(ctx context.Context, cycleID, companyID string) (ingest.CompanyRecord, error) {
	var raw []byte
	err := db.Pool.QueryRow(ctx, `
        SELECT record FROM company_records
        WHERE cycle_id = $1 AND company_id = $2
    `, cycleID, companyID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ingest.CompanyRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ingest.CompanyRecord{}, eris.Wrapf(err, "postgres: get company %s", companyID)
	}
	return ingest.DecodeCompany(raw)
}

// SnapshotRepository
func (db *DB) SaveSnapshot(ctx context.Context, report ports.CycleReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: encode snapshot")
	}
	_, err = db.Pool.Exec(ctx, `
        INSERT INTO score_snapshots (cycle_id, regime, report, computed_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (cycle_id, regime) DO UPDATE SET report = EXCLUDED.report, computed_at = now()
    `, report.CycleID, string(report.Regime), payload)
	if err != nil {
		return eris.Wrapf(err, "postgres: save snapshot %s/%s", report.CycleID, report.Regime)
	}
	return nil
}
