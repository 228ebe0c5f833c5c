package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"kmfi/internal/ports"
)

func (db *DB) Enqueue(ctx context.Context, cycleID string) (string, error) {
	var jobID string
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO recompute_jobs (cycle_id) VALUES ($1) RETURNING id
    `, cycleID).Scan(&jobID)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: enqueue recompute for %s", cycleID)
	}
	return jobID, nil
}

func (db *DB) JobStatus(ctx context.Context, jobID string) (string, float64, error) {
	var status string
	var progress float64
	err := db.Pool.QueryRow(ctx, `SELECT status, progress FROM recompute_jobs WHERE id = $1`, jobID).Scan(&status, &progress)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ports.ErrNotFound
	}
	return status, progress, err
}

// ClaimNext selects the next queued job using SKIP LOCKED and marks it running.
func (db *DB) ClaimNext(ctx context.Context) (job ports.RecomputeJob, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return job, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
        SELECT id, cycle_id FROM recompute_jobs
        WHERE status = 'queued'
        ORDER BY queued_at
        FOR UPDATE SKIP LOCKED
        LIMIT 1
    `).Scan(&job.ID, &job.CycleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return job, false, nil
	}
	if err != nil {
		return job, false, err
	}

	if _, err = tx.Exec(ctx, `
        UPDATE recompute_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1
    `, job.ID); err != nil {
		return job, false, err
	}
	return job, true, nil
}

func (db *DB) UpdateProgress(ctx context.Context, jobID string, progress float64) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	_, err := db.Pool.Exec(ctx, `UPDATE recompute_jobs SET progress=$2 WHERE id=$1`, jobID, progress)
	return err
}

func (db *DB) MarkCompleted(ctx context.Context, jobID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
        UPDATE recompute_jobs SET status='completed', progress=1, finished_at=now() WHERE id=$1
    `, jobID)
	return err
}

func (db *DB) MarkFailed(ctx context.Context, jobID string, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
        UPDATE recompute_jobs SET status='failed', error=$2, finished_at=now() WHERE id=$1
    `, jobID, reason)
	return err
}

// StartJob marks a specific queued job as running and returns its cycle id.
func (db *DB) StartJob(ctx context.Context, jobID string) (cycleID string, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	err = tx.QueryRow(ctx, `
        SELECT cycle_id FROM recompute_jobs
        WHERE id = $1 AND status = 'queued'
        FOR UPDATE SKIP LOCKED
    `, jobID).Scan(&cycleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ports.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if _, err = tx.Exec(ctx, `UPDATE recompute_jobs SET status='running', started_at=now(), attempts=attempts+1 WHERE id=$1`, jobID); err != nil {
		return "", err
	}
	return cycleID, nil
}
