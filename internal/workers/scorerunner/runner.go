package scorerunner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kmfi/internal/ports"
)

// Processor performs the recompute for a claimed job.
type Processor interface {
	Process(ctx context.Context, job ports.RecomputeJob) error
}

// Recomputer is the slice of the scores service a processor needs.
type Recomputer interface {
	Recompute(ctx context.Context, cycleID string) error
}

// RecomputeProcessor recomputes every regime for the job's cycle and stores
// the snapshots.
type RecomputeProcessor struct {
	Scores Recomputer
	Repo   ports.JobRepository
}

func (p RecomputeProcessor) Process(ctx context.Context, job ports.RecomputeJob) error {
	if err := p.Repo.UpdateProgress(ctx, job.ID, 0.1); err != nil {
		return err
	}
	return p.Scores.Recompute(ctx, job.CycleID)
}

// Run starts worker goroutines that claim jobs and process them.
func Run(ctx context.Context, repo ports.JobRepository, processor Processor, concurrency int, pollInterval time.Duration) {
	if concurrency < 1 {
		return
	}
	log := slog.Default().With("component", "scorerunner")
	jobsCh := make(chan ports.RecomputeJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(jobsCh)
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						log.ErrorContext(ctx, "job claim failed", "error", err)
						break
					}
					if !found {
						break
					}
					select {
					case jobsCh <- job:
					case <-ctx.Done():
						close(jobsCh)
						return
					}
				}
			}
		}
	}()

	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobsCh {
				run := uuid.NewString()
				start := time.Now()
				if err := processor.Process(ctx, job); err != nil {
					log.ErrorContext(ctx, "recompute failed",
						"worker", idx, "run", run, "job", job.ID, "cycle", job.CycleID, "error", err)
					if err := markFailed(ctx, repo, job.ID, err); err != nil {
						log.ErrorContext(ctx, "could not mark job failed", "worker", idx, "job", job.ID, "error", err)
					}
					continue
				}
				if err := markCompleted(ctx, repo, job.ID); err != nil {
					log.ErrorContext(ctx, "could not mark job completed", "worker", idx, "job", job.ID, "error", err)
					continue
				}
				log.InfoContext(ctx, "recompute completed",
					"worker", idx, "run", run, "job", job.ID, "cycle", job.CycleID, "took", time.Since(start))
			}
		}(i)
	}
}

// ProcessInline starts and processes a specific job synchronously with the
// same processor the background workers use.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor Processor, jobID string) error {
	cycleID, err := repo.StartJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := processor.Process(ctx, ports.RecomputeJob{ID: jobID, CycleID: cycleID}); err != nil {
		if merr := markFailed(ctx, repo, jobID, err); merr != nil {
			slog.Default().With("component", "scorerunner").ErrorContext(ctx, "could not mark job failed", "job", jobID, "error", merr)
		}
		return err
	}
	return markCompleted(ctx, repo, jobID)
}

// settleTimeout bounds the terminal status write of a job.
const settleTimeout = 5 * time.Second

// Terminal status writes run on a context detached from the job's, so a job
// whose run was cancelled or timed out still leaves the running state.
func markFailed(ctx context.Context, repo ports.JobRepository, jobID string, cause error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()
	return repo.MarkFailed(ctx, jobID, cause.Error())
}

func markCompleted(ctx context.Context, repo ports.JobRepository, jobID string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()
	return repo.MarkCompleted(ctx, jobID)
}
