package ports

import "context"

type RecomputeJob struct {
	ID      string
	CycleID string
}

// JobRepository supports enqueueing, claiming and updating recompute jobs.
type JobRepository interface {
	Enqueue(ctx context.Context, cycleID string) (jobID string, err error)
	JobStatus(ctx context.Context, jobID string) (status string, progress float64, err error)
	ClaimNext(ctx context.Context) (job RecomputeJob, found bool, err error)
	UpdateProgress(ctx context.Context, jobID string, progress float64) error
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
	StartJob(ctx context.Context, jobID string) (cycleID string, err error)
}
