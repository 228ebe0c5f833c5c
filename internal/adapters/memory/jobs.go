package memory

import (
	"context"
	"strconv"
	"sync"

	"kmfi/internal/ports"
)

type job struct {
	id       string
	cycleID  string
	status   string
	progress float64
	reason   string
}

// JobQueue is an in-process ports.JobRepository with FIFO claiming.
type JobQueue struct {
	mu   sync.Mutex
	seq  int
	jobs []*job
}

func NewJobQueue() *JobQueue { return &JobQueue{} }

func (q *JobQueue) find(id string) *job {
	for _, j := range q.jobs {
		if j.id == id {
			return j
		}
	}
	return nil
}

func (q *JobQueue) Enqueue(_ context.Context, cycleID string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	j := &job{id: "job-" + strconv.Itoa(q.seq), cycleID: cycleID, status: "queued"}
	q.jobs = append(q.jobs, j)
	return j.id, nil
}

func (q *JobQueue) JobStatus(_ context.Context, jobID string) (string, float64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := q.find(jobID)
	if j == nil {
		return "", 0, ports.ErrNotFound
	}
	return j.status, j.progress, nil
}

func (q *JobQueue) ClaimNext(_ context.Context) (ports.RecomputeJob, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, j := range q.jobs {
		if j.status == "queued" {
			j.status = "running"
			return ports.RecomputeJob{ID: j.id, CycleID: j.cycleID}, true, nil
		}
	}
	return ports.RecomputeJob{}, false, nil
}

func (q *JobQueue) UpdateProgress(_ context.Context, jobID string, progress float64) error {
	return q.set(jobID, func(j *job) { j.progress = progress })
}

func (q *JobQueue) MarkCompleted(_ context.Context, jobID string) error {
	return q.set(jobID, func(j *job) { j.status, j.progress = "completed", 1 })
}

func (q *JobQueue) MarkFailed(_ context.Context, jobID string, reason string) error {
	return q.set(jobID, func(j *job) { j.status, j.reason = "failed", reason })
}

func (q *JobQueue) StartJob(_ context.Context, jobID string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := q.find(jobID)
	if j == nil || j.status != "queued" {
		return "", ports.ErrNotFound
	}
	j.status = "running"
	return j.cycleID, nil
}

// FailureReason returns the reason recorded by MarkFailed.
func (q *JobQueue) FailureReason(jobID string) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if j := q.find(jobID); j != nil {
		return j.reason
	}
	return ""
}

func (q *JobQueue) set(jobID string, fn func(*job)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := q.find(jobID)
	if j == nil {
		return ports.ErrNotFound
	}
	fn(j)
	return nil
}
