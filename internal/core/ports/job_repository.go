package ports

import (
	"context"
	"time"

	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for job aggregates.
// The job table doubles as the work queue, so the contract includes the
// claim and recovery operations the worker loop needs.
type JobRepository interface {
	// Add persists a new job aggregate to storage.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists changes to an existing job aggregate.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetAllByProgress retrieves jobs in the given progress, newest first.
	GetAllByProgress(ctx context.Context, progress job.Progress) ([]*job.Job, error)

	// GetAll retrieves all jobs, newest first.
	GetAll(ctx context.Context) ([]*job.Job, error)

	// ClaimNextQueued atomically claims the oldest Queued job: it locks
	// the row with FOR UPDATE SKIP LOCKED, transitions it to Running and
	// returns it. At most one concurrent caller obtains any given job.
	// Returns nil without error when no Queued job exists.
	ClaimNextQueued(ctx context.Context, now time.Time) (*job.Job, error)

	// ResetOrphaned requeues every Running job. Called once at worker
	// startup to recover jobs a crashed process left claimed.
	// Returns the number of jobs requeued.
	ResetOrphaned(ctx context.Context, now time.Time) (int, error)

	// FailStuck force-fails Running jobs whose claim is older than the
	// cutoff, recording the given message. Returns the number of jobs
	// failed.
	FailStuck(ctx context.Context, cutoff time.Time, message string, now time.Time) (int, error)
}
