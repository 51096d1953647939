package job

import (
	"errors"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"
)

// ErrJobIsNotConstructed is returned when a Job instance was not created
// through NewJob or RestoreJob. This ensures all jobs carry a validated
// identity and a valid progress.
var ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")

// Job represents one requested route generation. It is the aggregate root
// for the durable queue: the row doubles as the queue entry and the audit
// record of the run.
//
// Job follows these invariants:
//   - valid unique identifier and location group identifier
//   - progress transitions follow the state machine in Progress
//   - routeGroupID is set exactly when the job completed
//   - updatedAt moves forward on every transition
type Job struct {
	// id is the unique identifier for the job
	id kernel.UUID

	// locationGroupID identifies the location group routes are generated for
	locationGroupID kernel.UUID

	// routeGroupID points at the produced route group (nil until completion)
	routeGroupID *kernel.UUID

	// progress is the current state in the job lifecycle
	progress Progress

	// message holds the failure reason for Failed jobs
	message string

	// settings is the generation request, persisted with the job
	settings Settings

	// createdAt is when the job row was inserted
	createdAt time.Time

	// startedAt is when a worker claimed the job (nil before Running)
	startedAt *time.Time

	// updatedAt is the time of the most recent transition (nil before one)
	updatedAt *time.Time

	// finishedAt is when the job reached a terminal state (nil before one)
	finishedAt *time.Time

	// isConstructed ensures the job was created via a constructor
	isConstructed bool
}

// NewJob creates a new Job in Pending progress. This is the only way to
// create a fresh job; rows read back from the database go through
// RestoreJob instead.
func NewJob(id kernel.UUID, locationGroupID kernel.UUID, settings Settings, createdAt time.Time) (*Job, error) {
	j := &Job{
		progress:      Pending,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setLocationGroupID(locationGroupID),
		j.setSettings(settings),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob reconstructs a Job from persisted state without applying
// transition rules. It still validates identity, progress and the
// progress/route-group consistency, so a corrupted row cannot become a
// live aggregate.
func RestoreJob(
	id kernel.UUID,
	locationGroupID kernel.UUID,
	routeGroupID *kernel.UUID,
	progress Progress,
	message string,
	settings Settings,
	createdAt time.Time,
	startedAt *time.Time,
	updatedAt *time.Time,
	finishedAt *time.Time,
) (*Job, error) {
	j := &Job{
		message:       message,
		createdAt:     createdAt,
		startedAt:     startedAt,
		updatedAt:     updatedAt,
		finishedAt:    finishedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setLocationGroupID(locationGroupID),
		j.setSettings(settings),
		j.setProgress(progress),
		j.setRouteGroupID(routeGroupID),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// Validate ensures the Job was constructed through NewJob or RestoreJob.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}

	return nil
}

// IsEqual compares two jobs by identifier.
func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// ID returns the job's unique identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// LocationGroupID returns the location group routes are generated for.
func (j *Job) LocationGroupID() kernel.UUID {
	return j.locationGroupID
}

// RouteGroupID returns the produced route group's identifier.
// Returns nil unless the job completed.
func (j *Job) RouteGroupID() *kernel.UUID {
	return j.routeGroupID
}

// Progress returns the current progress of the job.
func (j *Job) Progress() Progress {
	return j.progress
}

// Message returns the failure reason for Failed jobs, empty otherwise.
func (j *Job) Message() string {
	return j.message
}

// Settings returns the generation request the job was enqueued with.
func (j *Job) Settings() Settings {
	return j.settings
}

// CreatedAt returns when the job row was inserted.
func (j *Job) CreatedAt() time.Time {
	return j.createdAt
}

// StartedAt returns when a worker claimed the job, or nil.
func (j *Job) StartedAt() *time.Time {
	return j.startedAt
}

// UpdatedAt returns the time of the most recent transition, or nil.
func (j *Job) UpdatedAt() *time.Time {
	return j.updatedAt
}

// FinishedAt returns when the job reached a terminal state, or nil.
func (j *Job) FinishedAt() *time.Time {
	return j.finishedAt
}

// Queue makes the job visible to workers. Used right after insertion
// (Pending -> Queued) and by orphan recovery (Running -> Queued); the
// latter clears startedAt so a stuck-job sweep cannot fail the requeued
// job against a stale claim time.
func (j *Job) Queue(at time.Time) error {
	newProgress, err := j.progress.Queue()
	if err != nil {
		return err
	}

	j.progress = newProgress
	j.startedAt = nil
	j.updatedAt = &at
	return nil
}

// Start records a worker's claim, moving the job to Running and stamping
// startedAt. The stuck-job sweep measures wall-clock runtime from this
// timestamp.
func (j *Job) Start(at time.Time) error {
	newProgress, err := j.progress.Start()
	if err != nil {
		return err
	}

	j.progress = newProgress
	j.startedAt = &at
	j.updatedAt = &at
	return nil
}

// Complete marks the job as successfully finished and links the produced
// route group. The route group ID must be valid; Completed is a final
// state.
func (j *Job) Complete(routeGroupID kernel.UUID, at time.Time) error {
	if err := routeGroupID.Validate(); err != nil {
		return err
	}

	newProgress, err := j.progress.Complete()
	if err != nil {
		return err
	}

	j.progress = newProgress
	j.routeGroupID = &routeGroupID
	j.updatedAt = &at
	j.finishedAt = &at
	return nil
}

// Fail marks the job as finished with an error, recording the reason in
// the job's message. Failed is a final state; jobs are never retried
// automatically.
func (j *Job) Fail(message string, at time.Time) error {
	newProgress, err := j.progress.Fail()
	if err != nil {
		return err
	}

	j.progress = newProgress
	j.message = message
	j.updatedAt = &at
	j.finishedAt = &at
	return nil
}

// setID validates and sets the job identifier.
func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

// setLocationGroupID validates and sets the location group identifier.
func (j *Job) setLocationGroupID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.locationGroupID = id
	return nil
}

// setSettings validates and sets the generation request.
func (j *Job) setSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	j.settings = settings
	return nil
}

// setProgress validates and sets the progress during restoration.
func (j *Job) setProgress(progress Progress) error {
	if err := progress.Validate(); err != nil {
		return err
	}
	j.progress = progress
	return nil
}

// setRouteGroupID validates the progress/route-group consistency during
// restoration: only completed jobs carry a route group.
func (j *Job) setRouteGroupID(routeGroupID *kernel.UUID) error {
	if routeGroupID == nil {
		return nil
	}
	if err := routeGroupID.Validate(); err != nil {
		return err
	}
	if j.progress != Completed {
		return errs.NewValueIsInvalidError("routeGroupID is invalid")
	}
	j.routeGroupID = routeGroupID
	return nil
}
