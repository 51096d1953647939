package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"fooddrop/internal/core/application/usecases/commands"
	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/core/domain/model/route"
	"fooddrop/internal/core/domain/services/routing"
	"fooddrop/internal/core/ports"
	"fooddrop/internal/pkg/errs"
)

const (
	// DefaultPollInterval is how long the worker sleeps when the queue is
	// empty or a poll-time store error occurred.
	DefaultPollInterval = 5 * time.Second

	// DefaultJobTimeout bounds one generation run. It doubles as the
	// stuck-job cutoff: a Running job older than this is force-failed.
	DefaultJobTimeout = 30 * time.Minute

	earthRadiusKm = 6371.0
)

// JobWorker polls the job queue and runs route generation for claimed
// jobs. One worker processes one job at a time; run several workers for
// parallelism, the claim semantics keep them from colliding.
type JobWorker struct {
	jobs         ports.JobRepository
	uowFactory   commands.UoWFactory
	algorithm    routing.Algorithm
	warehouse    kernel.GeoPoint
	pollInterval time.Duration
	jobTimeout   time.Duration
	logger       *slog.Logger
}

// NewJobWorker creates a worker. Zero pollInterval and jobTimeout fall
// back to the package defaults.
func NewJobWorker(
	jobs ports.JobRepository,
	uowFactory commands.UoWFactory,
	algorithm routing.Algorithm,
	warehouse kernel.GeoPoint,
	pollInterval time.Duration,
	jobTimeout time.Duration,
	logger *slog.Logger,
) (*JobWorker, error) {
	if jobs == nil {
		return nil, errs.NewValueIsRequiredError("jobs")
	}
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if algorithm == nil {
		return nil, errs.NewValueIsRequiredError("algorithm")
	}
	if err := warehouse.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if jobTimeout <= 0 {
		jobTimeout = DefaultJobTimeout
	}

	return &JobWorker{
		jobs:         jobs,
		uowFactory:   uowFactory,
		algorithm:    algorithm,
		warehouse:    warehouse,
		pollInterval: pollInterval,
		jobTimeout:   jobTimeout,
		logger:       logger.With("component", "job_worker"),
	}, nil
}

// Run executes the worker loop until the context is cancelled. Orphaned
// jobs are recovered once before the first poll, so work a crashed
// process left claimed becomes visible again immediately.
func (w *JobWorker) Run(ctx context.Context) {
	if err := w.RecoverOrphans(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Orphan recovery failed", "error", err)
	}

	for {
		w.SweepStuck(ctx)

		processed, err := w.ProcessNext(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "Polling the job queue failed", "error", err)
		}

		// Drain the queue back to back; sleep only when it is empty.
		if processed && err == nil {
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Job worker stopped")
			return
		case <-time.After(w.pollInterval):
		}
	}
}

// RecoverOrphans requeues every Running job. Called once at startup:
// with the previous process gone, no claim can still be live.
func (w *JobWorker) RecoverOrphans(ctx context.Context) error {
	count, err := w.jobs.ResetOrphaned(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if count > 0 {
		w.logger.InfoContext(ctx, "Requeued orphaned jobs", "count", count)
	}
	return nil
}

// SweepStuck force-fails Running jobs whose claim is older than the job
// timeout. A sweep failure is logged, never fatal: the next iteration
// tries again.
func (w *JobWorker) SweepStuck(ctx context.Context) {
	now := time.Now().UTC()
	message := fmt.Sprintf("timeout exceeded: job ran longer than %s", w.jobTimeout)

	count, err := w.jobs.FailStuck(ctx, now.Add(-w.jobTimeout), message, now)
	if err != nil {
		w.logger.ErrorContext(ctx, "Stuck-job sweep failed", "error", err)
		return
	}
	if count > 0 {
		w.logger.WarnContext(ctx, "Force-failed stuck jobs", "count", count)
	}
}

// ProcessNext claims and processes at most one queued job. Returns true
// when a job was claimed, false when the queue was empty.
func (w *JobWorker) ProcessNext(ctx context.Context) (bool, error) {
	claimed, err := w.jobs.ClaimNextQueued(ctx, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if claimed == nil {
		return false, nil
	}

	w.logger.InfoContext(ctx, "Processing job",
		"jobID", claimed.ID().String(), "locationGroupID", claimed.LocationGroupID().String())
	w.process(ctx, claimed)
	return true, nil
}

// process runs one generation end to end. Any error fails the job with
// the reason in its message; jobs are never retried automatically.
func (w *JobWorker) process(ctx context.Context, j *job.Job) {
	uow := w.uowFactory.Create()

	locations, err := uow.LocationRepository().GetAllByGroup(ctx, j.LocationGroupID())
	if err != nil {
		w.fail(ctx, j, fmt.Sprintf("loading locations: %s", err))
		return
	}
	if len(locations) == 0 {
		w.fail(ctx, j, fmt.Sprintf("location group %s has no locations", j.LocationGroupID()))
		return
	}

	settings := routing.SettingsFromJob(j.Settings())
	routes, err := w.generateRoutes(ctx, locations, settings)
	if err != nil {
		w.fail(ctx, j, err.Error())
		return
	}

	if err := w.persist(ctx, uow, j, routes, settings.ReturnToWarehouse); err != nil {
		w.fail(ctx, j, fmt.Sprintf("persisting routes: %s", err))
	}
}

// generateRoutes runs the algorithm under the job timeout. The deadline
// is enforced here, not just handed down: an implementation that ignores
// its context is abandoned and the job fails instead of hanging the
// worker loop.
func (w *JobWorker) generateRoutes(
	ctx context.Context,
	locations []*location.Location,
	settings routing.Settings,
) ([][]*location.Location, error) {
	runCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	type outcome struct {
		routes [][]*location.Location
		err    error
	}

	started := time.Now()
	done := make(chan outcome, 1)
	go func() {
		routes, err := w.algorithm.GenerateRoutes(runCtx, locations, w.warehouse, settings, w.jobTimeout)
		done <- outcome{routes: routes, err: err}
	}()

	select {
	case result := <-done:
		return result.routes, result.err
	case <-runCtx.Done():
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, errs.NewTimeoutExceededError("route generation", w.jobTimeout, time.Since(started))
		}
		return nil, runCtx.Err()
	}
}

// persist writes the route group, its routes and the job's completion in
// one transaction. Empty sequences produce no route row; the optimizer
// is allowed to leave a vehicle unused when locations are scarce.
func (w *JobWorker) persist(
	ctx context.Context,
	uow commands.UoW,
	j *job.Job,
	routes [][]*location.Location,
	returnToWarehouse bool,
) error {
	now := time.Now().UTC()

	group, err := route.NewGroup(kernel.NewUUID(), j.LocationGroupID(), now)
	if err != nil {
		return err
	}

	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeRepo := uow.RouteRepository()
	if err = routeRepo.AddGroup(ctx, group); err != nil {
		return err
	}

	for i, sequence := range routes {
		if len(sequence) == 0 {
			continue
		}

		stops := make([]route.Stop, 0, len(sequence))
		for number, loc := range sequence {
			stop, stopErr := route.NewStop(loc.ID(), number+1)
			if stopErr != nil {
				return stopErr
			}
			stops = append(stops, stop)
		}

		rt, routeErr := route.NewRoute(kernel.NewUUID(), group.ID(),
			fmt.Sprintf("Route %d", i+1), stops,
			routeLengthKm(w.warehouse, sequence, returnToWarehouse))
		if routeErr != nil {
			return routeErr
		}

		if err = routeRepo.Add(ctx, rt); err != nil {
			return err
		}
	}

	if err = j.Complete(group.ID(), now); err != nil {
		return err
	}
	if err = uow.JobRepository().Update(ctx, j); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Job completed",
		"jobID", j.ID().String(), "routeGroupID", group.ID().String())
	return nil
}

// fail records the failure reason on the job. A store error here is
// logged and swallowed: the stuck-job sweep will eventually fail the
// still-Running row.
func (w *JobWorker) fail(ctx context.Context, j *job.Job, message string) {
	w.logger.WarnContext(ctx, "Job failed",
		"jobID", j.ID().String(), "reason", message)

	if err := j.Fail(message, time.Now().UTC()); err != nil {
		w.logger.ErrorContext(ctx, "Recording job failure rejected", "jobID", j.ID().String(), "error", err)
		return
	}
	if err := w.jobs.Update(ctx, j); err != nil {
		w.logger.ErrorContext(ctx, "Persisting job failure failed", "jobID", j.ID().String(), "error", err)
	}
}

// routeLengthKm estimates a route's travel distance as the great-circle
// length of the straight-line path warehouse -> stops (-> warehouse).
func routeLengthKm(warehouse kernel.GeoPoint, sequence []*location.Location, returnToWarehouse bool) float64 {
	length := 0.0
	previous := warehouse
	for _, loc := range sequence {
		length += haversineKm(previous, loc.Point())
		previous = loc.Point()
	}
	if returnToWarehouse {
		length += haversineKm(previous, warehouse)
	}
	return length
}

func haversineKm(a kernel.GeoPoint, b kernel.GeoPoint) float64 {
	lat1 := a.Latitude() * math.Pi / 180
	lat2 := b.Latitude() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude() - a.Longitude()) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
