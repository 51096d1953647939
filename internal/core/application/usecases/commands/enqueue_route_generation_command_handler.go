package commands

import (
	"context"
	"time"

	"fooddrop/internal/core/domain/model/job"
)

// EnqueueRouteGenerationCommandHandler inserts a new job and makes it
// visible to workers. The job is created in Pending and transitioned to
// Queued before the insert commits, so a row is never observable in a
// state workers cannot pick up.
type EnqueueRouteGenerationCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewEnqueueRouteGenerationCommandHandler creates a handler for enqueue
// operations. Requires a JobUoWFactory for transactional persistence.
func NewEnqueueRouteGenerationCommandHandler(uowFactory JobUoWFactory) EnqueueRouteGenerationCommandHandler {
	return EnqueueRouteGenerationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the enqueue command: creates the job, queues it and
// persists it in one transaction.
func (h *EnqueueRouteGenerationCommandHandler) Handle(ctx context.Context, cmd EnqueueRouteGenerationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	j, err := job.NewJob(cmd.JobID(), cmd.LocationGroupID(), cmd.Settings(), now)
	if err != nil {
		return err
	}
	if err = j.Queue(now); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JobRepository().Add(ctx, j); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
