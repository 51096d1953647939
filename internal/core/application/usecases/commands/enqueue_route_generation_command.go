package commands

import (
	"errors"

	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/guard"
)

var ErrEnqueueRouteGenerationCommandIsNotConstructed = errors.New(
	"EnqueueRouteGenerationCommand must be created via NewEnqueueRouteGenerationCommand constructor",
)

// EnqueueRouteGenerationCommand requests asynchronous route generation
// for a location group. The actual generation happens later, when a
// worker claims the queued job.
type EnqueueRouteGenerationCommand struct { //nolint:recvcheck //using for validation
	jobID           kernel.UUID
	locationGroupID kernel.UUID
	settings        job.Settings

	guard guard.ConstructorGuard
}

// NewEnqueueRouteGenerationCommand creates a command to enqueue route
// generation. Validates both identifiers and the settings payload.
func NewEnqueueRouteGenerationCommand(
	jobID kernel.UUID,
	locationGroupID kernel.UUID,
	settings job.Settings,
) (EnqueueRouteGenerationCommand, error) {
	cmd := EnqueueRouteGenerationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setLocationGroupID(locationGroupID),
		cmd.setSettings(settings),
	); err != nil {
		return EnqueueRouteGenerationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c EnqueueRouteGenerationCommand) Validate() error {
	return c.guard.Validate(ErrEnqueueRouteGenerationCommandIsNotConstructed)
}

// JobID returns the identifier the new job will be created with.
func (c EnqueueRouteGenerationCommand) JobID() kernel.UUID {
	return c.jobID
}

// LocationGroupID returns the location group routes are generated for.
func (c EnqueueRouteGenerationCommand) LocationGroupID() kernel.UUID {
	return c.locationGroupID
}

// Settings returns the requested generation settings.
func (c EnqueueRouteGenerationCommand) Settings() job.Settings {
	return c.settings
}

func (c *EnqueueRouteGenerationCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *EnqueueRouteGenerationCommand) setLocationGroupID(locationGroupID kernel.UUID) error {
	if err := locationGroupID.Validate(); err != nil {
		return err
	}

	c.locationGroupID = locationGroupID
	return nil
}

func (c *EnqueueRouteGenerationCommand) setSettings(settings job.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	c.settings = settings
	return nil
}
