package commands_test

import (
	"testing"

	"fooddrop/internal/core/application/usecases/commands"
	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnqueueRouteGenerationCommand_Success(t *testing.T) {
	jobID := kernel.NewUUID()
	groupID := kernel.NewUUID()
	maxStops := 5

	cmd, err := commands.NewEnqueueRouteGenerationCommand(jobID, groupID, job.Settings{
		NumRoutes:         3,
		MaxStopsPerRoute:  &maxStops,
		ReturnToWarehouse: true,
	})

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.True(t, cmd.JobID().IsEqual(jobID))
	assert.True(t, cmd.LocationGroupID().IsEqual(groupID))
	assert.Equal(t, 3, cmd.Settings().NumRoutes)
}

func TestNewEnqueueRouteGenerationCommand_InvalidJobID(t *testing.T) {
	_, err := commands.NewEnqueueRouteGenerationCommand(kernel.UUID{}, kernel.NewUUID(),
		job.Settings{NumRoutes: 1})

	require.Error(t, err)
}

func TestNewEnqueueRouteGenerationCommand_InvalidSettings(t *testing.T) {
	_, err := commands.NewEnqueueRouteGenerationCommand(kernel.NewUUID(), kernel.NewUUID(),
		job.Settings{NumRoutes: 0})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewEnqueueRouteGenerationCommand_BothCapsRejected(t *testing.T) {
	maxStops := 4
	maxBoxes := 10

	_, err := commands.NewEnqueueRouteGenerationCommand(kernel.NewUUID(), kernel.NewUUID(),
		job.Settings{NumRoutes: 2, MaxStopsPerRoute: &maxStops, MaxBoxesPerRoute: &maxBoxes})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestEnqueueRouteGenerationCommand_ZeroValueFailsValidation(t *testing.T) {
	var cmd commands.EnqueueRouteGenerationCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrEnqueueRouteGenerationCommandIsNotConstructed)
}
