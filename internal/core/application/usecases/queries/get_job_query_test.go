package queries_test

import (
	"testing"

	"fooddrop/internal/core/application/usecases/queries"
	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetJobQuery_Success(t *testing.T) {
	jobID := kernel.NewUUID()

	query, err := queries.NewGetJobQuery(jobID)

	require.NoError(t, err)
	assert.NoError(t, query.Validate())
	assert.True(t, query.JobID().IsEqual(jobID))
}

func TestNewGetJobQuery_InvalidID(t *testing.T) {
	_, err := queries.NewGetJobQuery(kernel.UUID{})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestGetJobQuery_ZeroValueFailsValidation(t *testing.T) {
	var query queries.GetJobQuery

	err := query.Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetJobQueryIsNotConstructed)
}

func TestNewGetJobsQuery_NoFilter(t *testing.T) {
	query, err := queries.NewGetJobsQuery(nil)

	require.NoError(t, err)
	assert.NoError(t, query.Validate())
	assert.Nil(t, query.Progress())
}

func TestNewGetJobsQuery_WithFilter(t *testing.T) {
	progress := job.Queued

	query, err := queries.NewGetJobsQuery(&progress)

	require.NoError(t, err)
	require.NotNil(t, query.Progress())
	assert.Equal(t, job.Queued, *query.Progress())
}

func TestNewGetJobsQuery_InvalidFilter(t *testing.T) {
	progress := job.Unknown

	_, err := queries.NewGetJobsQuery(&progress)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
