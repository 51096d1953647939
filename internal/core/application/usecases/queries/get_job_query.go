// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/guard"
)

var ErrGetJobQueryIsNotConstructed = errors.New(
	"GetJobQuery must be created via NewGetJobQuery constructor",
)

// GetJobQuery retrieves the state of a single route-generation job. This
// is the polling endpoint's read model: callers enqueue a job, then poll
// it until it reaches a terminal progress.
type GetJobQuery struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetJobQuery creates a query for the given job identifier.
func NewGetJobQuery(jobID kernel.UUID) (GetJobQuery, error) {
	q := GetJobQuery{guard: guard.NewConstructorGuard()}

	if err := jobID.Validate(); err != nil {
		return GetJobQuery{}, err
	}
	q.jobID = jobID

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetJobQuery) Validate() error {
	return q.guard.Validate(ErrGetJobQueryIsNotConstructed)
}

// JobID returns the identifier of the job to retrieve.
func (q GetJobQuery) JobID() kernel.UUID {
	return q.jobID
}

// JobResponse represents a job in the read model. RouteGroupID is set
// only for completed jobs; Message only for failed ones.
type JobResponse struct {
	ID              kernel.UUID
	LocationGroupID kernel.UUID
	RouteGroupID    *kernel.UUID
	Progress        string
	Message         string
	CreatedAt       time.Time
	StartedAt       *time.Time
	UpdatedAt       *time.Time
	FinishedAt      *time.Time
}
