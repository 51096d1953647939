package queries

import (
	"errors"

	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/pkg/guard"
)

var ErrGetJobsQueryIsNotConstructed = errors.New(
	"GetJobsQuery must be created via NewGetJobsQuery constructor",
)

// GetJobsQuery retrieves jobs for monitoring, newest first, optionally
// filtered by progress.
type GetJobsQuery struct { //nolint:recvcheck //using for validation
	progress *job.Progress

	guard guard.ConstructorGuard
}

// NewGetJobsQuery creates a query for all jobs. Pass a non-nil progress
// to restrict the listing to one state.
func NewGetJobsQuery(progress *job.Progress) (GetJobsQuery, error) {
	q := GetJobsQuery{guard: guard.NewConstructorGuard()}

	if progress != nil {
		if err := progress.Validate(); err != nil {
			return GetJobsQuery{}, err
		}
		q.progress = progress
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetJobsQueryIsNotConstructed)
}

// Progress returns the progress filter, or nil for an unfiltered listing.
func (q GetJobsQuery) Progress() *job.Progress {
	return q.progress
}
