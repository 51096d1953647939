package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetJobsQueryHandler retrieves job listings from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetJobsQueryHandler struct {
	db *gorm.DB
}

// NewGetJobsQueryHandler creates a handler for job listing queries.
// Requires a GORM database connection for query execution.
func NewGetJobsQueryHandler(db *gorm.DB) GetJobsQueryHandler {
	return GetJobsQueryHandler{db: db}
}

// Handle executes the query to retrieve jobs, newest first. When the
// query carries a progress filter only jobs in that state are returned.
func (h GetJobsQueryHandler) Handle(ctx context.Context, query GetJobsQuery) ([]JobResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const baseQuery = `
		SELECT
			id,
			location_group_id,
			route_group_id,
			progress,
			message,
			created_at,
			started_at,
			updated_at,
			finished_at
		FROM jobs
	`

	db := h.db.WithContext(ctx)
	var raw *gorm.DB
	if progress := query.Progress(); progress != nil {
		raw = db.Raw(baseQuery+" WHERE progress = ? ORDER BY created_at DESC", int(*progress))
	} else {
		raw = db.Raw(baseQuery + " ORDER BY created_at DESC")
	}

	rows, err := raw.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]JobResponse, 0)
	for rows.Next() {
		response, scanErr := scanJobRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		jobs = append(jobs, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
