package queries

import (
	"context"
	"database/sql"

	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetJobQueryHandler retrieves a single job from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetJobQueryHandler struct {
	db *gorm.DB
}

// NewGetJobQueryHandler creates a handler for job retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetJobQueryHandler(db *gorm.DB) GetJobQueryHandler {
	return GetJobQueryHandler{db: db}
}

// Handle executes the query to retrieve one job by its identifier.
// Returns an object-not-found error when no job row exists.
func (h GetJobQueryHandler) Handle(ctx context.Context, query GetJobQuery) (JobResponse, error) {
	if err := query.Validate(); err != nil {
		return JobResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
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
		WHERE id = ?
	`, query.JobID().Bytes()).Rows()
	if err != nil {
		return JobResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return JobResponse{}, err
		}
		return JobResponse{}, errs.NewObjectNotFoundError("job", query.JobID().String())
	}

	response, err := scanJobRow(rows)
	if err != nil {
		return JobResponse{}, err
	}

	return response, rows.Err()
}

// scanJobRow converts one jobs row into the read model. Shared with the
// listing query so both endpoints present jobs identically.
func scanJobRow(rows *sql.Rows) (JobResponse, error) {
	var response JobResponse
	var id, locationGroupID uuid.UUID
	var routeGroupID uuid.NullUUID
	var progress int
	var startedAt, updatedAt, finishedAt sql.NullTime

	err := rows.Scan(
		&id,
		&locationGroupID,
		&routeGroupID,
		&progress,
		&response.Message,
		&response.CreatedAt,
		&startedAt,
		&updatedAt,
		&finishedAt,
	)
	if err != nil {
		return JobResponse{}, err
	}

	jobID, idErr := kernel.UUIDFromBytes(id[:])
	if idErr != nil {
		return JobResponse{}, idErr
	}
	response.ID = jobID

	groupID, groupErr := kernel.UUIDFromBytes(locationGroupID[:])
	if groupErr != nil {
		return JobResponse{}, groupErr
	}
	response.LocationGroupID = groupID

	if routeGroupID.Valid {
		rgID, rgErr := kernel.UUIDFromBytes(routeGroupID.UUID[:])
		if rgErr != nil {
			return JobResponse{}, rgErr
		}
		response.RouteGroupID = &rgID
	}

	response.Progress = job.Progress(progress).String()

	if startedAt.Valid {
		t := startedAt.Time
		response.StartedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		response.UpdatedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		response.FinishedAt = &t
	}

	return response, nil
}
