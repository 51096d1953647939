// Package jobrepo implements the repository for job aggregates. The jobs
// table doubles as the durable work queue, so besides the usual CRUD
// mapping it carries the locked claim query the worker loop depends on.
package jobrepo

import (
	"encoding/json"
	"time"

	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO represents the database structure for persisting job aggregates.
// Timestamps are domain-managed; GORM's automatic created_at/updated_at
// tracking is disabled so transitions stamp exactly the times the
// aggregate decided on.
type JobDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LocationGroupID uuid.UUID  `gorm:"type:uuid;index"`
	RouteGroupID    *uuid.UUID `gorm:"type:uuid"`
	Progress        int        `gorm:"index:idx_jobs_progress_created_at,priority:1"`
	Message         string
	Settings        string     `gorm:"type:jsonb"`
	CreatedAt       time.Time  `gorm:"autoCreateTime:false;index:idx_jobs_progress_created_at,priority:2"`
	StartedAt       *time.Time `gorm:"autoUpdateTime:false"`
	UpdatedAt       *time.Time `gorm:"autoUpdateTime:false"`
	FinishedAt      *time.Time
}

// TableName specifies the database table name for job entities.
func (JobDTO) TableName() string {
	return "jobs"
}

// fromDomain converts a job domain aggregate to its database
// representation.
func fromDomain(aggregate *job.Job) (JobDTO, error) {
	settings, err := json.Marshal(aggregate.Settings())
	if err != nil {
		return JobDTO{}, err
	}

	var routeGroupID *uuid.UUID
	if id := aggregate.RouteGroupID(); id != nil {
		raw := id.Bytes()
		routeGroupID = &raw
	}

	return JobDTO{
		ID:              aggregate.ID().Bytes(),
		LocationGroupID: aggregate.LocationGroupID().Bytes(),
		RouteGroupID:    routeGroupID,
		Progress:        int(aggregate.Progress()),
		Message:         aggregate.Message(),
		Settings:        string(settings),
		CreatedAt:       aggregate.CreatedAt(),
		StartedAt:       aggregate.StartedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		FinishedAt:      aggregate.FinishedAt(),
	}, nil
}

// toDomain converts a database DTO to a job domain aggregate using
// RestoreJob.
func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	locationGroupID, err := kernel.UUIDFromBytes(dto.LocationGroupID[:])
	if err != nil {
		return nil, err
	}

	var routeGroupID *kernel.UUID
	if dto.RouteGroupID != nil {
		rgID, rgErr := kernel.UUIDFromBytes((*dto.RouteGroupID)[:])
		if rgErr != nil {
			return nil, rgErr
		}

		routeGroupID = &rgID
	}

	var settings job.Settings
	if err := json.Unmarshal([]byte(dto.Settings), &settings); err != nil {
		return nil, err
	}

	return job.RestoreJob(
		id,
		locationGroupID,
		routeGroupID,
		job.Progress(dto.Progress),
		dto.Message,
		settings,
		dto.CreatedAt,
		dto.StartedAt,
		dto.UpdatedAt,
		dto.FinishedAt,
	)
}
