package jobrepo

import (
	"context"
	"errors"
	"time"

	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository implements JobRepository using GORM.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormJobRepository creates a new GORM job repository.
func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new job to the database.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing job to the database. Select(*) forces nullable
// columns back to NULL when a transition cleared them, which plain
// Updates would skip.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByProgress retrieves jobs in the given progress, newest first.
func (r *GormJobRepository) GetAllByProgress(ctx context.Context, progress job.Progress) ([]*job.Job, error) {
	if err := progress.Validate(); err != nil {
		return nil, err
	}

	var dtos []JobDTO
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&dtos, "progress = ?", int(progress)).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAll retrieves all jobs, newest first.
func (r *GormJobRepository) GetAll(ctx context.Context) ([]*job.Job, error) {
	var dtos []JobDTO
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// ClaimNextQueued claims the oldest Queued job inside one transaction:
// the row is locked with FOR UPDATE SKIP LOCKED, transitioned to Running
// and committed. Concurrent claimants skip each other's locked rows, so
// at most one of them obtains any given job. Returns nil without error
// when the queue is empty.
func (r *GormJobRepository) ClaimNextQueued(ctx context.Context, now time.Time) (*job.Job, error) {
	var claimed *job.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dto JobDTO
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("progress = ?", int(job.Queued)).
			Order("created_at ASC").
			First(&dto).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		j, err := toDomain(dto)
		if err != nil {
			return err
		}
		if err := j.Start(now); err != nil {
			return err
		}

		updated, err := fromDomain(j)
		if err != nil {
			return err
		}
		if err := tx.Model(&JobDTO{}).
			Where("id = ?", updated.ID).
			Select("*").Omit("id", "created_at").
			Updates(&updated).Error; err != nil {
			return err
		}

		claimed = j
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}

// ResetOrphaned requeues every Running job. The bulk update clears
// started_at so the stuck-job sweep cannot fail a requeued job against
// its stale claim time.
func (r *GormJobRepository) ResetOrphaned(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("progress = ?", int(job.Running)).
		Updates(map[string]interface{}{
			"progress":   int(job.Queued),
			"started_at": nil,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

// FailStuck force-fails Running jobs claimed before the cutoff.
func (r *GormJobRepository) FailStuck(ctx context.Context, cutoff time.Time, message string, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).Model(&JobDTO{}).
		Where("progress = ? AND started_at < ?", int(job.Running), cutoff).
		Updates(map[string]interface{}{
			"progress":    int(job.Failed),
			"message":     message,
			"updated_at":  now,
			"finished_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}

func toDomainSlice(dtos []JobDTO) ([]*job.Job, error) {
	jobs := make([]*job.Job, 0, len(dtos))
	for _, dto := range dtos {
		j, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}
