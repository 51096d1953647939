package routerepo

import (
	"context"
	"errors"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/route"
	"fooddrop/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRouteRepository implements RouteRepository using GORM.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormRouteRepository creates a new GORM route repository.
func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddGroup saves a new route group to the database.
func (r *GormRouteRepository) AddGroup(ctx context.Context, aggregate *route.Group) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := groupFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Add saves a new route with its stops to the database. The association
// write creates the stop rows alongside the route row.
func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing route to the database. Stops are replaced
// wholesale: the numbering invariant makes partial stop updates
// meaningless.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&RouteDTO{}).
			Where("id = ?", dto.ID).
			Select("name", "length", "encoded_path", "path_expires_at").
			Updates(&dto)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Delete(&StopDTO{}, "route_id = ?", dto.ID).Error; err != nil {
			return err
		}
		return tx.Create(&dto.Stops).Error
	})
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a route by ID with its stops in number order.
func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("route", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByGroup retrieves every route in a route group ordered by name,
// stops in number order.
func (r *GormRouteRepository) GetAllByGroup(ctx context.Context, groupID kernel.UUID) ([]*route.Route, error) {
	if err := groupID.Validate(); err != nil {
		return nil, err
	}

	var dtos []RouteDTO
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		Order("name ASC").
		Find(&dtos, "group_id = ?", groupID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	routes := make([]*route.Route, 0, len(dtos))
	for _, dto := range dtos {
		rt, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}

	return routes, nil
}

// ClearExpiredPaths drops cached encoded paths that expired before now.
func (r *GormRouteRepository) ClearExpiredPaths(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).Model(&RouteDTO{}).
		Where("encoded_path IS NOT NULL AND path_expires_at < ?", now).
		Updates(map[string]interface{}{
			"encoded_path":    nil,
			"path_expires_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return int(result.RowsAffected), nil
}
