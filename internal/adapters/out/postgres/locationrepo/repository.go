package locationrepo

import (
	"context"
	"errors"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/core/ports"
	"fooddrop/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormLocationRepository implements LocationRepository using GORM.
type GormLocationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormLocationRepository creates a new GORM location repository.
func NewGormLocationRepository(db *gorm.DB, tracker aggregateTracker) *GormLocationRepository {
	return &GormLocationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new location to the database.
func (r *GormLocationRepository) Add(ctx context.Context, aggregate *location.Location) error {
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

// Update saves an existing location to the database.
func (r *GormLocationRepository) Update(ctx context.Context, aggregate *location.Location) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&LocationDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
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

// Get retrieves a location by ID.
func (r *GormLocationRepository) Get(ctx context.Context, id kernel.UUID) (*location.Location, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LocationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("location", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByGroup retrieves every location in a location group. A row with
// missing coordinates fails the whole read.
func (r *GormLocationRepository) GetAllByGroup(ctx context.Context, groupID kernel.UUID) ([]*location.Location, error) {
	if err := groupID.Validate(); err != nil {
		return nil, err
	}

	var dtos []LocationDTO
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&dtos, "group_id = ?", groupID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetStaleGeocoded retrieves locations never geocoded or geocoded before
// the cutoff, oldest first, capped at limit rows. Returns the id+address
// read model rather than the aggregate: never-geocoded rows have no
// coordinates, and failing the batch on them would block the refresh.
func (r *GormLocationRepository) GetStaleGeocoded(ctx context.Context, cutoff time.Time, limit int) ([]ports.StaleLocation, error) {
	var dtos []LocationDTO
	if err := r.db.WithContext(ctx).
		Select("id", "address").
		Where("geocoded_at IS NULL OR geocoded_at < ?", cutoff).
		Order("geocoded_at ASC NULLS FIRST").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	stale := make([]ports.StaleLocation, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		stale = append(stale, ports.StaleLocation{ID: id, Address: dto.Address})
	}

	return stale, nil
}

// UpdatePoint stores freshly geocoded coordinates for a location.
func (r *GormLocationRepository) UpdatePoint(ctx context.Context, id kernel.UUID, point kernel.GeoPoint, geocodedAt time.Time) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&LocationDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"latitude":    point.Latitude(),
			"longitude":   point.Longitude(),
			"geocoded_at": geocodedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("location", id.String())
	}

	return nil
}

func toDomainSlice(dtos []LocationDTO) ([]*location.Location, error) {
	locations := make([]*location.Location, 0, len(dtos))
	for _, dto := range dtos {
		loc, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	return locations, nil
}
