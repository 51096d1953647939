package ports

import (
	"context"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
)

// StaleLocation is the read model for rows awaiting geocoding. The full
// aggregate cannot be loaded here: a never-geocoded row has no
// coordinates yet.
type StaleLocation struct {
	ID      kernel.UUID
	Address string
}

// LocationRepository defines the persistence contract for delivery stop
// aggregates.
type LocationRepository interface {
	// Add persists a new location aggregate to storage.
	Add(ctx context.Context, aggregate *location.Location) error

	// Update persists changes to an existing location aggregate.
	Update(ctx context.Context, aggregate *location.Location) error

	// Get retrieves a location aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*location.Location, error)

	// GetAllByGroup retrieves every location in a location group. A row
	// with missing coordinates fails the read; clustering never sees a
	// location without a point.
	GetAllByGroup(ctx context.Context, groupID kernel.UUID) ([]*location.Location, error)

	// GetStaleGeocoded retrieves locations whose coordinates were last
	// geocoded before the cutoff (or never), oldest first, capped at
	// limit rows. Rows without coordinates are included; the refresh job
	// gives them their first point.
	GetStaleGeocoded(ctx context.Context, cutoff time.Time, limit int) ([]StaleLocation, error)

	// UpdatePoint stores freshly geocoded coordinates for a location.
	UpdatePoint(ctx context.Context, id kernel.UUID, point kernel.GeoPoint, geocodedAt time.Time) error
}
