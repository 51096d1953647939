// Package locationrepo implements the repository for delivery stop
// aggregates. Coordinates are nullable at the database level (addresses
// are entered before geocoding runs), but a read that encounters missing
// coordinates fails loudly instead of handing clustering a half-built
// location.
package locationrepo

import (
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/pkg/errs"

	"github.com/google/uuid"
)

// LocationDTO represents the database structure for persisting location
// aggregates.
type LocationDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	GroupID    *uuid.UUID `gorm:"type:uuid;index"`
	Address    string
	Latitude   *float64
	Longitude  *float64
	NumBoxes   int
	GeocodedAt *time.Time
}

// TableName specifies the database table name for location entities.
func (LocationDTO) TableName() string {
	return "locations"
}

// fromDomain converts a location domain aggregate to its database
// representation.
func fromDomain(aggregate *location.Location) LocationDTO {
	var groupID *uuid.UUID
	if id := aggregate.GroupID(); id != nil {
		raw := id.Bytes()
		groupID = &raw
	}

	lat := aggregate.Point().Latitude()
	lon := aggregate.Point().Longitude()

	return LocationDTO{
		ID:         aggregate.ID().Bytes(),
		GroupID:    groupID,
		Address:    aggregate.Address(),
		Latitude:   &lat,
		Longitude:  &lon,
		NumBoxes:   aggregate.NumBoxes(),
		GeocodedAt: aggregate.GeocodedAt(),
	}
}

// toDomain converts a database DTO to a location domain aggregate. A row
// with missing coordinates is a data-integrity error; the caller surfaces
// it rather than skipping the location.
func toDomain(dto LocationDTO) (*location.Location, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var groupID *kernel.UUID
	if dto.GroupID != nil {
		gID, gErr := kernel.UUIDFromBytes((*dto.GroupID)[:])
		if gErr != nil {
			return nil, gErr
		}

		groupID = &gID
	}

	if dto.Latitude == nil {
		return nil, errs.NewValueIsRequiredError("latitude of location " + id.String())
	}
	if dto.Longitude == nil {
		return nil, errs.NewValueIsRequiredError("longitude of location " + id.String())
	}

	point, err := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
	if err != nil {
		return nil, err
	}

	return location.NewLocation(id, groupID, dto.Address, point, dto.NumBoxes, dto.GeocodedAt)
}
