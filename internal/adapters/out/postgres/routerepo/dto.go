// Package routerepo implements the repository for route groups, routes
// and their stops. Stops live in their own table keyed by (route_id,
// number) and are read back in number order, preserving the 1-based
// contiguous numbering the aggregate enforces.
package routerepo

import (
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// GroupDTO represents the database structure for persisting route groups.
type GroupDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	LocationGroupID uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime:false"`
}

// TableName specifies the database table name for route group entities.
func (GroupDTO) TableName() string {
	return "route_groups"
}

// RouteDTO represents the database structure for persisting routes.
type RouteDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID       uuid.UUID `gorm:"type:uuid;index"`
	Name          string
	Length        float64
	EncodedPath   *string
	PathExpiresAt *time.Time
	Stops         []StopDTO `gorm:"foreignKey:RouteID;references:ID"`
}

// TableName specifies the database table name for route entities.
func (RouteDTO) TableName() string {
	return "routes"
}

// StopDTO represents one visit on a route.
type StopDTO struct {
	RouteID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number     int       `gorm:"primaryKey"`
	LocationID uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for stop entities.
func (StopDTO) TableName() string {
	return "route_stops"
}

// groupFromDomain converts a route group aggregate to its database
// representation.
func groupFromDomain(aggregate *route.Group) GroupDTO {
	return GroupDTO{
		ID:              aggregate.ID().Bytes(),
		LocationGroupID: aggregate.LocationGroupID().Bytes(),
		CreatedAt:       aggregate.CreatedAt(),
	}
}

// fromDomain converts a route domain aggregate to its database
// representation, stops included.
func fromDomain(aggregate *route.Route) RouteDTO {
	stops := make([]StopDTO, 0, len(aggregate.Stops()))
	for _, stop := range aggregate.Stops() {
		stops = append(stops, StopDTO{
			RouteID:    aggregate.ID().Bytes(),
			Number:     stop.Number(),
			LocationID: stop.LocationID().Bytes(),
		})
	}

	return RouteDTO{
		ID:            aggregate.ID().Bytes(),
		GroupID:       aggregate.GroupID().Bytes(),
		Name:          aggregate.Name(),
		Length:        aggregate.Length(),
		EncodedPath:   aggregate.EncodedPath(),
		PathExpiresAt: aggregate.PathExpiresAt(),
		Stops:         stops,
	}
}

// toDomain converts a database DTO to a route domain aggregate using
// RestoreRoute. Stops must already be ordered by number.
func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	groupID, err := kernel.UUIDFromBytes(dto.GroupID[:])
	if err != nil {
		return nil, err
	}

	stops := make([]route.Stop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		locationID, locErr := kernel.UUIDFromBytes(stopDTO.LocationID[:])
		if locErr != nil {
			return nil, locErr
		}

		stop, stopErr := route.NewStop(locationID, stopDTO.Number)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	return route.RestoreRoute(id, groupID, dto.Name, stops, dto.Length, dto.EncodedPath, dto.PathExpiresAt)
}
