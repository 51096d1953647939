package location

import (
	"errors"
	"fmt"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"
)

// ErrLocationIsNotConstructed is returned when a Location instance was not
// created through NewLocation. This ensures all locations carry validated
// coordinates.
var ErrLocationIsNotConstructed = errors.New("Location must be created via NewLocation constructor")

// Location represents a delivery stop. It is immutable for the duration of a
// route-generation run: clustering and routing only read it.
//
// Invariants:
//   - valid unique identifier
//   - properly constructed geographic point (latitude and longitude present)
//   - box demand is a non-negative integer
type Location struct {
	// id is the unique identifier for the stop
	id kernel.UUID

	// groupID is the location group this stop belongs to (nil if ungrouped)
	groupID *kernel.UUID

	// address is the human-entered street address the point was geocoded from
	address string

	// point is the geocoded coordinate pair
	point kernel.GeoPoint

	// numBoxes is the number of food boxes this stop receives
	numBoxes int

	// geocodedAt records when point was last refreshed (nil if never)
	geocodedAt *time.Time

	// isConstructed ensures the location was created via NewLocation
	isConstructed bool
}

// NewLocation creates a Location with validation. The point must be a
// properly constructed GeoPoint and numBoxes must be non-negative. groupID
// and geocodedAt may be nil.
func NewLocation(
	id kernel.UUID,
	groupID *kernel.UUID,
	address string,
	point kernel.GeoPoint,
	numBoxes int,
	geocodedAt *time.Time,
) (*Location, error) {
	loc := &Location{
		address:       address,
		geocodedAt:    geocodedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		loc.setID(id),
		loc.setGroupID(groupID),
		loc.setPoint(point),
		loc.setNumBoxes(numBoxes),
	); err != nil {
		return nil, err
	}

	return loc, nil
}

// Validate ensures the Location was constructed through NewLocation.
func (l *Location) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLocationIsNotConstructed
	}

	return nil
}

// IsEqual compares two locations by identifier.
func (l *Location) IsEqual(other *Location) bool {
	return other != nil && l.id.IsEqual(other.id)
}

// ID returns the stop's unique identifier.
func (l *Location) ID() kernel.UUID {
	return l.id
}

// GroupID returns the owning location group's identifier, or nil.
func (l *Location) GroupID() *kernel.UUID {
	return l.groupID
}

// Address returns the street address.
func (l *Location) Address() string {
	return l.address
}

// Point returns the geocoded coordinates.
func (l *Location) Point() kernel.GeoPoint {
	return l.point
}

// NumBoxes returns the stop's box demand.
func (l *Location) NumBoxes() int {
	return l.numBoxes
}

// GeocodedAt returns when the coordinates were last refreshed, or nil.
func (l *Location) GeocodedAt() *time.Time {
	return l.geocodedAt
}

// RefreshPoint replaces the coordinates with a freshly geocoded pair and
// stamps the refresh time. This is the only mutation the aggregate allows;
// it is used by the periodic geocoding refresh job.
func (l *Location) RefreshPoint(point kernel.GeoPoint, at time.Time) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	l.point = point
	l.geocodedAt = &at
	return nil
}

// NeedsGeocodingRefresh reports whether the coordinates are stale relative to
// the cutoff: never geocoded, or geocoded before the cutoff.
func (l *Location) NeedsGeocodingRefresh(cutoff time.Time) bool {
	return l.geocodedAt == nil || l.geocodedAt.Before(cutoff)
}

// setID validates and sets the stop identifier.
func (l *Location) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

// setGroupID validates and sets the optional owning group identifier.
func (l *Location) setGroupID(groupID *kernel.UUID) error {
	if groupID == nil {
		return nil
	}
	if err := groupID.Validate(); err != nil {
		return err
	}
	l.groupID = groupID
	return nil
}

// setPoint validates and sets the coordinates.
func (l *Location) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	l.point = point
	return nil
}

// setNumBoxes validates and sets the box demand.
func (l *Location) setNumBoxes(numBoxes int) error {
	if numBoxes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("numBoxes is invalid",
			fmt.Errorf("%d is negative", numBoxes))
	}
	l.numBoxes = numBoxes
	return nil
}
