package route

import (
	"errors"
	"fmt"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"
)

// ErrRouteIsNotConstructed is returned when a Route instance was not
// created through NewRoute or RestoreRoute.
var ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")

// Route represents one vehicle's ordered sequence of stops within a route
// group.
//
// Route follows these invariants:
//   - valid unique identifier and group identifier
//   - stop numbers are 1-based and contiguous in slice order
//   - length is non-negative
//   - an encoded path and its expiry are set and cleared together
type Route struct {
	// id is the unique identifier for the route
	id kernel.UUID

	// groupID is the route group this route belongs to
	groupID kernel.UUID

	// name is the display label, e.g. "Route 1"
	name string

	// stops is the driving order; stops[i].Number() == i+1
	stops []Stop

	// length is the route's estimated travel distance
	length float64

	// encodedPath is the cached rendered polyline (nil if not rendered)
	encodedPath *string

	// pathExpiresAt is when the cached polyline goes stale
	pathExpiresAt *time.Time

	// isConstructed ensures the route was created via a constructor
	isConstructed bool
}

// NewRoute creates a Route with validation. Stops must already carry
// contiguous 1-based numbers in slice order; the constructor rejects
// gaps, duplicates and zero-length routes.
func NewRoute(id kernel.UUID, groupID kernel.UUID, name string, stops []Stop, length float64) (*Route, error) {
	r := &Route{
		name:          name,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setGroupID(groupID),
		r.setStops(stops),
		r.setLength(length),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRoute reconstructs a Route from persisted state, including the
// cached polyline. The same stop and length invariants apply.
func RestoreRoute(
	id kernel.UUID,
	groupID kernel.UUID,
	name string,
	stops []Stop,
	length float64,
	encodedPath *string,
	pathExpiresAt *time.Time,
) (*Route, error) {
	r, err := NewRoute(id, groupID, name, stops, length)
	if err != nil {
		return nil, err
	}

	if err := r.setPath(encodedPath, pathExpiresAt); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate ensures the Route was constructed through a constructor.
func (r *Route) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}

	return nil
}

// IsEqual compares two routes by identifier.
func (r *Route) IsEqual(other *Route) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID {
	return r.id
}

// GroupID returns the owning route group's identifier.
func (r *Route) GroupID() kernel.UUID {
	return r.groupID
}

// Name returns the display label.
func (r *Route) Name() string {
	return r.name
}

// Stops returns the driving order. The returned slice is a copy.
func (r *Route) Stops() []Stop {
	stops := make([]Stop, len(r.stops))
	copy(stops, r.stops)
	return stops
}

// Length returns the route's estimated travel distance.
func (r *Route) Length() float64 {
	return r.length
}

// EncodedPath returns the cached rendered polyline, or nil.
func (r *Route) EncodedPath() *string {
	return r.encodedPath
}

// PathExpiresAt returns when the cached polyline goes stale, or nil.
func (r *Route) PathExpiresAt() *time.Time {
	return r.pathExpiresAt
}

// SetEncodedPath caches a rendered polyline with its expiry.
func (r *Route) SetEncodedPath(path string, expiresAt time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if path == "" {
		return errs.NewValueIsRequiredError("path")
	}

	r.encodedPath = &path
	r.pathExpiresAt = &expiresAt
	return nil
}

// ClearExpiredPath drops the cached polyline if it expired before now.
// Returns true when a path was cleared.
func (r *Route) ClearExpiredPath(now time.Time) bool {
	if r.encodedPath == nil || r.pathExpiresAt == nil || !r.pathExpiresAt.Before(now) {
		return false
	}

	r.encodedPath = nil
	r.pathExpiresAt = nil
	return true
}

func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Route) setGroupID(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}
	r.groupID = groupID
	return nil
}

// setStops validates that stops carry contiguous 1-based numbers in slice
// order and copies them in.
func (r *Route) setStops(stops []Stop) error {
	if len(stops) == 0 {
		return errs.NewValueIsRequiredError("stops")
	}

	for i, stop := range stops {
		if err := stop.Validate(); err != nil {
			return err
		}
		if stop.Number() != i+1 {
			return errs.NewValueIsInvalidErrorWithCause("stops are invalid",
				fmt.Errorf("stop at index %d has number %d, want %d", i, stop.Number(), i+1))
		}
	}

	r.stops = make([]Stop, len(stops))
	copy(r.stops, stops)
	return nil
}

func (r *Route) setLength(length float64) error {
	if length < 0 {
		return errs.NewValueIsInvalidErrorWithCause("length is invalid",
			fmt.Errorf("%v is negative", length))
	}
	r.length = length
	return nil
}

// setPath restores the cached polyline. Path and expiry must be present
// together or absent together.
func (r *Route) setPath(encodedPath *string, pathExpiresAt *time.Time) error {
	if (encodedPath == nil) != (pathExpiresAt == nil) {
		return errs.NewValueIsInvalidError("encodedPath is invalid")
	}
	if encodedPath != nil && *encodedPath == "" {
		return errs.NewValueIsRequiredError("encodedPath")
	}

	r.encodedPath = encodedPath
	r.pathExpiresAt = pathExpiresAt
	return nil
}
