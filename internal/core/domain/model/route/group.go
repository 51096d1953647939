package route

import (
	"errors"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
)

// ErrGroupIsNotConstructed is returned when a Group instance was not
// created through NewGroup.
var ErrGroupIsNotConstructed = errors.New("Group must be created via NewGroup constructor")

// Group collects the routes produced by one route-generation job. A
// completed job points at exactly one group; regenerating routes for the
// same location group creates a new Group rather than mutating the old
// one, so past results stay addressable.
type Group struct {
	// id is the unique identifier for the group
	id kernel.UUID

	// locationGroupID identifies the location group the routes cover
	locationGroupID kernel.UUID

	// createdAt is when the group was persisted
	createdAt time.Time

	// isConstructed ensures the group was created via NewGroup
	isConstructed bool
}

// NewGroup creates a route Group with validation.
func NewGroup(id kernel.UUID, locationGroupID kernel.UUID, createdAt time.Time) (*Group, error) {
	g := &Group{
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		g.setID(id),
		g.setLocationGroupID(locationGroupID),
	); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate ensures the Group was constructed through NewGroup.
func (g *Group) Validate() error {
	if g == nil || !g.isConstructed {
		return ErrGroupIsNotConstructed
	}

	return nil
}

// IsEqual compares two groups by identifier.
func (g *Group) IsEqual(other *Group) bool {
	return other != nil && g.id.IsEqual(other.id)
}

// ID returns the group's unique identifier.
func (g *Group) ID() kernel.UUID {
	return g.id
}

// LocationGroupID returns the location group the routes cover.
func (g *Group) LocationGroupID() kernel.UUID {
	return g.locationGroupID
}

// CreatedAt returns when the group was persisted.
func (g *Group) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Group) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	g.id = id
	return nil
}

func (g *Group) setLocationGroupID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	g.locationGroupID = id
	return nil
}
