package ports

import (
	"context"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for route groups and
// their routes.
type RouteRepository interface {
	// AddGroup persists a new route group.
	AddGroup(ctx context.Context, aggregate *route.Group) error

	// Add persists a new route with its stops.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update persists changes to an existing route.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)

	// GetAllByGroup retrieves every route in a route group, ordered by
	// name.
	GetAllByGroup(ctx context.Context, groupID kernel.UUID) ([]*route.Route, error)

	// ClearExpiredPaths drops cached encoded paths that expired before
	// now. Returns the number of routes cleared. Used by the hourly
	// path-cache cleanup job.
	ClearExpiredPaths(ctx context.Context, now time.Time) (int, error)
}
