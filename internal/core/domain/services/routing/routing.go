package routing

import (
	"context"
	"fmt"
	"time"

	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/pkg/errs"
)

// Algorithm produces NumRoutes ordered stop sequences for a location set.
//
// The returned slices are the driving order per vehicle. Implementations
// surface infeasible constraints, exceeded timeouts and upstream service
// failures through the errs sentinel errors so the worker can record an
// accurate failure reason.
type Algorithm interface {
	GenerateRoutes(
		ctx context.Context,
		locations []*location.Location,
		warehouse kernel.GeoPoint,
		settings Settings,
		timeout time.Duration,
	) ([][]*location.Location, error)
}

// Settings parameterizes one routing run. It is the transient form of a
// job's persisted settings payload.
type Settings struct {
	// NumRoutes is the number of vehicle routes to produce.
	NumRoutes int

	// MaxStopsPerRoute caps the stop count per route (nil means uncapped).
	MaxStopsPerRoute *int

	// MaxBoxesPerRoute caps the summed box demand per route (nil means
	// uncapped). Mutually exclusive with MaxStopsPerRoute.
	MaxBoxesPerRoute *int

	// ReturnToWarehouse makes every route end back at the warehouse.
	ReturnToWarehouse bool

	// ServiceTimePerStop is the modeled unloading time at each stop.
	ServiceTimePerStop time.Duration
}

// SettingsFromJob converts a job's persisted settings payload into the
// transient routing form.
func SettingsFromJob(s job.Settings) Settings {
	return Settings{
		NumRoutes:          s.NumRoutes,
		MaxStopsPerRoute:   s.MaxStopsPerRoute,
		MaxBoxesPerRoute:   s.MaxBoxesPerRoute,
		ReturnToWarehouse:  s.ReturnToWarehouse,
		ServiceTimePerStop: time.Duration(s.ServiceTimePerStopSeconds) * time.Second,
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if s.NumRoutes < 1 {
		return errs.NewValueIsInvalidErrorWithCause("numRoutes is invalid",
			fmt.Errorf("%d is not greater than 0", s.NumRoutes))
	}

	if s.MaxStopsPerRoute != nil && *s.MaxStopsPerRoute < 1 {
		return errs.NewValueIsInvalidErrorWithCause("maxStopsPerRoute is invalid",
			fmt.Errorf("%d is not greater than 0", *s.MaxStopsPerRoute))
	}

	if s.MaxBoxesPerRoute != nil && *s.MaxBoxesPerRoute < 1 {
		return errs.NewValueIsInvalidErrorWithCause("maxBoxesPerRoute is invalid",
			fmt.Errorf("%d is not greater than 0", *s.MaxBoxesPerRoute))
	}

	if s.MaxStopsPerRoute != nil && s.MaxBoxesPerRoute != nil {
		return errs.NewValueIsInvalidErrorWithCause("maxStopsPerRoute is invalid",
			fmt.Errorf("maxStopsPerRoute and maxBoxesPerRoute cannot both be set"))
	}

	if s.ServiceTimePerStop < 0 {
		return errs.NewValueIsInvalidErrorWithCause("serviceTimePerStop is invalid",
			fmt.Errorf("%s is negative", s.ServiceTimePerStop))
	}

	return nil
}
