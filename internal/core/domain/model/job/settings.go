package job

import (
	"fmt"

	"fooddrop/internal/pkg/errs"
)

// Settings is the generation request a job was enqueued with. It is
// persisted alongside the job as a JSON payload so a completed or failed
// row records exactly what was asked for.
type Settings struct {
	// NumRoutes is the number of vehicle routes to produce.
	NumRoutes int `json:"num_routes"`

	// MaxStopsPerRoute caps the stop count per route (nil means uncapped).
	MaxStopsPerRoute *int `json:"max_stops_per_route,omitempty"`

	// MaxBoxesPerRoute caps the summed box demand per route (nil means
	// uncapped). Mutually exclusive with MaxStopsPerRoute.
	MaxBoxesPerRoute *int `json:"max_boxes_per_route,omitempty"`

	// ReturnToWarehouse makes every route end back at the warehouse.
	ReturnToWarehouse bool `json:"return_to_warehouse"`

	// ServiceTimePerStopSeconds is the modeled unloading time at each stop.
	ServiceTimePerStopSeconds int `json:"service_time_per_stop_seconds"`
}

// Validate checks the settings payload.
//
// NumRoutes must be at least 1, caps must be at least 1 when set, and the
// two caps are mutually exclusive: a stop cap and a box cap together have
// no defined combined semantics.
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

	if s.ServiceTimePerStopSeconds < 0 {
		return errs.NewValueIsInvalidErrorWithCause("serviceTimePerStopSeconds is invalid",
			fmt.Errorf("%d is negative", s.ServiceTimePerStopSeconds))
	}

	return nil
}
