package http

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GenerateRoutesRequest is the enqueue request body. The caps are
// optional and mutually exclusive.
type GenerateRoutesRequest struct {
	NumRoutes                 int  `json:"num_routes"`
	MaxStopsPerRoute          *int `json:"max_stops_per_route,omitempty"`
	MaxBoxesPerRoute          *int `json:"max_boxes_per_route,omitempty"`
	ReturnToWarehouse         bool `json:"return_to_warehouse"`
	ServiceTimePerStopSeconds int  `json:"service_time_per_stop_seconds"`
}

// GenerateRoutesResponse acknowledges an accepted generation request.
// The job id is the handle for polling progress.
type GenerateRoutesResponse struct {
	JobID openapi_types.UUID `json:"job_id"`
}

// Job is the read model for one route-generation job.
type Job struct {
	JobID           openapi_types.UUID  `json:"job_id"`
	LocationGroupID openapi_types.UUID  `json:"location_group_id"`
	Progress        string              `json:"progress"`
	RouteGroupID    *openapi_types.UUID `json:"route_group_id,omitempty"`
	Message         string              `json:"message,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	StartedAt       *time.Time          `json:"started_at,omitempty"`
	UpdatedAt       *time.Time          `json:"updated_at,omitempty"`
	FinishedAt      *time.Time          `json:"finished_at,omitempty"`
}

// Error is the common error body.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
