// Package http exposes the service's inbound REST API: enqueue route
// generation for a location group, poll job progress and list jobs.
package http

import (
	"errors"
	"net/http"

	"fooddrop/internal/core/application/usecases/commands"
	"fooddrop/internal/core/application/usecases/queries"
	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers. It coordinates between HTTP
// requests and application use cases.
type Server struct {
	// Command handlers
	enqueueHandler commands.EnqueueRouteGenerationCommandHandler

	// Query handlers
	getJobHandler  queries.GetJobQueryHandler
	getJobsHandler queries.GetJobsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	enqueueHandler commands.EnqueueRouteGenerationCommandHandler,
	getJobHandler queries.GetJobQueryHandler,
	getJobsHandler queries.GetJobsQueryHandler,
) *Server {
	return &Server{
		enqueueHandler: enqueueHandler,
		getJobHandler:  getJobHandler,
		getJobsHandler: getJobsHandler,
	}
}

// RegisterRoutes attaches all handlers to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/api/v1/location-groups/:id/routes", s.GenerateRoutes)
	e.GET("/api/v1/jobs/:id", s.GetJob)
	e.GET("/api/v1/jobs", s.GetJobs)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GenerateRoutes handles POST /api/v1/location-groups/:id/routes.
// The work happens asynchronously; the response only acknowledges the
// queued job.
func (s *Server) GenerateRoutes(ctx echo.Context) error {
	groupID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid location group id",
		})
	}

	var request GenerateRoutesRequest
	if err = ctx.Bind(&request); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	jobID := kernel.NewUUID()
	cmd, err := commands.NewEnqueueRouteGenerationCommand(jobID, groupID, job.Settings{
		NumRoutes:                 request.NumRoutes,
		MaxStopsPerRoute:          request.MaxStopsPerRoute,
		MaxBoxesPerRoute:          request.MaxBoxesPerRoute,
		ReturnToWarehouse:         request.ReturnToWarehouse,
		ServiceTimePerStopSeconds: request.ServiceTimePerStopSeconds,
	})
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid generation settings: " + err.Error(),
		})
	}

	if handleErr := s.enqueueHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to enqueue route generation",
		})
	}

	return ctx.JSON(http.StatusAccepted, GenerateRoutesResponse{JobID: jobID.Bytes()})
}

// GetJob handles GET /api/v1/jobs/:id.
func (s *Server) GetJob(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job id",
		})
	}

	query, err := queries.NewGetJobQuery(jobID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job id",
		})
	}

	response, err := s.getJobHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Job not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve job",
		})
	}

	return ctx.JSON(http.StatusOK, toJobDTO(response))
}

// GetJobs handles GET /api/v1/jobs with an optional progress filter.
func (s *Server) GetJobs(ctx echo.Context) error {
	var progress *job.Progress
	if raw := ctx.QueryParam("progress"); raw != "" {
		parsed, err := job.ProgressFromString(raw)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: "Invalid progress filter: " + raw,
			})
		}
		progress = &parsed
	}

	query, err := queries.NewGetJobsQuery(progress)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid progress filter",
		})
	}

	jobs, err := s.getJobsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve jobs",
		})
	}

	response := make([]Job, len(jobs))
	for i, j := range jobs {
		response[i] = toJobDTO(j)
	}

	return ctx.JSON(http.StatusOK, response)
}

func toJobDTO(response queries.JobResponse) Job {
	dto := Job{
		JobID:           response.ID.Bytes(),
		LocationGroupID: response.LocationGroupID.Bytes(),
		Progress:        response.Progress,
		Message:         response.Message,
		CreatedAt:       response.CreatedAt,
		StartedAt:       response.StartedAt,
		UpdatedAt:       response.UpdatedAt,
		FinishedAt:      response.FinishedAt,
	}

	if response.RouteGroupID != nil {
		routeGroupID := response.RouteGroupID.Bytes()
		dto.RouteGroupID = &routeGroupID
	}

	return dto
}
