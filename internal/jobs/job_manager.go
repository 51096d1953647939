package jobs

import (
	"fmt"
	"log/slog"

	"fooddrop/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pathCacheCleanupJob *PathCacheCleanupJob
	geocodingRefreshJob *GeocodingRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes repositories and the geocoder as dependencies to wire up job execution.
func NewJobManager(
	routes ports.RouteRepository,
	locations ports.LocationRepository,
	geocoder ports.Geocoder,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		pathCacheCleanupJob: NewPathCacheCleanupJob(routes, logger),
		geocodingRefreshJob: NewGeocodingRefreshJob(locations, geocoder, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pathCacheCleanupJob.Start(); err != nil {
		return fmt.Errorf("failed to start path cache cleanup job: %w", err)
	}

	if err := jm.geocodingRefreshJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.pathCacheCleanupJob.Stop()
		return fmt.Errorf("failed to start geocoding refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.geocodingRefreshJob.Stop()
	jm.pathCacheCleanupJob.Stop()
}
