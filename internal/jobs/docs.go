// Package jobs provides scheduled background maintenance for the route
// generation service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping the service needs.
//
// # Available Jobs
//
// 1. PathCacheCleanupJob - Runs hourly to drop cached encoded route paths that expired
// 2. GeocodingRefreshJob - Runs nightly to re-geocode locations with stale coordinates
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(routeRepository, locationRepository, geocoder, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Path cleanup uses "0 0 * * * *" (top of every hour); geocoding refresh
// uses "0 0 3 * * *" (03:00 daily) so the re-geocoding burst lands in the
// quiet hours.
//
// # Error Handling
//
// - Cleanup errors are logged and retried on the next tick
// - Geocoding skips addresses the geocoder cannot match and keeps going
// - Failed job starts will stop any already running jobs
package jobs
