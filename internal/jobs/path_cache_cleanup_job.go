package jobs

import (
	"context"
	"log/slog"
	"time"

	"fooddrop/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// PathCacheCleanupJob drops expired encoded route paths. Runs hourly;
// the paths are a display cache, so losing one only costs a re-fetch.
type PathCacheCleanupJob struct {
	routes ports.RouteRepository
	cron   *cron.Cron
	logger *slog.Logger
}

// NewPathCacheCleanupJob creates a new cleanup job over the route repository.
func NewPathCacheCleanupJob(routes ports.RouteRepository, logger *slog.Logger) *PathCacheCleanupJob {
	return &PathCacheCleanupJob{
		routes: routes,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "path_cache_cleanup_job"),
	}
}

// Start begins the cleanup job to run at the top of every hour.
func (j *PathCacheCleanupJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()

		count, err := j.routes.ClearExpiredPaths(ctx, time.Now().UTC())
		if err != nil {
			j.logger.ErrorContext(ctx, "Path cache cleanup failed", "error", err)
			return
		}
		if count > 0 {
			j.logger.InfoContext(ctx, "Cleared expired route paths", "count", count)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Path cache cleanup job started (running hourly)")
	return nil
}

// Stop stops the cleanup job.
func (j *PathCacheCleanupJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Path cache cleanup job stopped")
}
