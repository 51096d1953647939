package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fooddrop/internal/core/ports"
	"fooddrop/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const (
	// geocodingStaleAfter is how old coordinates may get before the
	// nightly refresh re-resolves the address.
	geocodingStaleAfter = 30 * 24 * time.Hour

	// geocodingBatchSize caps one night's refresh so a large backlog is
	// worked off over several runs instead of hammering the geocoder.
	geocodingBatchSize = 100
)

// GeocodingRefreshJob re-geocodes locations whose coordinates are stale.
// Addresses change meaning over time (renumbering, provider data fixes),
// so a periodic refresh keeps the stored points trustworthy.
type GeocodingRefreshJob struct {
	locations ports.LocationRepository
	geocoder  ports.Geocoder
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewGeocodingRefreshJob creates a new refresh job.
func NewGeocodingRefreshJob(
	locations ports.LocationRepository,
	geocoder ports.Geocoder,
	logger *slog.Logger,
) *GeocodingRefreshJob {
	return &GeocodingRefreshJob{
		locations: locations,
		geocoder:  geocoder,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "geocoding_refresh_job"),
	}
}

// Start begins the refresh job to run daily at 03:00.
func (j *GeocodingRefreshJob) Start() error {
	_, err := j.cron.AddFunc("0 0 3 * * *", func() {
		j.RefreshStale(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Geocoding refresh job started (running daily at 03:00)")
	return nil
}

// Stop stops the refresh job.
func (j *GeocodingRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Geocoding refresh job stopped")
}

// RefreshStale re-geocodes one batch of stale locations, never-geocoded
// rows included. An address the geocoder cannot match is skipped with a
// warning; the next run will try it again.
func (j *GeocodingRefreshJob) RefreshStale(ctx context.Context) {
	now := time.Now().UTC()

	stale, err := j.locations.GetStaleGeocoded(ctx, now.Add(-geocodingStaleAfter), geocodingBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Loading stale locations failed", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	refreshed := 0
	for _, loc := range stale {
		point, geocodeErr := j.geocoder.Geocode(ctx, loc.Address)
		if geocodeErr != nil {
			if errors.Is(geocodeErr, errs.ErrObjectNotFound) {
				j.logger.WarnContext(ctx, "Address did not geocode, skipping",
					"locationID", loc.ID.String(), "address", loc.Address)
				continue
			}
			j.logger.ErrorContext(ctx, "Geocoding failed, stopping this run", "error", geocodeErr)
			break
		}

		if updateErr := j.locations.UpdatePoint(ctx, loc.ID, point, now); updateErr != nil {
			j.logger.ErrorContext(ctx, "Persisting refreshed coordinates failed",
				"locationID", loc.ID.String(), "error", updateErr)
			continue
		}
		refreshed++
	}

	j.logger.InfoContext(ctx, "Geocoding refresh finished",
		"stale", len(stale), "refreshed", refreshed)
}
