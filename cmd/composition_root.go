package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	httpadapter "fooddrop/internal/adapters/in/http"
	"fooddrop/internal/adapters/out/fleetrouting"
	"fooddrop/internal/adapters/out/geocoding"
	"fooddrop/internal/adapters/out/postgres"
	"fooddrop/internal/core/application/usecases/commands"
	"fooddrop/internal/core/application/usecases/queries"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/services/clustering"
	"fooddrop/internal/core/domain/services/routing"
	"fooddrop/internal/core/ports"
	"fooddrop/internal/jobs"
	"fooddrop/internal/workers"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateEnqueueRouteGenerationCommandHandler() commands.EnqueueRouteGenerationCommandHandler {
	var f commands.JobUoWFactory = FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
	return commands.NewEnqueueRouteGenerationCommandHandler(f)
}

func (c *CompositionRoot) CreateGetJobQueryHandler() queries.GetJobQueryHandler {
	return queries.NewGetJobQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetJobsQueryHandler() queries.GetJobsQueryHandler {
	return queries.NewGetJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateEnqueueRouteGenerationCommandHandler(),
		c.CreateGetJobQueryHandler(),
		c.CreateGetJobsQueryHandler(),
	)
}

// CreateJobWorker wires the polling worker with the configured routing
// algorithm and warehouse.
func (c *CompositionRoot) CreateJobWorker() (*workers.JobWorker, error) {
	warehouse, err := c.warehouse()
	if err != nil {
		return nil, err
	}

	algorithm, err := c.createRoutingAlgorithm(warehouse)
	if err != nil {
		return nil, err
	}

	pollInterval, err := optionalDuration(c.config.WorkerPollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_POLL_INTERVAL: %w", err)
	}
	jobTimeout, err := optionalDuration(c.config.JobTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid JOB_TIMEOUT: %w", err)
	}

	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})

	return workers.NewJobWorker(
		c.createJobRepository(), f, algorithm, warehouse, pollInterval, jobTimeout, c.logger)
}

// CreateJobManager wires the scheduled maintenance jobs.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	geocoder, err := geocoding.NewHTTPGeocoder(c.config.GeocodingEndpoint, c.config.GeocodingAPIKey)
	if err != nil {
		return nil, err
	}

	uow := c.uowFactory.Create()
	return jobs.NewJobManager(uow.RouteRepository(), uow.LocationRepository(), geocoder, c.logger), nil
}

func (c *CompositionRoot) createJobRepository() ports.JobRepository {
	return c.uowFactory.Create().JobRepository()
}

func (c *CompositionRoot) createRoutingAlgorithm(warehouse kernel.GeoPoint) (routing.Algorithm, error) {
	switch c.config.RoutingAlgorithm {
	case "fleet":
		credentials, err := fleetrouting.NewCredentials(
			c.config.FleetRoutingTokenURL,
			c.config.FleetRoutingClientID,
			c.config.FleetRoutingClientSecret,
		)
		if err != nil {
			return nil, err
		}
		return fleetrouting.NewClient(c.config.FleetRoutingEndpoint, credentials, c.logger)
	case "kmeans":
		return routing.NewSweepRouter(clustering.NewConstrainedKMeans())
	case "greedy":
		return routing.NewSweepRouter(clustering.NewGreedyPartition())
	case "sweep-packer":
		// Pack-by-constraint sizes routes by the capacity cap alone;
		// the resulting route count can differ from NumRoutes.
		clusterer, err := clustering.NewAngularSweepPacker(warehouse)
		if err != nil {
			return nil, err
		}
		return routing.NewSweepRouter(clusterer)
	case "", "sweep":
		clusterer, err := clustering.NewAngularSweep(warehouse)
		if err != nil {
			return nil, err
		}
		return routing.NewSweepRouter(clusterer)
	default:
		return nil, fmt.Errorf("unknown routing algorithm %q", c.config.RoutingAlgorithm)
	}
}

func (c *CompositionRoot) warehouse() (kernel.GeoPoint, error) {
	latitude, err := strconv.ParseFloat(c.config.WarehouseLat, 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("invalid WAREHOUSE_LAT: %w", err)
	}
	longitude, err := strconv.ParseFloat(c.config.WarehouseLon, 64)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("invalid WAREHOUSE_LON: %w", err)
	}
	return kernel.NewGeoPoint(latitude, longitude)
}

func optionalDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
