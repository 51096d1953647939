package routing

import (
	"context"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/core/domain/services/clustering"
	"fooddrop/internal/pkg/errs"
)

// SweepRouter is the local routing heuristic. It delegates partitioning
// to an injected clustering strategy (NumClusters = NumRoutes, the stop
// cap mapped to the location cap), then orders each cluster by the
// angular sweep around the warehouse so a driver works through one wedge
// of the map without backtracking across it.
type SweepRouter struct {
	clusterer clustering.Algorithm
}

// NewSweepRouter creates a SweepRouter on top of the given clustering
// strategy.
func NewSweepRouter(clusterer clustering.Algorithm) (*SweepRouter, error) {
	if clusterer == nil {
		return nil, errs.NewValueIsRequiredError("clusterer")
	}

	return &SweepRouter{clusterer: clusterer}, nil
}

// GenerateRoutes implements Algorithm.
func (r *SweepRouter) GenerateRoutes(
	ctx context.Context,
	locations []*location.Location,
	warehouse kernel.GeoPoint,
	settings Settings,
	timeout time.Duration,
) ([][]*location.Location, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := warehouse.Validate(); err != nil {
		return nil, err
	}

	clusters, err := r.clusterer.Cluster(ctx, locations, clustering.Constraints{
		NumClusters:            settings.NumRoutes,
		MaxLocationsPerCluster: settings.MaxStopsPerRoute,
		MaxBoxesPerCluster:     settings.MaxBoxesPerRoute,
		Timeout:                timeout,
	})
	if err != nil {
		return nil, err
	}

	sweep, err := clustering.NewAngularSweep(warehouse)
	if err != nil {
		return nil, err
	}

	routes := make([][]*location.Location, len(clusters))
	for i, cluster := range clusters {
		if len(cluster) == 0 {
			routes[i] = cluster
			continue
		}

		ordered, err := sweep.SortBySweepKey(ctx, cluster)
		if err != nil {
			return nil, err
		}
		routes[i] = ordered
	}

	return routes, nil
}
