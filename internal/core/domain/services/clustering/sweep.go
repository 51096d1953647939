package clustering

import (
	"context"
	"fmt"
	"sort"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/pkg/errs"
)

// AngularSweep partitions locations by sweeping a ray around the
// warehouse: locations are sorted by their bearing from the warehouse
// (ties broken by squared distance) and the sorted order is sliced into
// contiguous runs. Neighboring slices cover neighboring wedges of the
// map, which keeps each vehicle in one area.
//
// The algorithm is deterministic: the same input in the same order
// always yields the same clusters.
type AngularSweep struct {
	warehouse kernel.GeoPoint

	// packByConstraint switches from slicing into NumClusters runs to
	// greedily packing clusters up to the active capacity cap.
	packByConstraint bool
}

// NewAngularSweep creates the slice-mode sweep: the sorted order is cut
// into exactly NumClusters contiguous runs of near-equal size.
func NewAngularSweep(warehouse kernel.GeoPoint) (*AngularSweep, error) {
	if err := warehouse.Validate(); err != nil {
		return nil, err
	}

	return &AngularSweep{warehouse: warehouse}, nil
}

// NewAngularSweepPacker creates the pack-mode sweep: the cluster-count
// target is ignored and a new cluster is opened whenever adding the next
// location in sweep order would exceed the active capacity cap.
func NewAngularSweepPacker(warehouse kernel.GeoPoint) (*AngularSweep, error) {
	if err := warehouse.Validate(); err != nil {
		return nil, err
	}

	return &AngularSweep{warehouse: warehouse, packByConstraint: true}, nil
}

// sweepEntry is one location with its precomputed sort key.
type sweepEntry struct {
	loc      *location.Location
	angle    float64
	distance float64
}

// Cluster implements Algorithm.
func (a *AngularSweep) Cluster(
	ctx context.Context,
	locations []*location.Location,
	constraints Constraints,
) ([][]*location.Location, error) {
	if err := validateInput(locations, constraints); err != nil {
		return nil, err
	}

	dl := startDeadline("clustering", constraints.Timeout)

	sorted, err := a.sortBySweep(ctx, dl, locations)
	if err != nil {
		return nil, err
	}

	if a.packByConstraint {
		return a.pack(ctx, dl, sorted, constraints)
	}
	return a.slice(ctx, dl, sorted, constraints)
}

// SortBySweepKey orders locations by (bearing from the warehouse, squared
// distance) without partitioning them. Routing reuses this to order the
// stops inside one cluster.
func (a *AngularSweep) SortBySweepKey(
	ctx context.Context,
	locations []*location.Location,
) ([]*location.Location, error) {
	dl := startDeadline("clustering", 0)

	sorted, err := a.sortBySweep(ctx, dl, locations)
	if err != nil {
		return nil, err
	}

	out := make([]*location.Location, len(sorted))
	for i, e := range sorted {
		out[i] = e.loc
	}
	return out, nil
}

func (a *AngularSweep) sortBySweep(
	ctx context.Context,
	dl deadline,
	locations []*location.Location,
) ([]sweepEntry, error) {
	entries := make([]sweepEntry, 0, len(locations))
	for _, loc := range locations {
		if err := dl.check(ctx); err != nil {
			return nil, err
		}

		angle, err := loc.Point().BearingFrom(a.warehouse)
		if err != nil {
			return nil, err
		}
		distance, err := loc.Point().DistanceSquaredFrom(a.warehouse)
		if err != nil {
			return nil, err
		}

		entries = append(entries, sweepEntry{loc: loc, angle: angle, distance: distance})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].angle != entries[j].angle {
			return entries[i].angle < entries[j].angle
		}
		return entries[i].distance < entries[j].distance
	})

	return entries, nil
}

// slice cuts the sweep order into NumClusters contiguous runs. The first
// n mod k runs take one extra location so sizes differ by at most one.
func (a *AngularSweep) slice(
	ctx context.Context,
	dl deadline,
	sorted []sweepEntry,
	constraints Constraints,
) ([][]*location.Location, error) {
	baseSize := len(sorted) / constraints.NumClusters
	remainder := len(sorted) % constraints.NumClusters

	if baseSize == 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("numClusters is invalid",
			fmt.Errorf("cannot create %d clusters from %d locations", constraints.NumClusters, len(sorted)))
	}

	clusters := make([][]*location.Location, 0, constraints.NumClusters)
	start := 0
	for i := 0; i < constraints.NumClusters; i++ {
		if err := dl.check(ctx); err != nil {
			return nil, err
		}

		size := baseSize
		if i < remainder {
			size++
		}

		cluster := make([]*location.Location, 0, size)
		for _, e := range sorted[start : start+size] {
			cluster = append(cluster, e.loc)
		}
		clusters = append(clusters, cluster)
		start += size
	}

	return clusters, nil
}

// pack accumulates the sweep order greedily, opening a new cluster when
// adding the next location would exceed the active cap. A single location
// larger than the box cap still gets its own cluster rather than being
// dropped.
func (a *AngularSweep) pack(
	ctx context.Context,
	dl deadline,
	sorted []sweepEntry,
	constraints Constraints,
) ([][]*location.Location, error) {
	var clusters [][]*location.Location
	var current []*location.Location
	currentBoxes := 0

	for _, e := range sorted {
		if err := dl.check(ctx); err != nil {
			return nil, err
		}

		wouldExceedLocations := constraints.MaxLocationsPerCluster != nil &&
			len(current)+1 > *constraints.MaxLocationsPerCluster
		wouldExceedBoxes := constraints.MaxBoxesPerCluster != nil &&
			currentBoxes+e.loc.NumBoxes() > *constraints.MaxBoxesPerCluster

		if len(current) > 0 && (wouldExceedLocations || wouldExceedBoxes) {
			clusters = append(clusters, current)
			current = nil
			currentBoxes = 0
		}

		current = append(current, e.loc)
		currentBoxes += e.loc.NumBoxes()
	}

	if len(current) > 0 {
		clusters = append(clusters, current)
	}

	return clusters, nil
}
