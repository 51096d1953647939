package clustering

import (
	"context"

	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/pkg/errs"
)

// GreedyPartition is the reference strategy: it deals locations
// round-robin across the clusters in input order, skipping clusters whose
// cap is already reached. It ignores geography entirely, which makes it
// useful as a mock in tests and as a fallback when no warehouse
// coordinates are configured.
type GreedyPartition struct{}

// NewGreedyPartition creates the round-robin strategy.
func NewGreedyPartition() *GreedyPartition {
	return &GreedyPartition{}
}

// Cluster implements Algorithm.
func (g *GreedyPartition) Cluster(
	ctx context.Context,
	locations []*location.Location,
	constraints Constraints,
) ([][]*location.Location, error) {
	if err := validateInput(locations, constraints); err != nil {
		return nil, err
	}

	dl := startDeadline("clustering", constraints.Timeout)

	clusters := make([][]*location.Location, constraints.NumClusters)
	boxes := make([]int, constraints.NumClusters)

	next := 0
	for _, loc := range locations {
		if err := dl.check(ctx); err != nil {
			return nil, err
		}

		placed := false
		for attempt := 0; attempt < constraints.NumClusters; attempt++ {
			c := (next + attempt) % constraints.NumClusters

			if constraints.MaxLocationsPerCluster != nil &&
				len(clusters[c])+1 > *constraints.MaxLocationsPerCluster {
				continue
			}
			if constraints.MaxBoxesPerCluster != nil &&
				boxes[c]+loc.NumBoxes() > *constraints.MaxBoxesPerCluster {
				continue
			}

			clusters[c] = append(clusters[c], loc)
			boxes[c] += loc.NumBoxes()
			next = (c + 1) % constraints.NumClusters
			placed = true
			break
		}

		if !placed {
			if constraints.MaxLocationsPerCluster != nil {
				return nil, errs.NewInfeasibleConstraintError("maxLocationsPerCluster",
					*constraints.MaxLocationsPerCluster+1, *constraints.MaxLocationsPerCluster)
			}
			lightest := boxes[0]
			for _, b := range boxes {
				if b < lightest {
					lightest = b
				}
			}
			return nil, errs.NewInfeasibleConstraintError("maxBoxesPerCluster",
				lightest+loc.NumBoxes(), *constraints.MaxBoxesPerCluster)
		}
	}

	return clusters, nil
}
