package clustering

import (
	"context"
	"fmt"
	"time"

	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/pkg/errs"
)

// Algorithm partitions locations into clusters, one per vehicle route.
//
// Implementations must return an exact partition of the input: every
// location appears in exactly one cluster. Errors distinguish invalid
// input, infeasible constraints and exceeded timeouts through the errs
// sentinel errors.
type Algorithm interface {
	Cluster(ctx context.Context, locations []*location.Location, constraints Constraints) ([][]*location.Location, error)
}

// Constraints parameterizes a clustering run.
type Constraints struct {
	// NumClusters is the target number of clusters (at least 1).
	NumClusters int

	// MaxLocationsPerCluster caps the stop count per cluster (nil means
	// uncapped). Mutually exclusive with MaxBoxesPerCluster.
	MaxLocationsPerCluster *int

	// MaxBoxesPerCluster caps the summed box demand per cluster (nil
	// means uncapped).
	MaxBoxesPerCluster *int

	// Timeout bounds the wall-clock runtime of the run (0 means no limit).
	Timeout time.Duration
}

// Validate checks the constraint parameters themselves, independent of
// any location set.
func (c Constraints) Validate() error {
	if c.NumClusters < 1 {
		return errs.NewValueIsInvalidErrorWithCause("numClusters is invalid",
			fmt.Errorf("%d is not greater than 0", c.NumClusters))
	}

	if c.MaxLocationsPerCluster != nil && *c.MaxLocationsPerCluster < 1 {
		return errs.NewValueIsInvalidErrorWithCause("maxLocationsPerCluster is invalid",
			fmt.Errorf("%d is not greater than 0", *c.MaxLocationsPerCluster))
	}

	if c.MaxBoxesPerCluster != nil && *c.MaxBoxesPerCluster < 1 {
		return errs.NewValueIsInvalidErrorWithCause("maxBoxesPerCluster is invalid",
			fmt.Errorf("%d is not greater than 0", *c.MaxBoxesPerCluster))
	}

	if c.MaxLocationsPerCluster != nil && c.MaxBoxesPerCluster != nil {
		return errs.NewValueIsInvalidErrorWithCause("maxLocationsPerCluster is invalid",
			fmt.Errorf("maxLocationsPerCluster and maxBoxesPerCluster cannot both be set"))
	}

	return nil
}

// validateInput runs the checks shared by all strategies: valid
// constraints, a non-empty validated location set, and the fail-fast
// feasibility checks that reject impossible requests before any work.
func validateInput(locations []*location.Location, constraints Constraints) error {
	if err := constraints.Validate(); err != nil {
		return err
	}

	if len(locations) == 0 {
		return errs.NewValueIsRequiredError("locations")
	}

	for _, loc := range locations {
		if err := loc.Validate(); err != nil {
			return err
		}
	}

	if constraints.MaxLocationsPerCluster != nil {
		// ceil(n/k) locations must fit the largest cluster
		required := (len(locations) + constraints.NumClusters - 1) / constraints.NumClusters
		if required > *constraints.MaxLocationsPerCluster {
			return errs.NewInfeasibleConstraintError("maxLocationsPerCluster",
				required, *constraints.MaxLocationsPerCluster)
		}
	}

	if constraints.MaxBoxesPerCluster != nil {
		totalBoxes := 0
		for _, loc := range locations {
			totalBoxes += loc.NumBoxes()
		}
		required := (totalBoxes + constraints.NumClusters - 1) / constraints.NumClusters
		if required > *constraints.MaxBoxesPerCluster {
			return errs.NewInfeasibleConstraintError("maxBoxesPerCluster",
				required, *constraints.MaxBoxesPerCluster)
		}
	}

	return nil
}

// deadline tracks the wall-clock budget of one clustering run. A zero
// limit disables the check. Strategies call check at least once per
// location processed.
type deadline struct {
	operation string
	start     time.Time
	limit     time.Duration
}

func startDeadline(operation string, limit time.Duration) deadline {
	return deadline{operation: operation, start: time.Now(), limit: limit}
}

func (d deadline) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.limit <= 0 {
		return nil
	}
	if elapsed := time.Since(d.start); elapsed > d.limit {
		return errs.NewTimeoutExceededError(d.operation, d.limit, elapsed)
	}
	return nil
}
