package clustering

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/pkg/errs"
)

// ConstrainedKMeans partitions locations with Lloyd's k-means over raw
// latitude/longitude coordinates, then, when a capacity cap is set,
// reassigns points with a greedy closest-first pass that respects the
// cap.
//
// The run is deterministic: a fixed seed drives the centroid
// initializations, ties sort by input index, and the best of nInit
// restarts is chosen by strict inertia comparison.
type ConstrainedKMeans struct {
	seed    int64
	nInit   int
	maxIter int
}

// NewConstrainedKMeans creates the algorithm with its fixed defaults.
func NewConstrainedKMeans() *ConstrainedKMeans {
	return &ConstrainedKMeans{seed: 42, nInit: 10, maxIter: 100}
}

// Cluster implements Algorithm.
func (k *ConstrainedKMeans) Cluster(
	ctx context.Context,
	locations []*location.Location,
	constraints Constraints,
) ([][]*location.Location, error) {
	if err := validateInput(locations, constraints); err != nil {
		return nil, err
	}

	if len(locations) < constraints.NumClusters {
		return nil, errs.NewValueIsInvalidErrorWithCause("numClusters is invalid",
			fmt.Errorf("cannot create %d clusters from %d locations", constraints.NumClusters, len(locations)))
	}

	dl := startDeadline("clustering", constraints.Timeout)

	points := make([][2]float64, len(locations))
	for i, loc := range locations {
		if err := dl.check(ctx); err != nil {
			return nil, err
		}
		points[i] = [2]float64{loc.Point().Latitude(), loc.Point().Longitude()}
	}

	centroids, labels, err := k.fit(ctx, dl, points, constraints.NumClusters)
	if err != nil {
		return nil, err
	}

	if constraints.MaxLocationsPerCluster != nil || constraints.MaxBoxesPerCluster != nil {
		labels, err = k.assignWithConstraints(ctx, dl, locations, points, centroids, constraints)
		if err != nil {
			return nil, err
		}
	}

	clusters := make([][]*location.Location, constraints.NumClusters)
	for i, loc := range locations {
		clusters[labels[i]] = append(clusters[labels[i]], loc)
	}

	return clusters, nil
}

// fit runs nInit seeded Lloyd's restarts and keeps the labeling with the
// lowest inertia.
func (k *ConstrainedKMeans) fit(
	ctx context.Context,
	dl deadline,
	points [][2]float64,
	numClusters int,
) ([][2]float64, []int, error) {
	rng := rand.New(rand.NewSource(k.seed))

	bestInertia := math.Inf(1)
	var bestCentroids [][2]float64
	var bestLabels []int

	for run := 0; run < k.nInit; run++ {
		centroids, labels, inertia, err := k.lloyd(ctx, dl, points, numClusters, rng)
		if err != nil {
			return nil, nil, err
		}
		if inertia < bestInertia {
			bestInertia = inertia
			bestCentroids = centroids
			bestLabels = labels
		}
	}

	return bestCentroids, bestLabels, nil
}

// lloyd is one k-means run: seed centroids from distinct points, then
// alternate assignment and mean updates until labels stop moving.
func (k *ConstrainedKMeans) lloyd(
	ctx context.Context,
	dl deadline,
	points [][2]float64,
	numClusters int,
	rng *rand.Rand,
) ([][2]float64, []int, float64, error) {
	centroids := make([][2]float64, numClusters)
	for i, idx := range rng.Perm(len(points))[:numClusters] {
		centroids[i] = points[idx]
	}

	labels := make([]int, len(points))
	for iter := 0; iter < k.maxIter; iter++ {
		changed := false
		for i, p := range points {
			if err := dl.check(ctx); err != nil {
				return nil, nil, 0, err
			}

			best := nearestCentroid(p, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		// recompute means; an emptied cluster keeps its centroid
		sums := make([][2]float64, numClusters)
		counts := make([]int, numClusters)
		for i, p := range points {
			sums[labels[i]][0] += p[0]
			sums[labels[i]][1] += p[1]
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] > 0 {
				centroids[c] = [2]float64{sums[c][0] / float64(counts[c]), sums[c][1] / float64(counts[c])}
			}
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += distanceSquared(p, centroids[labels[i]])
	}

	return centroids, labels, inertia, nil
}

// assignWithConstraints redistributes points under the active cap.
// Candidates are processed closest-first; a point whose preferred cluster
// is full spills to the next-nearest cluster with room, and a point with
// nowhere to go makes the whole run infeasible.
func (k *ConstrainedKMeans) assignWithConstraints(
	ctx context.Context,
	dl deadline,
	locations []*location.Location,
	points [][2]float64,
	centroids [][2]float64,
	constraints Constraints,
) ([]int, error) {
	type candidate struct {
		index        int
		preferred    int
		bestDistance float64
		distances    []float64
	}

	candidates := make([]candidate, len(points))
	for i, p := range points {
		if err := dl.check(ctx); err != nil {
			return nil, err
		}

		distances := make([]float64, len(centroids))
		for c, centroid := range centroids {
			distances[c] = distanceSquared(p, centroid)
		}
		preferred := nearestCentroid(p, centroids)
		candidates[i] = candidate{
			index:        i,
			preferred:    preferred,
			bestDistance: distances[preferred],
			distances:    distances,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].bestDistance < candidates[j].bestDistance
	})

	// load is either a location count or a box count depending on the
	// active cap
	limit := 0
	paramName := ""
	if constraints.MaxLocationsPerCluster != nil {
		limit = *constraints.MaxLocationsPerCluster
		paramName = "maxLocationsPerCluster"
	} else {
		limit = *constraints.MaxBoxesPerCluster
		paramName = "maxBoxesPerCluster"
	}

	need := func(index int) int {
		if constraints.MaxLocationsPerCluster != nil {
			return 1
		}
		return locations[index].NumBoxes()
	}

	loads := make([]int, len(centroids))
	labels := make([]int, len(points))

	for _, cand := range candidates {
		if err := dl.check(ctx); err != nil {
			return nil, err
		}

		n := need(cand.index)
		if loads[cand.preferred]+n <= limit {
			labels[cand.index] = cand.preferred
			loads[cand.preferred] += n
			continue
		}

		order := argsort(cand.distances)
		placed := false
		for _, c := range order {
			if loads[c]+n <= limit {
				labels[cand.index] = c
				loads[c] += n
				placed = true
				break
			}
		}

		if !placed {
			lightest := loads[order[0]]
			for _, c := range order {
				if loads[c] < lightest {
					lightest = loads[c]
				}
			}
			return nil, errs.NewInfeasibleConstraintError(paramName, lightest+n, limit)
		}
	}

	return labels, nil
}

func nearestCentroid(p [2]float64, centroids [][2]float64) int {
	best := 0
	bestDistance := distanceSquared(p, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := distanceSquared(p, centroids[c]); d < bestDistance {
			best = c
			bestDistance = d
		}
	}
	return best
}

func distanceSquared(a, b [2]float64) float64 {
	dlat := a[0] - b[0]
	dlon := a[1] - b[1]
	return dlat*dlat + dlon*dlon
}

// argsort returns cluster indices ordered by ascending distance, ties
// broken by index for determinism.
func argsort(distances []float64) []int {
	order := make([]int, len(distances))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return distances[order[i]] < distances[order[j]]
	})
	return order
}
