package clustering_test

import (
	"context"
	"testing"
	"time"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/domain/model/location"
	"fooddrop/internal/core/domain/services/clustering"
	"fooddrop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warehouse(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(43.4643, -80.5204)
	require.NoError(t, err)
	return p
}

func makeLocation(t *testing.T, lat, lon float64, numBoxes int) *location.Location {
	t.Helper()
	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	loc, err := location.NewLocation(kernel.NewUUID(), nil, "", point, numBoxes, nil)
	require.NoError(t, err)
	return loc
}

// ringLocations places n locations evenly on a circle around the
// warehouse, one box each.
func ringLocations(t *testing.T, n int) []*location.Location {
	t.Helper()
	locations := make([]*location.Location, 0, n)
	for i := 0; i < n; i++ {
		lat := 43.4643 + 0.01*float64(i%7-3)
		lon := -80.5204 + 0.01*float64((i*3)%11-5)
		locations = append(locations, makeLocation(t, lat, lon, 1))
	}
	return locations
}

// assertPartition checks that clusters contain every input exactly once.
func assertPartition(t *testing.T, input []*location.Location, clusters [][]*location.Location) {
	t.Helper()

	seen := make(map[string]int)
	total := 0
	for _, cluster := range clusters {
		for _, loc := range cluster {
			seen[loc.ID().String()]++
			total++
		}
	}

	assert.Equal(t, len(input), total)
	for _, loc := range input {
		assert.Equal(t, 1, seen[loc.ID().String()], "location %s should appear exactly once", loc.ID())
	}
}

func algorithms(t *testing.T) map[string]clustering.Algorithm {
	t.Helper()

	sweep, err := clustering.NewAngularSweep(warehouse(t))
	require.NoError(t, err)

	return map[string]clustering.Algorithm{
		"angular sweep":       sweep,
		"constrained k-means": clustering.NewConstrainedKMeans(),
		"greedy partition":    clustering.NewGreedyPartition(),
	}
}

func TestAlgorithms_SharedContract(t *testing.T) {
	for name, algo := range algorithms(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("partition completeness", func(t *testing.T) {
				input := ringLocations(t, 12)

				clusters, err := algo.Cluster(context.Background(), input, clustering.Constraints{NumClusters: 3})

				require.NoError(t, err)
				assertPartition(t, input, clusters)
			})

			t.Run("location cap respected", func(t *testing.T) {
				input := ringLocations(t, 12)
				maxLocations := 4

				clusters, err := algo.Cluster(context.Background(), input, clustering.Constraints{
					NumClusters:            3,
					MaxLocationsPerCluster: &maxLocations,
				})

				require.NoError(t, err)
				assertPartition(t, input, clusters)
				for _, cluster := range clusters {
					assert.LessOrEqual(t, len(cluster), maxLocations)
				}
			})

			t.Run("empty locations rejected", func(t *testing.T) {
				_, err := algo.Cluster(context.Background(), nil, clustering.Constraints{NumClusters: 2})

				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsRequired)
			})

			t.Run("zero clusters rejected", func(t *testing.T) {
				_, err := algo.Cluster(context.Background(), ringLocations(t, 4), clustering.Constraints{NumClusters: 0})

				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			})

			t.Run("both caps rejected", func(t *testing.T) {
				maxLocations, maxBoxes := 5, 10

				_, err := algo.Cluster(context.Background(), ringLocations(t, 4), clustering.Constraints{
					NumClusters:            2,
					MaxLocationsPerCluster: &maxLocations,
					MaxBoxesPerCluster:     &maxBoxes,
				})

				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
			})

			t.Run("infeasible location cap fails fast", func(t *testing.T) {
				// ten locations into two clusters needs a cluster of five
				input := ringLocations(t, 10)
				maxLocations := 3

				_, err := algo.Cluster(context.Background(), input, clustering.Constraints{
					NumClusters:            2,
					MaxLocationsPerCluster: &maxLocations,
				})

				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrConstraintIsInfeasible)

				var infeasible *errs.InfeasibleConstraintError
				require.ErrorAs(t, err, &infeasible)
				assert.Equal(t, 5, infeasible.Required)
				assert.Equal(t, 3, infeasible.Limit)
			})

			t.Run("exceeded timeout fails", func(t *testing.T) {
				_, err := algo.Cluster(context.Background(), ringLocations(t, 20), clustering.Constraints{
					NumClusters: 2,
					Timeout:     time.Nanosecond,
				})

				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrTimeoutExceeded)
			})
		})
	}
}

func TestAngularSweep_Slice(t *testing.T) {
	sweep, err := clustering.NewAngularSweep(warehouse(t))
	require.NoError(t, err)

	t.Run("deterministic across runs", func(t *testing.T) {
		input := ringLocations(t, 15)
		constraints := clustering.Constraints{NumClusters: 4}

		first, err := sweep.Cluster(context.Background(), input, constraints)
		require.NoError(t, err)

		for run := 0; run < 5; run++ {
			again, err := sweep.Cluster(context.Background(), input, constraints)
			require.NoError(t, err)

			require.Len(t, again, len(first))
			for c := range first {
				require.Len(t, again[c], len(first[c]))
				for i := range first[c] {
					assert.True(t, first[c][i].IsEqual(again[c][i]))
				}
			}
		}
	})

	t.Run("contiguous wedges stay together", func(t *testing.T) {
		// four locations due east, north, west, south of the warehouse:
		// sweep order is exactly that, so two clusters split east+north
		// from west+south
		east := makeLocation(t, 43.4643, -80.5104, 1)
		north := makeLocation(t, 43.4743, -80.5204, 1)
		west := makeLocation(t, 43.4643, -80.5304, 1)
		south := makeLocation(t, 43.4543, -80.5204, 1)
		input := []*location.Location{south, west, north, east}

		clusters, err := sweep.Cluster(context.Background(), input, clustering.Constraints{NumClusters: 2})

		require.NoError(t, err)
		require.Len(t, clusters, 2)
		require.Len(t, clusters[0], 2)
		assert.True(t, clusters[0][0].IsEqual(east))
		assert.True(t, clusters[0][1].IsEqual(north))
		require.Len(t, clusters[1], 2)
		assert.True(t, clusters[1][0].IsEqual(west))
		assert.True(t, clusters[1][1].IsEqual(south))
	})

	t.Run("ties broken by distance", func(t *testing.T) {
		near := makeLocation(t, 43.4643, -80.5104, 1)
		far := makeLocation(t, 43.4643, -80.4904, 1)
		input := []*location.Location{far, near}

		clusters, err := sweep.Cluster(context.Background(), input, clustering.Constraints{NumClusters: 2})

		require.NoError(t, err)
		assert.True(t, clusters[0][0].IsEqual(near))
		assert.True(t, clusters[1][0].IsEqual(far))
	})

	t.Run("first clusters take the remainder", func(t *testing.T) {
		clusters, err := sweep.Cluster(context.Background(), ringLocations(t, 11), clustering.Constraints{NumClusters: 3})

		require.NoError(t, err)
		require.Len(t, clusters, 3)
		assert.Len(t, clusters[0], 4)
		assert.Len(t, clusters[1], 4)
		assert.Len(t, clusters[2], 3)
	})

	t.Run("more clusters than locations rejected", func(t *testing.T) {
		_, err := sweep.Cluster(context.Background(), ringLocations(t, 2), clustering.Constraints{NumClusters: 3})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects unconstructed warehouse", func(t *testing.T) {
		var w kernel.GeoPoint

		_, err := clustering.NewAngularSweep(w)

		require.Error(t, err)
	})
}

func TestAngularSweepPacker(t *testing.T) {
	packer, err := clustering.NewAngularSweepPacker(warehouse(t))
	require.NoError(t, err)

	t.Run("opens clusters as box cap fills", func(t *testing.T) {
		input := []*location.Location{
			makeLocation(t, 43.4643, -80.5104, 4),
			makeLocation(t, 43.4743, -80.5204, 4),
			makeLocation(t, 43.4643, -80.5304, 4),
			makeLocation(t, 43.4543, -80.5204, 4),
		}
		maxBoxes := 8

		clusters, err := packer.Cluster(context.Background(), input, clustering.Constraints{
			NumClusters:        1, // ignored by the packer
			MaxBoxesPerCluster: &maxBoxes,
		})

		require.NoError(t, err)
		assertPartition(t, input, clusters)
		require.Len(t, clusters, 2)
		for _, cluster := range clusters {
			boxes := 0
			for _, loc := range cluster {
				boxes += loc.NumBoxes()
			}
			assert.LessOrEqual(t, boxes, maxBoxes)
		}
	})

	t.Run("oversized single location gets its own cluster", func(t *testing.T) {
		input := []*location.Location{
			makeLocation(t, 43.4643, -80.5104, 12),
			makeLocation(t, 43.4743, -80.5204, 2),
		}
		maxBoxes := 8

		clusters, err := packer.Cluster(context.Background(), input, clustering.Constraints{
			NumClusters:        1,
			MaxBoxesPerCluster: &maxBoxes,
		})

		require.NoError(t, err)
		assertPartition(t, input, clusters)
		require.Len(t, clusters, 2)
		assert.Len(t, clusters[0], 1)
	})

	t.Run("no cap packs everything together", func(t *testing.T) {
		input := ringLocations(t, 6)

		clusters, err := packer.Cluster(context.Background(), input, clustering.Constraints{NumClusters: 1})

		require.NoError(t, err)
		require.Len(t, clusters, 1)
		assert.Len(t, clusters[0], 6)
	})
}

func TestConstrainedKMeans(t *testing.T) {
	kmeans := clustering.NewConstrainedKMeans()

	t.Run("deterministic across runs", func(t *testing.T) {
		input := ringLocations(t, 20)
		constraints := clustering.Constraints{NumClusters: 4}

		first, err := kmeans.Cluster(context.Background(), input, constraints)
		require.NoError(t, err)

		for run := 0; run < 3; run++ {
			again, err := kmeans.Cluster(context.Background(), input, constraints)
			require.NoError(t, err)

			require.Len(t, again, len(first))
			for c := range first {
				require.Len(t, again[c], len(first[c]))
				for i := range first[c] {
					assert.True(t, first[c][i].IsEqual(again[c][i]))
				}
			}
		}
	})

	t.Run("box cap respected with spill", func(t *testing.T) {
		input := []*location.Location{
			makeLocation(t, 43.47, -80.52, 3),
			makeLocation(t, 43.471, -80.521, 3),
			makeLocation(t, 43.472, -80.522, 3),
			makeLocation(t, 43.40, -80.58, 3),
			makeLocation(t, 43.401, -80.581, 3),
			makeLocation(t, 43.402, -80.582, 3),
		}
		maxBoxes := 9

		clusters, err := kmeans.Cluster(context.Background(), input, clustering.Constraints{
			NumClusters:        2,
			MaxBoxesPerCluster: &maxBoxes,
		})

		require.NoError(t, err)
		assertPartition(t, input, clusters)
		for _, cluster := range clusters {
			boxes := 0
			for _, loc := range cluster {
				boxes += loc.NumBoxes()
			}
			assert.LessOrEqual(t, boxes, maxBoxes)
		}
	})

	t.Run("infeasible box cap fails", func(t *testing.T) {
		input := []*location.Location{
			makeLocation(t, 43.47, -80.52, 5),
			makeLocation(t, 43.48, -80.53, 5),
			makeLocation(t, 43.49, -80.54, 5),
		}
		maxBoxes := 6

		_, err := kmeans.Cluster(context.Background(), input, clustering.Constraints{
			NumClusters:        2,
			MaxBoxesPerCluster: &maxBoxes,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConstraintIsInfeasible)
	})

	t.Run("more clusters than locations rejected", func(t *testing.T) {
		_, err := kmeans.Cluster(context.Background(), ringLocations(t, 2), clustering.Constraints{NumClusters: 5})

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestGreedyPartition(t *testing.T) {
	greedy := clustering.NewGreedyPartition()

	t.Run("deals round-robin in input order", func(t *testing.T) {
		input := ringLocations(t, 6)

		clusters, err := greedy.Cluster(context.Background(), input, clustering.Constraints{NumClusters: 2})

		require.NoError(t, err)
		require.Len(t, clusters, 2)
		require.Len(t, clusters[0], 3)
		assert.True(t, clusters[0][0].IsEqual(input[0]))
		assert.True(t, clusters[1][0].IsEqual(input[1]))
		assert.True(t, clusters[0][1].IsEqual(input[2]))
	})

	t.Run("skips full clusters under box cap", func(t *testing.T) {
		input := []*location.Location{
			makeLocation(t, 43.47, -80.52, 8),
			makeLocation(t, 43.48, -80.53, 2),
			makeLocation(t, 43.49, -80.54, 2),
		}
		maxBoxes := 10

		clusters, err := greedy.Cluster(context.Background(), input, clustering.Constraints{
			NumClusters:        2,
			MaxBoxesPerCluster: &maxBoxes,
		})

		require.NoError(t, err)
		assertPartition(t, input, clusters)
		for _, cluster := range clusters {
			boxes := 0
			for _, loc := range cluster {
				boxes += loc.NumBoxes()
			}
			assert.LessOrEqual(t, boxes, maxBoxes)
		}
	})
}
