package clustering

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/geo"
	"github.com/lintang-b-s/roadsim/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraph(t *testing.T, points [][2]float64) *datastructure.Graph {
	t.Helper()
	g := datastructure.NewGraph(datastructure.WithSeed(1))
	for _, p := range points {
		g.CreateVertex(p[0], p[1])
	}
	g.BuildSpatialIndex()
	return g
}

// two unit squares far apart plus one isolated vertex (id 8).
func twoGroups(t *testing.T) *datastructure.Graph {
	return newGraph(t, [][2]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
		{100, 100}, {101, 100}, {100, 101}, {101, 101},
		{50, 50},
	})
}

func TestDBSCANTwoGroups(t *testing.T) {
	g := twoGroups(t)

	res, err := DBSCAN(context.Background(), g, Params{Eps: 1.5, MinSamples: 3})
	require.NoError(t, err)

	require.Len(t, res.Clusters, 2)
	assert.Equal(t, int32(0), res.Clusters[0].Representative)
	assert.Equal(t, int32(4), res.Clusters[1].Representative)
	assert.ElementsMatch(t, []int32{0, 1, 2, 3}, res.Clusters[0].Members)
	assert.ElementsMatch(t, []int32{4, 5, 6, 7}, res.Clusters[1].Members)
	assert.Equal(t, []int32{8}, res.Noise())
}

func TestDBSCANBorderPoint(t *testing.T) {
	g := newGraph(t, [][2]float64{{0, 0}, {1, 0}, {2, 0}})

	res, err := DBSCAN(context.Background(), g, Params{Eps: 1, MinSamples: 3})
	require.NoError(t, err)

	// only the middle vertex is core, both ends join its cluster as border points.
	require.Len(t, res.Clusters, 1)
	assert.Equal(t, int32(1), res.Clusters[0].Representative)
	assert.ElementsMatch(t, []int32{0, 1, 2}, res.Clusters[0].Members)
	assert.Empty(t, res.Noise())
}

func TestDBSCANCircleNotBox(t *testing.T) {
	// (0.9, 0.9) is inside the eps box around the origin but outside the eps circle.
	g := newGraph(t, [][2]float64{{0, 0}, {0.9, 0.9}})

	res, err := DBSCAN(context.Background(), g, Params{Eps: 1, MinSamples: 2})
	require.NoError(t, err)

	assert.Empty(t, res.Clusters)
	assert.Equal(t, []int32{0, 1}, res.Noise())
}

func TestDBSCANMaxClusterSize(t *testing.T) {
	g := newGraph(t, [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}})

	res, err := DBSCAN(context.Background(), g, Params{Eps: 1.5, MinSamples: 2, MaxClusterSize: 2})
	require.NoError(t, err)

	require.NotEmpty(t, res.Clusters)
	for _, c := range res.Clusters {
		assert.LessOrEqual(t, len(c.Members), 2)
	}
}

func TestDBSCANEmptyGraph(t *testing.T) {
	g := datastructure.NewGraph()

	res, err := DBSCAN(context.Background(), g, Params{Eps: 1, MinSamples: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Clusters)
	assert.Empty(t, res.Labels)
}

func TestDBSCANInvalidParams(t *testing.T) {
	g := twoGroups(t)

	tests := []struct {
		name   string
		params Params
	}{
		{name: "negative eps", params: Params{Eps: -1, MinSamples: 2}},
		{name: "zero min samples", params: Params{Eps: 1, MinSamples: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DBSCAN(context.Background(), g, tt.params)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestDBSCANCancelled(t *testing.T) {
	g := twoGroups(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DBSCAN(ctx, g, Params{Eps: 1.5, MinSamples: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func randomPoints(seed uint64, n int) [][2]float64 {
	rng := util.NewRand(seed)
	points := make([][2]float64, n)
	for i := range points {
		points[i] = [2]float64{rng.Float64() * 500, rng.Float64() * 500}
	}
	return points
}

func TestDBSCANDeterministic(t *testing.T) {
	g := newGraph(t, randomPoints(7, 400))
	params := Params{Eps: 30, MinSamples: 4}

	first, err := DBSCAN(context.Background(), g, params)
	require.NoError(t, err)
	second, err := DBSCAN(context.Background(), g, params)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("DBSCAN not deterministic (-first +second):\n%s", diff)
	}
}

func TestDBSCANLabelPartition(t *testing.T) {
	g := newGraph(t, randomPoints(11, 300))
	params := Params{Eps: 35, MinSamples: 4}

	res, err := DBSCAN(context.Background(), g, params)
	require.NoError(t, err)
	require.Len(t, res.Labels, g.NumVertices())

	seen := make(map[int32]int)
	for _, c := range res.Clusters {
		for _, m := range c.Members {
			_, dup := seen[m]
			require.False(t, dup, "vertex %d in two clusters", m)
			seen[m] = c.ID
			assert.Equal(t, c.ID, res.Labels[m])
		}
	}
	for id, label := range res.Labels {
		if label == Noise {
			_, inCluster := seen[id]
			assert.False(t, inCluster)
		}
	}

	// every representative is a core point.
	vertices := g.Vertices()
	for _, c := range res.Clusters {
		rep := vertices[c.Representative]
		count := 0
		for _, v := range vertices {
			if geo.EuclideanDistance(rep.X, rep.Y, v.X, v.Y) <= params.Eps {
				count++
			}
		}
		assert.GreaterOrEqual(t, count, params.MinSamples)
	}
}

func TestDBSCANWithoutSpatialIndex(t *testing.T) {
	points := randomPoints(5, 200)
	indexed := newGraph(t, points)

	linear := datastructure.NewGraph(datastructure.WithSpatialIndex(false))
	for _, p := range points {
		linear.CreateVertex(p[0], p[1])
	}

	params := Params{Eps: 40, MinSamples: 3}
	want, err := DBSCAN(context.Background(), indexed, params)
	require.NoError(t, err)
	got, err := DBSCAN(context.Background(), linear, params)
	require.NoError(t, err)

	assert.Equal(t, want.Labels, got.Labels)
}
