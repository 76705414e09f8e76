package service

import (
	"context"
	"testing"
	"time"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
	"github.com/lintang-b-s/roadsim/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadsim/pkg/engine/traffic"
	"github.com/lintang-b-s/roadsim/pkg/guidance"
	"github.com/lintang-b-s/roadsim/pkg/kv"
	"github.com/lintang-b-s/roadsim/pkg/server"
	"github.com/lintang-b-s/roadsim/pkg/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 0 (0,0) - 1 (3,0) - 2 (3,4) - 3 (0,5) - 0, vertex 4 is isolated.
func newTestService(t *testing.T) (*RoadNetworkService, *datastructure.Graph) {
	t.Helper()
	g := datastructure.NewGraph(datastructure.WithSeed(1))
	for _, p := range [][2]float64{{0, 0}, {3, 0}, {3, 4}, {0, 5}, {100, 100}} {
		g.CreateVertex(p[0], p[1])
	}
	for _, pair := range [][2]int32{{0, 1}, {1, 2}, {2, 3}, {3, 0}} {
		_, err := g.CreateEdge(pair[0], pair[1])
		require.NoError(t, err)
	}
	g.BuildSpatialIndex()

	model := traffic.NewTrafficModel(traffic.WithSeed(1))
	sim := traffic.NewSimulator(g, model, traffic.WithInterval(5*time.Millisecond))
	t.Cleanup(func() { sim.Stop() })

	db, err := kv.OpenInMemory()
	require.NoError(t, err)
	kvDB := kv.NewKVDB(db)
	t.Cleanup(func() { kvDB.Close() })

	snapper := snap.NewRoadSnapper()
	require.NoError(t, snapper.BuildRoadSnapper(g))

	svc := NewRoadNetworkService(g, routingalgorithm.NewRouteAlgorithm(g, model), kvDB, snapper, sim)
	return svc, g
}

func TestPaths(t *testing.T) {
	svc, _ := newTestService(t)

	paths, err := svc.Paths(context.Background(), 0, 2, []string{PathTypeShortestByLength, PathTypeFastest})
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, PathTypeShortestByLength, paths[0].Type)
	assert.True(t, paths[0].Found)
	assert.Equal(t, []int32{0, 1, 2}, paths[0].VertexIDs)
	assert.InDelta(t, 7.0, paths[0].Cost, 1e-9)
	assert.NotEmpty(t, paths[0].Polyline)
	require.Len(t, paths[0].Instructions, 2)
	assert.Equal(t, guidance.START, paths[0].Instructions[0].Sign)
	assert.Equal(t, guidance.FINISH, paths[0].Instructions[1].Sign)
	assert.InDelta(t, 7.0, paths[0].Instructions[1].Distance, 1e-9)

	assert.Equal(t, PathTypeFastest, paths[1].Type)
	assert.True(t, paths[1].Found)
}

func TestPathsUnreachable(t *testing.T) {
	svc, _ := newTestService(t)

	paths, err := svc.Paths(context.Background(), 0, 4, []string{PathTypeShortestByLength})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.False(t, paths[0].Found)
	assert.Empty(t, paths[0].VertexIDs)
}

func TestPathsErrors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Paths(context.Background(), 0, 99, []string{PathTypeShortestByLength})
	assert.ErrorIs(t, err, server.ErrNotFound)

	_, err = svc.Paths(context.Background(), 0, 2, []string{"scenic"})
	assert.ErrorIs(t, err, server.ErrBadParamInput)
}

func TestNearbyAndRadius(t *testing.T) {
	svc, _ := newTestService(t)

	nearby, edges, err := svc.NearbyVertices(context.Background(), 0, 0, 2)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, int32(0), nearby[0].ID)
	assert.Equal(t, int32(1), nearby[1].ID)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Connects(0, 1))

	// 2 and 3 are both 5 away, the tie goes to the lower id so edge 3-0 is left out.
	_, edges, err = svc.NearbyVertices(context.Background(), 0, 0, 3)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, int32(0), edges[0].ID)
	assert.Equal(t, int32(1), edges[1].ID)

	_, _, err = svc.NearbyVertices(context.Background(), 0, 0, 0)
	assert.ErrorIs(t, err, server.ErrBadParamInput)

	inRadius, edges, err := svc.VerticesInRadius(context.Background(), 0, 0, 4)
	require.NoError(t, err)
	assert.Len(t, inRadius, 2)
	assert.Len(t, edges, 1)

	inRadius, edges, err = svc.VerticesInRadius(context.Background(), 100, 100, 1)
	require.NoError(t, err)
	assert.Len(t, inRadius, 1)
	assert.Empty(t, edges)

	_, _, err = svc.VerticesInRadius(context.Background(), 0, 0, -1)
	assert.ErrorIs(t, err, server.ErrBadParamInput)
}

func TestZoomClusters(t *testing.T) {
	svc, g := newTestService(t)
	ctx := context.Background()

	_, err := svc.ZoomClusters(ctx, 0.5)
	assert.ErrorIs(t, err, server.ErrNotFound)

	require.NoError(t, svc.PrecomputeZoomLevels(ctx, clustering.DefaultZoomLevels))

	original, err := svc.ZoomClusters(ctx, clustering.OriginalZoomLevel)
	require.NoError(t, err)
	assert.True(t, original.Params.IsOriginal)
	assert.Len(t, original.Nodes, g.NumVertices())

	view, err := svc.ZoomClusters(ctx, 0.15)
	require.NoError(t, err)
	assert.Equal(t, 0.3, view.Params.ZoomLevel)

	view, err = svc.ZoomClusters(ctx, 0.9)
	require.NoError(t, err)
	assert.Equal(t, 1.0, view.Params.ZoomLevel)

	_, err = svc.ZoomClusters(ctx, -1)
	assert.ErrorIs(t, err, server.ErrBadParamInput)
}

func TestNearestRoads(t *testing.T) {
	svc, _ := newTestService(t)

	roads, err := svc.NearestRoads(context.Background(), 1.5, -1, 1)
	require.NoError(t, err)
	require.Len(t, roads, 1)
	assert.Equal(t, int32(0), roads[0].EdgeID)
	assert.InDelta(t, 1.0, roads[0].Distance, 1e-9)

	_, err = svc.NearestRoads(context.Background(), 0, 0, 0)
	assert.ErrorIs(t, err, server.ErrBadParamInput)
}

func TestSimulationControl(t *testing.T) {
	svc, g := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	status, err := svc.StartSimulation(ctx)
	require.NoError(t, err)
	assert.Equal(t, SimulationRunning, status.Status)

	status, err = svc.StartSimulation(context.Background())
	assert.ErrorIs(t, err, server.ErrConflict)
	assert.True(t, status.Running)

	// the loop keeps running after the request context ends.
	cancel()
	updates, unsubscribe := svc.SubscribeTraffic(context.Background(), 1)
	defer unsubscribe()
	select {
	case states := <-updates:
		assert.Len(t, states, g.NumEdges())
	case <-time.After(2 * time.Second):
		t.Fatal("no traffic update received")
	}
	assert.True(t, svc.SimulationStatus(context.Background()).Running)

	status = svc.StopSimulation(context.Background())
	assert.Equal(t, SimulationStopped, status.Status)
	assert.Len(t, svc.TrafficSnapshot(context.Background()), g.NumEdges())
}
