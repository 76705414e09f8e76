package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/golang/geo/r2"
	"github.com/lintang-b-s/roadsim/pkg/concurrent"
	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
	"github.com/lintang-b-s/roadsim/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadsim/pkg/engine/traffic"
	"github.com/lintang-b-s/roadsim/pkg/guidance"
	"github.com/lintang-b-s/roadsim/pkg/kv"
	"github.com/lintang-b-s/roadsim/pkg/server"
	"github.com/lintang-b-s/roadsim/pkg/snap"
)

const (
	PathTypeShortestByLength = "shortest_by_length"
	PathTypeFastest          = "fastest"
)

const (
	SimulationRunning = "running"
	SimulationStopped = "stopped"
)

type RoadNetworkService struct {
	graph     RoadGraph
	routing   RoutingAlgorithm
	kv        KVDB
	snapper   RoadSnapper
	simulator TrafficSimulator
}

func NewRoadNetworkService(graph RoadGraph, routing RoutingAlgorithm, kvDB KVDB, snapper RoadSnapper,
	simulator TrafficSimulator) *RoadNetworkService {
	return &RoadNetworkService{
		graph:     graph,
		routing:   routing,
		kv:        kvDB,
		snapper:   snapper,
		simulator: simulator,
	}
}

// Map every vertex and edge, unclustered.
func (rs *RoadNetworkService) Map(ctx context.Context) clustering.ClusterView {
	return clustering.OriginalView(rs.graph.Vertices(), rs.graph.Edges())
}

// NearbyVertices returns the n vertices nearest to (x, y) and the edges running between them.
func (rs *RoadNetworkService) NearbyVertices(ctx context.Context, x, y float64, n int) ([]datastructure.Vertex,
	[]datastructure.Edge, error) {
	if n <= 0 {
		return nil, nil, server.NewErrorf(server.ErrBadParamInput, "n must be positive")
	}
	nodes := rs.graph.GetNearbyVertices(x, y, n)
	edges, err := rs.edgesBetween(nodes)
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

func (rs *RoadNetworkService) VerticesInRadius(ctx context.Context, x, y, r float64) ([]datastructure.Vertex,
	[]datastructure.Edge, error) {
	if r < 0 || math.IsNaN(r) {
		return nil, nil, server.NewErrorf(server.ErrBadParamInput, "radius must not be negative")
	}
	nodes := rs.graph.GetVerticesInRadius(x, y, r)
	edges, err := rs.edgesBetween(nodes)
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

// edgesBetween edges whose source and target are both in nodes.
func (rs *RoadNetworkService) edgesBetween(nodes []datastructure.Vertex) ([]datastructure.Edge, error) {
	ids := make([]int32, len(nodes))
	for i, v := range nodes {
		ids[i] = v.ID
	}
	edgeIDs := rs.graph.Subgraph(ids)
	edges := make([]datastructure.Edge, 0, len(edgeIDs))
	for _, id := range edgeIDs {
		e, err := rs.graph.GetEdge(id)
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "edge %d of subgraph", id)
		}
		edges = append(edges, e)
	}
	return edges, nil
}

func (rs *RoadNetworkService) QuadTree(ctx context.Context) []datastructure.QuadTreeBoundary {
	return rs.graph.QuadTreeBoundaries()
}

// ZoomClusters returns the precomputed view closest to zoom. zoom 0.1 is the original map.
func (rs *RoadNetworkService) ZoomClusters(ctx context.Context, zoom float64) (clustering.ClusterView, error) {
	if zoom <= 0 || math.IsNaN(zoom) {
		return clustering.ClusterView{}, server.NewErrorf(server.ErrBadParamInput, "zoom level must be positive")
	}

	levels, err := rs.kv.ZoomLevels()
	if err != nil {
		return clustering.ClusterView{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	level, original, ok := clustering.ResolveZoomLevel(zoom, levels)
	if !ok {
		return clustering.ClusterView{}, server.NewErrorf(server.ErrNotFound, "zoom levels have not been computed yet")
	}
	if original {
		return rs.Map(ctx), nil
	}

	view, err := rs.kv.GetClusterView(level)
	if errors.Is(err, kv.ErrClusterViewNotFound) {
		return clustering.ClusterView{}, server.WrapErrorf(err, server.ErrNotFound, "no clusters for zoom level %v", level)
	}
	if err != nil {
		return clustering.ClusterView{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return view, nil
}

// PrecomputeZoomLevels clusters the graph once per level on a worker pool and stores every view.
func (rs *RoadNetworkService) PrecomputeZoomLevels(ctx context.Context, levels []float64) error {
	start := time.Now()
	slog.Info("precomputing zoom levels", "levels", levels)

	vertices := rs.graph.Vertices()
	edges := rs.graph.Edges()

	workers := concurrent.NewWorkerPool[concurrent.ZoomLevelJob, concurrent.ZoomLevelResult](
		min(runtime.NumCPU(), len(levels)), len(levels))
	for _, zoom := range levels {
		workers.AddJob(concurrent.NewZoomLevelJob(zoom, clustering.ParamsForZoom(zoom, len(vertices))))
	}
	workers.Close()
	workers.Start(func(job concurrent.ZoomLevelJob) concurrent.ZoomLevelResult {
		res, err := clustering.DBSCAN(ctx, rs.graph, job.Params)
		if err != nil {
			return concurrent.ZoomLevelResult{ZoomLevel: job.ZoomLevel, Err: err}
		}
		return concurrent.ZoomLevelResult{
			ZoomLevel: job.ZoomLevel,
			View:      clustering.BuildClusterView(vertices, edges, res, job.ZoomLevel, job.Params),
		}
	})
	workers.Wait()

	views := make(map[float64]clustering.ClusterView, len(levels))
	var errs []error
	for res := range workers.CollectResults() {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("zoom %v: %w", res.ZoomLevel, res.Err))
			continue
		}
		views[res.ZoomLevel] = res.View
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if err := rs.kv.SaveClusterViews(ctx, views); err != nil {
		return err
	}
	slog.Info("zoom levels ready", "levels", len(views), "duration", time.Since(start))
	return nil
}

type PathResult struct {
	Type      string
	VertexIDs []int32
	EdgeIDs   []int32
	Cost      float64
	Found     bool
	Polyline  string

	Instructions []guidance.DrivingInstruction
}

// edgeTravelTimes travel time of every edge taken from one traffic snapshot.
type edgeTravelTimes map[int32]float64

func newEdgeTravelTimes(states []traffic.EdgeState) edgeTravelTimes {
	times := make(edgeTravelTimes, len(states))
	for _, st := range states {
		times[st.ID] = st.TravelTime
	}
	return times
}

func (t edgeTravelTimes) TravelTime(e datastructure.Edge) float64 {
	return t[e.ID]
}

// Paths runs one search per requested type between two vertices. an unreachable destination is a result with
// Found false, not an error.
func (rs *RoadNetworkService) Paths(ctx context.Context, from, to int32, pathTypes []string) ([]PathResult, error) {
	for _, id := range []int32{from, to} {
		if _, err := rs.graph.GetVertex(id); err != nil {
			return nil, server.WrapErrorf(err, server.ErrNotFound, "vertex %d is not on the map", id)
		}
	}

	var times edgeTravelTimes
	results := make([]PathResult, 0, len(pathTypes))
	for _, pathType := range pathTypes {
		var (
			p   routingalgorithm.Path
			err error
		)
		switch pathType {
		case PathTypeShortestByLength:
			p, err = rs.routing.ShortestPath(ctx, from, to)
		case PathTypeFastest:
			p, err = rs.routing.FastestPath(ctx, from, to, true)
		default:
			return nil, server.NewErrorf(server.ErrBadParamInput, "unknown path type %q", pathType)
		}
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}

		points := make([]r2.Point, len(p.Vertices))
		for i, v := range p.Vertices {
			points[i] = v.Point()
		}
		result := PathResult{
			Type:      pathType,
			VertexIDs: p.VertexIDs(),
			EdgeIDs:   p.EdgeIDs(),
			Cost:      p.Cost,
			Found:     p.Found(),
			Polyline:  datastructure.CreatePolyline(points),
		}
		if len(p.Edges) > 0 {
			if times == nil {
				times = newEdgeTravelTimes(rs.simulator.Snapshot())
			}
			result.Instructions, err = guidance.NewInstructionsFromPath(times).GetDrivingInstructions(p.Vertices, p.Edges)
			if err != nil {
				return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (rs *RoadNetworkService) NearestRoads(ctx context.Context, x, y float64, k int) ([]snap.SnappedRoad, error) {
	if k <= 0 {
		return nil, server.NewErrorf(server.ErrBadParamInput, "k must be positive")
	}
	return rs.snapper.SnapToRoad(x, y, k), nil
}

func (rs *RoadNetworkService) TrafficSnapshot(ctx context.Context) []traffic.EdgeState {
	return rs.simulator.Snapshot()
}

// SubscribeTraffic streams the snapshot published after every simulation tick.
func (rs *RoadNetworkService) SubscribeTraffic(ctx context.Context, buffer int) (<-chan []traffic.EdgeState, func()) {
	return rs.simulator.Subscribe(buffer)
}

type SimulationStatus struct {
	Running bool   `json:"running"`
	Status  string `json:"status"`
}

func newSimulationStatus(running bool) SimulationStatus {
	if running {
		return SimulationStatus{Running: true, Status: SimulationRunning}
	}
	return SimulationStatus{Running: false, Status: SimulationStopped}
}

// StartSimulation starts the tick loop. the loop outlives ctx, it only stops through StopSimulation.
// starting a running simulation is a conflict.
func (rs *RoadNetworkService) StartSimulation(ctx context.Context) (SimulationStatus, error) {
	if !rs.simulator.Start(context.WithoutCancel(ctx)) {
		return newSimulationStatus(rs.simulator.Running()),
			server.NewErrorf(server.ErrConflict, "traffic simulation is already running")
	}
	return newSimulationStatus(rs.simulator.Running()), nil
}

func (rs *RoadNetworkService) StopSimulation(ctx context.Context) SimulationStatus {
	rs.simulator.Stop()
	return newSimulationStatus(rs.simulator.Running())
}

func (rs *RoadNetworkService) SimulationStatus(ctx context.Context) SimulationStatus {
	return newSimulationStatus(rs.simulator.Running())
}
