package service

import (
	"context"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
	"github.com/lintang-b-s/roadsim/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadsim/pkg/engine/traffic"
	"github.com/lintang-b-s/roadsim/pkg/snap"
)

type RoadGraph interface {
	GetVertex(id int32) (datastructure.Vertex, error)
	Vertices() []datastructure.Vertex
	Edges() []datastructure.Edge
	GetEdge(id int32) (datastructure.Edge, error)
	Subgraph(vertexIDs []int32) []int32
	GetNearbyVertices(x, y float64, n int) []datastructure.Vertex
	GetVerticesInRadius(x, y, r float64) []datastructure.Vertex
	VertexIDsInRadius(x, y, r float64) []int32
	QuadTreeBoundaries() []datastructure.QuadTreeBoundary
}

type RoutingAlgorithm interface {
	ShortestPath(ctx context.Context, from, to int32) (routingalgorithm.Path, error)
	FastestPath(ctx context.Context, from, to int32, useTraffic bool) (routingalgorithm.Path, error)
}

type KVDB interface {
	SaveClusterViews(ctx context.Context, views map[float64]clustering.ClusterView) error
	GetClusterView(zoom float64) (clustering.ClusterView, error)
	ZoomLevels() ([]float64, error)
}

type RoadSnapper interface {
	SnapToRoad(x, y float64, k int) []snap.SnappedRoad
}

type TrafficSimulator interface {
	Start(ctx context.Context) bool
	Stop() bool
	Running() bool
	Snapshot() []traffic.EdgeState
	Subscribe(buffer int) (<-chan []traffic.EdgeState, func())
}
