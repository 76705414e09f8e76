package routingalgorithm

import (
	"context"
	"math"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/util"
)

type RouteAlgorithm struct {
	g       RoadGraph
	traffic TravelTimer
}

// NewRouteAlgorithm traffic may be nil, FastestPath then always minimises length.
func NewRouteAlgorithm(g RoadGraph, traffic TravelTimer) *RouteAlgorithm {
	return &RouteAlgorithm{g: g, traffic: traffic}
}

// Path vertices from source to destination inclusive, the traversed edges and the summed edge cost.
type Path struct {
	Vertices []datastructure.Vertex
	Edges    []datastructure.Edge
	Cost     float64
}

func (p Path) Found() bool {
	return len(p.Vertices) > 0
}

func (p Path) VertexIDs() []int32 {
	ids := make([]int32, len(p.Vertices))
	for i, v := range p.Vertices {
		ids[i] = v.ID
	}
	return ids
}

func (p Path) EdgeIDs() []int32 {
	ids := make([]int32, len(p.Edges))
	for i, e := range p.Edges {
		ids[i] = e.ID
	}
	return ids
}

// NoPath is the result when the destination is unreachable.
func NoPath() Path {
	return Path{
		Vertices: []datastructure.Vertex{},
		Edges:    []datastructure.Edge{},
		Cost:     math.Inf(1),
	}
}

type cameFromPair struct {
	Edge   datastructure.Edge
	NodeID int32
}

// ShortestPath minimises total edge length.
func (rt *RouteAlgorithm) ShortestPath(ctx context.Context, from, to int32) (Path, error) {
	return rt.ShortestPathAStar(ctx, from, to, DistanceMode{})
}

// FastestPath minimises travel time under the current traffic when useTraffic is set, length otherwise.
func (rt *RouteAlgorithm) FastestPath(ctx context.Context, from, to int32, useTraffic bool) (Path, error) {
	if useTraffic && rt.traffic != nil {
		return rt.ShortestPathAStar(ctx, from, to, TrafficMode{Model: rt.traffic})
	}
	return rt.ShortestPathAStar(ctx, from, to, DistanceMode{})
}

// ShortestPathAStar A* with the euclidean distance to the destination as heuristic. travel time is never below
// the edge length so the heuristic stays admissible in every mode. frontier ties are broken by vertex id.
func (rt *RouteAlgorithm) ShortestPathAStar(ctx context.Context, from, to int32, mode CostMode) (Path, error) {
	fromNode, err := rt.g.GetVertex(from)
	if err != nil {
		return NoPath(), err
	}
	toNode, err := rt.g.GetVertex(to)
	if err != nil {
		return NoPath(), err
	}

	if from == to {
		return Path{Vertices: []datastructure.Vertex{fromNode}, Edges: []datastructure.Edge{}, Cost: 0}, nil
	}

	weight := mode.Weights(rt.g)

	pq := datastructure.NewMinHeap[int32]()
	pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: fromNode.DistanceTo(toNode), Item: from})

	costSoFar := map[int32]float64{from: 0}
	cameFrom := map[int32]cameFromPair{from: {datastructure.Edge{}, -1}}
	nodes := map[int32]datastructure.Vertex{from: fromNode, to: toNode}
	closed := make(map[int32]struct{})

	for pq.Size() > 0 {
		select {
		case <-ctx.Done():
			return NoPath(), ctx.Err()
		default:
		}

		current, _ := pq.ExtractMin()
		if current.Item == to {
			return rt.reconstructPath(cameFrom, nodes, to, costSoFar[to]), nil
		}
		closed[current.Item] = struct{}{}

		edges, err := rt.g.IncidentEdges(current.Item)
		if err != nil {
			continue
		}

		for _, edge := range edges {
			next := edge.OtherVertex(current.Item)
			if _, ok := closed[next]; ok {
				continue
			}

			w, ok := weight(edge)
			if !ok {
				continue
			}
			newCost := costSoFar[current.Item] + w
			if oldCost, seen := costSoFar[next]; seen && newCost >= oldCost {
				continue
			}

			nextNode, ok := nodes[next]
			if !ok {
				nextNode, err = rt.g.GetVertex(next)
				if err != nil {
					continue
				}
				nodes[next] = nextNode
			}

			costSoFar[next] = newCost
			cameFrom[next] = cameFromPair{edge, current.Item}

			neighborNode := datastructure.PriorityQueueNode[int32]{Rank: newCost + nextNode.DistanceTo(toNode), Item: next}
			if pq.Contains(next) {
				pq.DecreaseKey(neighborNode)
			} else {
				pq.Insert(neighborNode)
			}
		}
	}

	return NoPath(), nil
}

func (rt *RouteAlgorithm) reconstructPath(cameFrom map[int32]cameFromPair, nodes map[int32]datastructure.Vertex,
	to int32, cost float64) Path {
	pathNodes := []datastructure.Vertex{}
	pathEdges := []datastructure.Edge{}

	curr := to
	for cameFrom[curr].NodeID != -1 {
		pathNodes = append(pathNodes, nodes[curr])
		pathEdges = append(pathEdges, cameFrom[curr].Edge)
		curr = cameFrom[curr].NodeID
	}
	pathNodes = append(pathNodes, nodes[curr])

	return Path{
		Vertices: util.ReverseG(pathNodes),
		Edges:    util.ReverseG(pathEdges),
		Cost:     cost,
	}
}
