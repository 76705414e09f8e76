package routingalgorithm

import "github.com/lintang-b-s/roadsim/pkg/datastructure"

// EdgeWeightFunc returns the cost of traversing e. ok is false when the edge has no known cost,
// the search then skips it.
type EdgeWeightFunc func(e datastructure.Edge) (weight float64, ok bool)

// CostMode decides what one search minimises. Weights is called once per search.
type CostMode interface {
	Name() string
	Weights(g RoadGraph) EdgeWeightFunc
}

// DistanceMode edge cost is the edge length.
type DistanceMode struct{}

func (DistanceMode) Name() string {
	return "distance"
}

func (DistanceMode) Weights(_ RoadGraph) EdgeWeightFunc {
	return func(e datastructure.Edge) (float64, bool) {
		return e.Length, true
	}
}

// TrafficMode edge cost is the travel time under the current load. travel times are snapshotted for every edge
// when the search starts, edges created afterwards are skipped.
type TrafficMode struct {
	Model TravelTimer
}

func (TrafficMode) Name() string {
	return "traffic"
}

func (m TrafficMode) Weights(g RoadGraph) EdgeWeightFunc {
	edges := g.Edges()
	travelTimes := make([]float64, len(edges))
	for i, e := range edges {
		travelTimes[i] = m.Model.TravelTime(e)
	}
	return func(e datastructure.Edge) (float64, bool) {
		if e.ID < 0 || int(e.ID) >= len(travelTimes) {
			return 0, false
		}
		return travelTimes[e.ID], true
	}
}
