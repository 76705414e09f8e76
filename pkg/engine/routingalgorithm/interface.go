package routingalgorithm

import "github.com/lintang-b-s/roadsim/pkg/datastructure"

type RoadGraph interface {
	GetVertex(id int32) (datastructure.Vertex, error)
	IncidentEdges(id int32) ([]datastructure.Edge, error)
	Edges() []datastructure.Edge
}

type TravelTimer interface {
	TravelTime(e datastructure.Edge) float64
}
