package datastructure

import (
	"fmt"

	"github.com/golang/geo/r2"
)

type VertexKind uint8

const (
	VertexKindNone VertexKind = iota
	VertexKindGasStation
	VertexKindShoppingMall
	VertexKindParkingLot
)

var vertexKindNames = [...]string{"none", "gas_station", "shopping_mall", "parking_lot"}

func (k VertexKind) String() string {
	if int(k) < len(vertexKindNames) {
		return vertexKindNames[k]
	}
	return fmt.Sprintf("VertexKind(%d)", k)
}

func (k VertexKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *VertexKind) UnmarshalText(text []byte) error {
	for i, name := range vertexKindNames {
		if name == string(text) {
			*k = VertexKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown vertex kind %q", text)
}

// Vertex a road network intersection. Edges holds the ids of incident edges, resolved through the Graph.
type Vertex struct {
	ID    int32      `json:"id"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Kind  VertexKind `json:"kind"`
	Edges []int32    `json:"-"`
}

func (v Vertex) Point() r2.Point {
	return r2.Point{X: v.X, Y: v.Y}
}

func (v Vertex) DistanceTo(other Vertex) float64 {
	return v.Point().Sub(other.Point()).Norm()
}

func (v *Vertex) copyVertex() Vertex {
	cp := *v
	cp.Edges = make([]int32, len(v.Edges))
	copy(cp.Edges, v.Edges)
	return cp
}
