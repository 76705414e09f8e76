package guidance

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/util"
)

var ErrEmptyPath = errors.New("path is empty")

// InstructionsFromPath turns a vertex path into maneuvers. a vertex with at most two roads only bends the
// road, so it never gets an instruction of its own.
type InstructionsFromPath struct {
	traffic         TravelTimer
	ways            []*Instruction
	prevInstruction *Instruction
}

func NewInstructionsFromPath(traffic TravelTimer) *InstructionsFromPath {
	return &InstructionsFromPath{
		traffic: traffic,
		ways:    make([]*Instruction, 0),
	}
}

type DrivingInstruction struct {
	Instruction string  `json:"instruction"`
	Sign        int     `json:"sign"`
	VertexID    int32   `json:"vertex_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	ETA         float64 `json:"eta"`
	Distance    float64 `json:"distance"`
}

// NewDrivingInstruction eta and distance are cumulative up to the maneuver point.
func NewDrivingInstruction(ins Instruction, prevETA, prevDist float64) DrivingInstruction {
	return DrivingInstruction{
		Instruction: ins.GetTurnDescription(),
		Sign:        ins.Sign,
		VertexID:    ins.VertexID,
		X:           ins.Point.X,
		Y:           ins.Point.Y,
		ETA:         util.RoundFloat(prevETA, 2),
		Distance:    util.RoundFloat(prevDist, 2),
	}
}

// GetDrivingInstructions vertices and edges are a path as returned by the router, edges[i] joins vertices[i]
// and vertices[i+1].
func (ifp *InstructionsFromPath) GetDrivingInstructions(vertices []datastructure.Vertex,
	edges []datastructure.Edge) ([]DrivingInstruction, error) {
	if len(edges) == 0 {
		return nil, ErrEmptyPath
	}
	if len(vertices) != len(edges)+1 {
		return nil, fmt.Errorf("%d vertices for %d edges", len(vertices), len(edges))
	}

	for i, edge := range edges {
		ifp.addInstructionFromEdge(vertices, i, edge)
	}
	ifp.finish(vertices[len(vertices)-1])

	drivingInstructions := make([]DrivingInstruction, 0, len(ifp.ways))
	eta, dist := 0.0, 0.0
	for _, ins := range ifp.ways {
		drivingInstructions = append(drivingInstructions, NewDrivingInstruction(*ins, eta, dist))
		eta += ins.Time
		dist += ins.Distance
	}
	return drivingInstructions, nil
}

func (ifp *InstructionsFromPath) addInstructionFromEdge(vertices []datastructure.Vertex, i int, edge datastructure.Edge) {
	base := vertices[i]

	if ifp.prevInstruction == nil {
		ins := NewInstruction(START, base.ID, base.Point())
		ifp.prevInstruction = &ins
		ifp.ways = append(ifp.ways, ifp.prevInstruction)
	} else if len(base.Edges) > 2 {
		sign := getTurnDirection(vertices[i-1].Point(), base.Point(), vertices[i+1].Point())
		if sign != CONTINUE_ON_STREET {
			ins := NewInstruction(sign, base.ID, base.Point())
			ifp.prevInstruction = &ins
			ifp.ways = append(ifp.ways, ifp.prevInstruction)
		}
	}

	ifp.prevInstruction.Distance += edge.Length
	ifp.prevInstruction.EdgeIDs = append(ifp.prevInstruction.EdgeIDs, edge.ID)
	if ifp.traffic != nil {
		ifp.prevInstruction.Time += ifp.traffic.TravelTime(edge)
	}
}

func (ifp *InstructionsFromPath) finish(last datastructure.Vertex) {
	ins := NewInstruction(FINISH, last.ID, last.Point())
	ifp.ways = append(ifp.ways, &ins)
	ifp.prevInstruction = &ins
}
