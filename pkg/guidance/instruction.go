package guidance

import (
	"fmt"

	"github.com/golang/geo/r2"
)

const (
	TURN_SHARP_LEFT    = -3
	TURN_LEFT          = -2
	TURN_SLIGHT_LEFT   = -1
	CONTINUE_ON_STREET = 0
	TURN_SLIGHT_RIGHT  = 1
	TURN_RIGHT         = 2
	TURN_SHARP_RIGHT   = 3
	FINISH             = 4
	START              = 101
)

// Instruction one maneuver. Distance and Time cover the roads driven after the maneuver until the next one.
type Instruction struct {
	Sign     int
	VertexID int32
	Point    r2.Point
	Distance float64
	Time     float64
	EdgeIDs  []int32
}

func NewInstruction(sign int, vertexID int32, p r2.Point) Instruction {
	return Instruction{
		Sign:     sign,
		VertexID: vertexID,
		Point:    p,
		EdgeIDs:  make([]int32, 0, 1),
	}
}

func (ins *Instruction) GetTurnDescription() string {
	switch ins.Sign {
	case START:
		return fmt.Sprintf("depart from vertex %d", ins.VertexID)
	case FINISH:
		return fmt.Sprintf("arrive at vertex %d", ins.VertexID)
	case CONTINUE_ON_STREET:
		return fmt.Sprintf("continue at vertex %d", ins.VertexID)
	}
	return fmt.Sprintf("%s at vertex %d", turnName(ins.Sign), ins.VertexID)
}

func turnName(sign int) string {
	switch sign {
	case TURN_SHARP_LEFT:
		return "turn sharp left"
	case TURN_LEFT:
		return "turn left"
	case TURN_SLIGHT_LEFT:
		return "turn slight left"
	case TURN_SLIGHT_RIGHT:
		return "turn slight right"
	case TURN_RIGHT:
		return "turn right"
	case TURN_SHARP_RIGHT:
		return "turn sharp right"
	default:
		return "continue"
	}
}
