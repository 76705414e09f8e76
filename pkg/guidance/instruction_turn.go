package guidance

import (
	"math"

	"github.com/golang/geo/r2"
)

// calcOrientation angle of the segment from -> to, counterclockwise from the x axis.
func calcOrientation(from, to r2.Point) float64 {
	d := to.Sub(from)
	return math.Atan2(d.Y, d.X)
}

// alignOrientation shifts orientation by 2*pi so it lies within pi of baseOrientation.
func alignOrientation(baseOrientation, orientation float64) float64 {
	var resultOrientation float64
	if baseOrientation >= 0 {
		if orientation < -math.Pi+baseOrientation {
			resultOrientation = orientation + 2*math.Pi
		} else {
			resultOrientation = orientation
		}
	} else if orientation > math.Pi+baseOrientation {
		resultOrientation = orientation - 2*math.Pi
	} else {
		resultOrientation = orientation
	}
	return resultOrientation
}

func calculateOrientationDelta(prev, base, next r2.Point) float64 {
	prevOrientation := calcOrientation(prev, base)
	orientation := alignOrientation(prevOrientation, calcOrientation(base, next))
	return orientation - prevOrientation
}

// getTurnDirection sign of the turn prev -> base -> next. a positive delta is counterclockwise, so a left turn.
func getTurnDirection(prev, base, next r2.Point) int {
	delta := calculateOrientationDelta(prev, base, next)
	deltaDegree := math.Abs(delta) * (180 / math.Pi)
	if deltaDegree < 12 {
		return CONTINUE_ON_STREET
	} else if deltaDegree < 40 {
		if delta > 0 {
			return TURN_SLIGHT_LEFT
		}
		return TURN_SLIGHT_RIGHT
	} else if deltaDegree < 105 {
		if delta > 0 {
			return TURN_LEFT
		}
		return TURN_RIGHT
	} else if delta > 0 {
		return TURN_SHARP_LEFT
	}
	return TURN_SHARP_RIGHT
}
