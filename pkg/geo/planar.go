// Package geo holds planar geometry helpers for the road network. Coordinates are plain
// cartesian (x, y) units, not lat/lon.
package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

func EuclideanDistance(x1, y1, x2, y2 float64) float64 {
	return r2.Point{X: x1, Y: y1}.Sub(r2.Point{X: x2, Y: y2}).Norm()
}

// RectAround returns the closed square of half-width r centered at (x, y).
func RectAround(x, y, r float64) r2.Rect {
	return r2.RectFromCenterSize(r2.Point{X: x, Y: y}, r2.Point{X: 2 * r, Y: 2 * r})
}

// Diagonal returns the length of the rectangle diagonal.
func Diagonal(rect r2.Rect) float64 {
	return rect.Size().Norm()
}

// FarthestCornerDistance returns the distance from p to the farthest corner of rect.
func FarthestCornerDistance(p r2.Point, rect r2.Rect) float64 {
	maxDist := 0.0
	for _, v := range rect.Vertices() {
		maxDist = math.Max(maxDist, p.Sub(v).Norm())
	}
	return maxDist
}

// ProjectPointToSegment projects p onto the segment ab, clamped to the segment endpoints.
func ProjectPointToSegment(p, a, b r2.Point) r2.Point {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Mul(t))
}

// PointSegmentDistance returns the shortest distance between p and the segment ab.
func PointSegmentDistance(p, a, b r2.Point) float64 {
	return p.Sub(ProjectPointToSegment(p, a, b)).Norm()
}

// SegmentBound returns the bounding rectangle of segment ab expanded by margin on every side.
func SegmentBound(a, b r2.Point, margin float64) r2.Rect {
	return r2.RectFromPoints(a, b).Expanded(r2.Point{X: margin, Y: margin})
}
