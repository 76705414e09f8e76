package datastructure

import (
	"github.com/golang/geo/r2"
	"github.com/twpayne/go-polyline"
)

// CreatePolyline encodes a path as a polyline string, each point as [x, y].
func CreatePolyline(path []r2.Point) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.X, p.Y})
	}
	return string(polyline.EncodeCoords(coords))
}
