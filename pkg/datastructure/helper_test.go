package datastructure

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

// decodePolyline reverses CreatePolyline, up to the 1e-5 encoding precision.
func decodePolyline(s string) ([]r2.Point, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	path := make([]r2.Point, len(coords))
	for i, c := range coords {
		path[i] = r2.Point{X: c[0], Y: c[1]}
	}
	return path, nil
}

func TestCreatePolyline(t *testing.T) {
	path := []r2.Point{{X: 0, Y: 0}, {X: 12.5, Y: 40.25}, {X: 999.99999, Y: 3}}

	encoded := CreatePolyline(path)
	require.NotEmpty(t, encoded)

	decoded, err := decodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].X, decoded[i].X, 1e-5)
		assert.InDelta(t, path[i].Y, decoded[i].Y, 1e-5)
	}
}

func TestCreatePolylineEmpty(t *testing.T) {
	assert.Equal(t, "", CreatePolyline(nil))
}
