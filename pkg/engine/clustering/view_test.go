package clustering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClusterView(t *testing.T) {
	g := twoGroups(t)
	for _, pair := range [][2]int32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 5}, {4, 8}, {8, 0}} {
		_, err := g.CreateEdge(pair[0], pair[1])
		require.NoError(t, err)
	}

	params := Params{Eps: 1.5, MinSamples: 3}
	res, err := DBSCAN(context.Background(), g, params)
	require.NoError(t, err)

	view := BuildClusterView(g.Vertices(), g.Edges(), res, 0.5, params)

	require.Len(t, view.Nodes, 3)
	assert.Equal(t, int32(0), view.Nodes[0].ID)
	assert.Equal(t, 4, view.Nodes[0].Size)
	assert.Equal(t, int32(4), view.Nodes[1].ID)
	assert.True(t, view.Nodes[2].IsNoise)
	assert.Equal(t, int32(8), view.Nodes[2].ID)

	pairs := make([][2]int32, 0, len(view.Edges))
	for _, e := range view.Edges {
		pairs = append(pairs, [2]int32{e.Source, e.Target})
	}
	assert.ElementsMatch(t, [][2]int32{{0, 4}, {4, 8}, {0, 8}}, pairs)

	assert.Equal(t, 2, view.Params.ClusterCount)
	assert.Equal(t, 1, view.Params.NoiseCount)
	assert.Equal(t, 3, view.Params.EdgeCount)
	assert.False(t, view.Params.IsOriginal)
}

func TestBuildClusterViewNoSelfLoopsOrDuplicates(t *testing.T) {
	g := newGraph(t, randomPoints(3, 200))
	vertices := g.Vertices()
	for i := 1; i < len(vertices); i++ {
		_, err := g.CreateEdge(int32(i-1), int32(i))
		require.NoError(t, err)
	}

	params := ParamsForZoom(1.0, len(vertices))
	res, err := DBSCAN(context.Background(), g, params)
	require.NoError(t, err)

	view := BuildClusterView(g.Vertices(), g.Edges(), res, 1.0, params)
	seen := make(map[[2]int32]bool)
	for _, e := range view.Edges {
		assert.NotEqual(t, e.Source, e.Target)
		key := [2]int32{e.Source, e.Target}
		assert.False(t, seen[key], "duplicate edge %v", key)
		seen[key] = true
	}
}

func TestOriginalView(t *testing.T) {
	g := twoGroups(t)
	_, err := g.CreateEdge(0, 1)
	require.NoError(t, err)
	_, err = g.CreateEdge(1, 0)
	require.NoError(t, err)

	view := OriginalView(g.Vertices(), g.Edges())
	assert.Len(t, view.Nodes, 9)
	assert.Len(t, view.Edges, 1)
	assert.True(t, view.Params.IsOriginal)
	assert.Equal(t, OriginalZoomLevel, view.Params.ZoomLevel)
}
