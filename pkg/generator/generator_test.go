package generator

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lintang-b-s/roadsim/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(n int) Config {
	cfg := DefaultConfig()
	cfg.NumVertices = n
	cfg.MinDistance = 5
	cfg.Seed = 3
	cfg.Quiet = true
	return cfg
}

func TestRandomPointsSpacing(t *testing.T) {
	cfg := testConfig(300)

	points, err := RandomPoints(context.Background(), cfg, util.NewRand(cfg.Seed))
	require.NoError(t, err)
	require.Len(t, points, 300)

	for i := range points {
		assert.True(t, points[i].X >= 0 && points[i].X <= cfg.Width)
		assert.True(t, points[i].Y >= 0 && points[i].Y <= cfg.Height)
		for j := i + 1; j < len(points); j++ {
			assert.GreaterOrEqual(t, points[i].Sub(points[j]).Norm(), cfg.MinDistance)
		}
	}
}

func TestRandomPointsReducesSpacingWhenCrowded(t *testing.T) {
	cfg := testConfig(50)
	cfg.Width, cfg.Height = 10, 10

	points, err := RandomPoints(context.Background(), cfg, util.NewRand(cfg.Seed))
	require.NoError(t, err)
	assert.Len(t, points, 50)
}

func TestGenerateConnected(t *testing.T) {
	cfg := testConfig(200)

	g, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 200, g.NumVertices())
	assert.True(t, g.IsConnected())
	assert.GreaterOrEqual(t, g.NumEdges(), int(cfg.EdgeFactor*200/2))
	assert.True(t, g.HasSpatialIndex())

	for _, e := range g.Edges() {
		assert.NotEqual(t, e.Source, e.Target)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := testConfig(150)

	first, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	second, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Vertices(), second.Vertices()); diff != "" {
		t.Errorf("vertices differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Edges(), second.Edges()); diff != "" {
		t.Errorf("edges differ (-first +second):\n%s", diff)
	}
}

func TestGenerateTagsKinds(t *testing.T) {
	cfg := testConfig(200)
	cfg.MallProbability = 1

	g, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	for _, v := range g.Vertices() {
		assert.NotEqual(t, "none", v.Kind.String())
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	cfg := testConfig(10)
	cfg.Width = 0

	_, err := Generate(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, testConfig(100))
	assert.ErrorIs(t, err, context.Canceled)
}
