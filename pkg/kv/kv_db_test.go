package kv

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKVDB(t *testing.T) *KVDB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	kvDB := NewKVDB(db)
	t.Cleanup(func() { kvDB.Close() })
	return kvDB
}

func sampleView(zoom float64) clustering.ClusterView {
	return clustering.ClusterView{
		Nodes: []clustering.ViewNode{
			{ID: 0, Label: "Cluster 0", X: 1.5, Y: 2.5, Size: 4, ClusterID: 0, ZoomLevel: zoom},
			{ID: 7, Label: "Noise 7", X: 40, Y: 41, Size: 1, ClusterID: clustering.Noise, IsNoise: true, ZoomLevel: zoom},
		},
		Edges: []clustering.ViewEdge{
			{ID: "0_7", Source: 0, Target: 7, ZoomLevel: zoom},
		},
		Params: clustering.ViewParams{ZoomLevel: zoom, Eps: 1.5, MinSamples: 3, NodeCount: 2, EdgeCount: 1,
			ClusterCount: 1, NoiseCount: 1},
	}
}

func TestSaveAndGetClusterView(t *testing.T) {
	kvDB := newTestKVDB(t)

	views := map[float64]clustering.ClusterView{
		0.3: sampleView(0.3),
		1.0: sampleView(1.0),
	}
	require.NoError(t, kvDB.SaveClusterViews(context.Background(), views))

	got, err := kvDB.GetClusterView(0.3)
	require.NoError(t, err)
	if diff := cmp.Diff(views[0.3], got); diff != "" {
		t.Errorf("stored view mismatch (-want +got):\n%s", diff)
	}

	levels, err := kvDB.ZoomLevels()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.3, 1.0}, levels)
}

func TestGetClusterViewNotFound(t *testing.T) {
	kvDB := newTestKVDB(t)

	_, err := kvDB.GetClusterView(0.5)
	assert.ErrorIs(t, err, ErrClusterViewNotFound)
}

func TestSaveClusterViewsCancelled(t *testing.T) {
	kvDB := newTestKVDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := kvDB.SaveClusterViews(ctx, map[float64]clustering.ClusterView{0.5: sampleView(0.5)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompressRoundTrip(t *testing.T) {
	in := []byte("road road road road road road road network")

	var compressed, out bytes.Buffer
	require.NoError(t, CompressData(in, &compressed))
	require.NoError(t, DecompressData(compressed.Bytes(), &out))
	assert.Equal(t, in, out.Bytes())
}
