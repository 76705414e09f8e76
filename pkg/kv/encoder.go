package kv

import (
	"bytes"

	"github.com/kelindar/binary"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
)

// encodeClusterView binary encodes then zstd compresses a view.
func encodeClusterView(view clustering.ClusterView) ([]byte, error) {
	bb, err := binary.Marshal(view)
	if err != nil {
		return nil, err
	}

	var compressed bytes.Buffer
	if err := CompressData(bb, &compressed); err != nil {
		return nil, err
	}
	return compressed.Bytes(), nil
}

func decodeClusterView(bbCompressed []byte) (clustering.ClusterView, error) {
	var bb bytes.Buffer
	if err := DecompressData(bbCompressed, &bb); err != nil {
		return clustering.ClusterView{}, err
	}

	var view clustering.ClusterView
	err := binary.Unmarshal(bb.Bytes(), &view)
	return view, err
}
