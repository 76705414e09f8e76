package clustering

import (
	"fmt"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
)

type ViewNode struct {
	ID        int32   `json:"id"`
	Label     string  `json:"label"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      int     `json:"size"`
	ClusterID int     `json:"cluster_id"`
	IsNoise   bool    `json:"is_noise,omitempty"`
	ZoomLevel float64 `json:"zoom_level"`
}

type ViewEdge struct {
	ID        string  `json:"id"`
	Source    int32   `json:"source"`
	Target    int32   `json:"target"`
	ZoomLevel float64 `json:"zoom_level"`
}

type ViewParams struct {
	ZoomLevel    float64 `json:"zoom_level"`
	Eps          float64 `json:"eps,omitempty"`
	MinSamples   int     `json:"min_samples,omitempty"`
	NodeCount    int     `json:"node_count"`
	EdgeCount    int     `json:"edge_count"`
	ClusterCount int     `json:"cluster_count"`
	NoiseCount   int     `json:"noise_count"`
	IsOriginal   bool    `json:"is_original"`
}

// ClusterView a graph drawn at one zoom level: one node per cluster placed at its representative, one node per
// noise vertex, and the road edges collapsed onto those nodes.
type ClusterView struct {
	Nodes  []ViewNode `json:"nodes"`
	Edges  []ViewEdge `json:"edges"`
	Params ViewParams `json:"params"`
}

type pairKey [2]int32

func newPairKey(a, b int32) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// BuildClusterView collapses the graph onto the clusters of res. self loops and duplicate pairs are dropped.
func BuildClusterView(vertices []datastructure.Vertex, edges []datastructure.Edge, res Result, zoom float64,
	params Params) ClusterView {
	byID := make(map[int32]datastructure.Vertex, len(vertices))
	for _, v := range vertices {
		byID[v.ID] = v
	}

	// representative of the node every vertex is drawn as.
	drawnAs := make(map[int32]int32, len(vertices))
	nodes := make([]ViewNode, 0, len(res.Clusters))
	for _, c := range res.Clusters {
		rep := byID[c.Representative]
		for _, m := range c.Members {
			drawnAs[m] = c.Representative
		}
		nodes = append(nodes, ViewNode{
			ID:        rep.ID,
			Label:     fmt.Sprintf("Cluster %d (z%g)", c.ID, zoom),
			X:         rep.X,
			Y:         rep.Y,
			Size:      len(c.Members),
			ClusterID: c.ID,
			ZoomLevel: zoom,
		})
	}

	noise := res.Noise()
	for _, id := range noise {
		v, ok := byID[id]
		if !ok {
			continue
		}
		drawnAs[id] = id
		nodes = append(nodes, ViewNode{
			ID:        id,
			Label:     fmt.Sprintf("Noise %d (z%g)", id, zoom),
			X:         v.X,
			Y:         v.Y,
			Size:      1,
			ClusterID: Noise,
			IsNoise:   true,
			ZoomLevel: zoom,
		})
	}

	viewEdges := collapseEdges(edges, drawnAs, zoom)

	return ClusterView{
		Nodes: nodes,
		Edges: viewEdges,
		Params: ViewParams{
			ZoomLevel:    zoom,
			Eps:          params.Eps,
			MinSamples:   params.MinSamples,
			NodeCount:    len(nodes),
			EdgeCount:    len(viewEdges),
			ClusterCount: len(res.Clusters),
			NoiseCount:   len(noise),
		},
	}
}

func collapseEdges(edges []datastructure.Edge, drawnAs map[int32]int32, zoom float64) []ViewEdge {
	seen := make(map[pairKey]struct{}, len(edges))
	viewEdges := make([]ViewEdge, 0)
	for _, e := range edges {
		src, okS := drawnAs[e.Source]
		dst, okT := drawnAs[e.Target]
		if !okS || !okT || src == dst {
			continue
		}
		key := newPairKey(src, dst)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		viewEdges = append(viewEdges, ViewEdge{
			ID:        fmt.Sprintf("%d_%d_z%g", key[0], key[1], zoom),
			Source:    key[0],
			Target:    key[1],
			ZoomLevel: zoom,
		})
	}
	return viewEdges
}

// OriginalView every vertex and edge, unclustered.
func OriginalView(vertices []datastructure.Vertex, edges []datastructure.Edge) ClusterView {
	nodes := make([]ViewNode, len(vertices))
	drawnAs := make(map[int32]int32, len(vertices))
	for i, v := range vertices {
		drawnAs[v.ID] = v.ID
		nodes[i] = ViewNode{
			ID:        v.ID,
			Label:     fmt.Sprintf("Node %d", v.ID),
			X:         v.X,
			Y:         v.Y,
			Size:      3,
			ClusterID: Noise,
			ZoomLevel: OriginalZoomLevel,
		}
	}
	viewEdges := collapseEdges(edges, drawnAs, OriginalZoomLevel)

	return ClusterView{
		Nodes: nodes,
		Edges: viewEdges,
		Params: ViewParams{
			ZoomLevel:  OriginalZoomLevel,
			NodeCount:  len(nodes),
			EdgeCount:  len(viewEdges),
			IsOriginal: true,
		},
	}
}
