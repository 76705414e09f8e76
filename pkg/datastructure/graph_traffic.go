package datastructure

// EdgeLoadTx exclusive view of edge loads handed out by UpdateEdgeLoads. it must not be retained after the callback returns.
type EdgeLoadTx struct {
	g *Graph
}

// UpdateEdgeLoads runs fn under the graph write lock, one traffic step is therefore atomic to every reader.
func (g *Graph) UpdateEdgeLoads(fn func(tx *EdgeLoadTx)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&EdgeLoadTx{g: g})
}

func (tx *EdgeLoadTx) NumEdges() int {
	return len(tx.g.edges)
}

func (tx *EdgeLoadTx) Edge(id int32) Edge {
	return *tx.g.edges[id]
}

// SetVehicles clamps vehicles to zero from below.
func (tx *EdgeLoadTx) SetVehicles(id int32, vehicles int) {
	tx.g.edges[id].CurrentVehicles = max(0, vehicles)
}

func (tx *EdgeLoadTx) AddVehicles(id int32, delta int) {
	tx.SetVehicles(id, tx.g.edges[id].CurrentVehicles+delta)
}

// AdjacentEdges returns the edges sharing an endpoint with edge id, excluding the edge itself.
func (tx *EdgeLoadTx) AdjacentEdges(id int32) []int32 {
	e := tx.g.edges[id]
	src := tx.g.vertices[e.Source]
	dst := tx.g.vertices[e.Target]

	adj := make([]int32, 0, len(src.Edges)+len(dst.Edges))
	for _, edgeID := range src.Edges {
		if edgeID != id {
			adj = append(adj, edgeID)
		}
	}
	for _, edgeID := range dst.Edges {
		if edgeID != id {
			adj = append(adj, edgeID)
		}
	}
	return adj
}
