package datastructure

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lintang-b-s/roadsim/pkg/util"
	"golang.org/x/exp/rand"
)

var (
	ErrVertexNotFound = errors.New("vertex not found")
	ErrEdgeNotFound   = errors.New("edge not found")
	ErrSelfLoop       = errors.New("edge endpoints must be distinct")
)

// Graph undirected road network. vertices and edges are arenas indexed by id, ids are never reused.
//
// Every exported method is safe for concurrent use: structural mutation and traffic updates take the
// write lock, reads take the read lock and return copies.
type Graph struct {
	mu       sync.RWMutex
	vertices []*Vertex
	edges    []*Edge

	index         *QuadTree
	indexEnabled  bool
	indexCapacity int

	rng *rand.Rand
}

type GraphOption func(*Graph)

// WithSeed seeds the source used for initial edge loads.
func WithSeed(seed uint64) GraphOption {
	return func(g *Graph) {
		g.rng = util.NewRand(seed)
	}
}

// WithSpatialIndex disables the quadtree when enabled is false, every spatial query then scans all vertices.
func WithSpatialIndex(enabled bool) GraphOption {
	return func(g *Graph) {
		g.indexEnabled = enabled
	}
}

func WithQuadTreeCapacity(capacity int) GraphOption {
	return func(g *Graph) {
		g.indexCapacity = capacity
	}
}

func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		vertices:      make([]*Vertex, 0),
		edges:         make([]*Edge, 0),
		indexEnabled:  true,
		indexCapacity: DefaultQuadTreeCapacity,
		rng:           util.NewRand(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateVertex adds a vertex at (x, y). when a spatial index exists the vertex is inserted into it right away,
// a vertex outside the index boundary drops the index so the next spatial query rebuilds it.
func (g *Graph) CreateVertex(x, y float64) Vertex {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := &Vertex{
		ID:    int32(len(g.vertices)),
		X:     x,
		Y:     y,
		Edges: make([]int32, 0, 4),
	}
	g.vertices = append(g.vertices, v)

	if g.index != nil && !g.index.Insert(QuadPoint{ID: v.ID, X: x, Y: y}) {
		g.index = nil
	}
	return v.copyVertex()
}

// CreateEdge connects v1 and v2 with a capacity derived from the edge length.
func (g *Graph) CreateEdge(v1, v2 int32) (Edge, error) {
	return g.CreateEdgeWithCapacity(v1, v2, 0)
}

// CreateEdgeWithCapacity connects v1 and v2. capacity <= 0 derives it from the length.
// if v1 and v2 are already connected the existing edge is returned unchanged.
func (g *Graph) CreateEdgeWithCapacity(v1, v2 int32, capacity int) (Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	a, err := g.vertexLocked(v1)
	if err != nil {
		return Edge{}, err
	}
	b, err := g.vertexLocked(v2)
	if err != nil {
		return Edge{}, err
	}
	if v1 == v2 {
		return Edge{}, fmt.Errorf("vertex %d: %w", v1, ErrSelfLoop)
	}

	if existing := g.edgeBetweenLocked(a, v2); existing != nil {
		return *existing, nil
	}

	length := a.DistanceTo(*b)
	if capacity <= 0 {
		capacity = capacityFromLength(length)
	}

	e := &Edge{
		ID:              int32(len(g.edges)),
		Source:          v1,
		Target:          v2,
		Length:          length,
		Capacity:        capacity,
		CurrentVehicles: util.RandIntRange(g.rng, min(100, capacity), capacity),
		MallConnection:  a.Kind == VertexKindShoppingMall || b.Kind == VertexKindShoppingMall,
	}
	g.edges = append(g.edges, e)
	a.Edges = append(a.Edges, e.ID)
	b.Edges = append(b.Edges, e.ID)
	return *e, nil
}

func (g *Graph) vertexLocked(id int32) (*Vertex, error) {
	if id < 0 || int(id) >= len(g.vertices) {
		return nil, fmt.Errorf("vertex %d: %w", id, ErrVertexNotFound)
	}
	return g.vertices[id], nil
}

func (g *Graph) edgeLocked(id int32) (*Edge, error) {
	if id < 0 || int(id) >= len(g.edges) {
		return nil, fmt.Errorf("edge %d: %w", id, ErrEdgeNotFound)
	}
	return g.edges[id], nil
}

func (g *Graph) edgeBetweenLocked(from *Vertex, to int32) *Edge {
	for _, edgeID := range from.Edges {
		e := g.edges[edgeID]
		if e.OtherVertex(from.ID) == to {
			return e
		}
	}
	return nil
}

// GetEdgeBetween returns the edge connecting v1 and v2, if any.
func (g *Graph) GetEdgeBetween(v1, v2 int32) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	a, err := g.vertexLocked(v1)
	if err != nil {
		return Edge{}, false
	}
	e := g.edgeBetweenLocked(a, v2)
	if e == nil {
		return Edge{}, false
	}
	return *e, true
}

func (g *Graph) GetVertex(id int32) (Vertex, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, err := g.vertexLocked(id)
	if err != nil {
		return Vertex{}, err
	}
	return v.copyVertex(), nil
}

func (g *Graph) GetEdge(id int32) (Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, err := g.edgeLocked(id)
	if err != nil {
		return Edge{}, err
	}
	return *e, nil
}

// Vertices returns a copy of every vertex ordered by id.
func (g *Graph) Vertices() []Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()

	res := make([]Vertex, len(g.vertices))
	for i, v := range g.vertices {
		res[i] = v.copyVertex()
	}
	return res
}

// Edges returns a copy of every edge ordered by id.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	res := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		res[i] = *e
	}
	return res
}

func (g *Graph) NumVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

func (g *Graph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// IncidentEdges returns the edges incident to vertex id.
func (g *Graph) IncidentEdges(id int32) ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, err := g.vertexLocked(id)
	if err != nil {
		return nil, err
	}
	res := make([]Edge, len(v.Edges))
	for i, edgeID := range v.Edges {
		res[i] = *g.edges[edgeID]
	}
	return res, nil
}

// Neighbors returns the ids of vertices sharing an edge with vertex id.
func (g *Graph) Neighbors(id int32) ([]int32, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, err := g.vertexLocked(id)
	if err != nil {
		return nil, err
	}
	res := make([]int32, len(v.Edges))
	for i, edgeID := range v.Edges {
		res[i] = g.edges[edgeID].OtherVertex(id)
	}
	return res, nil
}

// SetVertexKind tags a vertex and refreshes the mall flag of its incident edges.
func (g *Graph) SetVertexKind(id int32, kind VertexKind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	v, err := g.vertexLocked(id)
	if err != nil {
		return err
	}
	v.Kind = kind
	for _, edgeID := range v.Edges {
		e := g.edges[edgeID]
		other := g.vertices[e.OtherVertex(id)]
		e.MallConnection = kind == VertexKindShoppingMall || other.Kind == VertexKindShoppingMall
	}
	return nil
}

// SetEdgeVehicles overrides the live load of an edge, negative values are clamped to zero.
func (g *Graph) SetEdgeVehicles(id int32, vehicles int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, err := g.edgeLocked(id)
	if err != nil {
		return err
	}
	e.CurrentVehicles = max(0, vehicles)
	return nil
}

// IsConnected reports whether every vertex is reachable from vertex 0. graphs with zero or one vertex are connected.
func (g *Graph) IsConnected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.vertices) <= 1 {
		return true
	}
	visited := make([]bool, len(g.vertices))
	return g.bfsLocked(0, visited, nil) == len(g.vertices)
}

// bfsLocked marks every vertex reachable from start, appending them to component when it is not nil.
// returns the number of newly visited vertices.
func (g *Graph) bfsLocked(start int32, visited []bool, component *[]int32) int {
	queue := []int32{start}
	visited[start] = true
	count := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		count++
		if component != nil {
			*component = append(*component, curr)
		}
		for _, edgeID := range g.vertices[curr].Edges {
			next := g.edges[edgeID].OtherVertex(curr)
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return count
}

// ConnectedComponents returns every component as ascending vertex ids, components ordered by their smallest id.
func (g *Graph) ConnectedComponents() [][]int32 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make([]bool, len(g.vertices))
	components := make([][]int32, 0)
	for id := range g.vertices {
		if visited[id] {
			continue
		}
		component := make([]int32, 0)
		g.bfsLocked(int32(id), visited, &component)
		sortInt32s(component)
		components = append(components, component)
	}
	return components
}

// Subgraph returns the ids of edges whose endpoints both belong to vertexIDs.
func (g *Graph) Subgraph(vertexIDs []int32) []int32 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	in := make(map[int32]struct{}, len(vertexIDs))
	for _, id := range vertexIDs {
		in[id] = struct{}{}
	}
	edgeIDs := make([]int32, 0)
	for _, e := range g.edges {
		_, okS := in[e.Source]
		_, okT := in[e.Target]
		if okS && okT {
			edgeIDs = append(edgeIDs, e.ID)
		}
	}
	return edgeIDs
}
