package datastructure

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
	"github.com/lintang-b-s/roadsim/pkg/geo"
)

const (
	indexPaddingRatio = 0.01
	// seed radius is diagonal / nearbySeedDivisor, doubled on every retry.
	nearbySeedDivisor = 10.0
	maxNearbyRetries  = 32
)

// BuildSpatialIndex replaces the quadtree with a fresh one over the padded bounding box of all vertices.
func (g *Graph) BuildSpatialIndex() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.buildIndexLocked()
}

func (g *Graph) buildIndexLocked() {
	if len(g.vertices) == 0 || !g.indexEnabled {
		g.index = nil
		return
	}

	bound := r2.EmptyRect()
	for _, v := range g.vertices {
		bound = bound.AddPoint(v.Point())
	}

	padding := math.Max(bound.X.Length(), bound.Y.Length()) * indexPaddingRatio
	if padding == 0 {
		// all vertices coincide, any positive margin keeps the boundary non-degenerate.
		padding = 1
	}
	bound = bound.Expanded(r2.Point{X: padding, Y: padding})

	qt := NewQuadTree(bound, g.indexCapacity)
	for _, v := range g.vertices {
		qt.Insert(QuadPoint{ID: v.ID, X: v.X, Y: v.Y})
	}
	g.index = qt
}

func (g *Graph) HasSpatialIndex() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index != nil
}

// ensureIndex builds the quadtree when the graph has none and indexing is enabled.
func (g *Graph) ensureIndex() {
	g.mu.RLock()
	ready := g.index != nil || !g.indexEnabled || len(g.vertices) == 0
	g.mu.RUnlock()
	if ready {
		return
	}

	g.mu.Lock()
	if g.index == nil {
		g.buildIndexLocked()
	}
	g.mu.Unlock()
}

// GetNearbyVertices returns up to n vertices nearest to (x, y), nearest first, equidistant vertices by id.
func (g *Graph) GetNearbyVertices(x, y float64, n int) []Vertex {
	if n <= 0 {
		return []Vertex{}
	}
	g.ensureIndex()

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.index == nil {
		return g.copyVerticesLocked(g.nearestLinearLocked(x, y, n))
	}

	bound := g.index.Boundary()
	center := r2.Point{X: x, Y: y}
	// every indexed point lies within this distance of the query point.
	cover := geo.FarthestCornerDistance(center, bound)

	radius := geo.Diagonal(bound) / nearbySeedDivisor
	var found []QuadPoint
	for i := 0; i < maxNearbyRetries && radius < cover; i++ {
		found = g.index.QueryNearest(x, y, n, radius)
		if len(found) >= n {
			return g.copyVerticesLocked(quadPointIDs(found))
		}
		radius *= 2
	}

	found = g.index.QueryNearest(x, y, n, cover)
	return g.copyVerticesLocked(quadPointIDs(found))
}

// NearestVerticesLinear is GetNearbyVertices without the spatial index.
func (g *Graph) NearestVerticesLinear(x, y float64, n int) []Vertex {
	if n <= 0 {
		return []Vertex{}
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.copyVerticesLocked(g.nearestLinearLocked(x, y, n))
}

func (g *Graph) nearestLinearLocked(x, y float64, n int) []int32 {
	pds := make([]pointDist, len(g.vertices))
	for i, v := range g.vertices {
		pds[i] = pointDist{
			p:    QuadPoint{ID: v.ID, X: v.X, Y: v.Y},
			dist: geo.EuclideanDistance(x, y, v.X, v.Y),
		}
	}
	sortPointDists(pds)
	if len(pds) > n {
		pds = pds[:n]
	}
	ids := make([]int32, len(pds))
	for i, pd := range pds {
		ids[i] = pd.p.ID
	}
	return ids
}

// GetVerticesInRadius returns the vertices within r of (x, y), nearest first.
func (g *Graph) GetVerticesInRadius(x, y, r float64) []Vertex {
	ids := g.VertexIDsInRadius(x, y, r)

	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.copyVerticesLocked(ids)
}

// VertexIDsInRadius box query over the index followed by an exact distance filter.
func (g *Graph) VertexIDsInRadius(x, y, r float64) []int32 {
	if r < 0 {
		return []int32{}
	}
	g.ensureIndex()

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.index == nil {
		pds := make([]pointDist, 0)
		for _, v := range g.vertices {
			d := geo.EuclideanDistance(x, y, v.X, v.Y)
			if d <= r {
				pds = append(pds, pointDist{p: QuadPoint{ID: v.ID, X: v.X, Y: v.Y}, dist: d})
			}
		}
		sortPointDists(pds)
		ids := make([]int32, len(pds))
		for i, pd := range pds {
			ids[i] = pd.p.ID
		}
		return ids
	}

	return quadPointIDs(g.index.QueryNearest(x, y, math.MaxInt32, r))
}

// QuadTreeBoundaries returns the node boundaries of the current index, building it first if needed.
func (g *Graph) QuadTreeBoundaries() []QuadTreeBoundary {
	g.ensureIndex()

	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.index == nil {
		return []QuadTreeBoundary{}
	}
	return g.index.Boundaries()
}

// SpatialIndexBound returns the root boundary of the index.
func (g *Graph) SpatialIndexBound() (r2.Rect, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.index == nil {
		return r2.EmptyRect(), false
	}
	return g.index.Boundary(), true
}

func (g *Graph) copyVerticesLocked(ids []int32) []Vertex {
	res := make([]Vertex, len(ids))
	for i, id := range ids {
		res[i] = g.vertices[id].copyVertex()
	}
	return res
}

func quadPointIDs(points []QuadPoint) []int32 {
	ids := make([]int32, len(points))
	for i, p := range points {
		ids[i] = p.ID
	}
	return ids
}

func sortInt32s(ids []int32) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
