package datastructure

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

const (
	NW = iota
	NE
	SW
	SE
)

const (
	DefaultQuadTreeCapacity = 4
	// leaves at this depth keep accepting points past capacity, so coincident points cannot split forever.
	maxQuadTreeDepth = 32
	noChild          = -1
)

type QuadPoint struct {
	ID int32
	X  float64
	Y  float64
}

func (p QuadPoint) Point() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

type quadNode struct {
	boundary r2.Rect
	points   []QuadPoint
	children [4]int32
	divided  bool
	depth    int
}

// QuadTree point quadtree stored as an arena of nodes. node 0 is the root, children are referenced by index.
//
// A point goes to the east children when x >= midX and to the north children when y >= midY, so every
// point inside a node boundary lands in exactly one child even when it sits on a midpoint line.
type QuadTree struct {
	nodes    []quadNode
	capacity int
	size     int
}

func NewQuadTree(boundary r2.Rect, capacity int) *QuadTree {
	if capacity <= 0 {
		capacity = DefaultQuadTreeCapacity
	}
	qt := &QuadTree{
		nodes:    make([]quadNode, 0, 16),
		capacity: capacity,
	}
	qt.newNode(boundary, 0)
	return qt
}

func (qt *QuadTree) newNode(boundary r2.Rect, depth int) int32 {
	qt.nodes = append(qt.nodes, quadNode{
		boundary: boundary,
		points:   make([]QuadPoint, 0, qt.capacity),
		children: [4]int32{noChild, noChild, noChild, noChild},
		depth:    depth,
	})
	return int32(len(qt.nodes) - 1)
}

func (qt *QuadTree) Boundary() r2.Rect {
	return qt.nodes[0].boundary
}

// Count number of points stored in the tree.
func (qt *QuadTree) Count() int {
	return qt.size
}

func quadrant(boundary r2.Rect, x, y float64) int {
	mid := boundary.Center()
	east := x >= mid.X
	north := y >= mid.Y
	switch {
	case north && !east:
		return NW
	case north && east:
		return NE
	case !north && !east:
		return SW
	default:
		return SE
	}
}

// subdivide split node idx into four quadrants and move its points down.
func (qt *QuadTree) subdivide(idx int32) {
	b := qt.nodes[idx].boundary
	depth := qt.nodes[idx].depth + 1
	mid := b.Center()

	var children [4]int32
	children[NW] = qt.newNode(r2.RectFromPoints(r2.Point{X: b.X.Lo, Y: mid.Y}, r2.Point{X: mid.X, Y: b.Y.Hi}), depth)
	children[NE] = qt.newNode(r2.RectFromPoints(mid, b.Hi()), depth)
	children[SW] = qt.newNode(r2.RectFromPoints(b.Lo(), mid), depth)
	children[SE] = qt.newNode(r2.RectFromPoints(r2.Point{X: mid.X, Y: b.Y.Lo}, r2.Point{X: b.X.Hi, Y: mid.Y}), depth)

	node := &qt.nodes[idx]
	node.children = children
	for _, p := range node.points {
		child := children[quadrant(b, p.X, p.Y)]
		qt.nodes[child].points = append(qt.nodes[child].points, p)
	}
	node.points = nil
	node.divided = true
}

// Insert adds p to the tree. returns false when p lies outside the root boundary.
func (qt *QuadTree) Insert(p QuadPoint) bool {
	if !qt.nodes[0].boundary.ContainsPoint(p.Point()) {
		return false
	}

	idx := int32(0)
	for {
		node := &qt.nodes[idx]
		if !node.divided {
			if len(node.points) < qt.capacity || node.depth >= maxQuadTreeDepth {
				node.points = append(node.points, p)
				qt.size++
				return true
			}
			qt.subdivide(idx)
		}

		node = &qt.nodes[idx]
		idx = node.children[quadrant(node.boundary, p.X, p.Y)]
	}
}

// QueryRange returns every point inside the closed rectangle rect.
func (qt *QuadTree) QueryRange(rect r2.Rect) []QuadPoint {
	found := make([]QuadPoint, 0)
	if rect.IsEmpty() {
		return found
	}

	stack := []int32{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &qt.nodes[idx]
		if !node.boundary.Intersects(rect) {
			continue
		}

		if node.divided {
			stack = append(stack, node.children[:]...)
			continue
		}

		for _, p := range node.points {
			if rect.ContainsPoint(p.Point()) {
				found = append(found, p)
			}
		}
	}
	return found
}

type pointDist struct {
	p    QuadPoint
	dist float64
}

// QueryNearest returns up to maxCount points within maxDistance of (x, y), nearest first.
// equidistant points are ordered by id.
func (qt *QuadTree) QueryNearest(x, y float64, maxCount int, maxDistance float64) []QuadPoint {
	if maxCount <= 0 || maxDistance < 0 || math.IsNaN(maxDistance) {
		return []QuadPoint{}
	}

	center := r2.Point{X: x, Y: y}
	box := r2.RectFromCenterSize(center, r2.Point{X: 2 * maxDistance, Y: 2 * maxDistance})
	candidates := qt.QueryRange(box)

	inCircle := make([]pointDist, 0, len(candidates))
	for _, p := range candidates {
		d := p.Point().Sub(center).Norm()
		if d <= maxDistance {
			inCircle = append(inCircle, pointDist{p, d})
		}
	}
	sortPointDists(inCircle)

	if len(inCircle) > maxCount {
		inCircle = inCircle[:maxCount]
	}
	res := make([]QuadPoint, len(inCircle))
	for i, pd := range inCircle {
		res[i] = pd.p
	}
	return res
}

func sortPointDists(pds []pointDist) {
	sort.Slice(pds, func(i, j int) bool {
		if pds[i].dist != pds[j].dist {
			return pds[i].dist < pds[j].dist
		}
		return pds[i].p.ID < pds[j].p.ID
	})
}

// QuadTreeBoundary one node of the tree, used to draw the partition.
type QuadTreeBoundary struct {
	MinX        float64 `json:"x_min"`
	MinY        float64 `json:"y_min"`
	MaxX        float64 `json:"x_max"`
	MaxY        float64 `json:"y_max"`
	Level       int     `json:"level"`
	PointsCount int     `json:"points_count"`
	Divided     bool    `json:"divided"`
}

// Boundaries lists every node with the number of points stored below it.
func (qt *QuadTree) Boundaries() []QuadTreeBoundary {
	counts := make([]int, len(qt.nodes))
	// children always have a larger index than their parent.
	for i := len(qt.nodes) - 1; i >= 0; i-- {
		node := &qt.nodes[i]
		if !node.divided {
			counts[i] = len(node.points)
			continue
		}
		for _, c := range node.children {
			counts[i] += counts[c]
		}
	}

	res := make([]QuadTreeBoundary, len(qt.nodes))
	for i, node := range qt.nodes {
		res[i] = QuadTreeBoundary{
			MinX:        node.boundary.X.Lo,
			MinY:        node.boundary.Y.Lo,
			MaxX:        node.boundary.X.Hi,
			MaxY:        node.boundary.Y.Hi,
			Level:       node.depth,
			PointsCount: counts[i],
			Divided:     node.divided,
		}
	}
	return res
}
