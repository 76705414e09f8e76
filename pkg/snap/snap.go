// Package snap maps free points onto the nearest road segments.
package snap

import (
	"log/slog"
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/r2"
	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/geo"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	// margin added around every segment bounding box, so axis aligned segments still have an area.
	edgeBBMargin     = 0.5
	maxSnapRetries   = 32
)

type RoadGraph interface {
	Vertices() []datastructure.Vertex
	Edges() []datastructure.Edge
}

type roadSegment struct {
	edge datastructure.Edge
	a, b r2.Point
	rect rtreego.Rect
}

func (s *roadSegment) Bounds() rtreego.Rect {
	return s.rect
}

// SnappedRoad a road segment near the query point. Projection is the closest point on the segment.
type SnappedRoad struct {
	EdgeID     int32    `json:"edge_id"`
	Source     int32    `json:"source"`
	Target     int32    `json:"target"`
	Distance   float64  `json:"distance"`
	Projection r2.Point `json:"-"`
}

type RoadSnapper struct {
	rtree    *rtreego.Rtree
	bound    r2.Rect
	segments int
}

func NewRoadSnapper() *RoadSnapper {
	return &RoadSnapper{
		rtree: rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren),
		bound: r2.EmptyRect(),
	}
}

// BuildRoadSnapper indexes every edge of g. edges created afterwards need a new snapper.
func (rs *RoadSnapper) BuildRoadSnapper(g RoadGraph) error {
	vertices := g.Vertices()
	for idx, edge := range g.Edges() {
		if (idx+1)%10000 == 0 {
			slog.Info("inserting road segments into r-tree", "count", idx+1)
		}
		if err := rs.insertEdgeToRtree(edge, vertices[edge.Source].Point(), vertices[edge.Target].Point()); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RoadSnapper) insertEdgeToRtree(edge datastructure.Edge, a, b r2.Point) error {
	bb := geo.SegmentBound(a, b, edgeBBMargin)
	rect, err := rtreego.NewRectFromPoints(rtreego.Point{bb.X.Lo, bb.Y.Lo}, rtreego.Point{bb.X.Hi, bb.Y.Hi})
	if err != nil {
		return err
	}
	rs.rtree.Insert(&roadSegment{edge: edge, a: a, b: b, rect: rect})
	rs.bound = rs.bound.Union(bb)
	rs.segments++
	return nil
}

func (rs *RoadSnapper) Size() int {
	return rs.segments
}

// SnapToRoad returns up to k road segments nearest to (x, y) by point to segment distance, nearest first.
// equidistant segments are ordered by edge id.
func (rs *RoadSnapper) SnapToRoad(x, y float64, k int) []SnappedRoad {
	if k <= 0 || rs.segments == 0 {
		return []SnappedRoad{}
	}

	p := r2.Point{X: x, Y: y}
	cover := geo.FarthestCornerDistance(p, rs.bound)
	radius := math.Max(geo.Diagonal(rs.bound)/100, edgeBBMargin)

	for i := 0; i < maxSnapRetries && radius < cover; i++ {
		found := rs.searchRadius(p, radius)
		// any segment closer than the k-th candidate intersects the search box.
		if len(found) >= k && found[k-1].Distance <= radius {
			return found[:k]
		}
		radius *= 2
	}

	found := rs.searchRadius(p, cover)
	if len(found) > k {
		found = found[:k]
	}
	return found
}

func (rs *RoadSnapper) searchRadius(p r2.Point, radius float64) []SnappedRoad {
	box := geo.RectAround(p.X, p.Y, radius)
	rect, err := rtreego.NewRectFromPoints(rtreego.Point{box.X.Lo, box.Y.Lo}, rtreego.Point{box.X.Hi, box.Y.Hi})
	if err != nil {
		return []SnappedRoad{}
	}

	candidates := rs.rtree.SearchIntersect(rect)
	res := make([]SnappedRoad, 0, len(candidates))
	for _, c := range candidates {
		seg := c.(*roadSegment)
		proj := geo.ProjectPointToSegment(p, seg.a, seg.b)
		res = append(res, SnappedRoad{
			EdgeID:     seg.edge.ID,
			Source:     seg.edge.Source,
			Target:     seg.edge.Target,
			Distance:   proj.Sub(p).Norm(),
			Projection: proj,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Distance != res[j].Distance {
			return res[i].Distance < res[j].Distance
		}
		return res[i].EdgeID < res[j].EdgeID
	})
	return res
}
