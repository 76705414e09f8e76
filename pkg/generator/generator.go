// Package generator builds random connected road maps.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/golang/geo/r2"
	"github.com/k0kubun/go-ansi"
	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/util"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/rand"
)

const (
	initialNeighbors    = 3
	extraEdgeCandidates = 10
	attemptsPerPoint    = 10
)

var ErrInvalidConfig = errors.New("invalid generator config")

type Config struct {
	NumVertices     int
	Width           float64
	Height          float64
	MinDistance     float64
	EdgeFactor      float64
	Seed            uint64
	MallProbability float64
	// Quiet hides the progress bars.
	Quiet bool
}

func DefaultConfig() Config {
	return Config{
		NumVertices:     2000,
		Width:           1000,
		Height:          1000,
		MinDistance:     1.0,
		EdgeFactor:      2.5,
		Seed:            42,
		MallProbability: 0.01,
	}
}

func (c Config) validate() error {
	if c.NumVertices < 0 {
		return fmt.Errorf("num vertices %d: %w", c.NumVertices, ErrInvalidConfig)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("map size %vx%v: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if c.MinDistance < 0 || c.EdgeFactor < 0 {
		return fmt.Errorf("min distance %v, edge factor %v: %w", c.MinDistance, c.EdgeFactor, ErrInvalidConfig)
	}
	return nil
}

func newBar(cfg Config, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetVisibility(!cfg.Quiet),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// Generate draws random points and wires them into a connected road map with a built spatial index.
func Generate(ctx context.Context, cfg Config) (*datastructure.Graph, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := util.NewRand(cfg.Seed)

	points, err := RandomPoints(ctx, cfg, rng)
	if err != nil {
		return nil, err
	}
	return ConnectedMap(ctx, points, cfg, rng)
}

// RandomPoints draws cfg.NumVertices points inside the map with at least cfg.MinDistance between any two.
// the spacing is halved every time attemptsPerPoint*n draws in a row fail to place the remaining points.
func RandomPoints(ctx context.Context, cfg Config, rng *rand.Rand) ([]r2.Point, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	bound := r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: cfg.Width, Y: cfg.Height})
	placed := datastructure.NewQuadTree(bound, datastructure.DefaultQuadTreeCapacity)
	points := make([]r2.Point, 0, cfg.NumVertices)

	bar := newBar(cfg, cfg.NumVertices, "[cyan][1/4][reset] placing random points ...")
	defer bar.Finish()

	minDistance := cfg.MinDistance
	attempts := 0
	maxAttempts := cfg.NumVertices * attemptsPerPoint
	for len(points) < cfg.NumVertices {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempts >= maxAttempts {
			minDistance *= 0.5
			attempts = 0
			slog.Debug("reducing minimum point spacing", "min_distance", minDistance, "placed", len(points))
		}
		attempts++

		p := r2.Point{X: rng.Float64() * cfg.Width, Y: rng.Float64() * cfg.Height}
		if minDistance > 0 {
			closest := placed.QueryNearest(p.X, p.Y, 1, minDistance)
			if len(closest) > 0 && closest[0].Point().Sub(p).Norm() < minDistance {
				continue
			}
		}

		placed.Insert(datastructure.QuadPoint{ID: int32(len(points)), X: p.X, Y: p.Y})
		points = append(points, p)
		bar.Add(1)
	}
	return points, nil
}

// ConnectedMap turns points into a connected graph: every vertex is joined to its nearest neighbours,
// components are stitched together, extra edges are added up to EdgeFactor*V/2 and finally vertex kinds are tagged.
func ConnectedMap(ctx context.Context, points []r2.Point, cfg Config, rng *rand.Rand) (*datastructure.Graph, error) {
	g := datastructure.NewGraph(datastructure.WithSeed(cfg.Seed))
	for _, p := range points {
		g.CreateVertex(p.X, p.Y)
	}
	g.BuildSpatialIndex()

	if err := connectNearest(ctx, g, cfg); err != nil {
		return nil, err
	}
	if err := ensureConnectivity(ctx, g); err != nil {
		return nil, err
	}
	if err := addAdditionalEdges(ctx, g, cfg, rng); err != nil {
		return nil, err
	}
	if err := tagVertexKinds(g, cfg, rng); err != nil {
		return nil, err
	}

	slog.Info("generated road map", "vertices", g.NumVertices(), "edges", g.NumEdges())
	return g, nil
}

func connectNearest(ctx context.Context, g *datastructure.Graph, cfg Config) error {
	vertices := g.Vertices()
	bar := newBar(cfg, len(vertices), "[cyan][2/4][reset] connecting nearest neighbours ...")
	defer bar.Finish()

	for _, v := range vertices {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// the vertex itself comes back first.
		for _, n := range g.GetNearbyVertices(v.X, v.Y, initialNeighbors+1) {
			if n.ID == v.ID {
				continue
			}
			if _, err := g.CreateEdge(v.ID, n.ID); err != nil {
				return err
			}
		}
		bar.Add(1)
	}
	return nil
}

// ensureConnectivity joins every pair of consecutive components through their closest vertex pair.
func ensureConnectivity(ctx context.Context, g *datastructure.Graph) error {
	if g.IsConnected() {
		return nil
	}

	components := g.ConnectedComponents()
	vertices := g.Vertices()
	slog.Debug("stitching components", "count", len(components))

	for i := 0; i+1 < len(components); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		bestDist := math.Inf(1)
		var from, to int32
		for _, a := range components[i] {
			for _, b := range components[i+1] {
				d := vertices[a].DistanceTo(vertices[b])
				if d < bestDist {
					bestDist, from, to = d, a, b
				}
			}
		}
		if _, err := g.CreateEdge(from, to); err != nil {
			return err
		}
	}
	return nil
}

func addAdditionalEdges(ctx context.Context, g *datastructure.Graph, cfg Config, rng *rand.Rand) error {
	n := g.NumVertices()
	target := int(cfg.EdgeFactor * float64(n) / 2)
	if n < 2 || g.NumEdges() >= target {
		return nil
	}

	vertices := g.Vertices()
	bar := newBar(cfg, target-g.NumEdges(), "[cyan][3/4][reset] adding extra roads ...")
	defer bar.Finish()

	maxAttempts := n * attemptsPerPoint
	for attempt := 0; attempt < maxAttempts && g.NumEdges() < target; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		v := vertices[rng.Intn(n)]
		candidates := g.GetNearbyVertices(v.X, v.Y, extraEdgeCandidates+1)
		other := candidates[rng.Intn(len(candidates))]
		if other.ID == v.ID {
			continue
		}
		if _, exists := g.GetEdgeBetween(v.ID, other.ID); exists {
			continue
		}
		if _, err := g.CreateEdge(v.ID, other.ID); err != nil {
			return err
		}
		bar.Add(1)
	}
	return nil
}

var taggedKinds = []datastructure.VertexKind{
	datastructure.VertexKindGasStation,
	datastructure.VertexKindShoppingMall,
	datastructure.VertexKindParkingLot,
}

func tagVertexKinds(g *datastructure.Graph, cfg Config, rng *rand.Rand) error {
	for id := 0; id < g.NumVertices(); id++ {
		if rng.Float64() >= cfg.MallProbability {
			continue
		}
		kind := taggedKinds[rng.Intn(len(taggedKinds))]
		if err := g.SetVertexKind(int32(id), kind); err != nil {
			return err
		}
	}
	return nil
}
