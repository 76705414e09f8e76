// Package clustering groups road network vertices by density for multi-resolution map views.
package clustering

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
)

const Noise = -1

var ErrInvalidParams = errors.New("invalid clustering parameters")

type SpatialGraph interface {
	Vertices() []datastructure.Vertex
	VertexIDsInRadius(x, y, r float64) []int32
}

// Params eps is the neighbourhood radius, MinSamples counts the point itself. MaxClusterSize <= 0 means unbounded.
type Params struct {
	Eps            float64
	MinSamples     int
	MaxClusterSize int
}

func (p Params) validate() error {
	if p.Eps < 0 {
		return fmt.Errorf("eps %v: %w", p.Eps, ErrInvalidParams)
	}
	if p.MinSamples < 1 {
		return fmt.Errorf("min samples %d: %w", p.MinSamples, ErrInvalidParams)
	}
	return nil
}

// Cluster Members are in the order they were claimed, Representative is the core point that opened the cluster.
type Cluster struct {
	ID             int
	Representative int32
	Members        []int32
}

type Result struct {
	Labels   map[int32]int
	Clusters []Cluster
}

// Noise returns the ids labelled Noise in ascending order.
func (r Result) Noise() []int32 {
	noise := make([]int32, 0)
	for id, label := range r.Labels {
		if label == Noise {
			noise = append(noise, id)
		}
	}
	sort.Slice(noise, func(i, j int) bool { return noise[i] < noise[j] })
	return noise
}

type dbscanRun struct {
	g      SpatialGraph
	params Params
	pos    map[int32]datastructure.Vertex
	labels map[int32]int
	// core records the core check of every vertex whose neighbourhood has been scanned.
	core map[int32]bool
}

// DBSCAN clusters the vertices present when the run starts, visiting them by ascending id. a vertex is labelled
// at most once, border points go to the first cluster that reaches them.
func DBSCAN(ctx context.Context, g SpatialGraph, params Params) (Result, error) {
	if err := params.validate(); err != nil {
		return Result{}, err
	}

	vertices := g.Vertices()
	run := &dbscanRun{
		g:      g,
		params: params,
		pos:    make(map[int32]datastructure.Vertex, len(vertices)),
		labels: make(map[int32]int, len(vertices)),
		core:   make(map[int32]bool),
	}
	for _, v := range vertices {
		run.pos[v.ID] = v
		run.labels[v.ID] = Noise
	}

	clusters := make([]Cluster, 0)
	for _, v := range vertices {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		if run.labels[v.ID] != Noise {
			continue
		}
		if _, scanned := run.core[v.ID]; scanned {
			continue
		}

		neighbors, isCore := run.scan(v.ID)
		if !isCore {
			continue
		}

		cluster, err := run.grow(ctx, len(clusters), v.ID, neighbors)
		if err != nil {
			return Result{}, err
		}
		clusters = append(clusters, cluster)
	}

	return Result{Labels: run.labels, Clusters: clusters}, nil
}

// scan box-then-circle neighbourhood of id, restricted to vertices in the run snapshot.
func (r *dbscanRun) scan(id int32) ([]int32, bool) {
	v := r.pos[id]
	found := r.g.VertexIDsInRadius(v.X, v.Y, r.params.Eps)

	neighbors := make([]int32, 0, len(found))
	for _, n := range found {
		if _, ok := r.labels[n]; ok {
			neighbors = append(neighbors, n)
		}
	}
	isCore := len(neighbors) >= r.params.MinSamples
	r.core[id] = isCore
	return neighbors, isCore
}

func (r *dbscanRun) full(c *Cluster) bool {
	return r.params.MaxClusterSize > 0 && len(c.Members) >= r.params.MaxClusterSize
}

func (r *dbscanRun) grow(ctx context.Context, clusterID int, seed int32, seedNeighbors []int32) (Cluster, error) {
	c := Cluster{ID: clusterID, Representative: seed, Members: []int32{seed}}
	r.labels[seed] = clusterID

	queue := make([]int32, 0, len(seedNeighbors))
	claim := func(ids []int32) {
		for _, id := range ids {
			if r.full(&c) {
				return
			}
			if r.labels[id] != Noise {
				continue
			}
			r.labels[id] = clusterID
			c.Members = append(c.Members, id)
			queue = append(queue, id)
		}
	}

	claim(seedNeighbors)
	for len(queue) > 0 && !r.full(&c) {
		select {
		case <-ctx.Done():
			return Cluster{}, ctx.Err()
		default:
		}

		p := queue[0]
		queue = queue[1:]
		if _, scanned := r.core[p]; scanned {
			continue
		}
		neighbors, isCore := r.scan(p)
		if isCore {
			claim(neighbors)
		}
	}
	return c, nil
}
