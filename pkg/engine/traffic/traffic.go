// Package traffic simulates per-edge vehicle load and turns it into travel time.
package traffic

import (
	"math"
	"sync"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/lintang-b-s/roadsim/pkg/util"
	"golang.org/x/exp/rand"
)

const (
	DefaultCongestionThreshold = 0.5
	heavyCongestionThreshold   = 0.7
	heavyCongestionPenalty     = 1.2

	mallDemandFactor = 1.5
	// non-mall edges may run this far over capacity.
	capacitySlack = 1.05

	maxPerturbation   = 2
	maxRedistribution = 5
)

const (
	LevelFree = iota
	LevelLight
	LevelModerate
	LevelHeavy
	LevelSevere
)

var (
	levelColors = [...]string{"#00FF00", "#90EE90", "#FFFF00", "#FFA500", "#FF0000"}
	levelNames  = [...]string{"free", "light", "moderate", "heavy", "severe"}
)

func ColorForLevel(level int) string {
	if level < LevelFree || level > LevelSevere {
		return "#808080"
	}
	return levelColors[level]
}

func LevelName(level int) string {
	if level < LevelFree || level > LevelSevere {
		return "unknown"
	}
	return levelNames[level]
}

type TrafficModel struct {
	threshold float64

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

type Option func(*TrafficModel)

func WithSeed(seed uint64) Option {
	return func(m *TrafficModel) {
		m.rng = util.NewRand(seed)
	}
}

// WithCongestionThreshold sets the load ratio up to which an edge runs at free-flow speed.
func WithCongestionThreshold(threshold float64) Option {
	return func(m *TrafficModel) {
		if threshold > 0 {
			m.threshold = threshold
		}
	}
}

func NewTrafficModel(opts ...Option) *TrafficModel {
	m := &TrafficModel{
		threshold: DefaultCongestionThreshold,
		rng:       util.NewRand(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TravelTime length scaled by the congestion multiplier. the multiplier is 1 up to the threshold, e^r up to 0.7
// and 1.2 + e^r above, where r = max(current_vehicles, 1) / capacity.
func (m *TrafficModel) TravelTime(e datastructure.Edge) float64 {
	if e.Capacity <= 0 {
		return e.Length
	}
	r := float64(max(e.CurrentVehicles, 1)) / float64(e.Capacity)

	var f float64
	switch {
	case r <= m.threshold:
		f = 1
	case r <= heavyCongestionThreshold:
		f = math.Exp(r)
	default:
		f = heavyCongestionPenalty + math.Exp(r)
	}
	return e.Length * f
}

// CongestionLevel bands current_vehicles / capacity at 0.5, 0.7, 0.8 and 0.9 into LevelFree..LevelSevere.
func (m *TrafficModel) CongestionLevel(e datastructure.Edge) int {
	r := e.CongestionRatio()
	switch {
	case r < 0.5:
		return LevelFree
	case r < 0.7:
		return LevelLight
	case r < 0.8:
		return LevelModerate
	case r < 0.9:
		return LevelHeavy
	default:
		return LevelSevere
	}
}

// Initialize boosts the load of mall edges by half, capped at capacity.
func (m *TrafficModel) Initialize(g *datastructure.Graph) {
	g.UpdateEdgeLoads(func(tx *datastructure.EdgeLoadTx) {
		for id := int32(0); int(id) < tx.NumEdges(); id++ {
			e := tx.Edge(id)
			if !e.MallConnection {
				continue
			}
			tx.SetVehicles(id, min(e.Capacity, int(float64(e.CurrentVehicles)*mallDemandFactor)))
		}
	})
}

// Tick one simulation step. every edge load is perturbed by a random amount in [-2, 2] (half again for mall edges)
// and clamped to [0, ceiling], then up to 5 vehicles of each edge move to its adjacent edges, favouring the
// least loaded ones. the whole step runs under the graph write lock.
func (m *TrafficModel) Tick(g *datastructure.Graph) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g.UpdateEdgeLoads(func(tx *datastructure.EdgeLoadTx) {
		n := int32(tx.NumEdges())
		for id := int32(0); id < n; id++ {
			m.perturb(tx, id)
		}
		for id := int32(0); id < n; id++ {
			redistribute(tx, id)
		}
	})
}

func (m *TrafficModel) perturb(tx *datastructure.EdgeLoadTx, id int32) {
	e := tx.Edge(id)
	change := util.RandIntRange(m.rng, -maxPerturbation, maxPerturbation)

	ceiling := int(float64(e.Capacity) * capacitySlack)
	if e.MallConnection {
		change = int(float64(change) * mallDemandFactor)
		ceiling = e.Capacity
	}
	tx.SetVehicles(id, min(ceiling, max(0, e.CurrentVehicles+change)))
}

func redistribute(tx *datastructure.EdgeLoadTx, id int32) {
	e := tx.Edge(id)
	if e.CurrentVehicles <= 0 {
		return
	}
	adjacent := tx.AdjacentEdges(id)
	if len(adjacent) == 0 {
		return
	}

	weights := make([]float64, len(adjacent))
	total := 0.0
	for i, adjID := range adjacent {
		adj := tx.Edge(adjID)
		weights[i] = float64(adj.Capacity) / float64(max(adj.CurrentVehicles, 1))
		total += weights[i]
	}
	if total <= 0 {
		return
	}

	amount := min(e.CurrentVehicles, maxRedistribution)
	tx.AddVehicles(id, -amount)
	for i, adjID := range adjacent {
		tx.AddVehicles(adjID, int(float64(amount)*weights[i]/total))
	}
}

type EdgeState struct {
	ID              int32   `json:"id"`
	Source          int32   `json:"source"`
	Target          int32   `json:"target"`
	CurrentVehicles int     `json:"current_vehicles"`
	Capacity        int     `json:"capacity"`
	Level           int     `json:"level"`
	Color           string  `json:"color"`
	TravelTime      float64 `json:"travel_time"`
}

// Snapshot returns the traffic state of every edge ordered by id.
func (m *TrafficModel) Snapshot(g *datastructure.Graph) []EdgeState {
	edges := g.Edges()
	states := make([]EdgeState, len(edges))
	for i, e := range edges {
		level := m.CongestionLevel(e)
		states[i] = EdgeState{
			ID:              e.ID,
			Source:          e.Source,
			Target:          e.Target,
			CurrentVehicles: e.CurrentVehicles,
			Capacity:        e.Capacity,
			Level:           level,
			Color:           ColorForLevel(level),
			TravelTime:      m.TravelTime(e),
		}
	}
	return states
}

// MeanCongestionRatio average current_vehicles / capacity over states.
func MeanCongestionRatio(states []EdgeState) float64 {
	if len(states) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range states {
		if s.Capacity > 0 {
			sum += float64(s.CurrentVehicles) / float64(s.Capacity)
		}
	}
	return sum / float64(len(states))
}
