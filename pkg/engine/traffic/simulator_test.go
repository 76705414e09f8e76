package traffic

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMetrics struct {
	mu    sync.Mutex
	ticks int
}

func (r *recordingMetrics) ObserveTick(time.Duration, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
}

func (r *recordingMetrics) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

func TestSimulatorStep(t *testing.T) {
	g := newRandomGraph(t, 2, 20)
	metrics := &recordingMetrics{}
	sim := NewSimulator(g, NewTrafficModel(WithSeed(1)), WithMetrics(metrics))

	updates, cancel := sim.Subscribe(1)
	defer cancel()

	states := sim.Step()
	assert.Len(t, states, g.NumEdges())
	assert.Equal(t, 1, metrics.count())

	select {
	case got := <-updates:
		assert.Equal(t, states, got)
	default:
		t.Fatal("expected a published snapshot")
	}
}

func TestSimulatorStartStop(t *testing.T) {
	g := newRandomGraph(t, 3, 20)
	sim := NewSimulator(g, NewTrafficModel(), WithInterval(5*time.Millisecond))

	updates, cancel := sim.Subscribe(4)
	defer cancel()

	assert.True(t, sim.Start(context.Background()))
	assert.False(t, sim.Start(context.Background()))
	assert.True(t, sim.Running())

	select {
	case states := <-updates:
		assert.Len(t, states, g.NumEdges())
	case <-time.After(2 * time.Second):
		t.Fatal("no traffic update received")
	}

	assert.True(t, sim.Stop())
	assert.False(t, sim.Stop())
	assert.False(t, sim.Running())

	// restart after stop
	assert.True(t, sim.Start(context.Background()))
	assert.True(t, sim.Stop())
}

func TestSimulatorStopsWithContext(t *testing.T) {
	g := newRandomGraph(t, 4, 10)
	sim := NewSimulator(g, NewTrafficModel(), WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, sim.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !sim.Running() }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, sim.Stop())
}

func TestSimulatorSlowSubscriberDoesNotBlock(t *testing.T) {
	g := datastructure.NewGraph()
	g.CreateVertex(0, 0)
	g.CreateVertex(1, 1)
	_, err := g.CreateEdge(0, 1)
	require.NoError(t, err)

	sim := NewSimulator(g, NewTrafficModel())
	_, cancel := sim.Subscribe(1)

	for i := 0; i < 10; i++ {
		sim.Step()
	}
	cancel()
	cancel()
	sim.Step()
}
