package traffic

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lintang-b-s/roadsim/pkg/datastructure"
)

const DefaultTickInterval = 2 * time.Second

type Metrics interface {
	ObserveTick(duration time.Duration, meanCongestion float64)
}

type noopMetrics struct{}

func (noopMetrics) ObserveTick(time.Duration, float64) {}

// Simulator ticks a TrafficModel on a timer and fans every resulting snapshot out to subscribers.
type Simulator struct {
	g        *datastructure.Graph
	model    *TrafficModel
	interval time.Duration
	logger   *slog.Logger
	metrics  Metrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	subsMu  sync.RWMutex
	subs    map[int]chan []EdgeState
	nextSub int
}

type SimulatorOption func(*Simulator)

func WithInterval(interval time.Duration) SimulatorOption {
	return func(s *Simulator) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithLogger(logger *slog.Logger) SimulatorOption {
	return func(s *Simulator) {
		s.logger = logger
	}
}

func WithMetrics(m Metrics) SimulatorOption {
	return func(s *Simulator) {
		s.metrics = m
	}
}

func NewSimulator(g *datastructure.Graph, model *TrafficModel, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		g:        g,
		model:    model,
		interval: DefaultTickInterval,
		logger:   slog.Default(),
		metrics:  noopMetrics{},
		subs:     make(map[int]chan []EdgeState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the tick loop. returns false if it is already running.
// the loop stops on Stop or when ctx is done.
func (s *Simulator) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(loopCtx, s.done)
	s.logger.Info("traffic simulation started", slog.Duration("interval", s.interval))
	return true
}

// Stop halts the tick loop and waits for it to exit. returns false if it was not running.
func (s *Simulator) Stop() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("traffic simulation stopped")
	return true
}

func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Simulator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.done == done {
				s.running = false
			}
			s.mu.Unlock()
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step runs one tick outside the timer and publishes the new state.
func (s *Simulator) Step() []EdgeState {
	start := time.Now()
	s.model.Tick(s.g)
	states := s.model.Snapshot(s.g)
	s.metrics.ObserveTick(time.Since(start), MeanCongestionRatio(states))
	s.publish(states)
	return states
}

// Snapshot current traffic state without ticking.
func (s *Simulator) Snapshot() []EdgeState {
	return s.model.Snapshot(s.g)
}

// Subscribe returns a channel receiving every snapshot published after the call. a subscriber that falls
// behind misses snapshots rather than blocking the simulation. cancel releases the subscription.
func (s *Simulator) Subscribe(buffer int) (<-chan []EdgeState, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan []EdgeState, buffer)

	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(ch)
		})
	}
}

func (s *Simulator) publish(states []EdgeState) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- states:
		default:
		}
	}
}
