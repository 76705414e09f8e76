package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequestsTotal      *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
	simulationTicksTotal   prometheus.Counter
	simulationTickDuration prometheus.Histogram
	meanCongestionRatio    prometheus.Gauge
	websocketClients       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roadsim",
			Name:      "http_requests_total",
			Help:      "Number of http requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roadsim",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of http requests by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		simulationTicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roadsim",
			Name:      "traffic_ticks_total",
			Help:      "Number of traffic simulation ticks.",
		}),
		simulationTickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roadsim",
			Name:      "traffic_tick_duration_seconds",
			Help:      "Duration of one traffic tick including the snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		meanCongestionRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roadsim",
			Name:      "traffic_mean_congestion_ratio",
			Help:      "Mean current_vehicles / capacity over all roads after the last tick.",
		}),
		websocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roadsim",
			Name:      "traffic_websocket_clients",
			Help:      "Connected traffic websocket clients.",
		}),
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.simulationTicksTotal,
		m.simulationTickDuration,
		m.meanCongestionRatio,
		m.websocketClients,
	)
	return m
}

// ObserveTick records one simulation tick.
func (m *Metrics) ObserveTick(duration time.Duration, meanCongestion float64) {
	m.simulationTicksTotal.Inc()
	m.simulationTickDuration.Observe(duration.Seconds())
	m.meanCongestionRatio.Set(meanCongestion)
}

func PromeHttpMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// the pattern is only known after routing, and keeps the label cardinality bounded.
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			m.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		}
		return http.HandlerFunc(fn)
	}
}
