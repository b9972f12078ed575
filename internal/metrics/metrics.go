// Package metrics exposes control-loop counters in Prometheus format and keeps
// a smoothed view of cycle latency for the status endpoint.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/VividCortex/ewma"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/willibrandon/eventarb/internal/logger"
)

const (
	metricPrefix = "eventarb_"

	transitionShown   = "shown"
	transitionCleared = "cleared"
)

// Metrics holds the collectors of one control loop. Each instance owns its
// registry so several loops (and tests) never collide.
type Metrics struct {
	registry *prometheus.Registry

	cycles       prometheus.Counter
	surfaced     *prometheus.CounterVec
	selected     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	activeEvents prometheus.Gauge
	cycleLatency prometheus.Histogram
	overruns     prometheus.Counter

	mu      sync.Mutex
	latency ewma.MovingAverage
	recent  *SampleBuffer
}

// New creates and registers the control-loop collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "cycles_total",
			Help: "Total control cycles processed",
		}),
		surfaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_surfaced_total",
				Help: "Alerts that passed creation-delay gating, by event type",
			},
			[]string{"event_type"},
		),
		selected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_selected_total",
				Help: "Cycles in which an alert was selected for display, by alert type",
			},
			[]string{"alert_type"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alert_transitions_total",
				Help: "Changes of the displayed alert, by kind",
			},
			[]string{"kind"},
		),
		activeEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "active_events",
			Help: "Active events in the most recent cycle, counting duplicates",
		}),
		cycleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "cycle_latency_seconds",
			Help:    "Time spent arbitrating one control cycle",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
		overruns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "cycle_overruns_total",
			Help: "Cycles whose processing exceeded the cycle period",
		}),
		latency: ewma.NewMovingAverage(),
		recent:  NewSampleBuffer(DefaultSampleCapacity),
	}

	m.registry.MustRegister(
		m.cycles,
		m.surfaced,
		m.selected,
		m.transitions,
		m.activeEvents,
		m.cycleLatency,
		m.overruns,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CycleSample describes one finished cycle.
type CycleSample struct {
	Duration     time.Duration
	Budget       time.Duration
	ActiveEvents int
	Surfaced     []string // event type of every surfaced alert
	Selected     string   // alert type of the chosen alert, empty if none
}

// ObserveCycle records one finished cycle.
func (m *Metrics) ObserveCycle(s CycleSample) {
	m.cycles.Inc()
	m.activeEvents.Set(float64(s.ActiveEvents))
	m.cycleLatency.Observe(s.Duration.Seconds())
	if s.Budget > 0 && s.Duration > s.Budget {
		m.overruns.Inc()
	}
	for _, et := range s.Surfaced {
		m.surfaced.WithLabelValues(et).Inc()
	}
	if s.Selected != "" {
		m.selected.WithLabelValues(s.Selected).Inc()
	}

	m.mu.Lock()
	m.latency.Add(float64(s.Duration))
	m.mu.Unlock()
	m.recent.Push(LatencySample{At: time.Now(), Duration: s.Duration})
}

// ObserveTransition records a change of the displayed alert.
func (m *Metrics) ObserveTransition(cleared bool) {
	kind := transitionShown
	if cleared {
		kind = transitionCleared
	}
	m.transitions.WithLabelValues(kind).Inc()
}

// LatencyStats summarizes recent cycle latency.
type LatencyStats struct {
	Average time.Duration `json:"average"`
	Max     time.Duration `json:"max"`
	Last    time.Duration `json:"last"`
	Samples int           `json:"samples"`
}

// Latency returns the exponentially weighted average, plus the maximum and
// last value over the most recent cycles.
func (m *Metrics) Latency() LatencyStats {
	m.mu.Lock()
	avg := time.Duration(m.latency.Value())
	m.mu.Unlock()

	stats := LatencyStats{
		Average: avg,
		Max:     m.recent.Max(),
		Samples: m.recent.Len(),
	}
	if last, ok := m.recent.Latest(); ok {
		stats.Last = last.Duration
	}
	return stats
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// RecentLatency returns the latency of the last n cycles, oldest first.
func (m *Metrics) RecentLatency(n int) []LatencySample {
	return m.recent.GetRecent(n)
}
