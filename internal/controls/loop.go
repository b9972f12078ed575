// Package controls drives the per-cycle arbitration: it feeds raised events
// into an aggregator, selects the alert to display, and publishes the result.
package controls

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/events"
	"github.com/willibrandon/eventarb/internal/logger"
	"github.com/willibrandon/eventarb/internal/metrics"
)

// Recorder persists changes of the displayed alert.
type Recorder interface {
	RecordTransition(ctx context.Context, t *alerts.Transition) error
}

// Publisher receives the outcome of every cycle. Publish is called from the
// loop goroutine and must not block.
type Publisher interface {
	Publish(s Snapshot)
}

// Input is everything raised during one cycle.
type Input struct {
	// Events are raised for this cycle only.
	Events []events.EventID

	// Static events are raised now and in every later cycle.
	Static []events.EventID

	// Types restricts which event types are resolved to alerts.
	// Nil means every type.
	Types []events.EventType

	Telemetry         alerts.Telemetry
	SoftDisableCycles int
}

// Result is the outcome of one cycle.
type Result struct {
	Cycle uint64

	// Message is the published form of the cycle's active events.
	Message []events.Record

	// Alerts are every alert that passed gating, in aggregator order.
	Alerts []alerts.Alert

	// Selected is the highest-priority alert, nil if none surfaced.
	Selected *alerts.Alert

	// Transition is set when Selected differs from the previous cycle.
	Transition *alerts.Transition
}

// Snapshot is what the loop publishes for other processes.
type Snapshot struct {
	RunID    string          `json:"run_id"`
	Cycle    uint64          `json:"cycle"`
	Events   []events.Record `json:"events"`
	Alerts   []alerts.Alert  `json:"alerts"`
	Selected *alerts.Alert   `json:"selected,omitempty"`
	At       time.Time       `json:"at"`
}

// Loop runs arbitration cycles. It owns its aggregator and is not safe for
// concurrent use; share results through a Publisher.
type Loop struct {
	agg    *events.Aggregator
	params alerts.VehicleParams
	metric bool

	runID   string
	cycle   uint64
	current string

	recorder  Recorder
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	log       *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithRecorder persists alert transitions.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// WithPublisher publishes a snapshot after every cycle.
func WithPublisher(p Publisher) Option {
	return func(l *Loop) { l.publisher = p }
}

// WithMetrics records cycle metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loop) { l.metrics = m }
}

// WithClock overrides the wall clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(l *Loop) { l.runID = id }
}

// New creates a loop over registry.
func New(registry *events.Registry, params alerts.VehicleParams, metric bool, opts ...Option) *Loop {
	l := &Loop{
		agg:    events.NewAggregator(registry),
		params: params,
		metric: metric,
		runID:  uuid.New().String(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = logger.With("run_id", l.runID)
	return l
}

// RunID identifies this loop instance in history and snapshots.
func (l *Loop) RunID() string {
	return l.runID
}

// Cycle returns the number of completed cycles.
func (l *Loop) Cycle() uint64 {
	return l.cycle
}

// Current returns the alert type currently displayed, empty if none.
func (l *Loop) Current() string {
	return l.current
}

// Registry returns the registry the loop arbitrates against.
func (l *Loop) Registry() *events.Registry {
	return l.agg.Registry()
}

// Step runs one complete cycle: raise, snapshot, resolve, select, clear.
// An unregistered event id panics with *events.RegistryMismatchError.
func (l *Loop) Step(ctx context.Context, in Input) Result {
	start := time.Now()

	for _, id := range in.Static {
		l.agg.AddStatic(id)
	}
	for _, id := range in.Events {
		l.agg.Add(id)
	}

	types := in.Types
	if types == nil {
		types = events.AllEventTypes
	}

	res := Result{
		Cycle:   l.cycle,
		Message: l.agg.ToMessage(),
	}
	active := l.agg.Len()

	res.Alerts = l.agg.CreateAlerts(types, alerts.Context{
		Params:            l.params,
		Telemetry:         in.Telemetry,
		Metric:            l.metric,
		SoftDisableCycles: in.SoftDisableCycles,
	})
	if best, ok := alerts.Highest(res.Alerts); ok {
		res.Selected = &best
	}

	next := ""
	if res.Selected != nil {
		next = res.Selected.AlertType
	}
	if next != l.current {
		t := alerts.NewTransition(l.runID, l.cycle, l.current, res.Selected, l.now())
		res.Transition = &t
		l.onTransition(ctx, &t)
		l.current = next
	}

	l.agg.Clear()
	l.cycle++

	if l.metrics != nil {
		surfaced := make([]string, len(res.Alerts))
		for i, a := range res.Alerts {
			surfaced[i] = a.EventType
		}
		l.metrics.ObserveCycle(metrics.CycleSample{
			Duration:     time.Since(start),
			Budget:       time.Duration(alerts.CyclePeriod * float64(time.Second)),
			ActiveEvents: active,
			Surfaced:     surfaced,
			Selected:     next,
		})
	}

	if l.publisher != nil {
		l.publisher.Publish(Snapshot{
			RunID:    l.runID,
			Cycle:    res.Cycle,
			Events:   res.Message,
			Alerts:   res.Alerts,
			Selected: res.Selected,
			At:       l.now(),
		})
	}

	return res
}

func (l *Loop) onTransition(ctx context.Context, t *alerts.Transition) {
	if t.Cleared() {
		l.log.Info("alert cleared", "cycle", t.Cycle, "prev_alert_type", t.PrevAlertType)
	} else {
		l.log.Info("alert selected",
			"cycle", t.Cycle,
			"alert_type", t.AlertType,
			"prev_alert_type", t.PrevAlertType,
			"priority", t.Priority.String(),
			"status", string(t.Status))
	}

	if l.metrics != nil {
		l.metrics.ObserveTransition(t.Cleared())
	}

	if l.recorder != nil {
		saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := l.recorder.RecordTransition(saveCtx, t); err != nil {
			l.log.Warn("failed to persist alert transition",
				"transition", t.Describe(),
				"error", err.Error())
		}
	}
}
