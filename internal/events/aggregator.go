package events

import (
	"github.com/willibrandon/eventarb/internal/alerts"
)

// Aggregator collects the events raised during one control cycle and decides
// which of their alerts may surface.
//
// An Aggregator is owned by a single control-loop goroutine. Each cycle runs
// Add* -> CreateAlerts* -> Clear, and Clear must run exactly once per cycle
// after the last CreateAlerts call: the gating test assumes the current cycle
// has not yet been folded into the occurrence counters.
type Aggregator struct {
	registry *Registry
	period   float64

	active []EventID
	static []EventID

	// occurrences counts consecutive cycles each id has been active,
	// indexed by EventID and sized to the registry.
	occurrences []int
	present     []bool
}

// NewAggregator creates an aggregator with every occurrence counter at zero.
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{
		registry:    registry,
		period:      alerts.CyclePeriod,
		occurrences: make([]int, registry.Len()),
		present:     make([]bool, registry.Len()),
	}
}

// Registry returns the registry the aggregator was built from.
func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// Add raises id for the current cycle. Adding an id twice is legal.
// It panics with *RegistryMismatchError if id is not registered.
func (a *Aggregator) Add(id EventID) {
	a.registry.mustContain(id)
	a.active = append(a.active, id)
}

// AddStatic raises id now and in every later cycle for the lifetime of the
// aggregator. Static events cannot be removed.
func (a *Aggregator) AddStatic(id EventID) {
	a.registry.mustContain(id)
	a.static = append(a.static, id)
	a.active = append(a.active, id)
}

// Len returns the number of active events, counting duplicates.
func (a *Aggregator) Len() int {
	return len(a.active)
}

// Names returns a copy of the active event ids in insertion order.
func (a *Aggregator) Names() []EventID {
	return append([]EventID(nil), a.active...)
}

// Contains returns true if id is active this cycle.
func (a *Aggregator) Contains(id EventID) bool {
	for _, e := range a.active {
		if e == id {
			return true
		}
	}
	return false
}

// HasType returns true if any active event maps an alert under t.
func (a *Aggregator) HasType(t EventType) bool {
	for _, id := range a.active {
		if _, ok := a.registry.factory(id, t); ok {
			return true
		}
	}
	return false
}

// CreateAlerts resolves the alerts of every active event for each requested
// type the event defines, keeping only alerts whose creation delay has elapsed.
// Results follow active order, then types order within an event. No priority
// sorting is done here.
func (a *Aggregator) CreateAlerts(types []EventType, ctx alerts.Context) []alerts.Alert {
	var ret []alerts.Alert
	for _, id := range a.active {
		for _, t := range types {
			f, ok := a.registry.factory(id, t)
			if !ok {
				continue
			}
			alert := f.Resolve(ctx)
			if !a.elapsed(id, alert.CreationDelay) {
				continue
			}
			alert.AlertType = a.registry.names[id] + "/" + string(t)
			alert.EventType = string(t)
			ret = append(ret, alert)
		}
	}
	return ret
}

// elapsed reports whether id has been active long enough for delay. The +1
// counts the current cycle, which Clear has not folded in yet.
func (a *Aggregator) elapsed(id EventID, delay float64) bool {
	return a.period*float64(a.occurrences[id]+1) >= delay
}

// Clear ends the cycle: counters of events active this cycle advance, all
// others reset to zero, and the active set becomes the static events.
func (a *Aggregator) Clear() {
	for _, id := range a.active {
		a.present[id] = true
	}
	for id := range a.occurrences {
		if a.present[id] {
			a.occurrences[id]++
			a.present[id] = false
		} else {
			a.occurrences[id] = 0
		}
	}
	a.active = append(a.active[:0:0], a.static...)
}
