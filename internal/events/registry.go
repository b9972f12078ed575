package events

import (
	"fmt"

	"github.com/willibrandon/eventarb/internal/alerts"
)

// Entry is one row of event configuration.
type Entry struct {
	ID     EventID
	Name   string
	Alerts map[EventType]alerts.Factory
}

// Registry maps event ids to their alert factories. It is immutable after
// construction and safe for concurrent readers.
type Registry struct {
	names  []string
	alerts []map[EventType]alerts.Factory
	types  [][]EventType
	byName map[string]EventID
}

// NewRegistry builds a registry from entries. Ids must be dense: every id in
// [0, len(entries)) must appear exactly once. Names must be unique and non-empty.
func NewRegistry(entries []Entry) (*Registry, error) {
	n := len(entries)
	r := &Registry{
		names:  make([]string, n),
		alerts: make([]map[EventType]alerts.Factory, n),
		types:  make([][]EventType, n),
		byName: make(map[string]EventID, n),
	}
	seen := make([]bool, n)

	for _, e := range entries {
		if e.ID < 0 || int(e.ID) >= n {
			return nil, fmt.Errorf("event %q: id %d outside [0, %d)", e.Name, int(e.ID), n)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("event %q: duplicate id %d", e.Name, int(e.ID))
		}
		if e.Name == "" {
			return nil, fmt.Errorf("event id %d: name is required", int(e.ID))
		}
		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("event %q: duplicate name", e.Name)
		}

		m := make(map[EventType]alerts.Factory, len(e.Alerts))
		for t, f := range e.Alerts {
			if !t.IsValid() {
				return nil, fmt.Errorf("event %q: invalid event type %q", e.Name, t)
			}
			m[t] = f
		}

		var tags []EventType
		for _, t := range AllEventTypes {
			if _, ok := m[t]; ok {
				tags = append(tags, t)
			}
		}

		seen[e.ID] = true
		r.names[e.ID] = e.Name
		r.alerts[e.ID] = m
		r.types[e.ID] = tags
		r.byName[e.Name] = e.ID
	}

	return r, nil
}

// Len returns the number of registered events.
func (r *Registry) Len() int {
	return len(r.names)
}

// Contains returns true if id is registered.
func (r *Registry) Contains(id EventID) bool {
	return id >= 0 && int(id) < len(r.names)
}

// Name returns the event name. It panics on an unregistered id.
func (r *Registry) Name(id EventID) string {
	r.mustContain(id)
	return r.names[id]
}

// ID looks up an event by name.
func (r *Registry) ID(name string) (EventID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Lookup returns a copy of the event's alert mapping, empty for events
// without alerts. It panics on an unregistered id.
func (r *Registry) Lookup(id EventID) map[EventType]alerts.Factory {
	r.mustContain(id)
	out := make(map[EventType]alerts.Factory, len(r.alerts[id]))
	for t, f := range r.alerts[id] {
		out[t] = f
	}
	return out
}

// EventTypes returns the event's tags in wire order.
func (r *Registry) EventTypes(id EventID) []EventType {
	r.mustContain(id)
	return append([]EventType(nil), r.types[id]...)
}

// Has returns true if the event maps an alert under t.
func (r *Registry) Has(id EventID, t EventType) bool {
	r.mustContain(id)
	_, ok := r.alerts[id][t]
	return ok
}

// Names returns every registered name indexed by id.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) factory(id EventID, t EventType) (alerts.Factory, bool) {
	f, ok := r.alerts[id][t]
	return f, ok
}

// ValidateID returns a *RegistryMismatchError if id is not registered in r.
func ValidateID(r *Registry, id EventID) error {
	if !r.Contains(id) {
		return &RegistryMismatchError{ID: id}
	}
	return nil
}

func (r *Registry) mustContain(id EventID) {
	if err := ValidateID(r, id); err != nil {
		panic(err)
	}
}
