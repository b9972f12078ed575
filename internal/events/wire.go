package events

import "fmt"

// Record is the published form of one active event: its id plus one flag per
// event type the registry maps for it.
type Record struct {
	Name             EventID `json:"name"`
	Enable           bool    `json:"enable"`
	PreEnable        bool    `json:"preEnable"`
	NoEntry          bool    `json:"noEntry"`
	Warning          bool    `json:"warning"`
	UserDisable      bool    `json:"userDisable"`
	SoftDisable      bool    `json:"softDisable"`
	ImmediateDisable bool    `json:"immediateDisable"`
	Permanent        bool    `json:"permanent"`
}

// Has returns the flag for t.
func (r Record) Has(t EventType) bool {
	switch t {
	case Enable:
		return r.Enable
	case PreEnable:
		return r.PreEnable
	case NoEntry:
		return r.NoEntry
	case Warning:
		return r.Warning
	case UserDisable:
		return r.UserDisable
	case SoftDisable:
		return r.SoftDisable
	case ImmediateDisable:
		return r.ImmediateDisable
	case Permanent:
		return r.Permanent
	default:
		return false
	}
}

// Types returns the set flags in wire order.
func (r Record) Types() []EventType {
	var out []EventType
	for _, t := range AllEventTypes {
		if r.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (r *Record) set(t EventType) {
	switch t {
	case Enable:
		r.Enable = true
	case PreEnable:
		r.PreEnable = true
	case NoEntry:
		r.NoEntry = true
	case Warning:
		r.Warning = true
	case UserDisable:
		r.UserDisable = true
	case SoftDisable:
		r.SoftDisable = true
	case ImmediateDisable:
		r.ImmediateDisable = true
	case Permanent:
		r.Permanent = true
	}
}

// ToMessage snapshots the active events for publication to other processes.
// The result is a value copy.
func (a *Aggregator) ToMessage() []Record {
	out := make([]Record, 0, len(a.active))
	for _, id := range a.active {
		rec := Record{Name: id}
		for _, t := range a.registry.types[id] {
			rec.set(t)
		}
		out = append(out, rec)
	}
	return out
}

// AddFromMessage appends every record's event as a non-static active event.
// Records come from another process, so ids are checked against the registry
// first; on a mismatch nothing is added.
func (a *Aggregator) AddFromMessage(records []Record) error {
	for i, rec := range records {
		if err := ValidateID(a.registry, rec.Name); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	for _, rec := range records {
		a.active = append(a.active, rec.Name)
	}
	return nil
}
