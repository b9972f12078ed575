// Package events arbitrates the condition identifiers raised during a control
// cycle into the alerts that may surface that cycle.
package events

import "fmt"

// EventType classifies how an event affects control state.
type EventType string

const (
	Enable           EventType = "enable"
	PreEnable        EventType = "preEnable"
	NoEntry          EventType = "noEntry"
	Warning          EventType = "warning"
	UserDisable      EventType = "userDisable"
	SoftDisable      EventType = "softDisable"
	ImmediateDisable EventType = "immediateDisable"
	Permanent        EventType = "permanent"
)

// AllEventTypes lists every tag in wire order.
var AllEventTypes = []EventType{
	Enable, PreEnable, NoEntry, Warning,
	UserDisable, SoftDisable, ImmediateDisable, Permanent,
}

// String returns the tag name.
func (t EventType) String() string {
	return string(t)
}

// IsValid returns true if the tag is one of the eight defined event types.
func (t EventType) IsValid() bool {
	switch t {
	case Enable, PreEnable, NoEntry, Warning, UserDisable, SoftDisable, ImmediateDisable, Permanent:
		return true
	default:
		return false
	}
}

// ParseEventType converts a tag name to an EventType.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// EventID is a dense identifier assigned by the Registry, in [0, Registry.Len()).
type EventID int

// RegistryMismatchError indicates an event id that the Registry does not know.
// Reaching it from the aggregator is a configuration defect.
type RegistryMismatchError struct {
	ID EventID
}

func (e *RegistryMismatchError) Error() string {
	return fmt.Sprintf("event id %d is not registered", int(e.ID))
}
