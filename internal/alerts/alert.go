package alerts

import "fmt"

// CyclePeriod is the fixed control-loop period in seconds. Alert durations and
// creation-delay gating are both expressed against it.
const CyclePeriod = 0.01

// Alert is an immutable description of one user-facing notification.
// Values are copied on every resolution, so setting AlertType on a returned
// Alert never affects the registry that produced it.
type Alert struct {
	Text1    string       `json:"text1"`
	Text2    string       `json:"text2"`
	Status   Status       `json:"status"`
	Size     Size         `json:"size"`
	Priority Priority     `json:"priority"`
	Visual   VisualAlert  `json:"visual"`
	Audible  AudibleAlert `json:"audible"`

	// DurationCycles is the minimum display time in control cycles.
	DurationCycles int `json:"duration_cycles"`

	// Rate enables periodic blinking when non-zero.
	Rate float64 `json:"rate,omitempty"`

	// CreationDelay is how long, in seconds, the originating event must have
	// been continuously active before the alert may surface.
	CreationDelay float64 `json:"creation_delay,omitempty"`

	// AlertType is "<eventName>/<eventType>", set when the alert is created
	// from an active event.
	AlertType string `json:"alert_type"`

	// EventType is the event type tag that produced this alert.
	EventType string `json:"event_type"`
}

// Option adjusts optional alert fields at construction time.
type Option func(*Alert)

// WithRate sets the blink rate.
func WithRate(rate float64) Option {
	return func(a *Alert) { a.Rate = rate }
}

// WithCreationDelay sets the creation delay in seconds.
func WithCreationDelay(seconds float64) Option {
	return func(a *Alert) { a.CreationDelay = seconds }
}

// New builds an Alert. duration is given in seconds and converted to whole
// control cycles, truncating toward zero.
func New(text1, text2 string, status Status, size Size, priority Priority,
	visual VisualAlert, audible AudibleAlert, duration float64, opts ...Option) Alert {
	a := Alert{
		Text1:          text1,
		Text2:          text2,
		Status:         status,
		Size:           size,
		Priority:       priority,
		Visual:         visual,
		Audible:        audible,
		DurationCycles: DurationToCycles(duration),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// DurationToCycles converts seconds into control cycles.
func DurationToCycles(seconds float64) int {
	return int(seconds / CyclePeriod)
}

// String returns a compact description used in logs.
func (a Alert) String() string {
	return fmt.Sprintf("%s/%s %s %s %s", a.Text1, a.Text2, a.Priority, a.Visual, a.Audible)
}

// Greater reports whether a outranks b. Equal priorities are unordered.
func (a Alert) Greater(b Alert) bool {
	return a.Priority > b.Priority
}

// Highest returns the highest-priority alert in list. Among alerts of equal
// priority the earliest one wins. ok is false for an empty list.
func Highest(list []Alert) (best Alert, ok bool) {
	for i, a := range list {
		if i == 0 || a.Greater(best) {
			best = a
			ok = true
		}
	}
	return best, ok
}
