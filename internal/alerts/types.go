// Package alerts describes the user-facing notifications resolved from control events.
package alerts

import "fmt"

// Priority orders alerts for arbitration. Values are only ever compared.
type Priority int

const (
	PriorityLowest Priority = iota
	PriorityLower
	PriorityLow
	PriorityMid
	PriorityHigh
	PriorityHighest
)

var priorityNames = [...]string{"lowest", "lower", "low", "mid", "high", "highest"}

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	if p < PriorityLowest || p > PriorityHighest {
		return fmt.Sprintf("priority(%d)", int(p))
	}
	return priorityNames[p]
}

// IsValid returns true if the priority is one of the six defined levels.
func (p Priority) IsValid() bool {
	return p >= PriorityLowest && p <= PriorityHighest
}

// MarshalText encodes the priority by name.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority name.
func (p *Priority) UnmarshalText(text []byte) error {
	v, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePriority converts a priority name to a Priority.
func ParsePriority(s string) (Priority, error) {
	for i, name := range priorityNames {
		if name == s {
			return Priority(i), nil
		}
	}
	return PriorityLowest, fmt.Errorf("unknown priority %q", s)
}

// Status is the visual severity class of an alert.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusUserPrompt Status = "userPrompt"
	StatusCritical   Status = "critical"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusNormal, StatusUserPrompt, StatusCritical:
		return true
	default:
		return false
	}
}

// Size is the display footprint of an alert.
type Size string

const (
	SizeNone  Size = "none"
	SizeSmall Size = "small"
	SizeMid   Size = "mid"
	SizeFull  Size = "full"
)

// IsValid returns true if the size is recognized.
func (s Size) IsValid() bool {
	switch s {
	case SizeNone, SizeSmall, SizeMid, SizeFull:
		return true
	default:
		return false
	}
}

// VisualAlert identifies the HUD indicator shown with an alert.
type VisualAlert string

const (
	VisualNone              VisualAlert = "none"
	VisualFCW               VisualAlert = "fcw"
	VisualSteerRequired     VisualAlert = "steerRequired"
	VisualBrakePressed      VisualAlert = "brakePressed"
	VisualWrongGear         VisualAlert = "wrongGear"
	VisualSeatbeltUnbuckled VisualAlert = "seatbeltUnbuckled"
	VisualSpeedTooHigh      VisualAlert = "speedTooHigh"
	VisualLDW               VisualAlert = "ldw"
)

// IsValid returns true if the visual cue is recognized.
func (v VisualAlert) IsValid() bool {
	switch v {
	case VisualNone, VisualFCW, VisualSteerRequired, VisualBrakePressed,
		VisualWrongGear, VisualSeatbeltUnbuckled, VisualSpeedTooHigh, VisualLDW:
		return true
	default:
		return false
	}
}

// AudibleAlert identifies the sound played with an alert.
type AudibleAlert string

const (
	AudibleNone             AudibleAlert = "none"
	AudibleEngage           AudibleAlert = "engage"
	AudibleDisengage        AudibleAlert = "disengage"
	AudibleRefuse           AudibleAlert = "refuse"
	AudibleWarningSoft      AudibleAlert = "warningSoft"
	AudibleWarningImmediate AudibleAlert = "warningImmediate"
	AudiblePrompt           AudibleAlert = "prompt"
	AudiblePromptRepeat     AudibleAlert = "promptRepeat"
	AudiblePromptDistracted AudibleAlert = "promptDistracted"
	AudibleSlowingDownSpeed AudibleAlert = "slowingDownSpeed"
)

// IsValid returns true if the audible cue is recognized.
func (a AudibleAlert) IsValid() bool {
	switch a {
	case AudibleNone, AudibleEngage, AudibleDisengage, AudibleRefuse,
		AudibleWarningSoft, AudibleWarningImmediate, AudiblePrompt,
		AudiblePromptRepeat, AudiblePromptDistracted, AudibleSlowingDownSpeed:
		return true
	default:
		return false
	}
}
