package alerts

import "time"

// Transition records a change of the alert selected for display. It is what
// gets persisted to alert history.
type Transition struct {
	// ID is the auto-increment primary key.
	ID int64 `json:"id"`

	// RunID identifies the control-loop process run that produced the transition.
	RunID string `json:"run_id"`

	// Cycle is the control cycle at which the new alert was selected.
	Cycle uint64 `json:"cycle"`

	// PrevAlertType is the alert type shown before, empty if none was shown.
	PrevAlertType string `json:"prev_alert_type"`

	// AlertType is the newly selected alert type, empty if the display cleared.
	AlertType string `json:"alert_type"`

	Text1    string   `json:"text1,omitempty"`
	Text2    string   `json:"text2,omitempty"`
	Status   Status   `json:"status,omitempty"`
	Priority Priority `json:"priority"`

	// ShownAt is the wall-clock time of the transition.
	ShownAt time.Time `json:"shown_at"`
}

// NewTransition builds a transition from the previous label to next.
// A nil next records the display clearing.
func NewTransition(runID string, cycle uint64, prev string, next *Alert, at time.Time) Transition {
	t := Transition{
		RunID:         runID,
		Cycle:         cycle,
		PrevAlertType: prev,
		ShownAt:       at,
	}
	if next != nil {
		t.AlertType = next.AlertType
		t.Text1 = next.Text1
		t.Text2 = next.Text2
		t.Status = next.Status
		t.Priority = next.Priority
	}
	return t
}

// Cleared returns true if the transition removed the displayed alert.
func (t Transition) Cleared() bool {
	return t.AlertType == ""
}

// Describe returns a human-readable description of the change.
func (t Transition) Describe() string {
	from, to := t.PrevAlertType, t.AlertType
	if from == "" {
		from = "(none)"
	}
	if to == "" {
		to = "(none)"
	}
	return from + " -> " + to
}
