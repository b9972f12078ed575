package alerts

import (
	"encoding/json"
	"testing"
	"time"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNew_DurationInCycles(t *testing.T) {
	tests := []struct {
		seconds float64
		cycles  int
	}{
		{0, 0},
		{.1, 10},
		{.2, 20},
		{1., 100},
		{2., 200},
		{5., 500},
	}

	for _, tt := range tests {
		a := New("t", "", StatusNormal, SizeSmall, PriorityLow, VisualNone, AudibleNone, tt.seconds)
		if a.DurationCycles != tt.cycles {
			t.Errorf("duration %.2fs: want %d cycles, got %d", tt.seconds, tt.cycles, a.DurationCycles)
		}
	}
}

func TestNew_Options(t *testing.T) {
	a := New("t", "", StatusNormal, SizeSmall, PriorityLow, VisualNone, AudibleNone, .1,
		WithRate(0.75), WithCreationDelay(300))
	if a.Rate != 0.75 {
		t.Errorf("rate: want 0.75, got %f", a.Rate)
	}
	if a.CreationDelay != 300 {
		t.Errorf("creation delay: want 300, got %f", a.CreationDelay)
	}
	if a.AlertType != "" {
		t.Errorf("alert type must be empty until created from an event, got %q", a.AlertType)
	}
}

func TestNormalPermanent_Size(t *testing.T) {
	if got := NormalPermanent("only one", "").Size; got != SizeSmall {
		t.Errorf("without text2: want small, got %s", got)
	}
	if got := NormalPermanent("one", "two").Size; got != SizeMid {
		t.Errorf("with text2: want mid, got %s", got)
	}

	a := NormalPermanentWith("Camera Error", "", PermanentOptions{Duration: 1, Priority: PriorityLower, CreationDelay: 30})
	if a.DurationCycles != 100 || a.CreationDelay != 30 {
		t.Errorf("unexpected options applied: %+v", a)
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name     string
		alert    Alert
		status   Status
		priority Priority
		audible  AudibleAlert
		cycles   int
	}{
		{"no entry", NoEntry("x", VisualNone), StatusNormal, PriorityLow, AudibleRefuse, 300},
		{"soft disable", SoftDisable("x"), StatusUserPrompt, PriorityMid, AudibleWarningSoft, 200},
		{"user soft disable", UserSoftDisable("x"), StatusUserPrompt, PriorityMid, AudibleWarningSoft, 200},
		{"immediate disable", ImmediateDisable("x"), StatusCritical, PriorityHighest, AudibleWarningImmediate, 400},
		{"engagement", Engagement(AudibleEngage), StatusNormal, PriorityMid, AudibleEngage, 20},
		{"startup", Startup("x", DefaultStartupText2, StatusNormal), StatusNormal, PriorityLower, AudibleNone, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.alert.Status != tt.status {
				t.Errorf("status: want %s, got %s", tt.status, tt.alert.Status)
			}
			if tt.alert.Priority != tt.priority {
				t.Errorf("priority: want %s, got %s", tt.priority, tt.alert.Priority)
			}
			if tt.alert.Audible != tt.audible {
				t.Errorf("audible: want %s, got %s", tt.audible, tt.alert.Audible)
			}
			if tt.alert.DurationCycles != tt.cycles {
				t.Errorf("duration: want %d, got %d", tt.cycles, tt.alert.DurationCycles)
			}
		})
	}

	if got := UserSoftDisable("x").Text1; got != "openpilot will disengage" {
		t.Errorf("user soft disable text1: got %q", got)
	}
}

func TestPriority_TotalOrder(t *testing.T) {
	levels := []Priority{PriorityLowest, PriorityLower, PriorityLow, PriorityMid, PriorityHigh, PriorityHighest}

	for i, pa := range levels {
		for j, pb := range levels {
			a := Alert{Priority: pa}
			b := Alert{Priority: pb}
			outcomes := 0
			if a.Greater(b) {
				outcomes++
			}
			if b.Greater(a) {
				outcomes++
			}
			if a.Priority == b.Priority {
				outcomes++
			}
			if outcomes != 1 {
				t.Errorf("%s vs %s: expected exactly one relation, got %d", pa, pb, outcomes)
			}
			if (i > j) != a.Greater(b) {
				t.Errorf("%s > %s = %v, want %v", pa, pb, a.Greater(b), i > j)
			}
		}
	}
}

func TestHighest(t *testing.T) {
	if _, ok := Highest(nil); ok {
		t.Error("expected ok=false for empty list")
	}

	list := []Alert{
		{Text1: "low", Priority: PriorityLow},
		{Text1: "first high", Priority: PriorityHigh},
		{Text1: "mid", Priority: PriorityMid},
		{Text1: "second high", Priority: PriorityHigh},
	}
	best, ok := Highest(list)
	if !ok {
		t.Fatal("expected an alert")
	}
	if best.Text1 != "first high" {
		t.Errorf("expected first of equal priority to win, got %q", best.Text1)
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("highest")
	if err != nil || p != PriorityHighest {
		t.Errorf("ParsePriority(highest) = %v, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
	if got := Priority(42).String(); got != "priority(42)" {
		t.Errorf("out of range String() = %q", got)
	}
}

func TestDisplaySpeed(t *testing.T) {
	tests := []struct {
		ms     float64
		metric bool
		want   string
	}{
		{10, true, "36 km/h"},
		{0, true, "0 km/h"},
		{MPHToMS * 15, false, "15 mph"},
		{MPHToMS * 15, true, "24 km/h"},
	}
	for _, tt := range tests {
		if got := DisplaySpeed(tt.ms, tt.metric); got != tt.want {
			t.Errorf("DisplaySpeed(%v, %v) = %q, want %q", tt.ms, tt.metric, got, tt.want)
		}
	}
}

func TestFactory_Resolve(t *testing.T) {
	constant := Constant(NoEntry("const", VisualNone))
	if constant.IsDynamic() {
		t.Error("constant factory reported dynamic")
	}
	if got := constant.Resolve(Context{}).Text2; got != "const" {
		t.Errorf("constant resolve: got %q", got)
	}

	calls := 0
	dynamic := Dynamic(func(p VehicleParams, tel Telemetry, metric bool, sd int) Alert {
		calls++
		return NoEntry(p.CarName, VisualNone)
	})
	if !dynamic.IsDynamic() {
		t.Error("dynamic factory reported constant")
	}
	if got := dynamic.Resolve(Context{Params: VehicleParams{CarName: "honda"}}).Text2; got != "honda" {
		t.Errorf("dynamic resolve: got %q", got)
	}
	if calls != 1 {
		t.Errorf("expected one evaluation, got %d", calls)
	}
}

func TestTransition(t *testing.T) {
	a := NoEntry("Door Open", VisualNone)
	a.AlertType = "doorOpen/noEntry"

	tr := NewTransition("run", 7, "", &a, testTime)
	if tr.Cleared() {
		t.Error("transition to an alert is not a clear")
	}
	if tr.Describe() != "(none) -> doorOpen/noEntry" {
		t.Errorf("Describe() = %q", tr.Describe())
	}

	cleared := NewTransition("run", 8, a.AlertType, nil, testTime)
	if !cleared.Cleared() {
		t.Error("expected cleared transition")
	}
}

func TestAlert_JSONPriorityByName(t *testing.T) {
	a := ImmediateDisable("CAN Error")
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["priority"] != "highest" {
		t.Errorf("expected priority by name, got %v", raw["priority"])
	}

	var back Alert
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal alert: %v", err)
	}
	if back.Priority != PriorityHighest {
		t.Errorf("priority did not survive decoding: %s", back.Priority)
	}

	if _, err := json.Marshal(Alert{Priority: Priority(9)}); err == nil {
		t.Error("expected error for out of range priority")
	}
}
