package events

import (
	"testing"

	"github.com/willibrandon/eventarb/internal/alerts"
)

const (
	testX EventID = iota
	testY
	testA
	testB
	testQuiet
	testDyn
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	low := alerts.New("X", "", alerts.StatusNormal, alerts.SizeSmall,
		alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .1,
		alerts.WithCreationDelay(1.0))

	reg, err := NewRegistry([]Entry{
		{ID: testX, Name: "x", Alerts: map[EventType]alerts.Factory{
			Warning: alerts.Constant(low),
		}},
		{ID: testY, Name: "y", Alerts: map[EventType]alerts.Factory{
			Permanent: alerts.Constant(alerts.NormalPermanent("Y", "")),
		}},
		{ID: testA, Name: "a", Alerts: map[EventType]alerts.Factory{
			Warning: alerts.Constant(alerts.NormalPermanent("A", "")),
		}},
		{ID: testB, Name: "b", Alerts: map[EventType]alerts.Factory{
			NoEntry:   alerts.Constant(alerts.NoEntry("B", alerts.VisualNone)),
			Permanent: alerts.Constant(alerts.NormalPermanent("B", "b")),
		}},
		{ID: testQuiet, Name: "quiet"},
		{ID: testDyn, Name: "dyn", Alerts: map[EventType]alerts.Factory{
			Warning: alerts.Dynamic(func(p alerts.VehicleParams, _ alerts.Telemetry, metric bool, _ int) alerts.Alert {
				return alerts.NoEntry(alerts.DisplaySpeed(p.MinEnableSpeed, metric), alerts.VisualNone)
			}),
		}},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestAggregator_CreationDelayGating(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	for cycle := 0; cycle < 100; cycle++ {
		agg.Add(testX)
		got := agg.CreateAlerts([]EventType{Warning}, alerts.Context{})
		if cycle < 99 && len(got) != 0 {
			t.Fatalf("cycle %d: expected alert to be gated, got %v", cycle, got)
		}
		if cycle == 99 && len(got) != 1 {
			t.Fatalf("cycle %d: expected alert to surface, got %d alerts", cycle, len(got))
		}
		agg.Clear()
	}

	// Once surfaced it keeps surfacing while the event stays active.
	for cycle := 100; cycle < 110; cycle++ {
		agg.Add(testX)
		if got := agg.CreateAlerts([]EventType{Warning}, alerts.Context{}); len(got) != 1 {
			t.Fatalf("cycle %d: expected alert, got %d", cycle, len(got))
		}
		agg.Clear()
	}
}

func TestAggregator_GatingExclusionCount(t *testing.T) {
	tests := []struct {
		name     string
		delay    float64
		excluded int
	}{
		{"no delay", 0, 0},
		{"one cycle", 0.01, 0},
		{"half second", 0.5, 49},
		{"one second", 1.0, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := alerts.New("d", "", alerts.StatusNormal, alerts.SizeSmall,
				alerts.PriorityLow, alerts.VisualNone, alerts.AudibleNone, .1,
				alerts.WithCreationDelay(tt.delay))
			reg, err := NewRegistry([]Entry{{ID: 0, Name: "d", Alerts: map[EventType]alerts.Factory{
				Warning: alerts.Constant(a),
			}}})
			if err != nil {
				t.Fatalf("NewRegistry: %v", err)
			}
			agg := NewAggregator(reg)

			excluded := 0
			for cycle := 0; cycle < tt.excluded+5; cycle++ {
				agg.Add(0)
				got := agg.CreateAlerts([]EventType{Warning}, alerts.Context{})
				if len(got) == 0 {
					if cycle != excluded {
						t.Fatalf("alert excluded at cycle %d after being included", cycle)
					}
					excluded++
				}
				agg.Clear()
			}
			if excluded != tt.excluded {
				t.Errorf("excluded %d cycles, want %d", excluded, tt.excluded)
			}
		})
	}
}

func TestAggregator_CounterReset(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	for i := 0; i < 50; i++ {
		agg.Add(testX)
		agg.Clear()
	}
	if agg.occurrences[testX] != 50 {
		t.Fatalf("expected counter 50, got %d", agg.occurrences[testX])
	}

	// Absent for one cycle.
	agg.Clear()
	if agg.occurrences[testX] != 0 {
		t.Fatalf("expected counter reset to 0, got %d", agg.occurrences[testX])
	}

	agg.Add(testX)
	if got := agg.CreateAlerts([]EventType{Warning}, alerts.Context{}); len(got) != 0 {
		t.Errorf("expected no partial credit after reset, got %v", got)
	}
}

func TestAggregator_DuplicatesCountOnce(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	agg.Add(testA)
	agg.Add(testA)
	if agg.Len() != 2 {
		t.Fatalf("expected 2 active events, got %d", agg.Len())
	}
	got := agg.CreateAlerts([]EventType{Warning}, alerts.Context{})
	if len(got) != 2 {
		t.Errorf("expected one alert per occurrence, got %d", len(got))
	}

	agg.Clear()
	if agg.occurrences[testA] != 1 {
		t.Errorf("expected counter 1 after duplicate adds, got %d", agg.occurrences[testA])
	}
}

func TestAggregator_StaticPersistence(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	agg.AddStatic(testY)
	agg.Add(testA)
	for i := 0; i < 5; i++ {
		agg.Clear()
	}

	names := agg.Names()
	if len(names) != 1 || names[0] != testY {
		t.Fatalf("expected only static event to remain, got %v", names)
	}
	if !agg.Contains(testY) {
		t.Error("expected static event to be active")
	}
	if agg.occurrences[testY] != 5 {
		t.Errorf("expected static counter 5, got %d", agg.occurrences[testY])
	}
}

func TestAggregator_NoCrossTagLeakage(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	agg.Add(testB)
	if got := agg.CreateAlerts([]EventType{Warning}, alerts.Context{}); len(got) != 0 {
		t.Errorf("expected no warning alerts for a noEntry/permanent event, got %v", got)
	}

	got := agg.CreateAlerts([]EventType{Permanent, NoEntry}, alerts.Context{})
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got))
	}
	if got[0].AlertType != "b/permanent" || got[1].AlertType != "b/noEntry" {
		t.Errorf("unexpected order or labels: %q, %q", got[0].AlertType, got[1].AlertType)
	}
	if got[0].EventType != string(Permanent) {
		t.Errorf("expected event type %q, got %q", Permanent, got[0].EventType)
	}
}

func TestAggregator_ResultOrderFollowsActiveOrder(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	agg.Add(testB)
	agg.Add(testA)
	agg.Add(testY)

	got := agg.CreateAlerts([]EventType{Warning, Permanent}, alerts.Context{})
	want := []string{"b/permanent", "a/warning", "y/permanent"}
	if len(got) != len(want) {
		t.Fatalf("expected %d alerts, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].AlertType != w {
			t.Errorf("alert %d: want %q, got %q", i, w, got[i].AlertType)
		}
	}
}

func TestAggregator_HasType(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	if agg.HasType(Permanent) {
		t.Error("empty aggregator should have no types")
	}

	agg.Add(testQuiet)
	if agg.HasType(Permanent) {
		t.Error("event without alerts should not match any type")
	}

	agg.Add(testB)
	if !agg.HasType(NoEntry) || !agg.HasType(Permanent) {
		t.Error("expected noEntry and permanent to be present")
	}
	if agg.HasType(SoftDisable) {
		t.Error("softDisable should not be present")
	}
}

func TestAggregator_DynamicFactory(t *testing.T) {
	agg := NewAggregator(testRegistry(t))
	agg.Add(testDyn)

	ctx := alerts.Context{Params: alerts.VehicleParams{MinEnableSpeed: 10}, Metric: true}
	got := agg.CreateAlerts([]EventType{Warning}, ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(got))
	}
	if got[0].Text2 != "36 km/h" {
		t.Errorf("expected dynamic text from context, got %q", got[0].Text2)
	}
	if got[0].AlertType != "dyn/warning" {
		t.Errorf("unexpected alert type %q", got[0].AlertType)
	}
}

func TestAggregator_EmptyFirstCycle(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	if got := agg.CreateAlerts(AllEventTypes, alerts.Context{}); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if agg.Len() != 0 {
		t.Errorf("expected 0 active events, got %d", agg.Len())
	}
}

func TestAggregator_AddUnknownPanics(t *testing.T) {
	agg := NewAggregator(testRegistry(t))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unregistered event")
		}
		if _, ok := r.(*RegistryMismatchError); !ok {
			t.Errorf("expected *RegistryMismatchError, got %T", r)
		}
	}()
	agg.Add(EventID(999))
}
