package events

import (
	"errors"
	"strings"
	"testing"

	"github.com/willibrandon/eventarb/internal/alerts"
)

func TestNewRegistry_Validation(t *testing.T) {
	warn := map[EventType]alerts.Factory{Warning: alerts.Constant(alerts.NormalPermanent("w", ""))}

	tests := []struct {
		name    string
		entries []Entry
		wantErr string
	}{
		{
			name:    "empty registry",
			entries: nil,
		},
		{
			name:    "dense ids in any order",
			entries: []Entry{{ID: 1, Name: "b"}, {ID: 0, Name: "a", Alerts: warn}},
		},
		{
			name:    "id out of range",
			entries: []Entry{{ID: 0, Name: "a"}, {ID: 5, Name: "b"}},
			wantErr: "outside",
		},
		{
			name:    "duplicate id",
			entries: []Entry{{ID: 0, Name: "a"}, {ID: 0, Name: "b"}},
			wantErr: "duplicate id",
		},
		{
			name:    "duplicate name",
			entries: []Entry{{ID: 0, Name: "a"}, {ID: 1, Name: "a"}},
			wantErr: "duplicate name",
		},
		{
			name:    "missing name",
			entries: []Entry{{ID: 0}},
			wantErr: "name is required",
		},
		{
			name: "invalid tag",
			entries: []Entry{{ID: 0, Name: "a", Alerts: map[EventType]alerts.Factory{
				"bogus": alerts.Constant(alerts.Alert{}),
			}}},
			wantErr: "invalid event type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.entries)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	reg := testRegistry(t)

	if reg.Len() != 6 {
		t.Fatalf("expected 6 events, got %d", reg.Len())
	}
	if got := reg.Lookup(testQuiet); len(got) != 0 {
		t.Errorf("expected empty mapping, got %d entries", len(got))
	}

	m := reg.Lookup(testB)
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m))
	}
	delete(m, NoEntry)
	if !reg.Has(testB, NoEntry) {
		t.Error("mutating a lookup result must not change the registry")
	}

	types := reg.EventTypes(testB)
	if len(types) != 2 || types[0] != NoEntry || types[1] != Permanent {
		t.Errorf("expected [noEntry permanent], got %v", types)
	}

	id, ok := reg.ID("b")
	if !ok || id != testB {
		t.Errorf("ID(b) = %d, %v", id, ok)
	}
	if reg.Name(testB) != "b" {
		t.Errorf("Name = %q", reg.Name(testB))
	}
}

func TestRegistry_UnknownIDPanics(t *testing.T) {
	reg := testRegistry(t)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown id")
		}
	}()
	reg.Lookup(EventID(-1))
}

func TestValidateID(t *testing.T) {
	reg := testRegistry(t)

	if err := ValidateID(reg, testB); err != nil {
		t.Errorf("registered id: unexpected error %v", err)
	}

	for _, id := range []EventID{-1, EventID(reg.Len())} {
		err := ValidateID(reg, id)
		var mismatch *RegistryMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("id %d: want *RegistryMismatchError, got %v", id, err)
		}
		if mismatch.ID != id {
			t.Errorf("id %d: error carries id %d", id, mismatch.ID)
		}
	}
}

func TestParseEventType(t *testing.T) {
	for _, et := range AllEventTypes {
		got, err := ParseEventType(string(et))
		if err != nil || got != et {
			t.Errorf("ParseEventType(%q) = %q, %v", et, got, err)
		}
	}
	if _, err := ParseEventType("disable"); err == nil {
		t.Error("expected error for unknown type")
	}
}
