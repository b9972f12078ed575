package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/catalog"
	"github.com/willibrandon/eventarb/internal/controls"
	"github.com/willibrandon/eventarb/internal/events"
)

const gasScenario = `
params:
  min_enable_speed: 10
metric: false
steps:
  - cycles: 100
    events: [gasPressed]
    static: [startup]
  - events: [doorOpen, fcw]
    types: [noEntry, permanent]
  - events: [joystickDebug]
    types: [warning]
    series:
      testJoystick.axes: [0.5, -0.25]
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(gasScenario))
	require.NoError(t, err)

	require.NotNil(t, s.Params)
	assert.InDelta(t, 10, s.Params.MinEnableSpeed, 1e-9)
	require.NotNil(t, s.Metric)
	assert.False(t, *s.Metric)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, 102, s.Cycles())
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "no steps", doc: "metric: true\n"},
		{name: "negative cycles", doc: "steps:\n  - cycles: -1\n"},
		{name: "bad yaml", doc: "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(gasScenario), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 3)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScenarioSource_UnknownNames(t *testing.T) {
	reg := catalog.MustDefault(catalog.Options{})

	s, err := ParseScenario([]byte("steps:\n  - events: [warpDrive]\n"))
	require.NoError(t, err)
	_, err = s.Source(reg)
	assert.ErrorContains(t, err, `unknown event "warpDrive"`)

	s, err = ParseScenario([]byte("steps:\n  - events: [fcw]\n    types: [sometimes]\n"))
	require.NoError(t, err)
	_, err = s.Source(reg)
	assert.Error(t, err)
}

func TestScenarioSource_StaticOnFirstCycleOnly(t *testing.T) {
	reg := catalog.MustDefault(catalog.Options{})
	s, err := ParseScenario([]byte("steps:\n  - cycles: 3\n    static: [startup]\n    events: [fcw]\n"))
	require.NoError(t, err)

	src, err := s.Source(reg)
	require.NoError(t, err)

	ctx := context.Background()
	var inputs []controls.Input
	for {
		in, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		inputs = append(inputs, in)
	}

	require.Len(t, inputs, 3)
	assert.Equal(t, []events.EventID{catalog.Startup}, inputs[0].Static)
	assert.Empty(t, inputs[1].Static)
	assert.Empty(t, inputs[2].Static)
	for _, in := range inputs {
		assert.Equal(t, []events.EventID{catalog.FCW}, in.Events)
	}
}

func TestScenario_DrivesLoop(t *testing.T) {
	reg := catalog.MustDefault(catalog.Options{})
	s, err := ParseScenario([]byte(gasScenario))
	require.NoError(t, err)

	src, err := s.Source(reg)
	require.NoError(t, err)

	loop := controls.New(reg, *s.Params, *s.Metric,
		controls.WithRunID("scenario"),
		controls.WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }))

	var results []controls.Result
	n, err := loop.Run(context.Background(), src, controls.RunOptions{
		OnResult: func(r controls.Result) { results = append(results, r) },
	})
	require.NoError(t, err)
	require.Equal(t, uint64(102), n)

	surfaced := func(r controls.Result, alertType string) bool {
		for _, a := range r.Alerts {
			if a.AlertType == alertType {
				return true
			}
		}
		return false
	}

	// gasPressed waits out its one second creation delay behind startup.
	require.NotNil(t, results[0].Selected)
	assert.Equal(t, "startup/permanent", results[0].Selected.AlertType)
	assert.False(t, surfaced(results[98], "gasPressed/preEnable"))
	assert.True(t, surfaced(results[99], "gasPressed/preEnable"))
	assert.Equal(t, "startup/permanent", results[99].Selected.AlertType)

	require.NotNil(t, results[100].Selected)
	assert.Equal(t, "fcw/permanent", results[100].Selected.AlertType)

	require.NotNil(t, results[101].Selected)
	assert.Equal(t, "joystickDebug/warning", results[101].Selected.AlertType)
	assert.Equal(t, "Gas: 50%, Steer: -25%", results[101].Selected.Text2)
}

func TestRenderRegistry(t *testing.T) {
	color.NoColor = true
	reg := catalog.MustDefault(catalog.Options{})

	out := renderRegistry(reg, alerts.Context{Metric: true}, "door")
	assert.Contains(t, out, "registry (1 of")
	assert.Contains(t, out, "doorOpen")
	assert.Contains(t, out, "noEntry")
	assert.Contains(t, out, "Door Open")
	assert.NotContains(t, out, "fcw")
}

func TestPrintHistory(t *testing.T) {
	color.NoColor = true
	now := time.Now()
	door := alerts.NoEntry("Door Open", alerts.VisualNone)
	door.AlertType = "doorOpen/noEntry"

	history := []alerts.Transition{
		alerts.NewTransition("0123456789abcdef", 7, door.AlertType, nil, now),
		alerts.NewTransition("0123456789abcdef", 3, "", &door, now.Add(-time.Minute)),
	}

	var buf bytes.Buffer
	printHistory(&buf, history)
	out := buf.String()
	assert.Contains(t, out, "doorOpen/noEntry -> (none)")
	assert.Contains(t, out, "(none) -> doorOpen/noEntry")
	assert.Contains(t, out, "01234567 ")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "low")

	buf.Reset()
	printHistory(&buf, nil)
	assert.Equal(t, "no transitions recorded\n", buf.String())
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "a | b", alertText("a", "b"))
	assert.Equal(t, "b", alertText("", "b"))
}
