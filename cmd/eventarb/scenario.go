package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/controls"
	"github.com/willibrandon/eventarb/internal/events"
	"github.com/willibrandon/eventarb/internal/telemetry"
)

// Scenario is a scripted sequence of raised events, replayed by the run
// command.
type Scenario struct {
	Params *alerts.VehicleParams `yaml:"params"`
	Metric *bool                 `yaml:"metric"`
	Steps  []Step                `yaml:"steps"`
}

// Step raises the same events for a number of consecutive cycles.
type Step struct {
	Cycles            int                  `yaml:"cycles"` // 1 if zero
	Events            []string             `yaml:"events"`
	Static            []string             `yaml:"static"` // raised on the first cycle of the step
	Types             []string             `yaml:"types"`  // every type if empty
	Telemetry         map[string]float64   `yaml:"telemetry"`
	Series            map[string][]float64 `yaml:"series"`
	SoftDisableCycles int                  `yaml:"soft_disable_cycles"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}
	for i, step := range s.Steps {
		if step.Cycles < 0 {
			return nil, fmt.Errorf("step %d: cycles must not be negative", i)
		}
	}
	return &s, nil
}

// Cycles returns the total number of cycles the scenario runs.
func (s *Scenario) Cycles() int {
	n := 0
	for _, step := range s.Steps {
		n += step.count()
	}
	return n
}

func (st Step) count() int {
	if st.Cycles == 0 {
		return 1
	}
	return st.Cycles
}

// compiledStep is a Step with names resolved against a registry.
type compiledStep struct {
	first  controls.Input
	rest   controls.Input
	cycles int
}

// Source resolves event and type names against registry and returns a
// controls.Source replaying the scenario.
func (s *Scenario) Source(registry *events.Registry) (controls.Source, error) {
	steps := make([]compiledStep, len(s.Steps))
	for i, st := range s.Steps {
		ids, err := resolveEvents(registry, st.Events)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		static, err := resolveEvents(registry, st.Static)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		var types []events.EventType
		for _, name := range st.Types {
			t, err := events.ParseEventType(name)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			types = append(types, t)
		}

		var tel alerts.Telemetry
		if len(st.Telemetry) > 0 || len(st.Series) > 0 {
			tel = telemetry.FromMaps(st.Telemetry, st.Series)
		}

		rest := controls.Input{
			Events:            ids,
			Types:             types,
			Telemetry:         tel,
			SoftDisableCycles: st.SoftDisableCycles,
		}
		first := rest
		first.Static = static

		steps[i] = compiledStep{first: first, rest: rest, cycles: st.count()}
	}
	return &scenarioSource{steps: steps}, nil
}

func resolveEvents(registry *events.Registry, names []string) ([]events.EventID, error) {
	ids := make([]events.EventID, 0, len(names))
	for _, name := range names {
		id, ok := registry.ID(name)
		if !ok {
			return nil, fmt.Errorf("unknown event %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

type scenarioSource struct {
	steps []compiledStep
	step  int
	cycle int
}

func (s *scenarioSource) Next(ctx context.Context) (controls.Input, error) {
	if err := ctx.Err(); err != nil {
		return controls.Input{}, err
	}
	for s.step < len(s.steps) && s.cycle >= s.steps[s.step].cycles {
		s.step++
		s.cycle = 0
	}
	if s.step >= len(s.steps) {
		return controls.Input{}, io.EOF
	}

	st := s.steps[s.step]
	in := st.rest
	if s.cycle == 0 {
		in = st.first
	}
	s.cycle++
	return in, nil
}
