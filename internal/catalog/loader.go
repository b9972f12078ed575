package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/eventarb/internal/alerts"
	"github.com/willibrandon/eventarb/internal/events"
)

// File is the on-disk form of a registry overlay.
//
// Events whose name matches a default catalog entry have their per-type
// alerts replaced tag by tag. Unknown names are appended after the default
// catalog, in file order, with the next free ids.
type File struct {
	Events []EventSpec `yaml:"events"`
}

// EventSpec describes one event in a registry file.
type EventSpec struct {
	Name   string               `yaml:"name"`
	Alerts map[string]AlertSpec `yaml:"alerts"`
}

// AlertSpec describes one alert. Exactly one of Preset, Factory or the
// explicit fields (Text1 with Status, Size and Priority) is used.
type AlertSpec struct {
	Preset  string `yaml:"preset,omitempty"`
	Factory string `yaml:"factory,omitempty"`

	Text1    string `yaml:"text1,omitempty"`
	Text2    string `yaml:"text2,omitempty"`
	Status   string `yaml:"status,omitempty"`
	Size     string `yaml:"size,omitempty"`
	Priority string `yaml:"priority,omitempty"`
	Visual   string `yaml:"visual,omitempty"`
	Audible  string `yaml:"audible,omitempty"`

	Duration      *float64 `yaml:"duration,omitempty"`
	Rate          float64  `yaml:"rate,omitempty"`
	CreationDelay float64  `yaml:"creation_delay,omitempty"`
}

// UnknownFactoryError is returned when a registry file names a dynamic
// factory that does not exist.
type UnknownFactoryError struct {
	Name string
}

func (e *UnknownFactoryError) Error() string {
	return fmt.Sprintf("unknown factory %q", e.Name)
}

// UnknownPresetError is returned for an unrecognized preset name.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q", e.Name)
}

// Load reads a registry overlay from path and merges it over the default catalog.
func Load(path string, opts Options) (*events.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	reg, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return reg, nil
}

// Parse merges a YAML registry overlay over the default catalog.
func Parse(data []byte, opts Options) (*events.Registry, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return Merge(f, opts)
}

// Merge applies f over the default catalog and builds the registry.
func Merge(f File, opts Options) (*events.Registry, error) {
	entries := defaultEntries(opts)
	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		byName[e.Name] = i
	}
	dynamic := Factories(opts)

	for _, spec := range f.Events {
		if spec.Name == "" {
			return nil, errors.New("event name is required")
		}

		resolved := make(map[events.EventType]alerts.Factory, len(spec.Alerts))
		for tag, as := range spec.Alerts {
			t, err := events.ParseEventType(tag)
			if err != nil {
				return nil, fmt.Errorf("event %q: %w", spec.Name, err)
			}
			fac, err := as.build(dynamic)
			if err != nil {
				return nil, fmt.Errorf("event %q %s: %w", spec.Name, t, err)
			}
			resolved[t] = fac
		}

		i, ok := byName[spec.Name]
		if !ok {
			i = len(entries)
			entries = append(entries, events.Entry{ID: events.EventID(i), Name: spec.Name})
			byName[spec.Name] = i
		}
		merged := make(map[events.EventType]alerts.Factory, len(entries[i].Alerts)+len(resolved))
		for t, fac := range entries[i].Alerts {
			merged[t] = fac
		}
		for t, fac := range resolved {
			merged[t] = fac
		}
		entries[i].Alerts = merged
	}

	return events.NewRegistry(entries)
}

func (s AlertSpec) build(dynamic map[string]alerts.Factory) (alerts.Factory, error) {
	switch {
	case s.Factory != "" && s.Preset != "":
		return alerts.Factory{}, errors.New("factory and preset are mutually exclusive")
	case s.Factory != "":
		fac, ok := dynamic[s.Factory]
		if !ok {
			return alerts.Factory{}, &UnknownFactoryError{Name: s.Factory}
		}
		return fac, nil
	case s.Preset != "":
		return s.preset()
	default:
		a, err := s.explicit()
		if err != nil {
			return alerts.Factory{}, err
		}
		return alerts.Constant(a), nil
	}
}

func (s AlertSpec) preset() (alerts.Factory, error) {
	if err := s.checkTiming(); err != nil {
		return alerts.Factory{}, err
	}
	// Only normalPermanent takes timing overrides.
	if s.Preset != "normalPermanent" {
		switch {
		case s.Duration != nil:
			return alerts.Factory{}, fmt.Errorf("preset %q does not take duration", s.Preset)
		case s.Rate != 0:
			return alerts.Factory{}, fmt.Errorf("preset %q does not take rate", s.Preset)
		case s.CreationDelay != 0:
			return alerts.Factory{}, fmt.Errorf("preset %q does not take creation_delay", s.Preset)
		}
	}

	visual, err := s.visual()
	if err != nil {
		return alerts.Factory{}, err
	}

	switch s.Preset {
	case "noEntry":
		return alerts.Constant(alerts.NoEntry(s.Text2, visual)), nil
	case "softDisable":
		return softDisable(s.Text2), nil
	case "userSoftDisable":
		return userSoftDisable(s.Text2), nil
	case "immediateDisable":
		return alerts.Constant(alerts.ImmediateDisable(s.Text2)), nil
	case "engagement":
		audible, err := s.audible()
		if err != nil {
			return alerts.Factory{}, err
		}
		return alerts.Constant(alerts.Engagement(audible)), nil
	case "normalPermanent":
		opts := alerts.DefaultPermanentOptions()
		if s.Duration != nil {
			opts.Duration = *s.Duration
		}
		if s.Priority != "" {
			p, err := alerts.ParsePriority(s.Priority)
			if err != nil {
				return alerts.Factory{}, err
			}
			opts.Priority = p
		}
		opts.CreationDelay = s.CreationDelay
		a := alerts.NormalPermanentWith(s.Text1, s.Text2, opts)
		a.Rate = s.Rate
		return alerts.Constant(a), nil
	case "startup":
		text2 := s.Text2
		if text2 == "" {
			text2 = alerts.DefaultStartupText2
		}
		status := alerts.StatusNormal
		if s.Status != "" {
			status = alerts.Status(s.Status)
			if !status.IsValid() {
				return alerts.Factory{}, fmt.Errorf("invalid status %q", s.Status)
			}
		}
		return alerts.Constant(alerts.Startup(s.Text1, text2, status)), nil
	default:
		return alerts.Factory{}, &UnknownPresetError{Name: s.Preset}
	}
}

func (s AlertSpec) explicit() (alerts.Alert, error) {
	if s.Duration == nil {
		return alerts.Alert{}, errors.New("duration is required")
	}
	if err := s.checkTiming(); err != nil {
		return alerts.Alert{}, err
	}
	status := alerts.Status(s.Status)
	if !status.IsValid() {
		return alerts.Alert{}, fmt.Errorf("invalid status %q", s.Status)
	}
	size := alerts.Size(s.Size)
	if !size.IsValid() {
		return alerts.Alert{}, fmt.Errorf("invalid size %q", s.Size)
	}
	priority, err := alerts.ParsePriority(s.Priority)
	if err != nil {
		return alerts.Alert{}, err
	}
	visual, err := s.visual()
	if err != nil {
		return alerts.Alert{}, err
	}
	audible, err := s.audible()
	if err != nil {
		return alerts.Alert{}, err
	}

	return alerts.New(s.Text1, s.Text2, status, size, priority, visual, audible, *s.Duration,
		alerts.WithRate(s.Rate), alerts.WithCreationDelay(s.CreationDelay)), nil
}

func (s AlertSpec) checkTiming() error {
	if (s.Duration != nil && *s.Duration < 0) || s.CreationDelay < 0 || s.Rate < 0 {
		return errors.New("timing fields must not be negative")
	}
	return nil
}

func (s AlertSpec) visual() (alerts.VisualAlert, error) {
	if s.Visual == "" {
		return alerts.VisualNone, nil
	}
	v := alerts.VisualAlert(s.Visual)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid visual alert %q", s.Visual)
	}
	return v, nil
}

func (s AlertSpec) audible() (alerts.AudibleAlert, error) {
	if s.Audible == "" {
		return alerts.AudibleNone, nil
	}
	a := alerts.AudibleAlert(s.Audible)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid audible alert %q", s.Audible)
	}
	return a, nil
}
