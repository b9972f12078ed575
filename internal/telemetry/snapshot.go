// Package telemetry holds the per-cycle view of live signals read by dynamic
// alert factories.
package telemetry

import "sort"

// Channels read by the default catalog.
const (
	CalibrationPercent  = "liveCalibration.calPerc"
	GPSIntegrated       = "peripheralState.gpsIntegrated"
	JoystickAxes        = "testJoystick.axes"
	AutoLaneChangeTimer = "lateralPlan.autoLaneChangeTimer"
)

// Snapshot is a point-in-time set of scalar and vector channels.
// A nil *Snapshot reports every channel as unavailable.
type Snapshot struct {
	scalars map[string]float64
	series  map[string][]float64
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		scalars: make(map[string]float64),
		series:  make(map[string][]float64),
	}
}

// FromMaps builds a snapshot from decoded scenario or message data.
func FromMaps(scalars map[string]float64, series map[string][]float64) *Snapshot {
	s := NewSnapshot()
	for k, v := range scalars {
		s.Set(k, v)
	}
	for k, v := range series {
		s.SetSeries(k, v)
	}
	return s
}

// Set stores a scalar channel value.
func (s *Snapshot) Set(channel string, v float64) *Snapshot {
	s.scalars[channel] = v
	return s
}

// SetSeries stores a copy of a vector channel.
func (s *Snapshot) SetSeries(channel string, v []float64) *Snapshot {
	s.series[channel] = append([]float64(nil), v...)
	return s
}

// Get returns a scalar channel.
func (s *Snapshot) Get(channel string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.scalars[channel]
	return v, ok
}

// Series returns a vector channel. The caller must not modify the result.
func (s *Snapshot) Series(channel string) []float64 {
	if s == nil {
		return nil
	}
	return s.series[channel]
}

// Bool interprets a scalar channel as a flag: any non-zero value is true.
func (s *Snapshot) Bool(channel string) bool {
	v, ok := s.Get(channel)
	return ok && v != 0
}

// Channels returns the sorted names of every channel present.
func (s *Snapshot) Channels() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.scalars)+len(s.series))
	for k := range s.scalars {
		out = append(out, k)
	}
	for k := range s.series {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
