package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/willibrandon/eventarb/internal/alerts"
)

var _ alerts.Telemetry = (*Snapshot)(nil)

func TestSnapshot_NilIsEmpty(t *testing.T) {
	var s *Snapshot

	v, ok := s.Get(CalibrationPercent)
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Nil(t, s.Series(JoystickAxes))
	assert.False(t, s.Bool(GPSIntegrated))
	assert.Empty(t, s.Channels())
}

func TestSnapshot_SetAndGet(t *testing.T) {
	axes := []float64{0.5, -0.25}
	s := NewSnapshot().
		Set(CalibrationPercent, 42).
		Set(GPSIntegrated, 1).
		SetSeries(JoystickAxes, axes)

	v, ok := s.Get(CalibrationPercent)
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
	assert.True(t, s.Bool(GPSIntegrated))

	axes[0] = 9
	assert.Equal(t, []float64{0.5, -0.25}, s.Series(JoystickAxes), "series must be copied on set")

	assert.Equal(t, []string{CalibrationPercent, GPSIntegrated, JoystickAxes}, s.Channels())
}

func TestFromMaps(t *testing.T) {
	s := FromMaps(
		map[string]float64{AutoLaneChangeTimer: 1.5},
		map[string][]float64{JoystickAxes: {0.1}},
	)

	v, ok := s.Get(AutoLaneChangeTimer)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	assert.Len(t, s.Series(JoystickAxes), 1)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}
