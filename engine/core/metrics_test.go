package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameMetricsFPS(t *testing.T) {
	m := NewFrameMetrics()
	for i := 0; i < 4; i++ {
		assert.False(t, m.Update(0.25), "frame %d", i)
	}
	assert.True(t, m.Update(0.25))
	assert.Equal(t, 5.0, m.FPS())

	// the remainder carries over into the next second
	for i := 0; i < 3; i++ {
		assert.False(t, m.Update(0.25))
	}
	assert.True(t, m.Update(0.25))
	assert.Equal(t, 4.0, m.FPS())
}

func TestFrameMetricsAverage(t *testing.T) {
	m := NewFrameMetrics()
	for i := 0; i < int(AVG_COUNT)-1; i++ {
		m.Update(0.004)
	}
	assert.Zero(t, m.FrameTime(), "average is only published once the window is full")

	m.Update(0.004)
	assert.InDelta(t, 4.0, m.FrameTime(), 1e-9)

	fps, frameTime := m.Frame()
	assert.Equal(t, m.FPS(), fps)
	assert.Equal(t, m.FrameTime(), frameTime)
}
