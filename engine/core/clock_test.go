package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockElapsed(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Zero(t, c.Elapsed(), "a clock that never started does not move")

	c.Start()
	time.Sleep(10 * time.Millisecond)
	c.Update()
	assert.GreaterOrEqual(t, c.Elapsed(), 0.01)

	c.Stop()
	stopped := c.Elapsed()
	time.Sleep(time.Millisecond)
	c.Update()
	assert.Equal(t, stopped, c.Elapsed())
}

func TestClockTick(t *testing.T) {
	c := NewClock()
	assert.Zero(t, c.Tick(), "first tick of an unstarted clock starts it")

	time.Sleep(5 * time.Millisecond)
	first := c.Tick()
	assert.GreaterOrEqual(t, first, 0.005)

	second := c.Tick()
	assert.GreaterOrEqual(t, second, 0.0)
	assert.Less(t, second, first)
}
