package core

import "time"

// Clock measures wall time on the monotonic clock.
type Clock struct {
	startTime time.Time
	lastTick  time.Time
	elapsed   time.Duration
}

func NewClock() *Clock {
	return &Clock{}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = time.Since(c.startTime)
	}
}

// Starts the provided clock. Resets elapsed time and the tick mark.
func (c *Clock) Start() {
	c.startTime = time.Now()
	c.lastTick = c.startTime
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

// Elapsed returns the seconds between Start and the last Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed.Seconds()
}

// Tick returns the seconds since the previous Tick (or since Start for the
// first one) and moves the tick mark to now. A clock that was never started
// starts itself and reports zero.
func (c *Clock) Tick() float64 {
	now := time.Now()
	if c.startTime.IsZero() {
		c.startTime = now
		c.lastTick = now
		return 0
	}
	delta := now.Sub(c.lastTick)
	c.lastTick = now
	if delta < 0 {
		return 0
	}
	return delta.Seconds()
}
