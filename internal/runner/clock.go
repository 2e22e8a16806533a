package runner

import "time"

// Clock converts wall-clock frame timestamps into clamped simulation deltas.
// A stalled frame (for example after the app was backgrounded) can never
// produce a step larger than maxDelta.
type Clock struct {
	last       time.Time
	primed     bool
	maxDelta   float64
	firstDelta float64
}

// NewClock creates a clock with the given clamp and first-tick default, in seconds.
func NewClock(maxDelta, firstDelta float64) *Clock {
	return &Clock{maxDelta: maxDelta, firstDelta: firstDelta}
}

// Reset makes the next call to Next return the first-tick default.
func (c *Clock) Reset() {
	c.primed = false
	c.last = time.Time{}
}

// Next returns the seconds elapsed since the previous call, clamped to
// (0, maxDelta]. The first call after Reset returns firstDelta.
func (c *Clock) Next(now time.Time) float64 {
	if !c.primed {
		c.primed = true
		c.last = now
		return c.firstDelta
	}

	dt := now.Sub(c.last).Seconds()
	c.last = now

	if dt <= 0 {
		return 0
	}
	if dt > c.maxDelta {
		return c.maxDelta
	}
	return dt
}
