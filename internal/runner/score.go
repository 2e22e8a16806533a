package runner

import "math"

// Score turns scrolled distance into whole points without losing the
// fractional remainder between ticks.
type Score struct {
	Value int
	frac  float64
}

// Add accrues speed*dt*rate points.
func (s *Score) Add(speed, dt, rate float64) {
	s.frac += speed * dt * rate
	whole := math.Floor(s.frac)
	if whole >= 1 {
		s.Value += int(whole)
		s.frac -= whole
	}
}

// Reset zeroes the score and its remainder.
func (s *Score) Reset() {
	s.Value = 0
	s.frac = 0
}
