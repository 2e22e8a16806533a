package runner

import (
	"fmt"
	"time"
)

// RunStats is the immutable summary of a finished run.
type RunStats struct {
	Duration       time.Duration
	Score          int
	CoinsCollected int
	DrewLine       bool
	JumpCount      int
	DrawTime       time.Duration
	ObstacleDeath  bool     // False when the run was abandoned
	DeathCause     Behavior // Meaningful only if ObstacleDeath
}

// String returns a one-line human summary.
func (s RunStats) String() string {
	cause := "abandoned"
	if s.ObstacleDeath {
		cause = s.DeathCause.String()
	}
	return fmt.Sprintf("score=%d coins=%d duration=%s jumps=%d drew=%t draw_time=%s end=%s",
		s.Score, s.CoinsCollected, s.Duration.Round(time.Millisecond), s.JumpCount,
		s.DrewLine, s.DrawTime.Round(time.Millisecond), cause)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
