// Package sim drives runs without a frontend: a simple autopilot plays them
// with a fixed timestep so batches are reproducible from a seed.
package sim

import (
	"github.com/vovakirdan/inkdash/internal/core"
	"github.com/vovakirdan/inkdash/internal/runner"
)

// Autopilot plays a run from snapshots. It jumps ground blocks and draws a
// short platform whenever the tutorial asks for one.
type Autopilot struct {
	Lead float64 // Seconds of warning before a ground block reaches the player
}

// NewAutopilot returns an autopilot with a lead time that clears every
// ground block the spawner can produce at the default jump settings.
func NewAutopilot() *Autopilot {
	return &Autopilot{Lead: 0.2}
}

// Act issues this frame's input.
func (a *Autopilot) Act(r *runner.Run, snap runner.Snapshot) {
	if snap.Phase != runner.PhaseRunning || snap.Paused {
		return
	}

	if snap.Stage == runner.StageDraw && snap.InkReady && !snap.Drawing {
		a.drawPlatform(r, snap)
	}

	if a.blockAhead(snap) {
		r.Jump()
	}
}

// blockAhead reports whether a ground block is inside the jump window.
func (a *Autopilot) blockAhead(snap runner.Snapshot) bool {
	front := snap.Player.Pos.X + snap.Player.Radius
	window := snap.Speed * a.Lead

	for _, o := range snap.Obstacles {
		if o.Behavior != runner.GroundBlock {
			continue
		}
		gap := o.Rect.X - front
		if gap >= 0 && gap <= window {
			return true
		}
	}
	return false
}

// drawPlatform sketches a flat line at the player's height on the right side.
func (a *Autopilot) drawPlatform(r *runner.Run, snap runner.Snapshot) {
	y := snap.GroundY - snap.Player.Radius*3
	x := snap.ViewW * 0.7
	if !r.StartLine(core.V(x, y)) {
		return
	}
	for i := 1; i <= 4; i++ {
		r.ExtendLine(core.V(x+float64(i)*20, y))
	}
	r.EndLine()
}
