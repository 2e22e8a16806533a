package runner

import (
	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
)

// Ink is the bounded resource consumed by drawing lines.
type Ink struct {
	Value      float64 // Always within [0, 1]
	Cooldown   float64 // Seconds before a new line may start
	RegenDelay float64 // Seconds before passive regeneration resumes

	cfg config.InkConfig
}

// NewInk returns a full ink reservoir.
func NewInk(cfg config.InkConfig) Ink {
	return Ink{Value: 1, cfg: cfg}
}

// Refill restores a full reservoir and clears all timers.
func (k *Ink) Refill() {
	k.Value = 1
	k.Cooldown = 0
	k.RegenDelay = 0
}

// CanBegin reports whether a line may start at screen x in a viewport of width viewW.
func (k *Ink) CanBegin(x, viewW float64) bool {
	if k.Value < k.cfg.MinToStart || k.Cooldown > 0 {
		return false
	}
	return x >= viewW*k.cfg.DrawRegion
}

// Begin pays the start cost for a new line. It returns false without
// touching any state when the line is not allowed.
func (k *Ink) Begin(x, viewW float64) bool {
	if !k.CanBegin(x, viewW) {
		return false
	}
	k.Value = core.ClampF(k.Value-k.cfg.StartCost, 0, 1)
	k.RegenDelay = k.cfg.RegenDelay
	return true
}

// Tick advances the economy by dt seconds. It returns true when drawing
// drained the reservoir to zero and the active line must be ended.
func (k *Ink) Tick(dt float64, drawing, grounded bool) (depleted bool) {
	if drawing {
		k.Value = core.ClampF(k.Value-k.cfg.DrainPerSecond*dt, 0, 1)
		k.RegenDelay = k.cfg.RegenDelay
		return k.Value <= 0
	}

	k.Cooldown = core.Approach(k.Cooldown, dt)
	k.RegenDelay = core.Approach(k.RegenDelay, dt)
	if k.Cooldown > 0 || k.RegenDelay > 0 {
		return false
	}

	rate := k.cfg.RegenPerSecond
	if !grounded {
		rate *= k.cfg.AirborneRegenScale
	}
	k.Value = core.ClampF(k.Value+rate*dt, 0, 1)
	return false
}

// End arms the line cooldown and the regeneration delay.
func (k *Ink) End() {
	k.Cooldown = k.cfg.LineCooldown
	k.RegenDelay = k.cfg.RegenDelay
}
