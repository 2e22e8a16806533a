package runner

import "github.com/vovakirdan/inkdash/internal/core"

// FirstHit returns the first non-decorative obstacle the player's circle
// overlaps, tested by closest-point clamping.
func FirstHit(p *Player, obstacles []Obstacle) (Obstacle, bool) {
	for _, o := range obstacles {
		if o.Behavior.Decorative() {
			continue
		}
		if core.CircleIntersectsRect(p.Pos, p.Radius, o.Rect) {
			return o, true
		}
	}
	return Obstacle{}, false
}

// collectCoins removes every coin touching the player and returns how many.
func (w *World) collectCoins(p *Player) int {
	collected := 0
	for i := len(w.coins) - 1; i >= 0; i-- {
		c := w.coins[i]
		if core.CirclesOverlap(p.Pos, p.Radius, c.Pos, c.Radius) {
			w.removeCoin(i)
			collected++
		}
	}
	return collected
}
