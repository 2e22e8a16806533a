package runner

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/inkdash/internal/core"
)

// Behavior tags an obstacle variant.
type Behavior int

const (
	GroundBlock Behavior = iota
	MovingHazard
	HoveringShard
	Ceiling

	// Decorative variants are drawn by renderers only. The spawner never
	// creates them and they never collide.
	Hopper
	Spitter
	Projectile
)

// String returns the analytics name of the behavior.
func (b Behavior) String() string {
	switch b {
	case GroundBlock:
		return "groundBlock"
	case MovingHazard:
		return "movingHazard"
	case HoveringShard:
		return "hoveringShard"
	case Ceiling:
		return "ceiling"
	case Hopper:
		return "hopper"
	case Spitter:
		return "spitter"
	case Projectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Decorative reports whether the behavior is render-only.
func (b Behavior) Decorative() bool {
	return b >= Hopper
}

// Airborne reports whether the behavior floats above the ground.
func (b Behavior) Airborne() bool {
	return b == MovingHazard || b == HoveringShard
}

// Oscillation describes the cosmetic bobbing of airborne obstacles.
// It never changes the collision rectangle.
type Oscillation struct {
	Anchor    core.Vec2 // Rest position (top-left) at spawn time
	Amplitude float64   // Pixels
	Frequency float64   // Hz
	Phase     float64   // Radians
}

// Offset returns the vertical display offset at run time t.
func (o Oscillation) Offset(t float64) float64 {
	if o.Amplitude == 0 {
		return 0
	}
	return o.Amplitude * math.Sin(2*math.Pi*o.Frequency*t+o.Phase)
}

// Obstacle is an axis-aligned hazard scrolling toward the player.
type Obstacle struct {
	Rect     core.Rect
	Behavior Behavior
	Motion   Oscillation
}

// DisplayRect returns where a renderer should draw the obstacle at run time t.
func (o Obstacle) DisplayRect(t float64) core.Rect {
	return o.Rect.Translate(0, o.Motion.Offset(t))
}

// Coin is a collectible.
type Coin struct {
	Pos    core.Vec2
	Radius float64
}

// TrailShape is how a coin trail following an obstacle is laid out.
type TrailShape int

const (
	TrailAscending TrailShape = iota
	TrailDescending
)

// placement carries everything a geometry function needs.
type placement struct {
	x       float64 // Left edge of the new obstacle
	groundY float64
	gentle  bool // Tutorial-sized variant
	rng     *rand.Rand
}

// minCeilingHeight keeps a ceiling collidable on playfields too short for
// its usual clearance.
const minCeilingHeight = 24.0

// fitAbove moves a shape of height h with its top at y so it lies between
// the top of the playfield and the ground, shrinking it if it cannot fit.
func fitAbove(y, h, groundY float64) (float64, float64) {
	h = math.Min(h, groundY)
	return math.Max(0, math.Min(y, groundY-h)), h
}

// between returns a uniform value in [lo, hi).
func (p placement) between(lo, hi float64) float64 {
	return lo + p.rng.Float64()*(hi-lo)
}

// behaviorRule is the strategy for one spawnable behavior.
type behaviorRule struct {
	place func(p placement) Obstacle
	trail TrailShape
	// trailBaseY returns the y of the first trail coin.
	trailBaseY func(o Obstacle, groundY float64) float64
}

// behaviors is the strategy table for spawnable obstacles. Collision code
// never looks at it; adding a variant only touches this table.
var behaviors = map[Behavior]behaviorRule{
	GroundBlock: {
		place: func(p placement) Obstacle {
			w, h := 44.0, 46.0
			if !p.gentle {
				w = p.between(42, 78)
				h = p.between(46, 96)
			}
			y, h := fitAbove(p.groundY-h, h, p.groundY)
			return Obstacle{
				Rect:     core.NewRect(p.x, y, w, h),
				Behavior: GroundBlock,
			}
		},
		trail: TrailAscending,
		trailBaseY: func(_ Obstacle, groundY float64) float64 {
			return groundY - 34
		},
	},
	MovingHazard: {
		place: func(p placement) Obstacle {
			size := p.between(44, 60)
			y, h := fitAbove(p.groundY-size-p.between(110, 230), size, p.groundY)
			anchor := core.V(p.x, y)
			return Obstacle{
				Rect:     core.NewRect(anchor.X, anchor.Y, size, h),
				Behavior: MovingHazard,
				Motion: Oscillation{
					Anchor:    anchor,
					Amplitude: p.between(22, 48),
					Frequency: p.between(1.2, 2.2),
					Phase:     p.between(0, 2*math.Pi),
				},
			}
		},
		trail: TrailDescending,
		trailBaseY: func(o Obstacle, _ float64) float64 {
			return o.Rect.Y
		},
	},
	HoveringShard: {
		place: func(p placement) Obstacle {
			w := p.between(34, 46)
			h := p.between(70, 110)
			y, h := fitAbove(p.groundY-h-p.between(40, 100), h, p.groundY)
			anchor := core.V(p.x, y)
			return Obstacle{
				Rect:     core.NewRect(anchor.X, anchor.Y, w, h),
				Behavior: HoveringShard,
				Motion: Oscillation{
					Anchor:    anchor,
					Amplitude: p.between(10, 24),
					Frequency: p.between(0.6, 1.1),
					Phase:     p.between(0, 2*math.Pi),
				},
			}
		},
		trail: TrailDescending,
		trailBaseY: func(o Obstacle, _ float64) float64 {
			return o.Rect.Y - 30
		},
	},
	Ceiling: {
		place: func(p placement) Obstacle {
			w := p.between(90, 160)
			clearance := p.between(96, 140)
			h := math.Min(math.Max(p.groundY-clearance, minCeilingHeight), p.groundY)
			return Obstacle{
				Rect:     core.NewRect(p.x, 0, w, h),
				Behavior: Ceiling,
			}
		},
		trail: TrailAscending,
		trailBaseY: func(_ Obstacle, groundY float64) float64 {
			return groundY - 30
		},
	},
}
