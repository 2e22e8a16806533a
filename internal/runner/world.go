package runner

import (
	"math/rand"

	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
)

// SpawnPolicy is the run context the spawner consults when choosing the next
// obstacle.
type SpawnPolicy struct {
	TutorialActive bool
	Stage          TutorialStage
	Score          int
	Elapsed        float64
}

// World scrolls obstacles and coins toward the player and spawns new ones
// off-screen to the right.
type World struct {
	obstacles  []Obstacle
	coins      []Coin
	speed      float64
	baseSpeed  float64
	spawnTimer float64
	viewW      float64
	groundY    float64
	rng        *rand.Rand
	cfg        *config.RunnerConfig
	difficulty *config.DifficultyManager
}

// NewWorld creates an empty world. The rng is shared with the owning run.
func NewWorld(cfg *config.RunnerConfig, diff *config.DifficultyManager, rng *rand.Rand) *World {
	return &World{
		obstacles:  make([]Obstacle, 0, 16),
		coins:      make([]Coin, 0, 32),
		rng:        rng,
		cfg:        cfg,
		difficulty: diff,
	}
}

// Reset clears all entities and restarts the speed ramp for a viewport.
func (w *World) Reset(viewW, groundY float64, tutorialActive bool) {
	w.obstacles = w.obstacles[:0]
	w.coins = w.coins[:0]
	w.viewW = viewW
	w.groundY = groundY
	w.baseSpeed = w.difficulty.BaseSpeed(w.cfg.Scroll.BaseSpeed, w.cfg.Scroll.MaxSpeed)
	w.speed = w.baseSpeed
	w.spawnTimer = w.initialDelay(tutorialActive)
}

func (w *World) initialDelay(tutorialActive bool) float64 {
	d := w.cfg.Spawn.InitialDelay
	if tutorialActive {
		d += w.cfg.Spawn.TutorialOffset
	}
	return d
}

// Speed returns the current scroll speed in px/s.
func (w *World) Speed() float64 {
	return w.speed
}

// Obstacles returns the live obstacle slice. Callers must not retain it.
func (w *World) Obstacles() []Obstacle {
	return w.obstacles
}

// Coins returns the live coin slice. Callers must not retain it.
func (w *World) Coins() []Coin {
	return w.coins
}

// Step ramps the scroll speed, drops entities that crossed the left margin
// on the previous tick, moves everything left and runs the spawn countdown.
// It returns the horizontal displacement applied this tick (negative).
func (w *World) Step(dt float64, policy SpawnPolicy) float64 {
	w.speed += w.cfg.Scroll.RampPerSecond * dt
	if w.speed > w.cfg.Scroll.MaxSpeed {
		w.speed = w.cfg.Scroll.MaxSpeed
	}

	// Entities that crossed the margin last tick go before this shift.
	w.despawn()

	dx := -w.speed * dt
	for i := range w.obstacles {
		w.obstacles[i].Rect.X += dx
		w.obstacles[i].Motion.Anchor.X += dx
	}
	for i := range w.coins {
		w.coins[i].Pos.X += dx
	}

	w.spawnTimer -= dt
	if w.spawnTimer <= 0 {
		w.spawn(policy)
		w.spawnTimer = w.nextInterval(policy)
	}

	return dx
}

// despawn removes entities whose trailing edge passed the left margin.
func (w *World) despawn() {
	limit := -w.cfg.World.DespawnMargin

	validObstacles := w.obstacles[:0]
	for _, o := range w.obstacles {
		if o.Rect.Right() >= limit {
			validObstacles = append(validObstacles, o)
		}
	}
	w.obstacles = validObstacles

	validCoins := w.coins[:0]
	for _, c := range w.coins {
		if c.Pos.X+c.Radius >= limit {
			validCoins = append(validCoins, c)
		}
	}
	w.coins = validCoins
}

// speedFraction returns how far along the speed ramp the world is.
func (w *World) speedFraction() float64 {
	span := w.cfg.Scroll.MaxSpeed - w.baseSpeed
	if span <= 0 {
		return 1
	}
	return core.ClampF((w.speed-w.baseSpeed)/span, 0, 1)
}

// nextInterval draws the next spawn countdown: shorter at higher difficulty,
// jittered, and padded while the tutorial runs.
func (w *World) nextInterval(policy SpawnPolicy) float64 {
	level := w.difficulty.Level(config.Progress{
		SpeedFraction: w.speedFraction(),
		Score:         policy.Score,
		Elapsed:       policy.Elapsed,
	})
	interval := w.difficulty.SpawnInterval(w.cfg.Spawn.MinInterval, w.cfg.Spawn.MaxInterval, level)

	jitter := w.cfg.Spawn.Jitter
	interval *= 1 - jitter + w.rng.Float64()*2*jitter

	if policy.TutorialActive {
		interval += w.cfg.Spawn.TutorialOffset
	}
	return interval
}

// SelectBehavior picks the next obstacle variant. During the tutorial the
// stage decides; afterwards a weighted roll does, biased to ground blocks
// early in the session.
func (w *World) SelectBehavior(policy SpawnPolicy) Behavior {
	if policy.TutorialActive {
		switch policy.Stage {
		case StageDraw:
			return HoveringShard
		default:
			return GroundBlock
		}
	}

	roll := w.rng.Float64()
	switch {
	case policy.Score < w.cfg.Spawn.EarlySessionScore || roll > 0.75:
		return GroundBlock
	case roll < 0.28:
		return MovingHazard
	case roll < 0.5:
		return Ceiling
	default:
		return HoveringShard
	}
}

// spawn places one obstacle just right of the viewport and maybe a coin trail.
func (w *World) spawn(policy SpawnPolicy) {
	behavior := w.SelectBehavior(policy)
	rule := behaviors[behavior]

	o := rule.place(placement{
		x:       w.viewW + w.cfg.World.SpawnMargin,
		groundY: w.groundY,
		gentle:  policy.TutorialActive,
		rng:     w.rng,
	})
	w.obstacles = append(w.obstacles, o)

	forceTrail := policy.TutorialActive && policy.Stage == StageCoin
	w.dropCoins(o, rule, forceTrail)
}

// dropCoins rolls for a coin trail, a single bonus coin, or nothing.
func (w *World) dropCoins(o Obstacle, rule behaviorRule, forceTrail bool) {
	roll := w.rng.Float64()
	coins := w.cfg.Coins

	switch {
	case forceTrail || roll < coins.TrailChance:
		count := 4 + w.rng.Intn(3)
		startX := o.Rect.Right() + coins.Spacing*1.5
		baseY := rule.trailBaseY(o, w.groundY)
		step := -coins.Rise
		if rule.trail == TrailDescending {
			step = coins.Rise
		}
		for i := 0; i < count; i++ {
			y := baseY + step*float64(i)
			// Keep coins above the ground line
			if y > w.groundY-coins.Radius {
				y = w.groundY - coins.Radius
			}
			w.coins = append(w.coins, Coin{
				Pos:    core.V(startX+coins.Spacing*float64(i), y),
				Radius: coins.Radius,
			})
		}
	case roll < coins.TrailChance+coins.BonusChance && o.Behavior == GroundBlock:
		center := o.Rect.Center()
		w.coins = append(w.coins, Coin{
			Pos:    core.V(center.X, o.Rect.Y-coins.Radius-40),
			Radius: coins.Radius,
		})
	}
}

// ClearAround removes obstacles and coins within radius of x, horizontally.
func (w *World) ClearAround(x, radius float64) {
	validObstacles := w.obstacles[:0]
	for _, o := range w.obstacles {
		if o.Rect.X > x+radius || o.Rect.Right() < x-radius {
			validObstacles = append(validObstacles, o)
		}
	}
	w.obstacles = validObstacles

	validCoins := w.coins[:0]
	for _, c := range w.coins {
		if c.Pos.X > x+radius || c.Pos.X < x-radius {
			validCoins = append(validCoins, c)
		}
	}
	w.coins = validCoins
}

// EaseAfterRevive slows the scroll by the revive factor, floored at the
// configured minimum but never faster than before.
func (w *World) EaseAfterRevive() {
	before := w.speed
	eased := w.speed * w.cfg.Scroll.ReviveFactor
	if eased < w.cfg.Scroll.ReviveMinSpeed {
		eased = w.cfg.Scroll.ReviveMinSpeed
	}
	if eased > before {
		eased = before
	}
	w.speed = eased
	w.spawnTimer = w.cfg.Spawn.InitialDelay
}

// removeCoin deletes the coin at index i.
func (w *World) removeCoin(i int) {
	w.coins = append(w.coins[:i], w.coins[i+1:]...)
}
