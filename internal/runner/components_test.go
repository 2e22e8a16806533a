package runner

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestClockFirstTickAndClamp(t *testing.T) {
	c := NewClock(1.0/30, 1.0/60)
	start := time.Unix(100, 0)

	if dt := c.Next(start); !almostEqual(dt, 1.0/60) {
		t.Errorf("first tick: expected 1/60, got %f", dt)
	}
	if dt := c.Next(start.Add(10 * time.Millisecond)); !almostEqual(dt, 0.01) {
		t.Errorf("normal tick: expected 0.01, got %f", dt)
	}
	// A five second stall must be clamped
	if dt := c.Next(start.Add(5 * time.Second)); !almostEqual(dt, 1.0/30) {
		t.Errorf("stalled tick: expected 1/30, got %f", dt)
	}
	// Time going backwards produces no step
	if dt := c.Next(start); dt != 0 {
		t.Errorf("backwards tick: expected 0, got %f", dt)
	}

	c.Reset()
	if dt := c.Next(start.Add(time.Hour)); !almostEqual(dt, 1.0/60) {
		t.Errorf("after reset: expected 1/60, got %f", dt)
	}
}

func TestInkBeginRules(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Ink
	viewW := 800.0

	ink := NewInk(cfg)
	if ink.Begin(viewW*0.2, viewW) {
		t.Error("line should not start in the left part of the screen")
	}
	if ink.Value != 1 {
		t.Errorf("rejected begin must not change ink, got %f", ink.Value)
	}

	if !ink.Begin(viewW*0.8, viewW) {
		t.Fatal("line should start with full ink on the right side")
	}
	if !almostEqual(ink.Value, 1-cfg.StartCost) {
		t.Errorf("expected ink %f after start, got %f", 1-cfg.StartCost, ink.Value)
	}

	ink.End()
	if ink.Begin(viewW*0.8, viewW) {
		t.Error("line should not start during cooldown")
	}

	low := NewInk(cfg)
	low.Value = cfg.MinToStart - 0.01
	if low.Begin(viewW*0.8, viewW) {
		t.Error("line should not start below the minimum ink")
	}
}

func TestInkDrainsToZeroAndForcesEnd(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Ink
	ink := NewInk(cfg)
	ink.Begin(700, 800)

	dt := 1.0 / 60
	depleted := false
	for i := 0; i < 600 && !depleted; i++ {
		depleted = ink.Tick(dt, true, true)
		if ink.Value < 0 || ink.Value > 1 {
			t.Fatalf("ink out of range: %f", ink.Value)
		}
	}
	if !depleted {
		t.Fatal("holding a line should eventually deplete the ink")
	}
	if ink.Value != 0 {
		t.Errorf("expected empty ink, got %f", ink.Value)
	}
}

func TestInkRegenWaitsForDelay(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Ink
	ink := NewInk(cfg)
	ink.Value = 0.5
	ink.End()

	// Still inside the regen delay
	ink.Tick(cfg.RegenDelay/2, false, true)
	if ink.Value != 0.5 {
		t.Errorf("ink regenerated during delay: %f", ink.Value)
	}

	// Let both timers expire, then regenerate for one second on the ground
	ink.Tick(cfg.RegenDelay, false, true)
	before := ink.Value
	ink.Tick(1, false, true)
	grounded := ink.Value - before

	airborne := NewInk(cfg)
	airborne.Value = before
	airborne.Tick(1, false, false)
	air := airborne.Value - before

	if !almostEqual(grounded, cfg.RegenPerSecond) {
		t.Errorf("expected grounded regen %f, got %f", cfg.RegenPerSecond, grounded)
	}
	if !almostEqual(air, cfg.RegenPerSecond*cfg.AirborneRegenScale) {
		t.Errorf("expected airborne regen %f, got %f", cfg.RegenPerSecond*cfg.AirborneRegenScale, air)
	}

	for i := 0; i < 100; i++ {
		ink.Tick(0.5, false, true)
	}
	if ink.Value != 1 {
		t.Errorf("ink should cap at 1, got %f", ink.Value)
	}
}

func TestPlayerGravityAndGround(t *testing.T) {
	const groundY = 480.0
	p := NewPlayer(120, 18, groundY, 0.12)

	if !p.Jump(-860) {
		t.Fatal("grounded player should jump")
	}
	if p.VY != -860 || p.Grounded || p.Coyote != 0 {
		t.Errorf("unexpected state after jump: %+v", p)
	}
	if p.Jump(-860) {
		t.Error("airborne player without coyote time should not jump")
	}

	for i := 0; i < 600; i++ {
		p.Integrate(1.0/60, 2300, groundY, 0.12)
		if p.Bottom() > groundY+eps {
			t.Fatalf("player fell through the ground: bottom=%f", p.Bottom())
		}
	}
	if !p.Grounded || p.VY != 0 {
		t.Errorf("player should have landed: %+v", p)
	}
}

func TestPlayerCoyoteTime(t *testing.T) {
	p := NewPlayer(120, 18, 480, 0.12)
	// Lift the player off any support, as if a line scrolled away
	p.Pos.Y -= 100

	p.Integrate(0.05, 0, 480, 0.12)
	if p.Grounded {
		t.Fatal("player should be airborne")
	}
	if !p.CanJump() {
		t.Error("jump should be allowed within coyote time")
	}

	p.Integrate(0.1, 0, 480, 0.12)
	if p.CanJump() {
		t.Error("jump should be refused after coyote time")
	}
}

func TestLedgerStrokeLifecycle(t *testing.T) {
	l := NewLedger(config.DefaultRunnerConfig().Lines)

	l.Start(core.V(500, 300), 0)
	if l.Extend(core.V(501, 300)) {
		t.Error("point closer than the minimum spacing should be skipped")
	}
	if l.Finish() {
		t.Error("single-point stroke should be discarded")
	}
	if l.Len() != 0 {
		t.Errorf("expected empty ledger, got %d lines", l.Len())
	}

	l.Start(core.V(500, 300), 0)
	l.Extend(core.V(540, 300))
	if !l.Finish() {
		t.Fatal("two-point stroke should be kept")
	}
	if l.Drawing() {
		t.Error("no stroke should be active after finish")
	}

	l.Shift(-100)
	lines := l.Lines()
	if lines[0].Points[0].X != 400 {
		t.Errorf("expected shifted x 400, got %f", lines[0].Points[0].X)
	}
	// Mutating the copy must not affect the ledger
	lines[0].Points[0].X = 0
	if l.Lines()[0].Points[0].X != 400 {
		t.Error("Lines must return a deep copy")
	}
}

func TestLedgerAging(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Lines
	l := NewLedger(cfg)

	l.Start(core.V(500, 300), 0)
	l.Extend(core.V(540, 300))
	l.Finish()
	l.Start(core.V(500, 300), 1)
	l.Extend(core.V(540, 300))

	if expired := l.Age(cfg.Lifetime + 0.5); expired {
		t.Error("active stroke is younger than the lifetime")
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 line after aging, got %d", l.Len())
	}

	if expired := l.Age(cfg.Lifetime + 1.5); !expired {
		t.Error("expected the active stroke to expire")
	}
	if l.Drawing() || l.Len() != 0 {
		t.Errorf("expected empty ledger, drawing=%v len=%d", l.Drawing(), l.Len())
	}
}

func TestLedgerSupport(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Lines
	l := NewLedger(cfg)
	l.Start(core.V(100, 300), 0)
	l.Extend(core.V(200, 320))
	l.Finish()

	p := NewPlayer(150, 18, 480, 0.12)
	p.Grounded = false
	p.Pos.Y = 310 - 18 + cfg.SupportTolerance/2 // bottom slightly below the segment
	p.VY = 200

	if !l.Support(&p, 0.12) {
		t.Fatal("falling player near the segment should be supported")
	}
	if !almostEqual(p.Bottom(), 310) || p.VY != 0 || !p.Grounded {
		t.Errorf("player not snapped onto the line: %+v", p)
	}

	p.VY = -300
	if l.Support(&p, 0.12) {
		t.Error("rising player must pass through lines")
	}

	far := NewPlayer(400, 18, 480, 0.12)
	far.Pos.Y = 300 - 18
	if l.Support(&far, 0.12) {
		t.Error("player outside the segment range should not be supported")
	}
}

func TestScoreCarriesFraction(t *testing.T) {
	var s Score
	// 320 px/s * 1/60 s * 0.02 = 0.1066.. points per tick
	for i := 0; i < 60; i++ {
		s.Add(320, 1.0/60, 0.02)
	}
	if s.Value != 6 {
		t.Errorf("expected 6 points after one second, got %d", s.Value)
	}
	for i := 0; i < 510; i++ {
		s.Add(320, 1.0/60, 0.02)
	}
	if s.Value != 60 {
		t.Errorf("expected 60 points after 9.5 seconds, got %d", s.Value)
	}
}

func TestTutorialStrictlyForward(t *testing.T) {
	tut := NewTutorial(false)

	if tut.OnJump() || tut.OnLineStarted() || tut.OnCoinCollected() {
		t.Error("out-of-order events must not advance the tutorial")
	}
	if !tut.OnRunStart() || tut.Stage() != StageJump {
		t.Fatalf("run start should move to jump, got %s", tut.Stage())
	}
	if tut.OnRunStart() {
		t.Error("run start should only fire once")
	}
	if tut.OnCoinCollected() {
		t.Error("coin must not advance from jump")
	}
	tut.OnJump()
	tut.OnLineStarted()
	tut.OnCoinCollected()
	if tut.Stage() != StageComplete || tut.Active() {
		t.Errorf("expected complete, got %s", tut.Stage())
	}

	done := NewTutorial(true)
	if done.OnRunStart() || done.Stage() != StageComplete {
		t.Error("completed tutorial must be bypassed")
	}
}

func TestFirstHitSkipsDecorative(t *testing.T) {
	p := NewPlayer(120, 18, 480, 0.12)
	overlap := core.NewRect(110, 450, 20, 20)

	obstacles := []Obstacle{
		{Rect: overlap, Behavior: Projectile},
		{Rect: core.NewRect(400, 400, 40, 80), Behavior: GroundBlock},
	}
	if _, hit := FirstHit(&p, obstacles); hit {
		t.Error("decorative obstacles must not collide")
	}

	obstacles = append(obstacles, Obstacle{Rect: overlap, Behavior: Ceiling})
	o, hit := FirstHit(&p, obstacles)
	if !hit || o.Behavior != Ceiling {
		t.Errorf("expected ceiling hit, got %v %s", hit, o.Behavior)
	}

	// Closest point exactly one radius away still touches
	edge := core.NewRect(p.Pos.X+p.Radius, p.Pos.Y-10, 30, 20)
	if _, hit := FirstHit(&p, []Obstacle{{Rect: edge}}); !hit {
		t.Error("touching rectangle should count as a hit")
	}
}

func TestOscillationIsCosmetic(t *testing.T) {
	o := Obstacle{
		Rect:     core.NewRect(300, 200, 40, 40),
		Behavior: MovingHazard,
		Motion:   Oscillation{Anchor: core.V(300, 200), Amplitude: 30, Frequency: 1},
	}
	shown := o.DisplayRect(0.25)
	if !almostEqual(shown.Y, 230) {
		t.Errorf("expected display y 230 at a quarter period, got %f", shown.Y)
	}
	if o.Rect.Y != 200 {
		t.Error("display offset must not move the collision rectangle")
	}
}
