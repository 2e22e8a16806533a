package runner

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
)

func newTestWorld(seed int64) (*World, *config.RunnerConfig) {
	cfg := config.DefaultRunnerConfig()
	w := NewWorld(&cfg, config.NewDifficultyManager(cfg.Difficulty), rand.New(rand.NewSource(seed)))
	w.Reset(800, 480, false)
	return w, &cfg
}

func TestWorldSpawnsOffscreenRight(t *testing.T) {
	w, cfg := newTestWorld(1)
	policy := SpawnPolicy{Score: 1000}

	dt := 1.0 / 60
	for i := 0; i < 200 && len(w.Obstacles()) == 0; i++ {
		w.Step(dt, policy)
	}
	if len(w.Obstacles()) == 0 {
		t.Fatal("expected an obstacle after the initial delay")
	}
	o := w.Obstacles()[0]
	if o.Rect.X != 800+cfg.World.SpawnMargin {
		t.Errorf("expected spawn at x=%f, got %f", 800+cfg.World.SpawnMargin, o.Rect.X)
	}
}

func TestWorldScrollsAndDespawns(t *testing.T) {
	w, cfg := newTestWorld(1)
	w.spawnTimer = 1e9
	w.obstacles = append(w.obstacles, Obstacle{
		Rect:     core.NewRect(860, 400, 40, 80),
		Behavior: GroundBlock,
	})

	dt := 1.0 / 60
	margin := cfg.World.DespawnMargin
	x := 860.0
	for step := 0; step < 1000; step++ {
		speed := w.Speed()
		before := x
		dx := w.Step(dt, SpawnPolicy{})
		x += dx

		if dx >= 0 {
			t.Fatal("world must move left")
		}
		if !almostEqual(-dx, (speed+cfg.Scroll.RampPerSecond*dt)*dt) {
			t.Errorf("unexpected displacement %f at speed %f", dx, speed)
		}
		if len(w.Obstacles()) == 0 {
			if before+40 >= -margin {
				t.Errorf("obstacle removed in the tick it crossed the margin, right edge was %f", before+40)
			}
			return
		}
		if before+40 < -margin {
			t.Fatalf("obstacle that crossed the margin last tick still active at %f", w.Obstacles()[0].Rect.Right())
		}
	}
	t.Fatal("obstacle was never despawned")
}

func TestWorldSpeedNeverExceedsMax(t *testing.T) {
	w, cfg := newTestWorld(3)
	for i := 0; i < 20000; i++ {
		w.Step(1.0/30, SpawnPolicy{Score: 5000, Elapsed: float64(i) / 30})
		if w.Speed() > cfg.Scroll.MaxSpeed {
			t.Fatalf("speed %f above max %f", w.Speed(), cfg.Scroll.MaxSpeed)
		}
	}
	if w.Speed() != cfg.Scroll.MaxSpeed {
		t.Errorf("speed should reach the cap, got %f", w.Speed())
	}
}

func TestSelectBehaviorTutorial(t *testing.T) {
	w, _ := newTestWorld(5)

	cases := []struct {
		stage TutorialStage
		want  Behavior
	}{
		{StageIntro, GroundBlock},
		{StageJump, GroundBlock},
		{StageDraw, HoveringShard},
		{StageCoin, GroundBlock},
	}
	for _, tc := range cases {
		for i := 0; i < 20; i++ {
			got := w.SelectBehavior(SpawnPolicy{TutorialActive: true, Stage: tc.stage})
			if got != tc.want {
				t.Errorf("stage %s: expected %s, got %s", tc.stage, tc.want, got)
			}
		}
	}
}

func TestSelectBehaviorWeights(t *testing.T) {
	w, cfg := newTestWorld(7)

	for i := 0; i < 200; i++ {
		if b := w.SelectBehavior(SpawnPolicy{Score: cfg.Spawn.EarlySessionScore - 1}); b != GroundBlock {
			t.Fatalf("early session should only spawn ground blocks, got %s", b)
		}
	}

	seen := make(map[Behavior]int)
	for i := 0; i < 4000; i++ {
		seen[w.SelectBehavior(SpawnPolicy{Score: 10000})]++
	}
	for _, b := range []Behavior{GroundBlock, MovingHazard, HoveringShard, Ceiling} {
		if seen[b] == 0 {
			t.Errorf("behavior %s never selected", b)
		}
	}
	for b := range seen {
		if b.Decorative() {
			t.Errorf("spawner selected decorative behavior %s", b)
		}
	}
	// roll<0.28 -> moving hazard; expect roughly 28%
	if seen[MovingHazard] < 900 || seen[MovingHazard] > 1350 {
		t.Errorf("moving hazard share off: %d of 4000", seen[MovingHazard])
	}
}

func TestCoinStageForcesTrail(t *testing.T) {
	w, cfg := newTestWorld(11)
	for i := 0; i < 25; i++ {
		w.coins = w.coins[:0]
		w.spawn(SpawnPolicy{TutorialActive: true, Stage: StageCoin})
		n := len(w.Coins())
		if n < 4 || n > 6 {
			t.Fatalf("expected a 4-6 coin trail, got %d coins", n)
		}
		for _, c := range w.Coins() {
			if c.Pos.Y > 480-cfg.Coins.Radius {
				t.Errorf("coin below the ground line at y=%f", c.Pos.Y)
			}
		}
	}
}

func TestGeometryStaysOnScreen(t *testing.T) {
	w, _ := newTestWorld(13)
	for _, groundY := range []float64{480, 160, 128, 96, 40} {
		for b, rule := range behaviors {
			for i := 0; i < 200; i++ {
				o := rule.place(placement{x: 860, groundY: groundY, rng: w.rng})
				if o.Behavior != b {
					t.Fatalf("placed %s for %s", o.Behavior, b)
				}
				if o.Rect.W <= 0 || o.Rect.H <= 0 {
					t.Fatalf("ground %v: %s has empty rect %+v", groundY, b, o.Rect)
				}
				if o.Rect.Y < 0 || o.Rect.Bottom() > groundY+eps {
					t.Fatalf("ground %v: %s outside the playfield: %+v", groundY, b, o.Rect)
				}
				if b.Airborne() && o.Motion.Amplitude == 0 {
					t.Errorf("%s should carry oscillation", b)
				}
			}
		}
	}
}

func TestShortPlayfieldCeilingCollides(t *testing.T) {
	w, _ := newTestWorld(21)
	o := behaviors[Ceiling].place(placement{x: 0, groundY: 96, rng: w.rng})
	if o.Rect.H < minCeilingHeight {
		t.Fatalf("expected a ceiling at least %v tall, got %+v", minCeilingHeight, o.Rect)
	}
	if !core.CircleIntersectsRect(core.V(20, 5), 10, o.Rect) {
		t.Errorf("a player at the top should hit the ceiling %+v", o.Rect)
	}
}

func TestClearAroundAndEase(t *testing.T) {
	w, cfg := newTestWorld(17)
	w.obstacles = append(w.obstacles,
		Obstacle{Rect: core.NewRect(150, 400, 40, 80)},
		Obstacle{Rect: core.NewRect(700, 400, 40, 80)},
	)
	w.coins = append(w.coins, Coin{Pos: core.V(200, 400), Radius: 12}, Coin{Pos: core.V(760, 400), Radius: 12})

	w.ClearAround(120, cfg.Spawn.ReviveClearRadius)
	if len(w.Obstacles()) != 1 || w.Obstacles()[0].Rect.X != 700 {
		t.Errorf("expected only the far obstacle to remain, got %+v", w.Obstacles())
	}
	if len(w.Coins()) != 1 {
		t.Errorf("expected one coin to remain, got %d", len(w.Coins()))
	}

	w.speed = cfg.Scroll.MaxSpeed
	w.EaseAfterRevive()
	if want := cfg.Scroll.MaxSpeed * cfg.Scroll.ReviveFactor; !almostEqual(w.Speed(), want) {
		t.Errorf("expected eased speed %f, got %f", want, w.Speed())
	}

	w.speed = 200
	w.EaseAfterRevive()
	if w.Speed() > 200 {
		t.Errorf("easing must never speed up, got %f", w.Speed())
	}
}
