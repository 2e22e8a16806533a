package config

import "testing"

func TestDifficultyLevelSpeed(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "speed"},
		Scaling:     ScalingConfig{IntervalReduction: 1},
	})

	if got := d.Level(Progress{SpeedFraction: 0}); got != 0 {
		t.Errorf("Level at base speed = %v, expected 0", got)
	}
	if got := d.Level(Progress{SpeedFraction: 0.5}); got != 0.5 {
		t.Errorf("Level at half ramp = %v, expected 0.5", got)
	}
	if got := d.Level(Progress{SpeedFraction: 3}); got != 1 {
		t.Errorf("Level should clamp to 1, got %v", got)
	}
}

func TestDifficultyLevelFromInitial(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 1000},
	})

	if got := d.Level(Progress{Score: 0}); got != 0.5 {
		t.Errorf("Level at score 0 = %v, expected initial 0.5", got)
	}
	if got := d.Level(Progress{Score: 500}); got != 0.75 {
		t.Errorf("Level at score 500 = %v, expected 0.75", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.3,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 10},
	})

	if got := d.Level(Progress{Elapsed: 100}); got != 0.3 {
		t.Errorf("disabled progression should stay at 0.3, got %v", got)
	}
	if d.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
}

func TestSpawnIntervalShrinks(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled: true,
		Scaling: ScalingConfig{IntervalReduction: 1},
	})

	slow := d.SpawnInterval(0.8, 1.6, 0)
	fast := d.SpawnInterval(0.8, 1.6, 1)
	if slow != 1.6 || fast != 0.8 {
		t.Errorf("SpawnInterval gave %v..%v, expected 1.6..0.8", slow, fast)
	}
}

func TestBaseSpeedBoost(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 1,
		Scaling:      ScalingConfig{SpeedMultiplier: 0.5},
	})

	if got := d.BaseSpeed(300, 1000); got != 450 {
		t.Errorf("BaseSpeed = %v, expected 450", got)
	}
	if got := d.BaseSpeed(300, 400); got != 400 {
		t.Errorf("BaseSpeed should cap at max, got %v", got)
	}
}
