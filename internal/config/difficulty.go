package config

import "math"

// DifficultyManager calculates dynamic run parameters from progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Progress describes where a run stands for progression purposes.
type Progress struct {
	SpeedFraction float64 // (speed - base) / (max - base), 0..1
	Score         int
	Elapsed       float64 // Seconds
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level(p Progress) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := d.cfg.Progression.MaxAt
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "speed":
		progress = p.SpeedFraction
	case "score":
		progress = float64(p.Score) / maxAt
	case "time":
		progress = p.Elapsed / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// BaseSpeed returns the starting scroll speed for the configured initial level.
func (d *DifficultyManager) BaseSpeed(base, max float64) float64 {
	return math.Min(max, base*(1.0+d.initialLevel*d.cfg.Scaling.SpeedMultiplier))
}

// SpawnInterval returns the un-jittered spawn interval for a level:
// maxInterval at level 0, shrinking toward minInterval as the level rises.
func (d *DifficultyManager) SpawnInterval(minInterval, maxInterval, level float64) float64 {
	reduction := clampF(level*d.cfg.Scaling.IntervalReduction, 0.0, 1.0)
	return maxInterval - (maxInterval-minInterval)*reduction
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
