// Package config provides YAML-based run configuration loading and
// difficulty management for the run engine.
package config

import (
	"errors"
	"fmt"
)

// RunnerConfig contains every tunable constant of the run engine.
type RunnerConfig struct {
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	World      WorldConfig      `yaml:"world" toml:"world"`
	Scroll     ScrollConfig     `yaml:"scroll" toml:"scroll"`
	Spawn      SpawnConfig      `yaml:"spawn" toml:"spawn"`
	Ink        InkConfig        `yaml:"ink" toml:"ink"`
	Lines      LinesConfig      `yaml:"lines" toml:"lines"`
	Coins      CoinsConfig      `yaml:"coins" toml:"coins"`
	Score      ScoreConfig      `yaml:"score" toml:"score"`
	Clock      ClockConfig      `yaml:"clock" toml:"clock"`
	Revive     ReviveConfig     `yaml:"revive" toml:"revive"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
	Ads        AdsConfig        `yaml:"ads" toml:"ads"`
	Wallet     WalletConfig     `yaml:"wallet" toml:"wallet"`
}

// PlayerConfig defines player kinematics.
type PlayerConfig struct {
	X              float64 `yaml:"x" toml:"x"`                             // Fixed horizontal offset
	Radius         float64 `yaml:"radius" toml:"radius"`                   // Collision circle radius
	Gravity        float64 `yaml:"gravity" toml:"gravity"`                 // px/s^2, positive = down
	JumpImpulse    float64 `yaml:"jump_impulse" toml:"jump_impulse"`       // px/s, negative = up
	CoyoteTime     float64 `yaml:"coyote_time" toml:"coyote_time"`         // Seconds a jump stays legal after leaving support
	ReviveVelocity float64 `yaml:"revive_velocity" toml:"revive_velocity"` // Upward hop applied on revive
}

// WorldConfig defines viewport-relative geometry.
type WorldConfig struct {
	GroundRatio   float64 `yaml:"ground_ratio" toml:"ground_ratio"`     // Ground line as a fraction of viewport height
	SpawnMargin   float64 `yaml:"spawn_margin" toml:"spawn_margin"`     // Distance right of the viewport where obstacles appear
	DespawnMargin float64 `yaml:"despawn_margin" toml:"despawn_margin"` // Distance left of x=0 after which entities are removed
}

// ScrollConfig defines the scroll speed ramp.
type ScrollConfig struct {
	BaseSpeed      float64 `yaml:"base_speed" toml:"base_speed"`
	MaxSpeed       float64 `yaml:"max_speed" toml:"max_speed"`
	RampPerSecond  float64 `yaml:"ramp_per_second" toml:"ramp_per_second"`
	ReviveFactor   float64 `yaml:"revive_factor" toml:"revive_factor"`
	ReviveMinSpeed float64 `yaml:"revive_min_speed" toml:"revive_min_speed"`
}

// SpawnConfig defines obstacle spawn cadence and selection.
type SpawnConfig struct {
	InitialDelay      float64 `yaml:"initial_delay" toml:"initial_delay"`
	MinInterval       float64 `yaml:"min_interval" toml:"min_interval"`
	MaxInterval       float64 `yaml:"max_interval" toml:"max_interval"`
	Jitter            float64 `yaml:"jitter" toml:"jitter"` // Fractional +/- variation of each interval
	TutorialOffset    float64 `yaml:"tutorial_offset" toml:"tutorial_offset"`
	EarlySessionScore int     `yaml:"early_session_score" toml:"early_session_score"`
	ReviveClearRadius float64 `yaml:"revive_clear_radius" toml:"revive_clear_radius"`
}

// InkConfig defines the ink economy.
type InkConfig struct {
	MinToStart         float64 `yaml:"min_to_start" toml:"min_to_start"`
	StartCost          float64 `yaml:"start_cost" toml:"start_cost"`
	DrainPerSecond     float64 `yaml:"drain_per_second" toml:"drain_per_second"`
	RegenPerSecond     float64 `yaml:"regen_per_second" toml:"regen_per_second"`
	AirborneRegenScale float64 `yaml:"airborne_regen_scale" toml:"airborne_regen_scale"`
	LineCooldown       float64 `yaml:"line_cooldown" toml:"line_cooldown"`
	RegenDelay         float64 `yaml:"regen_delay" toml:"regen_delay"`
	DrawRegion         float64 `yaml:"draw_region" toml:"draw_region"` // Leftmost viewport fraction where a line may start
}

// LinesConfig defines drawn line lifetime and platform support.
type LinesConfig struct {
	Lifetime         float64 `yaml:"lifetime" toml:"lifetime"`
	MinPointSpacing  float64 `yaml:"min_point_spacing" toml:"min_point_spacing"`
	SupportMargin    float64 `yaml:"support_margin" toml:"support_margin"`
	SupportTolerance float64 `yaml:"support_tolerance" toml:"support_tolerance"`
}

// CoinsConfig defines coin trails.
type CoinsConfig struct {
	Radius      float64 `yaml:"radius" toml:"radius"`
	Spacing     float64 `yaml:"spacing" toml:"spacing"`
	Rise        float64 `yaml:"rise" toml:"rise"` // Vertical step between trail coins
	TrailChance float64 `yaml:"trail_chance" toml:"trail_chance"`
	BonusChance float64 `yaml:"bonus_chance" toml:"bonus_chance"`
}

// ScoreConfig defines score accumulation.
type ScoreConfig struct {
	Rate float64 `yaml:"rate" toml:"rate"` // Points per pixel scrolled
}

// ClockConfig defines delta-time clamping.
type ClockConfig struct {
	MaxDelta   float64 `yaml:"max_delta" toml:"max_delta"`
	FirstDelta float64 `yaml:"first_delta" toml:"first_delta"`
}

// ReviveConfig defines revive limits.
type ReviveConfig struct {
	MaxPerRun int `yaml:"max_per_run" toml:"max_per_run"`
}

// AdsConfig configures the simulated ad provider used by the frontends.
type AdsConfig struct {
	FillRate          float64 `yaml:"fill_rate" toml:"fill_rate"`
	RewardRate        float64 `yaml:"reward_rate" toml:"reward_rate"`
	LatencyMS         int     `yaml:"latency_ms" toml:"latency_ms"`
	InterstitialEvery int     `yaml:"interstitial_every" toml:"interstitial_every"`
	InterstitialMinS  float64 `yaml:"interstitial_min_seconds" toml:"interstitial_min_seconds"`
}

// WalletConfig configures coin awarding.
type WalletConfig struct {
	Multiplier float64 `yaml:"multiplier" toml:"multiplier"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a run.
type ProgressionConfig struct {
	Type  string  `yaml:"type" toml:"type"`     // "speed", "score", "time", or "none"
	MaxAt float64 `yaml:"max_at" toml:"max_at"` // Score/seconds at which max difficulty is reached (unused for "speed")
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier" toml:"speed_multiplier"`     // Base speed boost at initial level 1.0
	IntervalReduction float64 `yaml:"interval_reduction" toml:"interval_reduction"` // Fraction of the spawn interval range removed at max level
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI string to a preset. Unknown strings yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("invalid runner config")

// Validate checks the constants the engine divides by or clamps against.
func (c RunnerConfig) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"player.radius", c.Player.Radius},
		{"player.gravity", c.Player.Gravity},
		{"world.ground_ratio", c.World.GroundRatio},
		{"scroll.base_speed", c.Scroll.BaseSpeed},
		{"scroll.max_speed", c.Scroll.MaxSpeed},
		{"spawn.min_interval", c.Spawn.MinInterval},
		{"spawn.max_interval", c.Spawn.MaxInterval},
		{"lines.lifetime", c.Lines.Lifetime},
		{"coins.radius", c.Coins.Radius},
		{"clock.max_delta", c.Clock.MaxDelta},
		{"clock.first_delta", c.Clock.FirstDelta},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.v)
		}
	}
	if c.Player.JumpImpulse >= 0 {
		return fmt.Errorf("%w: player.jump_impulse must be negative (upward), got %v", ErrInvalidConfig, c.Player.JumpImpulse)
	}
	if c.Scroll.BaseSpeed > c.Scroll.MaxSpeed {
		return fmt.Errorf("%w: scroll.base_speed %v exceeds scroll.max_speed %v", ErrInvalidConfig, c.Scroll.BaseSpeed, c.Scroll.MaxSpeed)
	}
	if c.Spawn.MinInterval > c.Spawn.MaxInterval {
		return fmt.Errorf("%w: spawn.min_interval %v exceeds spawn.max_interval %v", ErrInvalidConfig, c.Spawn.MinInterval, c.Spawn.MaxInterval)
	}
	if c.World.GroundRatio >= 1 {
		return fmt.Errorf("%w: world.ground_ratio must be below 1, got %v", ErrInvalidConfig, c.World.GroundRatio)
	}
	if c.Ink.MinToStart < 0 || c.Ink.MinToStart > 1 {
		return fmt.Errorf("%w: ink.min_to_start must be within [0,1], got %v", ErrInvalidConfig, c.Ink.MinToStart)
	}
	return nil
}
