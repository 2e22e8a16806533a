package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the hard-coded run engine configuration.
// It mirrors defaults/runner.yaml and is used when the embedded file
// cannot be parsed.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Player: PlayerConfig{
			X:              120,
			Radius:         18,
			Gravity:        2300,
			JumpImpulse:    -860,
			CoyoteTime:     0.12,
			ReviveVelocity: -520,
		},
		World: WorldConfig{
			GroundRatio:   0.8,
			SpawnMargin:   60,
			DespawnMargin: 80,
		},
		Scroll: ScrollConfig{
			BaseSpeed:      320,
			MaxSpeed:       760,
			RampPerSecond:  8,
			ReviveFactor:   0.72,
			ReviveMinSpeed: 300,
		},
		Spawn: SpawnConfig{
			InitialDelay:      1.1,
			MinInterval:       0.85,
			MaxInterval:       1.6,
			Jitter:            0.2,
			TutorialOffset:    0.9,
			EarlySessionScore: 180,
			ReviveClearRadius: 260,
		},
		Ink: InkConfig{
			MinToStart:         0.18,
			StartCost:          0.12,
			DrainPerSecond:     0.42,
			RegenPerSecond:     0.28,
			AirborneRegenScale: 0.72,
			LineCooldown:       0.25,
			RegenDelay:         0.45,
			DrawRegion:         0.45,
		},
		Lines: LinesConfig{
			Lifetime:         2.2,
			MinPointSpacing:  6,
			SupportMargin:    8,
			SupportTolerance: 16,
		},
		Coins: CoinsConfig{
			Radius:      12,
			Spacing:     38,
			Rise:        14,
			TrailChance: 0.45,
			BonusChance: 0.15,
		},
		Score: ScoreConfig{
			Rate: 0.02,
		},
		Clock: ClockConfig{
			MaxDelta:   1.0 / 30.0,
			FirstDelta: 1.0 / 60.0,
		},
		Revive: ReviveConfig{
			MaxPerRun: 1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type: "speed",
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.3,
				IntervalReduction: 1.0,
			},
		},
		Ads: AdsConfig{
			FillRate:          0.9,
			RewardRate:        0.95,
			LatencyMS:         1500,
			InterstitialEvery: 3,
			InterstitialMinS:  20,
		},
		Wallet: WalletConfig{
			Multiplier: 1.0,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
