package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inkdash/internal/ads"
	"github.com/vovakirdan/inkdash/internal/runner"
	"github.com/vovakirdan/inkdash/internal/sim"
	"github.com/vovakirdan/inkdash/internal/storage"
	"github.com/vovakirdan/inkdash/internal/telemetry"
)

var (
	flagSimRuns    int
	flagSimSeconds float64
	flagSimRevive  bool
	flagSimRecord  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play seeded runs with the autopilot",
	Long: `Play runs headlessly with a simple autopilot at a fixed timestep.

The same --seed and config always produce the same runs, which makes this
useful for tuning configs and difficulty presets.

Examples:
  inkdash simulate --runs 50 --seed 7
  inkdash simulate --difficulty hard --revive
  inkdash simulate --record --profile autopilot`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimRuns, "runs", 10, "Number of runs to play")
	simulateCmd.Flags().Float64Var(&flagSimSeconds, "max-seconds", 120, "Abandon runs still alive after this long")
	simulateCmd.Flags().BoolVar(&flagSimRevive, "revive", false, "Take every offered revive")
	simulateCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Record runs in the history database")
}

func runSimulate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "inkdash-sim")
	seed := resolveSeed()

	tally := telemetry.NewTally()
	sinks := []telemetry.Sink{tally}
	if flagSimRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, telemetry.HistorySink{Recorder: store, Profile: resolveProfile()})
	}
	events := telemetry.NewQueue(4096, logger, sinks...)
	events.Start()

	// Revives resolve instantly in simulation.
	adCfg := ads.FromConfig(cfg.Ads)
	adCfg.Latency = 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := sim.Simulate(ctx, sim.Options{
		Runs:       flagSimRuns,
		Seed:       seed,
		DT:         1 / float64(max(flagFPS, 1)),
		MaxSeconds: flagSimSeconds,
		Revive:     flagSimRevive,
		Config:     cfg,
		Deps: runner.Deps{
			Persistence: &runner.MemoryPersistence{},
			Ads:         ads.NewSimulated(adCfg, seed, logger),
			Analytics:   events,
			Logger:      logger,
		},
	})
	events.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("Simulated %d runs (seed %d)\n\n", len(res.Runs), seed)
	for i, s := range res.Runs {
		fmt.Printf("  %3d  %s\n", i+1, s)
	}
	fmt.Println()
	fmt.Printf("Best: %d  Coins: %d  Revives: %d\n", res.Best, res.Coins, res.Revives)
	fmt.Printf("Events: %d obstacle hits, %d coin pickups, %d forced line ends\n",
		tally.Count("obstacle_hit"), tally.Count("coin_collected"), tally.Count("line_force_ended"))
	if n := events.Dropped(); n > 0 {
		logger.Warn("dropped events", "count", n)
	}
	return nil
}
