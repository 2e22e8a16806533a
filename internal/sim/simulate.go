package sim

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
	"github.com/vovakirdan/inkdash/internal/runner"
)

// Options configures a batch of simulated runs.
type Options struct {
	Runs       int
	Seed       int64
	DT         float64 // Fixed timestep in seconds (default 1/60)
	MaxSeconds float64 // Runs still alive after this are abandoned (default 120)
	ViewW      float64 // Default 800
	ViewH      float64 // Default 600
	Revive     bool    // Take every offered revive
	Config     config.RunnerConfig
	Deps       runner.Deps
}

// Result summarizes a batch.
type Result struct {
	Runs    []runner.RunStats
	Best    int
	Coins   int
	Revives int
}

// Simulate plays opts.Runs runs back to back on one Run, so best score and
// tutorial progress carry over between them like a real session.
func Simulate(ctx context.Context, opts Options) (Result, error) {
	if opts.DT <= 0 {
		opts.DT = 1.0 / 60
	}
	if opts.MaxSeconds <= 0 {
		opts.MaxSeconds = 120
	}
	if opts.ViewW <= 0 || opts.ViewH <= 0 {
		opts.ViewW, opts.ViewH = 800, 600
	}
	logger := opts.Deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := runner.NewRun(core.RuntimeConfig{TickRate: int(1 / opts.DT), Seed: opts.Seed}, opts.Config, opts.Deps)
	r.Init()
	r.SetViewport(opts.ViewW, opts.ViewH)

	pilot := NewAutopilot()
	var res Result
	maxTicks := int(opts.MaxSeconds / opts.DT)

	for i := 0; i < opts.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !r.StartGame() {
			logger.Warn("simulated run did not start", "run", i, "phase", r.Phase())
			break
		}

		for tick := 0; tick < maxTicks; tick++ {
			pilot.Act(r, r.Snapshot())
			r.Tick(opts.DT)

			if r.Phase() != runner.PhaseGameOver {
				continue
			}
			if !opts.Revive || !r.ReviveAvailable() {
				break
			}
			if r.Revive(ctx) {
				res.Revives++
				continue
			}
			if err := ctx.Err(); err != nil {
				return res, err
			}
			break
		}
		if r.Phase() == runner.PhaseRunning {
			r.BackToMenu()
		}

		stats, ok := r.LastStats()
		if !ok {
			continue
		}
		res.Runs = append(res.Runs, stats)
		res.Coins += stats.CoinsCollected
		if stats.Score > res.Best {
			res.Best = stats.Score
		}
		logger.Debug("simulated run finished", "run", i, "stats", stats.String())
	}
	return res, nil
}
