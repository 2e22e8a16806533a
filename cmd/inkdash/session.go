package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/inkdash/internal/ads"
	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
	"github.com/vovakirdan/inkdash/internal/platform/tui"
	"github.com/vovakirdan/inkdash/internal/runner"
	"github.com/vovakirdan/inkdash/internal/storage"
	"github.com/vovakirdan/inkdash/internal/telemetry"
	"github.com/vovakirdan/inkdash/internal/wallet"
)

const (
	appName        = "inkdash"
	saveQueueSize  = 64
	eventQueueSize = 256
)

// sessionFactory wires a run to its collaborators for one profile.
type sessionFactory struct {
	store   *storage.Store // May be nil when the database could not be opened
	backend string
	cfg     config.RunnerConfig
	fps     int
	logger  *log.Logger
}

// checkBackend validates a --backend value.
func checkBackend(name string) error {
	switch name {
	case "", "sqlite", "gdata":
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want sqlite or gdata)", name)
	}
}

// openBackend returns the profile storage selected by --backend.
func (f sessionFactory) openBackend(profile string) (storage.Backend, error) {
	if f.backend == "gdata" {
		return storage.OpenGdata(appName, profile)
	}
	if f.store == nil {
		return nil, fmt.Errorf("no database for profile %q", profile)
	}
	return f.store.Profile(profile), nil
}

// open builds a session. Saves go through a write-behind queue and events
// through a telemetry queue; both are flushed by Session.Close.
func (f sessionFactory) open(profile string, seed int64) tui.Session {
	logger := f.logger.With("profile", profile)

	var persistence runner.Persistence
	var balance wallet.Store
	var saves *storage.WriteBehind

	backend, err := f.openBackend(profile)
	if err != nil {
		logger.Warn("profile storage unavailable, progress will not be saved", "error", err)
	} else {
		saves = storage.NewWriteBehind(backend, saveQueueSize, logger)
		saves.Start()
		persistence = saves
		balance = saves
	}

	sinks := []telemetry.Sink{telemetry.LogSink{Logger: logger}}
	var history tui.HistorySource
	if f.store != nil {
		sinks = append(sinks, telemetry.HistorySink{Recorder: f.store, Profile: profile})
		history = f.store
	}
	events := telemetry.NewQueue(eventQueueSize, logger, sinks...)
	events.Start()

	run := runner.NewRun(
		core.RuntimeConfig{TickRate: f.fps, Seed: seed},
		f.cfg,
		runner.Deps{
			Persistence: persistence,
			Ads:         ads.NewSimulated(ads.FromConfig(f.cfg.Ads), seed, logger),
			Analytics:   events,
			Wallet:      wallet.New(balance, f.cfg.Wallet.Multiplier, logger),
			Logger:      logger,
		},
	)

	return tui.Session{
		Run:     run,
		Profile: profile,
		History: history,
		Close: func() {
			events.Stop()
			if saves != nil {
				saves.Stop()
			}
			if n := events.Dropped(); n > 0 {
				logger.Warn("dropped events", "count", n)
			}
		},
	}
}
