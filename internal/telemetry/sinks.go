package telemetry

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/inkdash/internal/runner"
	"github.com/vovakirdan/inkdash/internal/storage"
)

// Name returns the analytics name of an event.
func Name(ev runner.Event) string {
	switch ev.(type) {
	case runner.RunStarted:
		return "run_started"
	case runner.CoinCollected:
		return "coin_collected"
	case runner.ObstacleHit:
		return "obstacle_hit"
	case runner.RunEnded:
		return "run_ended"
	case runner.TutorialAdvanced:
		return "tutorial_advanced"
	case runner.LineForceEnded:
		return "line_force_ended"
	case runner.Revived:
		return "revived"
	default:
		return "unknown"
	}
}

// LogSink writes every event as a structured log line.
type LogSink struct {
	Logger *log.Logger
}

// Consume logs ev with its fields as key/value pairs.
func (s LogSink) Consume(ev runner.Event) error {
	name := Name(ev)
	switch e := ev.(type) {
	case runner.RunStarted:
		s.Logger.Info(name, "tutorial", e.TutorialActive, "revive_slots", e.ReviveSlots, "currency", e.TotalCurrency)
	case runner.CoinCollected:
		s.Logger.Debug(name, "amount", e.Amount, "source", e.Source)
	case runner.ObstacleHit:
		s.Logger.Info(name, "type", e.Behavior, "score", e.Score, "elapsed", e.Elapsed.Seconds())
	case runner.RunEnded:
		s.Logger.Info(name,
			"run", e.RunID,
			"score", e.Stats.Score,
			"coins", e.Stats.CoinsCollected,
			"awarded", e.Awarded,
			"duration", e.Stats.Duration.Seconds(),
			"revives", e.RevivesUsed,
			"currency", e.TotalCurrency,
			"new_best", e.NewBest,
		)
	case runner.TutorialAdvanced:
		s.Logger.Info(name, "from", e.From, "to", e.To)
	case runner.Revived:
		s.Logger.Info(name, "speed", e.ScrollSpeed)
	default:
		s.Logger.Debug(name)
	}
	return nil
}

// RunRecorder stores finished runs.
type RunRecorder interface {
	RecordRun(rec storage.RunRecord) (int64, error)
}

// HistorySink records every RunEnded into the run history of a profile.
type HistorySink struct {
	Recorder RunRecorder
	Profile  string
}

// Consume records RunEnded events and ignores the rest.
func (s HistorySink) Consume(ev runner.Event) error {
	e, ok := ev.(runner.RunEnded)
	if !ok {
		return nil
	}
	_, err := s.Recorder.RecordRun(Record(s.Profile, e))
	return err
}

// Record converts a RunEnded event to a history row. A revived run settles
// again after each revive; those rows get a suffixed run id.
func Record(profile string, e runner.RunEnded) storage.RunRecord {
	rec := storage.RunRecord{
		RunID:    e.RunID,
		Profile:  profile,
		Score:    e.Stats.Score,
		Coins:    e.Stats.CoinsCollected,
		Awarded:  e.Awarded,
		Duration: e.Stats.Duration,
		Jumps:    e.Stats.JumpCount,
		DrewLine: e.Stats.DrewLine,
		DrawTime: e.Stats.DrawTime,
		Revives:  e.RevivesUsed,
		NewBest:  e.NewBest,
	}
	if e.RevivesUsed > 0 {
		rec.RunID = fmt.Sprintf("%s-r%d", e.RunID, e.RevivesUsed)
	}
	if e.Stats.ObstacleDeath {
		rec.DeathCause = e.Stats.DeathCause.String()
	}
	return rec
}

// Tally counts events by name. Safe for concurrent use.
type Tally struct {
	mu     sync.Mutex
	counts map[string]int
	coins  int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Consume counts ev.
func (t *Tally) Consume(ev runner.Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[Name(ev)]++
	if c, ok := ev.(runner.CoinCollected); ok {
		t.coins += c.Amount
	}
	return nil
}

// Count returns how many events named name were seen.
func (t *Tally) Count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[name]
}

// Coins returns the total coins reported by CoinCollected events.
func (t *Tally) Coins() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.coins
}
