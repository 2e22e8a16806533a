package telemetry

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/inkdash/internal/runner"
	"github.com/vovakirdan/inkdash/internal/storage"
)

func TestQueueDeliversInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []string
	sink := SinkFunc(func(ev runner.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, Name(ev))
		return nil
	})

	q := NewQueue(16, nil, sink)
	q.Start()
	q.Track(runner.RunStarted{})
	q.Track(runner.CoinCollected{Amount: 1, Source: runner.CoinSourceRun})
	q.Track(runner.RunEnded{})
	q.Stop()

	want := []string{"run_started", "coin_collected", "run_ended"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
	if q.Dropped() != 0 {
		t.Errorf("expected no drops, got %d", q.Dropped())
	}
}

func TestQueueDropsInsteadOfBlocking(t *testing.T) {
	release := make(chan struct{})
	var delivered int
	sink := SinkFunc(func(runner.Event) error {
		<-release
		delivered++
		return nil
	})

	q := NewQueue(4, nil, sink)
	q.Start()

	start := time.Now()
	for i := 0; i < 50; i++ {
		q.Track(runner.LineForceEnded{})
	}
	if time.Since(start) > time.Second {
		t.Error("Track must not block on a slow sink")
	}
	if q.Dropped() == 0 {
		t.Error("expected drops with a full queue")
	}

	close(release)
	q.Stop()
	if int64(delivered)+q.Dropped() != 50 {
		t.Errorf("delivered %d + dropped %d != 50", delivered, q.Dropped())
	}

	q.Track(runner.LineForceEnded{})
	if int64(delivered)+q.Dropped() != 51 {
		t.Error("events after Stop should be counted as dropped")
	}
}

func TestQueueLogsSinkErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	failing := SinkFunc(func(runner.Event) error { return errors.New("boom") })

	q := NewQueue(4, logger, failing)
	q.Start()
	q.Track(runner.Revived{})
	q.Stop()

	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected sink error in log, got %q", buf.String())
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: log.New(&buf)}
	sink.Consume(runner.ObstacleHit{Behavior: runner.Ceiling, Score: 42, Elapsed: 3 * time.Second})

	out := buf.String()
	for _, want := range []string{"obstacle_hit", "ceiling", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestHistorySinkRecordsRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	sink := HistorySink{Recorder: store, Profile: "alice"}
	ended := runner.RunEnded{
		RunID: "abc",
		Stats: runner.RunStats{
			Score:          77,
			CoinsCollected: 3,
			Duration:       9 * time.Second,
			ObstacleDeath:  true,
			DeathCause:     runner.HoveringShard,
		},
		Awarded: 3,
	}
	if err := sink.Consume(runner.RunStarted{}); err != nil {
		t.Fatalf("non-end events should be ignored: %v", err)
	}
	if err := sink.Consume(ended); err != nil {
		t.Fatalf("Consume() failed: %v", err)
	}

	// Second settlement of the same run after a revive
	ended.RevivesUsed = 1
	ended.Stats.Score = 120
	if err := sink.Consume(ended); err != nil {
		t.Fatalf("Consume() after revive failed: %v", err)
	}

	runs, err := store.TopRuns("alice", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(runs))
	}
	if runs[0].RunID != "abc-r1" || runs[1].RunID != "abc" {
		t.Errorf("unexpected run ids %q, %q", runs[0].RunID, runs[1].RunID)
	}
	if runs[1].DeathCause != "hoveringShard" {
		t.Errorf("expected death cause hoveringShard, got %q", runs[1].DeathCause)
	}
}

func TestTally(t *testing.T) {
	tally := NewTally()
	tally.Consume(runner.CoinCollected{Amount: 2})
	tally.Consume(runner.CoinCollected{Amount: 3})
	tally.Consume(runner.RunEnded{})

	if tally.Count("coin_collected") != 2 || tally.Coins() != 5 {
		t.Errorf("unexpected tally: %d events, %d coins", tally.Count("coin_collected"), tally.Coins())
	}
	if tally.Count("run_ended") != 1 {
		t.Errorf("expected one run end, got %d", tally.Count("run_ended"))
	}
}
