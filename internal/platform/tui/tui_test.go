package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
	"github.com/vovakirdan/inkdash/internal/runner"
	"github.com/vovakirdan/inkdash/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	cfg.Spawn.InitialDelay = 1e6 // No obstacles
	run := runner.NewRun(core.RuntimeConfig{TickRate: 60, Seed: 1}, cfg, runner.Deps{
		Persistence: &runner.MemoryPersistence{TutorialCompleted: true},
	})

	m := NewModel(Session{Run: run, Profile: "tester"}, Options{})
	m.Init()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model
}

func TestCellSizeMapping(t *testing.T) {
	c := CellSize{W: 10, H: 20}

	w, h := c.Viewport(80, 22)
	if w != 800 || h != 440 {
		t.Errorf("Viewport(80, 22) = %vx%v, expected 800x440", w, h)
	}

	p := c.ToWorld(3, 2)
	if p.X != 35 || p.Y != 50 {
		t.Errorf("ToWorld(3, 2) = %+v, expected (35, 50)", p)
	}
	if col, row := c.ToCell(p); col != 3 || row != 2 {
		t.Errorf("ToCell(ToWorld(3, 2)) = (%d, %d)", col, row)
	}
	if col, _ := c.ToCell(core.V(-1, 0)); col != -1 {
		t.Errorf("ToCell(-1) should floor to -1, got %d", col)
	}
}

func TestMapMouse(t *testing.T) {
	tests := []struct {
		msg  tea.MouseMsg
		want PointerAction
	}{
		{tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, PointerDown},
		{tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, PointerNone},
		{tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, PointerMove},
		{tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}, PointerNone},
		{tea.MouseMsg{Action: tea.MouseActionRelease}, PointerUp},
	}
	for i, tt := range tests {
		if got := MapMouse(tt.msg); got != tt.want {
			t.Errorf("case %d: MapMouse() = %d, expected %d", i, got, tt.want)
		}
	}
}

func TestDrawSnapshot(t *testing.T) {
	cell := CellSize{W: 10, H: 20}
	s := core.NewScreen(40, 10)
	snap := runner.Snapshot{
		Phase:   runner.PhaseRunning,
		ViewW:   400,
		ViewH:   200,
		GroundY: 160,
		Player:  runner.NewPlayer(50, 10, 160, 0.1),
		Obstacles: []runner.Obstacle{
			{Rect: core.NewRect(200, 120, 20, 40), Behavior: runner.GroundBlock},
		},
		Coins: []runner.Coin{{Pos: core.V(305, 90), Radius: 8}},
		Lines: []runner.Line{{Points: []core.Vec2{core.V(250, 70), core.V(350, 70)}}},
	}

	DrawSnapshot(s, snap, cell)

	if got := s.Get(0, 8); got != '▀' {
		t.Errorf("expected ground line at row 8, got %q", got)
	}
	if got := s.GetCell(20, 6); got.Rune != '█' || got.Color != core.ColorRed {
		t.Errorf("expected ground block at (20, 6), got %+v", got)
	}
	if got := s.Get(30, 4); got != '●' {
		t.Errorf("expected coin at (30, 4), got %q", got)
	}
	if got := s.Get(30, 3); got != '─' {
		t.Errorf("expected line at (30, 3), got %q", got)
	}
	if got := s.GetCell(5, 7); got.Color != core.ColorBrightCyan {
		t.Errorf("expected player at (5, 7), got %+v", got)
	}
}

func TestDrawOverlayGameOver(t *testing.T) {
	s := core.NewScreen(60, 12)
	DrawSnapshot(s, runner.Snapshot{
		Phase:     runner.PhaseGameOver,
		ViewW:     600,
		ViewH:     240,
		GroundY:   200,
		Score:     321,
		Best:      400,
		CanRevive: true,
	}, DefaultCellSize)

	out := s.String()
	for _, want := range []string{"GAME OVER", "Score: 321", "watch an ad"} {
		if !strings.Contains(out, want) {
			t.Errorf("game over screen missing %q", want)
		}
	}
}

func TestHUDAndInkBar(t *testing.T) {
	if got := inkBar(0.5, 10); got != "█████░░░░░" {
		t.Errorf("inkBar(0.5) = %q", got)
	}
	if got := inkBar(2, 4); got != "████" {
		t.Errorf("inkBar should clamp, got %q", got)
	}

	hud := HUD(runner.Snapshot{Score: 42, Best: 99, Ink: 1, InkReady: true}, "ana", 200)
	for _, want := range []string{"42", "99", "@ana"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
}

func TestModelPlaysRun(t *testing.T) {
	m := newTestModel(t)
	if m.run.Phase() != runner.PhaseReady {
		t.Fatalf("expected ready after resize, got %s", m.run.Phase())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.run.Phase() != runner.PhaseRunning {
		t.Fatalf("enter should start a run, got %s", m.run.Phase())
	}

	start := time.Unix(1000, 0)
	for i := 0; i < 30; i++ {
		m = update(t, m, TickMsg(start.Add(time.Duration(i)*16*time.Millisecond)))
	}
	if m.snap.Elapsed <= 0 || m.snap.Score <= 0 {
		t.Errorf("run did not advance: elapsed=%v score=%d", m.snap.Elapsed, m.snap.Score)
	}

	// Drag on the right half draws a line.
	m = update(t, m, tea.MouseMsg{X: 60, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 66, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 66, Y: 10, Action: tea.MouseActionRelease})
	m = update(t, m, TickMsg(start.Add(time.Second)))
	if len(m.snap.Lines) != 1 {
		t.Fatalf("expected one drawn line, got %d", len(m.snap.Lines))
	}
	if len(m.snap.Lines[0].Points) < 2 {
		t.Errorf("expected an extended line, got %d points", len(m.snap.Lines[0].Points))
	}

	if view := m.View(); !strings.Contains(view, "@tester") {
		t.Error("view should include the HUD")
	}
}

func TestModelPauseAndQuit(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, TickMsg(time.Unix(1000, 0)))

	m = update(t, m, tea.BlurMsg{})
	m = update(t, m, TickMsg(time.Unix(1001, 0)))
	if !m.snap.Paused {
		t.Error("blur should pause the run")
	}
	m = update(t, m, tea.FocusMsg{})
	m = update(t, m, TickMsg(time.Unix(1002, 0)))
	if m.snap.Paused {
		t.Error("focus should resume the run")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil || !next.(Model).IsQuitting() {
		t.Fatal("q should quit")
	}
	if stats, ok := m.run.LastStats(); !ok || stats.ObstacleDeath {
		t.Errorf("quitting a live run should settle it as abandoned, got %+v %v", stats, ok)
	}
}

func TestHistoryBoard(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i, score := range []int{10, 30, 20} {
		rec := storage.RunRecord{RunID: fmt.Sprintf("run-%d", i), Profile: "bob", Score: score}
		if _, err := store.RecordRun(rec); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	h := NewHistoryModel(store, "alice", 100, 30)
	if len(h.profiles) != 2 || h.profiles[h.cursor].Profile != "alice" {
		t.Fatalf("expected alice selected among 2 profiles, got %+v", h.profiles)
	}
	if len(h.runs) != 0 {
		t.Errorf("alice has no runs, got %d", len(h.runs))
	}

	next, _ := h.Update(tea.KeyMsg{Type: tea.KeyRight})
	h = next.(HistoryModel)
	if h.profiles[h.cursor].Profile != "bob" || len(h.runs) != 3 {
		t.Fatalf("expected bob's 3 runs, got %q with %d", h.profiles[h.cursor].Profile, len(h.runs))
	}
	if h.runs[0].Score != 30 {
		t.Errorf("best runs should be sorted by score, first is %d", h.runs[0].Score)
	}
	if !strings.Contains(h.View(), "BEST RUNS - bob") {
		t.Error("title should name the view and profile")
	}

	next, _ = h.Update(tea.KeyMsg{Type: tea.KeyTab})
	h = next.(HistoryModel)
	if h.view != viewRecent || h.runs[0].Score != 20 {
		t.Errorf("recent view should list the newest run first, got %d", h.runs[0].Score)
	}

	next, _ = h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(HistoryModel).IsGoingBack() {
		t.Error("esc should close the board")
	}
}
