package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/inkdash/internal/core"
	"github.com/vovakirdan/inkdash/internal/runner"
	"github.com/vovakirdan/inkdash/internal/storage"
)

// reviveTimeout bounds how long the frontend waits for a rewarded ad.
const reviveTimeout = 30 * time.Second

// flashDuration is how long a status message stays on the bottom line.
const flashDuration = 2 * time.Second

// HistorySource is read by the history board.
type HistorySource interface {
	TopRuns(profile string, limit int) ([]storage.RunRecord, error)
	RecentRuns(profile string, limit int) ([]storage.RunRecord, error)
	Profiles() ([]storage.ProfileStats, error)
}

// Session is one player's run together with the collaborators behind it.
type Session struct {
	Run     *runner.Run
	Profile string
	History HistorySource // Optional
	Close   func()        // Optional; flushes queued saves and events
}

// Shutdown abandons a live run so it is recorded, then releases the
// session's collaborators.
func (s Session) Shutdown() {
	s.Run.BackToMenu()
	if s.Close != nil {
		s.Close()
	}
}

// Options tunes the frontend.
type Options struct {
	FPS    int
	Cell   CellSize
	Logger *log.Logger
}

// reviveMsg reports the outcome of a rewarded-ad revive.
type reviveMsg struct {
	ok bool
}

// Model is the Bubble Tea model that plays a run.
type Model struct {
	sess   Session
	run    *runner.Run
	screen *core.Screen
	cell   CellSize
	keys   KeyMap
	help   help.Model
	fps    int
	logger *log.Logger

	width  int
	height int
	snap   runner.Snapshot
	now    time.Time

	flash      string
	flashUntil time.Time

	history  *HistoryModel
	quitting bool
}

// NewModel creates the run screen for a session.
func NewModel(sess Session, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = core.DefaultConfig().TickRate
	}
	if opts.Cell.W <= 0 || opts.Cell.H <= 0 {
		opts.Cell = DefaultCellSize
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return Model{
		sess:   sess,
		run:    sess.Run,
		screen: core.NewScreen(0, 0),
		cell:   opts.Cell,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		fps:    opts.FPS,
		logger: opts.Logger,
	}
}

// Init loads persisted progress and starts the frame loop.
func (m Model) Init() tea.Cmd {
	m.run.Init()
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.history != nil {
		return m.updateHistory(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.BlurMsg:
		m.run.PauseForLifecycle()
		return m, nil

	case tea.FocusMsg:
		m.run.ResumeFromLifecycle()
		return m, nil

	case reviveMsg:
		if !msg.ok {
			m.setFlash("No reward, no revive")
		}
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input for the current phase.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.run.BackToMenu()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	switch m.run.Phase() {
	case runner.PhaseRunning:
		switch {
		case key.Matches(msg, m.keys.Jump):
			m.run.Jump()
		case key.Matches(msg, m.keys.Pause):
			if m.snap.Paused {
				m.run.ResumeFromLifecycle()
			} else {
				m.run.PauseForLifecycle()
			}
		case key.Matches(msg, m.keys.Back):
			m.run.BackToMenu()
		}

	case runner.PhaseReady, runner.PhaseGameOver:
		switch {
		case key.Matches(msg, m.keys.Start):
			m.run.StartGame()
		case key.Matches(msg, m.keys.Revive):
			if m.run.ReviveAvailable() {
				return m, reviveCmd(m.run)
			}
		case key.Matches(msg, m.keys.Back):
			m.run.BackToMenu()
		case key.Matches(msg, m.keys.History):
			if m.sess.History != nil {
				h := NewHistoryModel(m.sess.History, m.sess.Profile, m.width, m.height)
				m.history = &h
			}
		}
	}

	return m, nil
}

// handleMouse turns left-button drags into drawn lines. Row 0 is the HUD.
func (m Model) handleMouse(msg tea.MouseMsg) {
	p := m.cell.ToWorld(msg.X, msg.Y-1)
	switch MapMouse(msg) {
	case PointerDown:
		m.run.StartLine(p)
	case PointerMove:
		m.run.ExtendLine(p)
	case PointerUp:
		m.run.EndLine()
	}
}

// handleResize resizes the playfield. A run in progress keeps its
// viewport; the new one is applied once it ends.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, m.playRows())
	m.applyViewport()
	return m, nil
}

func (m Model) playRows() int {
	return max(m.height-2, 1)
}

func (m Model) applyViewport() {
	if m.width <= 0 {
		return
	}
	w, h := m.cell.Viewport(m.width, m.playRows())
	m.run.SetViewport(w, h)
}

// handleTick advances the run and collects its events.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.now = now
	res := m.run.Frame(now)
	for _, ev := range res.Events {
		m.onEvent(ev)
	}
	if res.State.Phase != runner.PhaseRunning {
		m.applyViewport()
	}
	m.snap = m.run.Snapshot()
	return m, tickCmd(m.fps)
}

// onEvent turns run events into status messages.
func (m *Model) onEvent(ev runner.Event) {
	switch e := ev.(type) {
	case runner.TutorialAdvanced:
		if e.To == runner.StageComplete {
			m.setFlash("Tutorial complete!")
		}
	case runner.LineForceEnded:
		m.setFlash("Out of ink")
	case runner.Revived:
		m.setFlash("Back in the run!")
	case runner.RunEnded:
		switch {
		case e.NewBest:
			m.setFlash(fmt.Sprintf("New best: %d", e.Stats.Score))
		case e.Awarded > 0:
			m.setFlash(fmt.Sprintf("+%d coins", e.Awarded))
		}
	}
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashUntil = m.now.Add(flashDuration)
}

// updateHistory forwards messages to the history board until it closes.
func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		// The frame loop keeps running under the board.
		return m.handleTick(time.Time(msg))
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(msg.Width, m.playRows())
	}

	next, cmd := m.history.Update(msg)
	h := next.(HistoryModel)
	if h.IsQuitting() {
		m.run.BackToMenu()
		m.quitting = true
		return m, tea.Quit
	}
	if h.IsGoingBack() {
		m.history = nil
		return m, cmd
	}
	m.history = &h
	return m, cmd
}

// reviveCmd plays a rewarded ad off the update loop.
func reviveCmd(run *runner.Run) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reviveTimeout)
		defer cancel()
		return reviveMsg{ok: run.Revive(ctx)}
	}
}

// saveScreenshot writes the current playfield as plain text.
func (m *Model) saveScreenshot() {
	DrawSnapshot(m.screen, m.snap, m.cell)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}
	dir := filepath.Join(home, ".inkdash", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}

	filename := fmt.Sprintf("inkdash_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "path", path, "error", err)
		return
	}
	m.setFlash("Saved " + filename)
}

// View renders the HUD, playfield and bottom line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.history != nil {
		return m.history.View()
	}

	DrawSnapshot(m.screen, m.snap, m.cell)

	bottom := m.help.View(m.keys)
	if m.flash != "" && m.now.Before(m.flashUntil) {
		bottom = flashStyle.Render(m.flash)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		HUD(m.snap, m.sess.Profile, m.width),
		RenderScreen(m.screen),
		bottom,
	)
}

// IsQuitting reports whether the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run plays a session in the local terminal until the user quits.
func Run(sess Session, opts Options) error {
	defer sess.Shutdown()

	p := tea.NewProgram(
		NewModel(sess, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	_, err := p.Run()
	return err
}
