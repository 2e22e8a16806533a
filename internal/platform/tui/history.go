package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/inkdash/internal/storage"
)

// History board layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the profile sidebar
	sidebarWidth       = 22  // Width of the profile sidebar
	maxRuns            = 100 // Max runs to load per view
)

// historyView selects which runs the table shows.
type historyView int

const (
	viewTop historyView = iota
	viewRecent
)

func (v historyView) String() string {
	if v == viewRecent {
		return "RECENT RUNS"
	}
	return "BEST RUNS"
}

// HistoryKeyMap defines the key bindings for the history board.
type HistoryKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevProfile key.Binding
	NextProfile key.Binding
	Toggle      key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.NextProfile, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.PrevProfile, k.NextProfile},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		PrevProfile: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("left", "prev profile"),
		),
		NextProfile: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "next profile"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab", "t"),
			key.WithHelp("tab", "best/recent"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "h"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the run history board.
type HistoryModel struct {
	source      HistorySource
	profiles    []storage.ProfileStats
	cursor      int // Selected profile index
	view        historyView
	runs        []storage.RunRecord
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
	standalone  bool // Quits the program on back
}

// NewHistoryModel creates a history board that starts on profile.
func NewHistoryModel(source HistorySource, profile string, width, height int) HistoryModel {
	m := HistoryModel{
		source:      source,
		keys:        DefaultHistoryKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.loadProfiles(profile)
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// loadProfiles lists profiles with history. The current profile is always
// listed, even before its first run.
func (m *HistoryModel) loadProfiles(current string) {
	profiles, err := m.source.Profiles()
	if err != nil {
		m.loadErr = err
	}

	found := -1
	for i, p := range profiles {
		if p.Profile == current {
			found = i
			break
		}
	}
	if found < 0 && current != "" {
		profiles = append([]storage.ProfileStats{{Profile: current}}, profiles...)
		found = 0
	}
	m.profiles = profiles
	m.cursor = max(found, 0)
}

// createTable creates a table sized to the current window.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Coins", Width: 6},
		{Title: "Time", Width: 7},
		{Title: "End", Width: 14},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	used := 0
	for _, c := range columns[:5] {
		used += c.Width + 2
	}
	if rest := tableWidth - used; rest > 12 {
		columns[5].Width = min(rest, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns reloads the table for the selected profile and view.
func (m *HistoryModel) loadRuns() {
	m.runs = nil
	if len(m.profiles) > 0 {
		profile := m.profiles[m.cursor].Profile
		var err error
		if m.view == viewRecent {
			m.runs, err = m.source.RecentRuns(profile, maxRuns)
		} else {
			m.runs, err = m.source.TopRuns(profile, maxRuns)
		}
		m.loadErr = err
	}
	m.updateTableRows()
}

// updateTableRows fills the table from m.runs.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		end := r.DeathCause
		if end == "" {
			end = "abandoned"
		}
		if r.Revives > 0 {
			end += fmt.Sprintf(" +%d", r.Revives)
		}
		score := fmt.Sprintf("%d", r.Score)
		if r.NewBest {
			score += "*"
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			score,
			fmt.Sprintf("%d", r.Coins),
			r.Duration.Round(100 * time.Millisecond).String(),
			end,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history board.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history board.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			if m.view == viewTop {
				m.view = viewRecent
			} else {
				m.view = viewTop
			}
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.NextProfile):
			if len(m.profiles) > 0 {
				m.cursor = (m.cursor + 1) % len(m.profiles)
				m.loadRuns()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevProfile):
			if len(m.profiles) > 0 {
				m.cursor = (m.cursor - 1 + len(m.profiles)) % len(m.profiles)
				m.loadRuns()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history board.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := m.view.String()
	if len(m.profiles) > 0 {
		title = fmt.Sprintf("%s - %s", title, m.profiles[m.cursor].Profile)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the profile sidebar next to the table.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Profiles\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, p := range m.profiles {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := p.Profile
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	if len(m.profiles) > 0 {
		p := m.profiles[m.cursor]
		statStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		sidebar.WriteString("\n")
		sidebar.WriteString(statStyle.Render(fmt.Sprintf("runs  %d\nbest  %d\ncoins %d",
			p.RunsCount, p.BestScore, p.TotalCoins)))
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the selected profile above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.profiles) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.profiles[m.cursor].Profile), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		msg := "No runs recorded yet.\nGo draw some lines!"
		if m.loadErr != nil {
			msg = "History unavailable:\n" + m.loadErr.Error()
		}
		return emptyStyle.Render(msg)
	}
	return m.table.View()
}

// IsGoingBack reports whether the user closed the board.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory shows the history board as its own program.
func RunHistory(source HistorySource, profile string, width, height int) error {
	model := NewHistoryModel(source, profile, width, height)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
