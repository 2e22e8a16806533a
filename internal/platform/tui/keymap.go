package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/inkdash/internal/core"
)

// KeyMap defines the key bindings of the run screen.
type KeyMap struct {
	Jump       key.Binding
	Start      key.Binding
	Pause      key.Binding
	Revive     key.Binding
	Back       key.Binding
	History    key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "jump"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "run"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Revive: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "revive (ad)"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b", "menu"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Start, k.Revive, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Start, k.Pause},
		{k.Revive, k.Back, k.History},
		{k.Screenshot, k.Help, k.Quit},
	}
}

// CellSize is how many world pixels one terminal cell covers.
type CellSize struct {
	W float64
	H float64
}

// DefaultCellSize matches the usual 1:2 aspect of a terminal cell.
var DefaultCellSize = CellSize{W: 10, H: 20}

// Viewport returns the world size for a playfield of cols x rows cells.
func (c CellSize) Viewport(cols, rows int) (w, h float64) {
	return float64(cols) * c.W, float64(rows) * c.H
}

// ToWorld returns the world position of the center of cell (col, row).
func (c CellSize) ToWorld(col, row int) core.Vec2 {
	return core.V((float64(col)+0.5)*c.W, (float64(row)+0.5)*c.H)
}

// ToCell returns the cell that contains world position p.
func (c CellSize) ToCell(p core.Vec2) (col, row int) {
	return floorDiv(p.X, c.W), floorDiv(p.Y, c.H)
}

func floorDiv(v, size float64) int {
	n := int(v / size)
	if v < 0 && float64(n)*size != v {
		n--
	}
	return n
}

// PointerAction is what a mouse message means for line drawing.
type PointerAction int

const (
	PointerNone PointerAction = iota
	PointerDown
	PointerMove
	PointerUp
)

// MapMouse translates a mouse message into a line drawing action. Only the
// left button draws.
func MapMouse(msg tea.MouseMsg) PointerAction {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return PointerDown
		}
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonLeft {
			return PointerMove
		}
	case tea.MouseActionRelease:
		return PointerUp
	}
	return PointerNone
}
