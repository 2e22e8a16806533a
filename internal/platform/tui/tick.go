// Package tui is the terminal frontend for inkdash. It drives a runner.Run
// from Bubble Tea ticks, maps keys and mouse drags to run input, and renders
// snapshots onto a character screen.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg asks the model to advance the run to the given wall-clock time.
type TickMsg time.Time

// tickCmd schedules the next frame at fps frames per second.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
