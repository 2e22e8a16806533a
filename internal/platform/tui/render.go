package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/inkdash/internal/core"
	"github.com/vovakirdan/inkdash/internal/runner"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var (
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hudKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hudInkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	hudLowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	flashStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// obstacleGlyph is how each behavior is drawn.
type obstacleGlyph struct {
	r rune
	c core.Color
}

var obstacleGlyphs = map[runner.Behavior]obstacleGlyph{
	runner.GroundBlock:   {'█', core.ColorRed},
	runner.MovingHazard:  {'◆', core.ColorBrightMagenta},
	runner.HoveringShard: {'▲', core.ColorOrange},
	runner.Ceiling:       {'▓', core.ColorGray},
	runner.Hopper:        {'▪', core.ColorGreen},
	runner.Spitter:       {'▣', core.ColorGreen},
	runner.Projectile:    {'•', core.ColorBrightGreen},
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one style run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// DrawSnapshot paints the playfield of snap onto s. The screen is expected
// to cover the snapshot's viewport at the given cell size.
func DrawSnapshot(s *core.Screen, snap runner.Snapshot, cell CellSize) {
	s.Clear()
	if snap.ViewW <= 0 {
		return
	}

	_, groundRow := cell.ToCell(core.V(0, snap.GroundY))
	s.FillRect(0, groundRow, s.Width(), s.Height()-groundRow, '░', core.ColorGray)
	s.DrawHLine(0, groundRow, s.Width(), '▀', core.ColorWhite)

	for i, l := range snap.Lines {
		color := core.ColorBrightWhite
		if snap.Drawing && i == len(snap.Lines)-1 {
			color = core.ColorBrightCyan
		}
		drawLine(s, l.Points, cell, color)
	}

	for _, o := range snap.Obstacles {
		g, ok := obstacleGlyphs[o.Behavior]
		if !ok {
			g = obstacleGlyph{'#', core.ColorRed}
		}
		drawRect(s, o.DisplayRect(snap.Elapsed), cell, g.r, g.c)
	}

	for _, c := range snap.Coins {
		col, row := cell.ToCell(c.Pos)
		s.SetColored(col, row, '●', core.ColorBrightYellow)
	}

	drawPlayer(s, snap.Player, cell)
	drawOverlay(s, snap)
}

// drawRect fills every cell whose center lies inside r. Rectangles smaller
// than a cell still get one cell.
func drawRect(s *core.Screen, r core.Rect, cell CellSize, ch rune, c core.Color) {
	x0, y0 := cell.ToCell(core.V(r.X, r.Y))
	x1, y1 := cell.ToCell(core.V(r.Right()-0.001, r.Bottom()-0.001))
	s.FillRect(x0, y0, x1-x0+1, y1-y0+1, ch, c)
}

// drawLine rasterizes a polyline by stepping along each segment at half
// a cell.
func drawLine(s *core.Screen, pts []core.Vec2, cell CellSize, c core.Color) {
	if len(pts) == 1 {
		col, row := cell.ToCell(pts[0])
		s.SetColored(col, row, '·', c)
		return
	}
	step := math.Min(cell.W, cell.H) / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		n := int(math.Ceil(math.Hypot(d.X, d.Y)/step)) + 1
		for k := 0; k <= n; k++ {
			t := float64(k) / float64(n)
			col, row := cell.ToCell(core.V(a.X+d.X*t, a.Y+d.Y*t))
			s.SetColored(col, row, lineRune(d), c)
		}
	}
}

// lineRune picks a glyph for a segment direction.
func lineRune(d core.Vec2) rune {
	switch {
	case math.Abs(d.Y) < math.Abs(d.X)*0.4:
		return '─'
	case math.Abs(d.X) < math.Abs(d.Y)*0.4:
		return '│'
	case (d.X > 0) == (d.Y > 0):
		return '╲'
	default:
		return '╱'
	}
}

// drawPlayer fills the cells whose centers are inside the collision circle.
func drawPlayer(s *core.Screen, p runner.Player, cell CellSize) {
	x0, y0 := cell.ToCell(core.V(p.Pos.X-p.Radius, p.Pos.Y-p.Radius))
	x1, y1 := cell.ToCell(core.V(p.Pos.X+p.Radius, p.Pos.Y+p.Radius))
	painted := false
	for row := y0; row <= y1; row++ {
		for col := x0; col <= x1; col++ {
			if cell.ToWorld(col, row).DistSq(p.Pos) <= p.Radius*p.Radius {
				s.SetColored(col, row, '█', core.ColorBrightCyan)
				painted = true
			}
		}
	}
	if !painted {
		col, row := cell.ToCell(p.Pos)
		s.SetColored(col, row, '●', core.ColorBrightCyan)
	}
}

// drawOverlay writes phase prompts and the tutorial hint.
func drawOverlay(s *core.Screen, snap runner.Snapshot) {
	mid := s.Height() / 3

	switch snap.Phase {
	case runner.PhaseLoading:
		s.DrawTextCentered(mid, "Loading...", core.ColorGray)

	case runner.PhaseReady:
		s.DrawTextCentered(mid, "I N K D A S H", core.ColorBrightCyan)
		s.DrawTextCentered(mid+2, "Press ENTER to run", core.ColorWhite)
		if snap.Best > 0 {
			s.DrawTextCentered(mid+3, fmt.Sprintf("Best: %d", snap.Best), core.ColorYellow)
		}

	case runner.PhaseRunning:
		if hint := snap.Stage.Hint(); hint != "" {
			s.DrawTextCentered(1, hint, core.ColorBrightYellow)
		}
		if snap.Paused {
			s.DrawTextCentered(mid, "PAUSED", core.ColorBrightWhite)
			s.DrawTextCentered(mid+1, "p to resume", core.ColorGray)
		}

	case runner.PhaseGameOver:
		const panelW = 44
		s.FillRect((s.Width()-panelW)/2, mid-1, panelW, 7, ' ', core.ColorDefault)
		s.DrawBox((s.Width()-panelW)/2, mid-1, panelW, 7, core.ColorGray)
		s.DrawTextCentered(mid, "GAME OVER", core.ColorBrightRed)
		s.DrawTextCentered(mid+1, fmt.Sprintf("Score: %d   Best: %d", snap.Score, snap.Best), core.ColorWhite)
		switch {
		case snap.Reviving:
			s.DrawTextCentered(mid+3, "Watching ad...", core.ColorYellow)
		case snap.CanRevive:
			s.DrawTextCentered(mid+3, "v: watch an ad to continue", core.ColorBrightGreen)
		}
		s.DrawTextCentered(mid+4, "enter: run again   b: menu   h: history", core.ColorGray)
	}
}

// HUD renders the status line above the playfield.
func HUD(snap runner.Snapshot, profile string, width int) string {
	inkStyle := hudInkStyle
	if !snap.InkReady {
		inkStyle = hudLowStyle
	}

	parts := []string{
		hudKeyStyle.Render("score ") + hudStyle.Render(fmt.Sprintf("%d", snap.Score)),
		hudKeyStyle.Render("best ") + hudStyle.Render(fmt.Sprintf("%d", snap.Best)),
		hudKeyStyle.Render("ink ") + inkStyle.Render(inkBar(snap.Ink, 10)),
		hudKeyStyle.Render("coins ") + hudStyle.Render(fmt.Sprintf("%d", snap.RunCoins)),
		hudKeyStyle.Render("wallet ") + hudStyle.Render(fmt.Sprintf("%d", snap.Balance)),
	}
	if profile != "" {
		parts = append(parts, hudKeyStyle.Render("@"+profile))
	}

	line := strings.Join(parts, "  ")
	if lipgloss.Width(line) > width && width > 0 {
		line = strings.Join(parts[:3], "  ")
	}
	return line
}

// inkBar draws a fill bar for v in [0, 1].
func inkBar(v float64, width int) string {
	filled := core.Clamp(int(math.Round(v*float64(width))), 0, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// centerText pads text so it is centered in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
