package runner

import (
	"math"

	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
)

// Line is a player-drawn stroke. It is both visual and a temporary platform.
type Line struct {
	Points    []core.Vec2
	CreatedAt float64 // Run time in seconds
}

// Age returns how long the line has existed at run time now.
func (l Line) Age(now float64) float64 {
	return now - l.CreatedAt
}

// Ledger keeps drawn lines in creation order. At most one line, the newest,
// is active (still being drawn).
type Ledger struct {
	lines  []Line
	active bool
	cfg    config.LinesConfig
}

// NewLedger creates an empty ledger.
func NewLedger(cfg config.LinesConfig) *Ledger {
	return &Ledger{
		lines: make([]Line, 0, 8),
		cfg:   cfg,
	}
}

// Clear removes every line, including the active one.
func (l *Ledger) Clear() {
	l.lines = l.lines[:0]
	l.active = false
}

// Drawing reports whether a stroke is in progress.
func (l *Ledger) Drawing() bool {
	return l.active
}

// Len returns the number of lines, active one included.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Start opens a new stroke at p.
func (l *Ledger) Start(p core.Vec2, now float64) {
	l.lines = append(l.lines, Line{
		Points:    []core.Vec2{p},
		CreatedAt: now,
	})
	l.active = true
}

// Extend appends p to the active stroke. Points closer than the configured
// spacing to the previous one are skipped.
func (l *Ledger) Extend(p core.Vec2) bool {
	if !l.active {
		return false
	}
	line := &l.lines[len(l.lines)-1]
	last := line.Points[len(line.Points)-1]
	minSpacing := l.cfg.MinPointSpacing
	if last.DistSq(p) < minSpacing*minSpacing {
		return false
	}
	line.Points = append(line.Points, p)
	return true
}

// Finish closes the active stroke. A stroke that never reached two points
// is discarded; the return value reports whether it was kept.
func (l *Ledger) Finish() bool {
	if !l.active {
		return false
	}
	l.active = false
	last := len(l.lines) - 1
	if len(l.lines[last].Points) < 2 {
		l.lines = l.lines[:last]
		return false
	}
	return true
}

// Age removes lines older than the configured lifetime. It returns true if
// the active stroke was among them.
func (l *Ledger) Age(now float64) (activeExpired bool) {
	kept := l.lines[:0]
	for i, line := range l.lines {
		if line.Age(now) > l.cfg.Lifetime {
			if l.active && i == len(l.lines)-1 {
				activeExpired = true
			}
			continue
		}
		kept = append(kept, line)
	}
	l.lines = kept
	if activeExpired {
		l.active = false
	}
	return activeExpired
}

// Shift moves every point horizontally by dx, so lines travel with the world.
func (l *Ledger) Shift(dx float64) {
	for i := range l.lines {
		pts := l.lines[i].Points
		for j := range pts {
			pts[j].X += dx
		}
	}
}

// Support snaps a falling player onto the first line segment under them.
// It returns true if the player was supported.
func (l *Ledger) Support(p *Player, coyoteTime float64) bool {
	if p.VY < 0 {
		return false
	}
	x := p.Pos.X
	bottom := p.Bottom()

	for _, line := range l.lines {
		for i := 0; i+1 < len(line.Points); i++ {
			a, b := line.Points[i], line.Points[i+1]
			minX := math.Min(a.X, b.X) - l.cfg.SupportMargin
			maxX := math.Max(a.X, b.X) + l.cfg.SupportMargin
			if x < minX || x > maxX {
				continue
			}
			y := segmentY(a, b, x)
			if math.Abs(bottom-y) <= l.cfg.SupportTolerance {
				p.Land(y, coyoteTime)
				return true
			}
		}
	}
	return false
}

// Lines returns a deep copy of the ledger's lines.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	for i, line := range l.lines {
		out[i] = Line{
			Points:    append([]core.Vec2(nil), line.Points...),
			CreatedAt: line.CreatedAt,
		}
	}
	return out
}

// segmentY returns the y of segment ab at x, clamped to the segment's ends.
func segmentY(a, b core.Vec2, x float64) float64 {
	dx := b.X - a.X
	if math.Abs(dx) < 1e-9 {
		return math.Min(a.Y, b.Y)
	}
	t := core.ClampF((x-a.X)/dx, 0, 1)
	return core.Lerp(a.Y, b.Y, t)
}
