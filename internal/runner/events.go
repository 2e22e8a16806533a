package runner

import "time"

// Event is something that happened during a run. Events are handed to the
// analytics collaborator and returned to the host with each step.
type Event interface {
	runEvent()
}

// CoinSource tells where a collected coin came from.
type CoinSource string

const (
	CoinSourceRun CoinSource = "run"
)

// RunStarted is emitted by StartGame.
type RunStarted struct {
	TutorialActive bool
	ReviveSlots    int
	TotalCurrency  int
}

func (RunStarted) runEvent() {}

// CoinCollected is emitted for each tick that collected coins.
type CoinCollected struct {
	Amount int
	Source CoinSource
}

func (CoinCollected) runEvent() {}

// ObstacleHit is emitted when a collision ends the run.
type ObstacleHit struct {
	Behavior Behavior
	Score    int
	Elapsed  time.Duration
}

func (ObstacleHit) runEvent() {}

// RunEnded is emitted once per game over (or abandoned run) with the summary.
type RunEnded struct {
	RunID         string
	Stats         RunStats
	RevivesUsed   int
	TotalCurrency int
	Awarded       int // Coins credited by the wallet for this settlement
	NewBest       bool
}

func (RunEnded) runEvent() {}

// TutorialAdvanced is emitted on every tutorial transition.
type TutorialAdvanced struct {
	From TutorialStage
	To   TutorialStage
}

func (TutorialAdvanced) runEvent() {}

// LineForceEnded is emitted when running out of ink or line lifetime ends a stroke.
type LineForceEnded struct{}

func (LineForceEnded) runEvent() {}

// Revived is emitted after a successful revive.
type Revived struct {
	ScrollSpeed float64
}

func (Revived) runEvent() {}
