package runner

// TutorialStage is one step of the first-run tutorial. Stages only move forward.
type TutorialStage int

const (
	StageIntro TutorialStage = iota
	StageJump
	StageDraw
	StageCoin
	StageComplete
)

// String returns the stage name.
func (s TutorialStage) String() string {
	switch s {
	case StageIntro:
		return "intro"
	case StageJump:
		return "jump"
	case StageDraw:
		return "draw"
	case StageCoin:
		return "coin"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Hint returns the on-screen prompt for the stage.
func (s TutorialStage) Hint() string {
	switch s {
	case StageJump:
		return "Press SPACE to jump"
	case StageDraw:
		return "Drag on the right side to draw a platform"
	case StageCoin:
		return "Grab a coin"
	default:
		return ""
	}
}

// Tutorial is the stage machine. Each transition is triggered by exactly one
// kind of event and only from the stage right before it.
type Tutorial struct {
	stage TutorialStage
}

// NewTutorial starts at intro, or at complete if it was finished before.
func NewTutorial(completed bool) Tutorial {
	if completed {
		return Tutorial{stage: StageComplete}
	}
	return Tutorial{stage: StageIntro}
}

// Stage returns the current stage.
func (t *Tutorial) Stage() TutorialStage {
	return t.stage
}

// Active reports whether the tutorial still shapes the run.
func (t *Tutorial) Active() bool {
	return t.stage != StageComplete
}

func (t *Tutorial) advance(from, to TutorialStage) bool {
	if t.stage != from {
		return false
	}
	t.stage = to
	return true
}

// OnRunStart moves intro to jump.
func (t *Tutorial) OnRunStart() bool {
	return t.advance(StageIntro, StageJump)
}

// OnJump moves jump to draw.
func (t *Tutorial) OnJump() bool {
	return t.advance(StageJump, StageDraw)
}

// OnLineStarted moves draw to coin.
func (t *Tutorial) OnLineStarted() bool {
	return t.advance(StageDraw, StageCoin)
}

// OnCoinCollected moves coin to complete.
func (t *Tutorial) OnCoinCollected() bool {
	return t.advance(StageCoin, StageComplete)
}
