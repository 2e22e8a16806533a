// Package runner implements the real-time run simulation of an endless
// runner: player physics, drawn-line platforms, the ink economy, obstacle
// and coin spawning, collision, scoring, the tutorial and the run lifecycle
// with revive.
//
// The package owns no timers. Hosts call Frame (wall-clock timestamps) or
// Tick (explicit delta) once per frame and feed discrete input through Jump,
// StartLine, ExtendLine and EndLine.
package runner

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/inkdash/internal/config"
	"github.com/vovakirdan/inkdash/internal/core"
)

// Phase is the lifecycle state of a Run.
type Phase int

const (
	PhaseLoading  Phase = iota // Waiting for Init and a viewport
	PhaseReady                 // Idle, a run may start
	PhaseRunning               // Ticking
	PhaseGameOver              // Ended; may revive or restart
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseRunning:
		return "running"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// Deps are the external collaborators of a run. Nil fields get in-memory
// or no-op defaults.
type Deps struct {
	Persistence Persistence
	Ads         Ads
	Analytics   Analytics
	Wallet      Wallet
	Logger      *log.Logger
}

// State is the compact per-step state returned to hosts.
type State struct {
	Phase  Phase
	Paused bool
	Score  int
	Best   int
	Coins  int
	Stage  TutorialStage
}

// StepResult is returned by Tick and Frame.
type StepResult struct {
	State  State
	Events []Event // Events raised since the previous step, input handlers included
}

// Run is one player's session: it owns every per-run entity and moves them
// through the lifecycle. All methods are safe for concurrent use; Revive
// releases the lock while the ad plays.
type Run struct {
	mu sync.Mutex

	cfg        config.RunnerConfig
	deps       Deps
	logger     *log.Logger
	rng        *rand.Rand
	difficulty *config.DifficultyManager
	clock      *Clock

	phase   Phase
	loaded  bool
	paused  bool
	viewW   float64
	viewH   float64
	groundY float64

	player   Player
	ink      Ink
	lines    *Ledger
	world    *World
	score    Score
	tutorial Tutorial

	tutorialSaved bool
	best          int

	runID        string
	seq          uint64 // Bumped by every StartGame; guards stale revives
	elapsed      float64
	coins        int
	coinsSettled int
	jumps        int
	drewLine     bool
	drawTime     float64
	revivesUsed  int
	reviving     bool
	adDue        bool // Interstitial held while the run can still be revived
	lastStats    RunStats
	hasStats     bool

	events []Event
}

// NewRun creates a run in the loading phase. Call Init and SetViewport
// before StartGame.
func NewRun(runtime core.RuntimeConfig, cfg config.RunnerConfig, deps Deps) *Run {
	if deps.Persistence == nil {
		deps.Persistence = &MemoryPersistence{}
	}
	if deps.Ads == nil {
		deps.Ads = NoAds{}
	}
	if deps.Analytics == nil {
		deps.Analytics = NopAnalytics{}
	}
	if deps.Wallet == nil {
		deps.Wallet = &MemoryWallet{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &Run{
		cfg:        cfg,
		deps:       deps,
		logger:     logger,
		rng:        rand.New(rand.NewSource(runtime.Seed)),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		clock:      NewClock(cfg.Clock.MaxDelta, cfg.Clock.FirstDelta),
		phase:      PhaseLoading,
		lines:      NewLedger(cfg.Lines),
		ink:        NewInk(cfg.Ink),
		tutorial:   NewTutorial(false),
	}
	r.world = NewWorld(&r.cfg, r.difficulty, r.rng)
	return r
}

// Init loads the best score and tutorial flag. Load failures are logged
// and replaced by defaults.
func (r *Run) Init() {
	p := r.deps.Persistence

	best, err := p.LoadBestScore()
	if err != nil {
		r.logger.Warn("could not load best score, using 0", "error", err)
		best = 0
	}
	completed, err := p.LoadTutorialCompleted()
	if err != nil {
		r.logger.Warn("could not load tutorial state, assuming incomplete", "error", err)
		completed = false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return
	}
	r.best = best
	r.tutorial = NewTutorial(completed)
	r.tutorialSaved = completed
	r.loaded = true
	r.maybeReadyLocked()
}

// SetViewport supplies the screen size. It is refused while running unless
// unchanged.
func (r *Run) SetViewport(w, h float64) bool {
	if w <= 0 || h <= 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if w == r.viewW && h == r.viewH {
		return true
	}
	if r.phase == PhaseRunning {
		r.logger.Debug("viewport change ignored while running", "width", w, "height", h)
		return false
	}
	r.viewW = w
	r.viewH = h
	r.groundY = h * r.cfg.World.GroundRatio
	r.maybeReadyLocked()
	return true
}

func (r *Run) maybeReadyLocked() {
	if r.phase == PhaseLoading && r.loaded && r.viewW > 0 {
		r.phase = PhaseReady
	}
}

// StartGame resets every per-run entity and begins ticking. It is legal
// from ready or gameOver with a known viewport and no revive in flight.
func (r *Run) StartGame() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseReady && r.phase != PhaseGameOver {
		r.logger.Debug("start ignored", "phase", r.phase)
		return false
	}
	if r.viewW <= 0 || r.reviving {
		return false
	}

	r.flushInterstitialLocked()
	if r.tutorial.OnRunStart() {
		r.emit(TutorialAdvanced{From: StageIntro, To: StageJump})
	}
	r.resetLocked()
	r.phase = PhaseRunning
	r.paused = false
	r.clock.Reset()

	r.emit(RunStarted{
		TutorialActive: r.tutorial.Active(),
		ReviveSlots:    r.cfg.Revive.MaxPerRun,
		TotalCurrency:  r.deps.Wallet.Balance(),
	})
	r.logger.Debug("run started", "run", r.runID, "tutorial", r.tutorial.Stage())
	return true
}

// resetLocked restores per-run entities to their initial values.
func (r *Run) resetLocked() {
	c := r.cfg
	r.player = NewPlayer(c.Player.X, c.Player.Radius, r.groundY, c.Player.CoyoteTime)
	r.ink = NewInk(c.Ink)
	r.lines.Clear()
	r.world.Reset(r.viewW, r.groundY, r.tutorial.Active())
	r.score.Reset()

	r.runID = uuid.NewString()
	r.seq++
	r.elapsed = 0
	r.coins = 0
	r.coinsSettled = 0
	r.jumps = 0
	r.drewLine = false
	r.drawTime = 0
	r.revivesUsed = 0
	r.adDue = false
	r.lastStats = RunStats{}
	r.hasStats = false
}

// Frame advances the run using a wall-clock timestamp; the delta is clamped
// by the run's Clock.
func (r *Run) Frame(now time.Time) StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseRunning && !r.paused {
		r.tickLocked(r.clock.Next(now))
	}
	return r.resultLocked()
}

// Tick advances the run by dt seconds.
func (r *Run) Tick(dt float64) StepResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseRunning && !r.paused && dt > 0 {
		r.tickLocked(dt)
	}
	return r.resultLocked()
}

// tickLocked runs the simulation pipeline in its fixed order.
func (r *Run) tickLocked(dt float64) {
	c := r.cfg
	r.elapsed += dt

	// Player kinematics
	r.player.Integrate(dt, c.Player.Gravity, r.groundY, c.Player.CoyoteTime)

	// Drawn lines: age out, then act as platforms
	if r.lines.Age(r.elapsed) {
		r.ink.End()
		r.emit(LineForceEnded{})
	}
	r.lines.Support(&r.player, c.Player.CoyoteTime)

	// Ink economy
	drawing := r.lines.Drawing()
	if drawing {
		r.drawTime += dt
	}
	if r.ink.Tick(dt, drawing, r.player.Grounded) {
		r.finishLineLocked()
		r.emit(LineForceEnded{})
	}

	// World scroll and spawn; lines travel with the world
	dx := r.world.Step(dt, r.spawnPolicyLocked())
	r.lines.Shift(dx)

	// Score
	r.score.Add(r.world.Speed(), dt, c.Score.Rate)

	// Collision judge
	if n := r.world.collectCoins(&r.player); n > 0 {
		r.coins += n
		r.emit(CoinCollected{Amount: n, Source: CoinSourceRun})
		if r.tutorial.OnCoinCollected() {
			r.tutorialAdvancedLocked(StageCoin, StageComplete)
		}
	}
	if o, hit := FirstHit(&r.player, r.world.Obstacles()); hit {
		r.emit(ObstacleHit{
			Behavior: o.Behavior,
			Score:    r.score.Value,
			Elapsed:  seconds(r.elapsed),
		})
		r.settleLocked(true, o.Behavior)
		r.phase = PhaseGameOver
	}
}

func (r *Run) spawnPolicyLocked() SpawnPolicy {
	return SpawnPolicy{
		TutorialActive: r.tutorial.Active(),
		Stage:          r.tutorial.Stage(),
		Score:          r.score.Value,
		Elapsed:        r.elapsed,
	}
}

func (r *Run) tutorialAdvancedLocked(from, to TutorialStage) {
	r.emit(TutorialAdvanced{From: from, To: to})
	if to != StageComplete || r.tutorialSaved {
		return
	}
	if err := r.deps.Persistence.SaveTutorialCompleted(); err != nil {
		r.logger.Warn("could not save tutorial completion", "error", err)
		return
	}
	r.tutorialSaved = true
}

// settleLocked computes the run summary and hands it to the collaborators.
// Coins are credited once: a revived run only credits coins collected since
// the previous settlement.
func (r *Run) settleLocked(obstacle bool, cause Behavior) {
	if r.lines.Drawing() {
		r.finishLineLocked()
	}

	stats := RunStats{
		Duration:       seconds(r.elapsed),
		Score:          r.score.Value,
		CoinsCollected: r.coins,
		DrewLine:       r.drewLine,
		JumpCount:      r.jumps,
		DrawTime:       seconds(r.drawTime),
		ObstacleDeath:  obstacle,
		DeathCause:     cause,
	}

	newBest := false
	if stats.Score > r.best {
		r.best = stats.Score
		newBest = true
		if err := r.deps.Persistence.SaveBestScore(stats.Score); err != nil {
			r.logger.Warn("could not save best score", "score", stats.Score, "error", err)
		}
	}

	awarded := r.deps.Wallet.RegisterRunCoins(r.coins - r.coinsSettled)
	r.coinsSettled = r.coins

	r.emit(RunEnded{
		RunID:         r.runID,
		Stats:         stats,
		RevivesUsed:   r.revivesUsed,
		TotalCurrency: r.deps.Wallet.Balance(),
		Awarded:       awarded,
		NewBest:       newBest,
	})
	r.lastStats = stats
	r.hasStats = true
	if obstacle {
		r.adDue = true
		if r.revivesUsed >= r.cfg.Revive.MaxPerRun {
			r.flushInterstitialLocked()
		}
	}
	r.logger.Debug("run settled", "run", r.runID, "stats", stats.String(), "new_best", newBest)
}

// Jump requests a jump. It succeeds only while running, unpaused, and
// grounded or within coyote time.
func (r *Run) Jump() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseRunning || r.paused {
		return false
	}
	if !r.player.Jump(r.cfg.Player.JumpImpulse) {
		return false
	}
	r.jumps++
	if r.tutorial.OnJump() {
		r.tutorialAdvancedLocked(StageJump, StageDraw)
	}
	return true
}

// StartLine begins a stroke at p if the ink economy allows it.
func (r *Run) StartLine(p core.Vec2) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseRunning || r.paused || r.lines.Drawing() {
		return false
	}
	if !r.ink.Begin(p.X, r.viewW) {
		return false
	}
	r.lines.Start(p, r.elapsed)
	r.drewLine = true
	if r.tutorial.OnLineStarted() {
		r.tutorialAdvancedLocked(StageDraw, StageCoin)
	}
	return true
}

// ExtendLine appends p to the active stroke.
func (r *Run) ExtendLine(p core.Vec2) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseRunning || r.paused {
		return false
	}
	return r.lines.Extend(p)
}

// EndLine closes the active stroke, if any.
func (r *Run) EndLine() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lines.Drawing() {
		r.finishLineLocked()
	}
}

func (r *Run) finishLineLocked() {
	r.lines.Finish()
	r.ink.End()
}

// Revive continues a finished run after a rewarded ad. It is legal only in
// gameOver, at most MaxPerRun times per run, and only when the ad reports
// the reward as earned. While the ad plays a second call is rejected.
func (r *Run) Revive(ctx context.Context) bool {
	r.mu.Lock()
	if r.phase != PhaseGameOver || r.reviving || r.revivesUsed >= r.cfg.Revive.MaxPerRun {
		r.mu.Unlock()
		return false
	}
	ads := r.deps.Ads
	if !ads.HasRewardedAdAvailable() {
		r.mu.Unlock()
		return false
	}
	r.reviving = true
	seq := r.seq
	r.mu.Unlock()

	earned, err := ads.ShowRewardedAd(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.reviving = false
	if err != nil {
		r.logger.Warn("rewarded ad failed", "error", err)
		return false
	}
	if !earned {
		r.logger.Debug("rewarded ad closed without reward")
		return false
	}
	if r.seq != seq || r.phase != PhaseGameOver {
		r.logger.Debug("revive result dropped, run moved on", "phase", r.phase)
		return false
	}

	r.reviveLocked()
	return true
}

func (r *Run) reviveLocked() {
	c := r.cfg

	r.lines.Clear()
	r.ink.Refill()
	r.world.ClearAround(c.Player.X, c.Spawn.ReviveClearRadius)
	r.world.EaseAfterRevive()

	r.player = NewPlayer(c.Player.X, c.Player.Radius, r.groundY, c.Player.CoyoteTime)
	r.player.VY = c.Player.ReviveVelocity
	r.player.Grounded = false
	r.player.Coyote = 0

	r.revivesUsed++
	r.adDue = false
	r.phase = PhaseRunning
	r.paused = false
	r.clock.Reset()
	r.emit(Revived{ScrollSpeed: r.world.Speed()})
}

// PauseForLifecycle suspends ticking while running. Idempotent.
func (r *Run) PauseForLifecycle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseRunning {
		r.paused = true
	}
}

// ResumeFromLifecycle resumes ticking. The next Frame uses the clock's
// first-tick delta. Idempotent.
func (r *Run) ResumeFromLifecycle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseRunning && r.paused {
		r.paused = false
		r.clock.Reset()
	}
}

// BackToMenu stops ticking and returns to ready. A live run is settled as
// abandoned first.
func (r *Run) BackToMenu() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded || r.viewW <= 0 {
		return
	}
	if r.phase == PhaseRunning {
		r.settleLocked(false, GroundBlock)
	}
	r.flushInterstitialLocked()
	r.phase = PhaseReady
	r.paused = false
}

// flushInterstitialLocked requests the interstitial owed by a run that
// ended on an obstacle, at most once per run.
func (r *Run) flushInterstitialLocked() {
	if !r.adDue {
		return
	}
	r.adDue = false
	st := r.lastStats
	r.deps.Ads.MaybeShowInterstitial(st.Duration, st.Score, st.CoinsCollected)
}

// Phase returns the current lifecycle phase.
func (r *Run) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// ReviveAvailable reports whether Revive could currently succeed.
func (r *Run) ReviveAvailable() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reviveAvailableLocked()
}

func (r *Run) reviveAvailableLocked() bool {
	return r.phase == PhaseGameOver &&
		!r.reviving &&
		r.revivesUsed < r.cfg.Revive.MaxPerRun &&
		r.deps.Ads.HasRewardedAdAvailable()
}

// LastStats returns the summary of the most recent settlement.
func (r *Run) LastStats() (RunStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStats, r.hasStats
}

// DrainEvents returns and clears the pending events.
func (r *Run) DrainEvents() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drainLocked()
}

// emit records an event for the host and forwards it to analytics.
func (r *Run) emit(ev Event) {
	r.events = append(r.events, ev)
	r.deps.Analytics.Track(ev)
}

func (r *Run) drainLocked() []Event {
	if len(r.events) == 0 {
		return nil
	}
	out := r.events
	r.events = nil
	return out
}

func (r *Run) resultLocked() StepResult {
	return StepResult{
		State:  r.stateLocked(),
		Events: r.drainLocked(),
	}
}

func (r *Run) stateLocked() State {
	return State{
		Phase:  r.phase,
		Paused: r.paused,
		Score:  r.score.Value,
		Best:   r.best,
		Coins:  r.coins,
		Stage:  r.tutorial.Stage(),
	}
}
