package runner

// Snapshot is a read-only copy of everything a renderer needs. It shares no
// memory with the run.
type Snapshot struct {
	Phase       Phase
	Paused      bool
	ViewW       float64
	ViewH       float64
	GroundY     float64
	Elapsed     float64 // Simulated run time in seconds
	Player      Player
	Ink         float64
	InkReady    bool // A new line could start now, region permitting
	Drawing     bool
	Lines       []Line
	Obstacles   []Obstacle
	Coins       []Coin
	Speed       float64
	Score       int
	Best        int
	RunCoins    int
	Balance     int
	Stage       TutorialStage
	Reviving    bool
	CanRevive   bool
	RevivesUsed int
}

// Snapshot copies the current state.
func (r *Run) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		Phase:       r.phase,
		Paused:      r.paused,
		ViewW:       r.viewW,
		ViewH:       r.viewH,
		GroundY:     r.groundY,
		Elapsed:     r.elapsed,
		Player:      r.player,
		Ink:         r.ink.Value,
		InkReady:    r.ink.Value >= r.cfg.Ink.MinToStart && r.ink.Cooldown <= 0,
		Drawing:     r.lines.Drawing(),
		Lines:       r.lines.Lines(),
		Obstacles:   append([]Obstacle(nil), r.world.Obstacles()...),
		Coins:       append([]Coin(nil), r.world.Coins()...),
		Speed:       r.world.Speed(),
		Score:       r.score.Value,
		Best:        r.best,
		RunCoins:    r.coins,
		Balance:     r.deps.Wallet.Balance(),
		Stage:       r.tutorial.Stage(),
		Reviving:    r.reviving,
		CanRevive:   r.reviveAvailableLocked(),
		RevivesUsed: r.revivesUsed,
	}
}
