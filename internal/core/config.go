package core

// RuntimeConfig contains host-supplied settings passed to a run at creation.
// The engine uses Seed for its random source; TickRate only informs hosts
// that drive Frame from a fixed ticker.
type RuntimeConfig struct {
	TickRate int   // Frames per second requested from the host (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}
