// inkdash is an endless runner for the terminal: jump over blocks, draw ink
// platforms with the mouse and grab coins.
//
// Usage:
//
//	inkdash play              - Play in this terminal
//	inkdash serve             - Start SSH server for remote play
//	inkdash scores [profile]  - Show run history
//	inkdash simulate          - Play seeded runs with the autopilot
//
// Global flags:
//
//	--fps <rate>         - Set frame rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <path>          - Set database path (default: ~/.inkdash/inkdash.db)
//	--profile <name>     - Player profile (default: $USER)
//	--backend <name>     - Profile storage: sqlite or gdata
//	--config <path>      - Custom runner config (YAML or TOML)
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/inkdash/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagProfile    string
	flagBackend    string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inkdash",
	Short: "inkdash - draw your way through an endless run",
	Long: `inkdash is an endless runner played in the terminal.

The world scrolls from right to left. Jump over ground blocks and drag the
mouse on the right side of the screen to draw ink platforms that carry you
over hazards. Ink refills while you run.

Available commands:
  play      - Play in this terminal
  serve     - Start SSH server for remote play
  scores    - View run history
  simulate  - Play seeded runs with the autopilot

Examples:
  inkdash play
  inkdash play --difficulty hard
  inkdash serve --ssh :2222
  inkdash scores --all
  inkdash simulate --runs 20 --seed 42`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.inkdash/inkdash.db", "Path to history database")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Player profile (default: current user)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "sqlite", "Profile storage: sqlite or gdata")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom runner config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// loadConfig loads the runner config and applies --difficulty.
func loadConfig() (config.RunnerConfig, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.ParsePreset(flagDifficulty))
	}
	return cfg, nil
}

// resolveSeed returns --seed, or a time-based seed when it is 0.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// resolveProfile returns --profile, falling back to the OS user name.
func resolveProfile() string {
	if flagProfile != "" {
		return flagProfile
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
