package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inkdash/internal/platform/tui"
	"github.com/vovakirdan/inkdash/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a run in the current terminal.

Controls:
  Space/Up     - Jump (start a run from the menu)
  Mouse drag   - Draw an ink platform (right side of the screen)
  V            - Watch an ad to continue after a crash
  P            - Pause
  B/Esc        - Back to menu
  H            - Run history
  Ctrl+S       - Save a text screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression

Logs go to ~/.inkdash/inkdash.log so they do not disturb the screen.

Examples:
  inkdash play
  inkdash play --difficulty hard
  inkdash play --profile alice --backend gdata
  inkdash play --config ./my-runner.toml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	if err := checkBackend(flagBackend); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, appName)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		logger.Warn("history disabled", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	factory := sessionFactory{
		store:   store,
		backend: flagBackend,
		cfg:     cfg,
		fps:     flagFPS,
		logger:  logger,
	}
	profile := resolveProfile()
	sess := factory.open(profile, resolveSeed())
	logger.Info("session opened", "profile", profile, "backend", flagBackend)

	return tui.Run(sess, tui.Options{FPS: flagFPS, Logger: logger})
}

// openLogFile opens ~/.inkdash/inkdash.log for appending.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".inkdash")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	return os.OpenFile(filepath.Join(dir, "inkdash.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
