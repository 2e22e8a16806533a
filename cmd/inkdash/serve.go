package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/inkdash/internal/platform/tui"
	"github.com/vovakirdan/inkdash/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inkdash SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH user name is a profile: best score, tutorial progress, coin
balance and run history are kept per user in the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.inkdash/host_key

Examples:
  inkdash serve                           # Listen on :23234 with auto-generated key
  inkdash serve --ssh :2222               # Listen on port 2222
  inkdash serve --host-key ./my_host_key  # Use specific host key
  inkdash serve --db ./inkdash.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	if err := checkBackend(flagBackend); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "inkdash-ssh")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open history database, progress will not be saved", "error", err)
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

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Open: func(user string) (tui.Session, error) {
			return factory.open(user, resolveSeed()), nil
		},
		Options: tui.Options{FPS: flagFPS, Logger: logger},
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting inkdash SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
