package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/inkdash/internal/platform/tui"
	"github.com/vovakirdan/inkdash/internal/storage"
)

var (
	flagScoresAll    bool
	flagScoresRecent bool
	flagScoresLimit  int
	flagScoresClear  bool
	flagScoresBrowse bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [profile]",
	Short: "Show run history",
	Long: `Display the best runs of a profile (default: --profile or the current user).

Examples:
  inkdash scores
  inkdash scores alice --recent
  inkdash scores --all
  inkdash scores --browse
  inkdash scores bob --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "List every profile with a summary")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the latest runs instead of the best")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the profile's history and saved progress")
	scoresCmd.Flags().BoolVar(&flagScoresBrowse, "browse", false, "Open the interactive history board")
}

func runScores(_ *cobra.Command, args []string) error {
	profile := resolveProfile()
	if len(args) == 1 {
		profile = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		if err := store.ClearProfile(profile); err != nil {
			return err
		}
		fmt.Printf("Cleared history and progress of %s\n", profile)
		return nil

	case flagScoresBrowse:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunHistory(store, profile, width, height)

	case flagScoresAll:
		return printProfiles(store)
	}

	return printRuns(store, profile)
}

func printProfiles(store *storage.Store) error {
	profiles, err := store.Profiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-6s  %-8s  %-8s  %-7s  %s\n", "Profile", "Runs", "Best", "Avg", "Coins", "Last played")
	fmt.Printf("  %-16s  %-6s  %-8s  %-8s  %-7s  %s\n", "-------", "----", "----", "---", "-----", "-----------")
	for _, p := range profiles {
		fmt.Printf("  %-16s  %-6d  %-8d  %-8.1f  %-7d  %s\n",
			p.Profile, p.RunsCount, p.BestScore, p.AvgScore, p.TotalCoins,
			p.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printRuns(store *storage.Store, profile string) error {
	title := "Best Runs"
	runs, err := store.TopRuns(profile, flagScoresLimit)
	if flagScoresRecent {
		title = "Recent Runs"
		runs, err = store.RecentRuns(profile, flagScoresLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s - %s\n\n", title, profile)
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'inkdash play' to set the first score!")
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-8s  %-14s  %s\n", "Rank", "Score", "Coins", "Time", "End", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-8s  %-14s  %s\n", "----", "-----", "-----", "----", "---", "----")
	for i, r := range runs {
		end := r.DeathCause
		if end == "" {
			end = "abandoned"
		}
		fmt.Printf("  %-4d  %-8d  %-6d  %-8s  %-14s  %s\n",
			i+1, r.Score, r.Coins, r.Duration.Round(100*time.Millisecond), end,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.ProfileStats(profile)
	switch {
	case errors.Is(err, storage.ErrNoProfile):
	case err != nil:
		return err
	default:
		fmt.Println()
		fmt.Printf("Best: %d over %d runs, %d coins earned, %s played\n",
			stats.BestScore, stats.RunsCount, stats.TotalCoins, stats.TotalTime.Round(time.Second))
	}
	return nil
}
