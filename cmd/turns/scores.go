package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tricky-turns/internal/registry"
	"github.com/vovakirdan/tricky-turns/internal/storage"
)

var (
	flagScoresLimit   int
	flagScoresPlayers bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the leaderboard",
	Long: `Display the top scores of a mode, or of every mode when none is given.

Examples:
  turns scores
  turns scores frenzy
  turns scores classic --players --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rows to show")
	scoresCmd.Flags().BoolVar(&flagScoresPlayers, "players", false, "Show each player's best instead of every run")
}

func runScores(_ *cobra.Command, args []string) {
	modes := registry.List()
	if len(args) == 1 {
		mode, ok := registry.Lookup(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", args[0])
			fmt.Fprintln(os.Stderr, "Run 'turns modes' to see available modes.")
			os.Exit(1)
		}
		modes = []registry.ModeInfo{mode}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for i, mode := range modes {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(ctx, store, mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
			return
		}
	}
}

func printScores(ctx context.Context, store *storage.Store, mode registry.ModeInfo) error {
	fmt.Printf("High Scores - %s\n", mode.Title)
	fmt.Println()

	if flagScoresPlayers {
		leaders, err := store.Leaders(ctx, mode.ID, flagScoresLimit)
		if err != nil {
			return err
		}
		if len(leaders) == 0 {
			fmt.Println("No scores recorded yet.")
			return nil
		}
		fmt.Printf("  %-4s  %-16s  %s\n", "Rank", "Player", "Best")
		fmt.Printf("  %-4s  %-16s  %s\n", "----", "------", "----")
		rank := 0
		for i, r := range leaders {
			if i == 0 || r.Score != leaders[i-1].Score {
				rank = i + 1
			}
			fmt.Printf("  %-4d  %-16s  %d\n", rank, r.Player, r.Score)
		}
		return nil
	}

	scores, err := store.TopScores(ctx, mode.ID, flagScoresLimit)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Printf("Play 'turns play %s --user <name>' to set the first high score!\n", mode.Name)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-8d  %s\n", i+1, entry.Player, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetModeStats(ctx, mode.ID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d   Runs: %d   Players: %d   Average: %.1f\n",
		stats.HighScore, stats.Runs, stats.Players, stats.AvgScore)
	return nil
}
