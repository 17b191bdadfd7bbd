// turns is Tricky Turns, a one-button orbit game for the terminal.
//
// Usage:
//
//	turns play [mode]        - Play a mode, or pick one from the menu
//	turns modes              - List game modes
//	turns scores [mode]      - Show the leaderboard
//	turns serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set leaderboard path (default: ~/.arcade/scores.db)
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game to register its modes
	_ "github.com/vovakirdan/tricky-turns/internal/games/turns"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "turns",
	Short: "Tricky Turns - steer two orbiting dots in your terminal",
	Long: `Tricky Turns is a one-button arcade game. Two markers circle the
center of the arena; tap to reverse their orbit, dodge the blocks sliding
in along the lanes and collect the diamonds.

Available commands:
  play     - Play a mode (menu when no mode is given)
  modes    - Show all game modes
  scores   - View the leaderboard
  serve    - Start SSH server for remote play

Examples:
  turns play
  turns play frenzy --user alice
  turns scores classic
  turns serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to leaderboard database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
