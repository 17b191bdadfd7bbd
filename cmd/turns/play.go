package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tricky-turns/internal/core"
	"github.com/vovakirdan/tricky-turns/internal/platform/tui"
	"github.com/vovakirdan/tricky-turns/internal/registry"
	"github.com/vovakirdan/tricky-turns/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagUser       string
	flagLocalPath  string
	flagMute       bool
	flagVolume     float64
	flagStrict     bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing. Without a mode a menu lets you pick one and returns
after each game.

Controls:
  Space/Enter  - Start, reverse the orbit, resume, play again
  P/Esc        - Pause
  R            - Restart
  H/B          - Back to the start screen (menu from there)
  M            - Mute
  Q/Ctrl+C     - Quit

Players named with --user record to the leaderboard. Without a name you
play as a guest and your best scores stay in a local file.

Difficulty options override the mode's own preset:
  easy   - Slower ramp and a lower top speed
  normal - The standard ramp
  hard   - Double start speed
  fixed  - No ramp

Examples:
  turns play
  turns play classic --user alice
  turns play 3 --mute
  turns play steady --config ./my-turns.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagUser, "user", "", "Player name for the leaderboard (guest when empty)")
	playCmd.Flags().StringVar(&flagLocalPath, "local", storage.DefaultLocalPath, "Path to the guest best-score file")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with sound off")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 1, "Sound volume (0 = silent, 1 = full)")
	playCmd.Flags().BoolVar(&flagStrict, "strict", false, "Panic on internal consistency errors")
}

// terminalConfig sizes the runtime config from the controlling terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, args []string) {
	if len(args) == 1 && !registry.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'turns modes' to see available modes.")
		os.Exit(1)
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := terminalConfig()
	if len(args) == 1 {
		_, err = playMode(a, args[0], cfg, true)
	} else {
		err = menuLoop(a, cfg)
	}
	a.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// playMode runs one mode until the player quits. It reports whether the
// player went back to the menu.
func playMode(a *app, key string, cfg core.RuntimeConfig, exitOnHome bool) (bool, error) {
	mode, ok := registry.Lookup(key)
	if !ok {
		return false, fmt.Errorf("unknown mode %q", key)
	}
	game, err := registry.Create(key, a.svc.Env())
	if err != nil {
		return false, err
	}
	defer func() {
		if c, ok := game.(interface{ Close() error }); ok {
			c.Close()
		}
	}()

	a.svc.Logger.Info("game started", "mode", mode.Name)
	home, err := tui.Run(game, mode, a.svc, cfg, exitOnHome)
	if err != nil {
		return false, fmt.Errorf("running game: %w", err)
	}
	return home, nil
}

// menuLoop shows the mode menu and plays the chosen modes until the
// player quits.
func menuLoop(a *app, cfg core.RuntimeConfig) error {
	for {
		res, err := tui.RunMenu(a.store, a.svc.Identity.CurrentUser(), cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsScoreboard:
			goBack, err := tui.RunScoreboard(a.store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}
			home, err := playMode(a, res.Mode.Name, cfg, false)
			if err != nil {
				return err
			}
			if !home {
				return nil
			}
		}
	}
}
