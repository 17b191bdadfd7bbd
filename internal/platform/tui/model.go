package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
	"github.com/vovakirdan/tricky-turns/internal/registry"
	"github.com/vovakirdan/tricky-turns/internal/storage"
)

const (
	// standingLimit is how many leaders a results screen loads.
	standingLimit = 100
	// standingTimeout bounds the wait for a submission plus the query.
	standingTimeout = 5 * time.Second
)

var errNoLeaderboard = errors.New("leaderboard unavailable")

// Services are the collaborators shared by every game a front end starts.
type Services struct {
	Store    *storage.Store  // Shared leaderboard; nil disables it
	Local    core.ScoreStore // Guest best scores; nil keeps them in memory
	Audio    core.Audio
	Identity core.Identity
	Logger   *log.Logger
	Config   config.TurnsConfig
	Preset   config.DifficultyPreset
	Strict   bool
}

// Env builds the game environment. Authenticated players record to the
// leaderboard; guests only to Local.
func (s Services) Env() registry.Env {
	env := registry.Env{
		Config:   s.Config,
		Preset:   s.Preset,
		Identity: s.Identity,
		Local:    s.Local,
		Audio:    s.Audio,
		Logger:   s.Logger,
		Strict:   s.Strict,
	}
	if s.Store != nil && s.Identity != nil && s.Identity.IsAuthenticated() {
		env.Scores = s.Store.Leaderboard(s.Identity.CurrentUser())
	}
	if env.Audio == nil {
		env.Audio = core.NopAudio{}
	}
	return env
}

func (s Services) player() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.CurrentUser()
}

// GameModel is the Bubble Tea model that plays one mode.
type GameModel struct {
	game    registry.Game
	mode    registry.ModeInfo
	svc     Services
	screen  *core.Screen
	painter *Painter
	keys    GameKeyMap
	help    help.Model
	config  core.RuntimeConfig
	input   core.InputFrame
	state   core.GameState

	standingGen int  // Bumped per results screen; stale loads are dropped
	exitOnHome  bool // Home on the start screen quits the program
	home        bool // The player went back to the menu
	quitting    bool
}

// NewGameModel creates a model for the given game. The config's screen
// size is the full terminal; one row is kept for the help line.
func NewGameModel(game registry.Game, mode registry.ModeInfo, svc Services, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := GameModel{
		game:    game,
		mode:    mode,
		svc:     svc,
		painter: defaultPainter,
		keys:    DefaultGameKeyMap(),
		help:    help.New(),
		config:  cfg,
		input:   core.NewInputFrame(),
	}
	m.config.ScreenH = playfieldHeight(cfg.ScreenH)
	m.screen = core.NewScreen(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = cfg.ScreenW
	return m
}

// WithPainter returns a copy that renders through p.
func (m GameModel) WithPainter(p *Painter) GameModel {
	if p != nil {
		m.painter = p
	}
	return m
}

// ExitOnHome returns a copy that quits instead of returning to a menu.
func (m GameModel) ExitOnHome() GameModel {
	m.exitOnHome = true
	return m
}

// WentHome reports whether the model ended because the player asked for
// the menu.
func (m GameModel) WentHome() bool {
	return m.home
}

func playfieldHeight(h int) int {
	if h > 1 {
		return h - 1
	}
	return h
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: state will be set on first tick (value receiver limitation)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case standingMsg:
		if msg.gen == m.standingGen && m.state.Results {
			if v, ok := m.game.(registry.StandingView); ok {
				v.ShowStanding(msg.standing)
			}
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if err := m.saveScreenshot(); err != nil && m.svc.Logger != nil {
			m.svc.Logger.Warn("screenshot failed", "err", err)
		}
		return m, nil
	}

	switch a := m.keys.MapKey(msg); a {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionMute:
		if t, ok := m.svc.Audio.(interface{ ToggleMute() bool }); ok {
			t.ToggleMute()
		}
	case core.ActionHome:
		if m.state.Phase == "idle" || m.state.Phase == "" {
			if m.exitOnHome {
				m.quitting = true
			} else {
				m.home = true
			}
			return m, tea.Quit
		}
		m.input.Set(a)
	case core.ActionNone:
	default:
		m.input.Set(a)
	}
	return m, nil
}

// handleResize follows the terminal size without restarting the run.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = playfieldHeight(msg.Height)
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(m.config.ScreenW, m.config.ScreenH)
	} else if !m.state.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = m.game.Step(m.input).State
	m.input.Clear()

	next := tickCmd(m.config.TickRate)
	switch {
	case m.state.Results && !prev.Results:
		m.standingGen++
		return m, tea.Batch(next, m.fetchStanding(m.standingGen))
	case !m.state.Results && prev.Results:
		m.standingGen++
	}
	return m, next
}

// fetchStanding loads the player's leaderboard place once the run's score
// has been stored.
func (m GameModel) fetchStanding(gen int) tea.Cmd {
	var settled <-chan struct{}
	if s, ok := m.game.(registry.Submitter); ok {
		settled = s.Settled()
	}
	store, modeID, player := m.svc.Store, m.mode.ID, m.svc.player()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), standingTimeout)
		defer cancel()

		if settled != nil {
			select {
			case <-settled:
			case <-ctx.Done():
			}
		}
		if store == nil {
			return standingMsg{gen: gen, standing: core.Standing{Err: errNoLeaderboard}}
		}
		return standingMsg{gen: gen, standing: store.Standing(ctx, modeID, player, standingLimit)}
	}
}

// saveScreenshot saves the current screen to a file.
func (m GameModel) saveScreenshot() error {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("turns_%s_%s.txt", m.game.ID(), timestamp))
	return os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.home {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return m.painter.Render(m.screen) + "\n" + m.help.View(m.keys)
}

// Run plays a game in the terminal until the player quits or goes home.
// It reports whether the player asked for the menu.
func Run(game registry.Game, mode registry.ModeInfo, svc Services, cfg core.RuntimeConfig, exitOnHome bool) (bool, error) {
	model := NewGameModel(game, mode, svc, cfg)
	if exitOnHome {
		model = model.ExitOnHome()
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if gm, ok := final.(GameModel); ok {
		return gm.WentHome(), nil
	}
	return false, nil
}
