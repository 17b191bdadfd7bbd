package turns

import (
	"fmt"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
	"github.com/vovakirdan/tricky-turns/internal/registry"
)

// Modes lists the built-in game modes.
var Modes = []registry.ModeInfo{
	{ID: 1, Name: "classic", Title: "Classic", Description: "The standard speed ramp", Preset: config.DifficultyNormal},
	{ID: 2, Name: "relaxed", Title: "Relaxed", Description: "Slower ramp and a lower top speed", Preset: config.DifficultyEasy},
	{ID: 3, Name: "frenzy", Title: "Frenzy", Description: "Starts fast and gets faster", Preset: config.DifficultyHard},
	{ID: 4, Name: "steady", Title: "Steady", Description: "Constant speed, no ramp", Preset: config.DifficultyFixed},
}

func init() {
	for _, m := range Modes {
		registry.Register(m, func(mode registry.ModeInfo, env registry.Env) (registry.Game, error) {
			return New(mode, env)
		})
	}
}

// muter is implemented by audio players with a mute switch.
type muter interface {
	Muted() bool
}

// Game adapts a Session to the platform's game interface.
type Game struct {
	mode    registry.ModeInfo
	env     registry.Env
	cfg     config.TurnsConfig
	rc      core.RuntimeConfig
	session *Session
	scene   *Scene
}

// New creates a game for a mode. The mode preset, or the env preset when
// set, is applied to a copy of the env config.
func New(mode registry.ModeInfo, env registry.Env) (*Game, error) {
	cfg := env.Config
	if cfg.Arena.NumLanes == 0 {
		cfg = config.DefaultTurnsConfig()
	}
	cfg = cfg.Clone()

	preset := mode.Preset
	if env.Preset != "" {
		preset = env.Preset
	}
	config.ApplyPreset(&cfg, preset)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("turns: mode %s: %w", mode.Name, err)
	}

	g := &Game{mode: mode, env: env, cfg: cfg}
	if err := g.build(core.DefaultConfig()); err != nil {
		return nil, err
	}
	return g, nil
}

// ID implements registry.Game.
func (g *Game) ID() string { return g.mode.Name }

// Title implements registry.Game.
func (g *Game) Title() string { return g.mode.Title }

// Session returns the running session.
func (g *Game) Session() *Session { return g.session }

// Reset implements registry.Game. It replaces the session with an idle one
// sized for the screen.
func (g *Game) Reset(rc core.RuntimeConfig) {
	if err := g.build(rc); err != nil && g.env.Logger != nil {
		g.env.Logger.Error("reset failed", "mode", g.mode.Name, "err", err)
	}
}

func (g *Game) build(rc core.RuntimeConfig) error {
	if rc.TickRate <= 0 {
		rc.TickRate = ReferenceRate
	}
	cfg := g.cfg
	if w := arenaWidth(cfg.Arena.Height, rc.ScreenW, rc.ScreenH); w > 0 {
		cfg.Arena.Width = w
	}

	scene := NewScene(rc.TickRate / 2)
	s, err := NewSession(Options{
		Config:   cfg,
		ModeID:   g.mode.ID,
		Seed:     rc.Seed,
		TickRate: rc.TickRate,
		Renderer: scene,
		HUD:      scene,
		Audio:    g.env.Audio,
		Identity: g.env.Identity,
		Scores:   g.env.Scores,
		Local:    g.env.Local,
		Logger:   g.env.Logger,
		Strict:   g.env.Strict,
	})
	if err != nil {
		return err
	}

	if g.session != nil {
		g.session.Wait()
	}
	g.rc, g.session, g.scene = rc, s, scene
	s.RefreshBest()
	return nil
}

// Resize implements registry.Resizer. The arena follows on the next start.
func (g *Game) Resize(screenW, screenH int) {
	g.rc.ScreenW, g.rc.ScreenH = screenW, screenH
	if w := arenaWidth(g.cfg.Arena.Height, screenW, screenH); w > 0 {
		g.session.Resize(w, g.cfg.Arena.Height)
	}
}

// ShowStanding implements registry.StandingView.
func (g *Game) ShowStanding(st core.Standing) {
	g.scene.ShowStanding(st)
}

// Step implements registry.Game.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	s := g.session
	switch {
	case in.Has(core.ActionHome):
		s.GoHome()
	case in.Has(core.ActionRestart):
		s.Restart()
	case in.Has(core.ActionPause):
		s.TogglePause()
	case in.Has(core.ActionTap):
		g.tap()
	}

	s.Advance(s.FrameInterval())
	g.scene.tick()
	return core.StepResult{State: g.State()}
}

// tap is the single gameplay control: start, reverse, resume or replay.
func (g *Game) tap() {
	s := g.session
	switch s.State() {
	case StateIdle:
		s.Start()
	case StateRunning:
		s.ReverseDirection()
	case StatePaused:
		s.Resume()
	case StateGameOver:
		if shown, _ := s.Results(); shown {
			s.Restart()
		}
	}
}

// Render implements registry.Game.
func (g *Game) Render(dst *core.Screen) {
	s := g.session
	shown, _ := s.Results()
	muted := false
	if m, ok := g.env.Audio.(muter); ok {
		muted = m.Muted()
	}

	g.scene.Draw(dst, view{
		title:      g.mode.Title,
		state:      s.State(),
		speed:      s.Run().Speed,
		results:    shown,
		muted:      muted,
		arena:      core.Vec2{X: s.world.center.X * 2, Y: s.world.center.Y * 2},
		center:     s.world.center,
		radius:     s.cfg.Orbit.Radius,
		entitySize: s.cfg.Arena.EntitySize,
		laneY:      s.LaneY,
	})
}

// State implements registry.Game.
func (g *Game) State() core.GameState {
	s := g.session
	shown, _ := s.Results()
	st := s.State()
	return core.GameState{
		Phase:    st.String(),
		Score:    s.Run().Score,
		Best:     s.Best(),
		GameOver: st == StateGameOver,
		Paused:   st == StatePaused,
		Results:  shown,
	}
}

// Settled implements registry.Submitter.
func (g *Game) Settled() <-chan struct{} { return g.session.Settled() }

// Close waits for pending score submissions.
func (g *Game) Close() error {
	g.session.Wait()
	return nil
}

// arenaWidth returns the arena width that keeps arena pixels square on a
// terminal whose cells are about twice as tall as they are wide.
func arenaWidth(height float64, cols, rows int) float64 {
	field := rows - hudRows
	if cols <= 0 || field <= 0 {
		return 0
	}
	return height * float64(cols) / float64(field) / 2
}
