package turns

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
	"github.com/vovakirdan/tricky-turns/internal/registry"
)

type mutedAudio struct{}

func (mutedAudio) Play(core.Sound) {}
func (mutedAudio) Muted() bool     { return true }

func newTestGame(t *testing.T, name string, env registry.Env) *Game {
	t.Helper()
	rg, err := registry.Create(name, env)
	if err != nil {
		t.Fatalf("registry.Create(%q) failed: %v", name, err)
	}
	g, ok := rg.(*Game)
	if !ok {
		t.Fatalf("registry.Create(%q) returned %T", name, rg)
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	return g
}

// stepFor steps the game with no input until at least d has elapsed.
func stepFor(g *Game, d time.Duration) {
	fi := g.session.FrameInterval()
	for n := int((d + fi - 1) / fi); n > 0; n-- {
		g.Step(core.NewInputFrame())
	}
}

func press(g *Game, a core.Action) core.StepResult {
	in := core.NewInputFrame()
	in.Set(a)
	return g.Step(in)
}

func render(g *Game, w, h int) string {
	screen := core.NewScreen(w, h)
	g.Render(screen)
	return screen.String()
}

func TestModesAreRegistered(t *testing.T) {
	for _, m := range Modes {
		info, ok := registry.Lookup(m.Name)
		if !ok || info.ID != m.ID {
			t.Errorf("mode %s not registered as %d", m.Name, m.ID)
		}
	}

	classic := newTestGame(t, "classic", registry.Env{})
	frenzy := newTestGame(t, "3", registry.Env{})
	if frenzy.ID() != "frenzy" || frenzy.Title() != "Frenzy" {
		t.Errorf("mode 3 = %s (%s)", frenzy.ID(), frenzy.Title())
	}
	if frenzy.session.Run().Speed <= classic.session.Run().Speed {
		t.Error("frenzy should start faster than classic")
	}

	steady := newTestGame(t, "steady", registry.Env{})
	if !steady.cfg.Speed.Fixed {
		t.Error("steady mode should disable the speed ramp")
	}
}

func TestEnvPresetOverridesMode(t *testing.T) {
	g := newTestGame(t, "classic", registry.Env{Preset: config.DifficultyFixed})
	if !g.cfg.Speed.Fixed {
		t.Error("env preset should override the mode preset")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	cfg.Speed.Ramp = []config.RampBracket{{Until: 50, PerTick: 0.1}, {Until: 20, PerTick: 0.2}}

	_, err := registry.Create("classic", registry.Env{Config: cfg})
	if !errors.Is(err, config.ErrBracketOrder) {
		t.Errorf("Create() = %v, want ErrBracketOrder", err)
	}
}

func TestGameTapFlow(t *testing.T) {
	g := newTestGame(t, "classic", registry.Env{})

	if got := g.State().Phase; got != "idle" {
		t.Fatalf("initial phase = %q, want idle", got)
	}
	if got := press(g, core.ActionTap).State.Phase; got != "countdown" {
		t.Fatalf("phase after tap = %q, want countdown", got)
	}

	stepFor(g, 4*time.Second)
	if got := g.State().Phase; got != "running" {
		t.Fatalf("phase after countdown = %q, want running", got)
	}

	dir := g.session.Run().Direction
	press(g, core.ActionTap)
	if g.session.Run().Direction != -dir {
		t.Error("tap while running should reverse the orbit")
	}

	if st := press(g, core.ActionPause).State; !st.Paused {
		t.Fatal("pause action should pause the run")
	}
	stepFor(g, 300*time.Millisecond)
	press(g, core.ActionTap)
	if !g.session.Resuming() {
		t.Fatal("tap while paused should start the resume countdown")
	}
	stepFor(g, 3*time.Second)
	if got := g.State().Phase; got != "running" {
		t.Fatalf("phase after resume = %q, want running", got)
	}

	if got := press(g, core.ActionHome).State.Phase; got != "idle" {
		t.Errorf("phase after home = %q, want idle", got)
	}
}

func TestGameOverResultsAndReplay(t *testing.T) {
	g := newTestGame(t, "classic", registry.Env{})
	press(g, core.ActionTap)
	stepFor(g, 4*time.Second)

	if !g.session.EndRun() {
		t.Fatal("EndRun() should end a running game")
	}
	press(g, core.ActionTap)
	if got := g.State().Phase; got != "game over" {
		t.Fatalf("tap before results should be ignored, phase = %q", got)
	}

	stepFor(g, 700*time.Millisecond)
	st := g.State()
	if !st.GameOver || !st.Results {
		t.Fatalf("results not shown: %+v", st)
	}

	out := render(g, 80, 24)
	for _, want := range []string{"GAME OVER", "Loading leaderboard..."} {
		if !strings.Contains(out, want) {
			t.Errorf("results screen missing %q", want)
		}
	}

	g.ShowStanding(core.Standing{Rank: 3, Top: []core.Ranked{{Player: "alice", Score: 12}}})
	out = render(g, 80, 24)
	for _, want := range []string{"Your Global Rank: #3", "alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("results screen missing %q", want)
		}
	}

	g.ShowStanding(core.Standing{Err: errors.New("offline")})
	if out := render(g, 80, 24); !strings.Contains(out, "Failed to load leaderboard.") {
		t.Error("failed standing should say so")
	}
	if g.State().Phase != "game over" {
		t.Error("a failed leaderboard load must not change the session")
	}

	if got := press(g, core.ActionTap).State.Phase; got != "countdown" {
		t.Errorf("tap on results = %q, want countdown", got)
	}
}

func TestGameRenderScreens(t *testing.T) {
	g := newTestGame(t, "relaxed", registry.Env{Audio: mutedAudio{}})

	out := render(g, 80, 24)
	for _, want := range []string{"TRICKY TURNS", "Relaxed", "Best: 0", "muted"} {
		if !strings.Contains(out, want) {
			t.Errorf("title screen missing %q", want)
		}
	}

	press(g, core.ActionTap)
	if out := render(g, 80, 24); !strings.Contains(out, "3") || !strings.Contains(out, "●") {
		t.Error("countdown should show the first beat and the markers")
	}

	if out := render(g, 30, 10); !strings.Contains(out, "Terminal too small") {
		t.Error("tiny screens should show a notice")
	}
}

func TestGameResizeAppliesOnStart(t *testing.T) {
	g := newTestGame(t, "classic", registry.Env{})
	before := g.session.world.center.X

	g.Resize(120, 31)
	if g.session.world.center.X != before {
		t.Fatal("resize should not move the lanes before the next start")
	}

	press(g, core.ActionTap)
	want := arenaWidth(600, 120, 31) / 2
	if math.Abs(g.session.world.center.X-want) > 1e-9 {
		t.Errorf("center after start = %v, want %v", g.session.world.center.X, want)
	}
}

func TestArenaWidth(t *testing.T) {
	tests := []struct {
		cols, rows int
		want       float64
	}{
		{80, 21, 1200},
		{40, 21, 600},
		{0, 24, 0},
		{80, 1, 0},
	}
	for _, tt := range tests {
		if got := arenaWidth(600, tt.cols, tt.rows); got != tt.want {
			t.Errorf("arenaWidth(600, %d, %d) = %v, want %v", tt.cols, tt.rows, got, tt.want)
		}
	}
}

func TestSceneFollowsRenderer(t *testing.T) {
	sc := NewScene(2)
	h1 := sc.SpawnEntity(KindObstacle, 0, -50, 3)
	h2 := sc.SpawnEntity(KindPoint, 2, 850, -3)
	if h1 == h2 || sc.Sprites() != 2 {
		t.Fatalf("spawn handles %d, %d, sprites %d", h1, h2, sc.Sprites())
	}

	sc.MoveEntity(h1, 10)
	if sc.sprites[h1].x != 10 {
		t.Error("MoveEntity should update the sprite")
	}
	sc.DestroyEntity(h1)
	sc.DestroyEntity(h1)
	sc.MoveEntity(h1, 20)
	if sc.Sprites() != 1 {
		t.Errorf("sprites after destroy = %d, want 1", sc.Sprites())
	}

	sc.ShowFeedback("+1", core.Vec2{X: 400, Y: 300})
	sc.tick()
	if len(sc.floaters) != 1 {
		t.Fatal("feedback expired too early")
	}
	sc.tick()
	if len(sc.floaters) != 0 {
		t.Error("feedback should expire after its ttl")
	}
}
