package turns

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tricky-turns/internal/core"
)

const (
	hudRows     = 1
	orbitDots   = 72
	minScreenW  = 40
	minScreenH  = 14
	topStanding = 3
)

type sprite struct {
	kind Kind
	lane int
	x    float64
}

type floater struct {
	text string
	at   core.Vec2
	ttl  int
}

// Scene is a terminal Renderer and HUD. It keeps a display list in arena
// pixels and projects it onto a screen when drawn.
type Scene struct {
	sprites map[EntityHandle]sprite
	next    EntityHandle
	m1, m2  core.Vec2

	score     int
	best      int
	countdown string
	final     int
	newBest   bool
	standing  *core.Standing
	floaters  []floater
	floatTTL  int
}

// NewScene creates an empty scene. Feedback text stays up for ttl frames.
func NewScene(ttl int) *Scene {
	if ttl < 1 {
		ttl = 1
	}
	return &Scene{
		sprites:  make(map[EntityHandle]sprite),
		floatTTL: ttl,
	}
}

// SpawnEntity implements Renderer.
func (sc *Scene) SpawnEntity(kind Kind, lane int, x, _ float64) EntityHandle {
	sc.next++
	sc.sprites[sc.next] = sprite{kind: kind, lane: lane, x: x}
	return sc.next
}

// MoveEntity implements Renderer.
func (sc *Scene) MoveEntity(h EntityHandle, x float64) {
	if sp, ok := sc.sprites[h]; ok {
		sp.x = x
		sc.sprites[h] = sp
	}
}

// DestroyEntity implements Renderer.
func (sc *Scene) DestroyEntity(h EntityHandle) {
	delete(sc.sprites, h)
}

// PositionMarkers implements Renderer.
func (sc *Scene) PositionMarkers(p1, p2 core.Vec2) {
	sc.m1, sc.m2 = p1, p2
}

// SetScore implements HUD.
func (sc *Scene) SetScore(n int) { sc.score = n }

// SetBest implements HUD.
func (sc *Scene) SetBest(n int) { sc.best = n }

// ShowCountdown implements HUD.
func (sc *Scene) ShowCountdown(text string) { sc.countdown = text }

// ShowGameOver implements HUD. Any previous standing is dropped until the
// platform loads a new one.
func (sc *Scene) ShowGameOver(final int, isNewBest bool) {
	sc.final = final
	sc.newBest = isNewBest
	sc.standing = nil
}

// ShowFeedback implements HUD.
func (sc *Scene) ShowFeedback(text string, at core.Vec2) {
	sc.floaters = append(sc.floaters, floater{text: text, at: at, ttl: sc.floatTTL})
}

// ShowStanding sets the leaderboard standing shown with the results.
func (sc *Scene) ShowStanding(st core.Standing) {
	sc.standing = &st
}

// Sprites returns the number of live sprites.
func (sc *Scene) Sprites() int {
	return len(sc.sprites)
}

// tick ages feedback text by one frame.
func (sc *Scene) tick() {
	kept := sc.floaters[:0]
	for _, f := range sc.floaters {
		f.ttl--
		if f.ttl > 0 {
			kept = append(kept, f)
		}
	}
	sc.floaters = kept
}

// view is the per-draw state the scene reads from the session.
type view struct {
	title      string
	state      State
	speed      float64
	results    bool
	muted      bool
	arena      core.Vec2 // Laid-out arena size
	center     core.Vec2
	radius     float64
	entitySize float64
	laneY      func(lane int) float64
}

// projection maps arena pixels to screen cells below the HUD row.
type projection struct {
	sx, sy float64
}

func newProjection(v view, w, h int) projection {
	return projection{
		sx: float64(w) / v.arena.X,
		sy: float64(h-hudRows) / v.arena.Y,
	}
}

func (p projection) cell(v core.Vec2) (int, int) {
	return int(math.Floor(v.X * p.sx)), hudRows + int(math.Floor(v.Y*p.sy))
}

func (p projection) span(size float64) (int, int) {
	return core.Max(1, int(math.Round(size*p.sx))), core.Max(1, int(math.Round(size*p.sy)))
}

// Draw renders the scene.
func (sc *Scene) Draw(dst *core.Screen, v view) {
	w, h := dst.Width(), dst.Height()
	if w < minScreenW || h < minScreenH {
		dst.DrawTextCentered(h/2, "Terminal too small", core.ColorYellow)
		return
	}
	p := newProjection(v, w, h)

	sc.drawOrbit(dst, p, v)
	sc.drawSprites(dst, p, v)
	if v.state != StateIdle {
		sc.drawMarkers(dst, p)
	}
	sc.drawFloaters(dst, p)
	sc.drawHUD(dst, v)

	switch {
	case v.state == StateIdle:
		sc.drawTitle(dst, v)
	case sc.countdown != "":
		dst.DrawTextCentered(h/2, sc.countdown, core.ColorBrightYellow)
	case v.state == StatePaused:
		drawPanel(dst, []line{
			{"PAUSED", core.ColorBrightYellow},
			{"", core.ColorDefault},
			{"P: resume   H: home", core.ColorGray},
		})
	case v.state == StateGameOver && v.results:
		sc.drawResults(dst)
	}
}

func (sc *Scene) drawOrbit(dst *core.Screen, p projection, v view) {
	for i := 0; i < orbitDots; i++ {
		a := 2 * math.Pi * float64(i) / orbitDots
		x, y := p.cell(v.center.Polar(v.radius, a))
		dst.SetColored(x, y, '·', core.ColorGray)
	}
}

func (sc *Scene) drawSprites(dst *core.Screen, p projection, v view) {
	bw, bh := p.span(v.entitySize)
	for _, sp := range sc.sprites {
		x, y := p.cell(core.Vec2{X: sp.x, Y: v.laneY(sp.lane)})
		switch sp.kind {
		case KindObstacle:
			for dy := 0; dy < bh; dy++ {
				dst.DrawHLine(x-bw/2, y-bh/2+dy, bw, '█', core.ColorRed)
			}
		case KindPoint:
			dst.SetColored(x, y, '◆', core.ColorBrightYellow)
		}
	}
}

func (sc *Scene) drawMarkers(dst *core.Screen, p projection) {
	x, y := p.cell(sc.m1)
	dst.SetColored(x, y, '●', core.ColorBrightCyan)
	x, y = p.cell(sc.m2)
	dst.SetColored(x, y, '●', core.ColorBrightMagenta)
}

func (sc *Scene) drawFloaters(dst *core.Screen, p projection) {
	for _, f := range sc.floaters {
		x, y := p.cell(f.at)
		dst.DrawTextColored(x, y-1, f.text, core.ColorBrightGreen)
	}
}

func (sc *Scene) drawHUD(dst *core.Screen, v view) {
	left := fmt.Sprintf(" Score: %d   Best: %d", sc.score, sc.best)
	dst.DrawTextColored(0, 0, left, core.ColorBrightWhite)
	dst.DrawTextCentered(0, v.title, core.ColorCyan)

	sound := "♪"
	if v.muted {
		sound = "muted"
	}
	right := fmt.Sprintf("Speed: %.2f  %s ", v.speed, sound)
	dst.DrawTextColored(dst.Width()-len([]rune(right)), 0, right, core.ColorGray)
}

func (sc *Scene) drawTitle(dst *core.Screen, v view) {
	drawPanel(dst, []line{
		{"TRICKY TURNS", core.ColorBrightCyan},
		{v.title, core.ColorCyan},
		{"", core.ColorDefault},
		{fmt.Sprintf("Best: %d", sc.best), core.ColorBrightWhite},
		{"", core.ColorDefault},
		{"Space: start   M: mute   Q: quit", core.ColorGray},
	})
}

func (sc *Scene) drawResults(dst *core.Screen) {
	lines := []line{
		{"GAME OVER", core.ColorBrightRed},
		{"", core.ColorDefault},
		{fmt.Sprintf("Score: %d", sc.final), core.ColorBrightWhite},
	}
	if sc.newBest {
		lines = append(lines, line{"NEW BEST!", core.ColorBrightYellow})
	} else {
		lines = append(lines, line{fmt.Sprintf("Best: %d", sc.best), core.ColorWhite})
	}
	lines = append(lines, line{"", core.ColorDefault})
	lines = append(lines, standingLines(sc.standing)...)
	lines = append(lines,
		line{"", core.ColorDefault},
		line{"Space/R: play again   H: home", core.ColorGray},
	)
	drawPanel(dst, lines)
}

func standingLines(st *core.Standing) []line {
	switch {
	case st == nil:
		return []line{{"Loading leaderboard...", core.ColorGray}}
	case st.Err != nil:
		return []line{{"Failed to load leaderboard.", core.ColorRed}}
	}

	rank := "Your Global Rank: unranked"
	if st.Rank > 0 {
		rank = fmt.Sprintf("Your Global Rank: #%d", st.Rank)
	}
	out := []line{{rank, core.ColorBrightGreen}}
	for i, r := range st.Top {
		if i == topStanding {
			break
		}
		out = append(out, line{fmt.Sprintf("%d. %-12s %5d", i+1, r.Player, r.Score), core.ColorWhite})
	}
	return out
}

type line struct {
	text  string
	color core.Color
}

// drawPanel draws lines centered in a box in the middle of the screen.
func drawPanel(dst *core.Screen, lines []line) {
	width := 0
	for _, l := range lines {
		width = core.Max(width, len([]rune(l.text)))
	}
	bw := width + 6
	bh := len(lines) + 2
	x := (dst.Width() - bw) / 2
	y := (dst.Height() - bh) / 2

	for row := y; row < y+bh; row++ {
		dst.DrawHLine(x, row, bw, ' ', core.ColorDefault)
	}
	dst.DrawBox(core.NewRect(x, y, bw, bh), core.ColorCyan)
	for i, l := range lines {
		dst.DrawTextCentered(y+1+i, l.text, l.color)
	}
}
