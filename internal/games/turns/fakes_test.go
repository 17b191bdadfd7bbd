package turns

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
)

// recorder is a Renderer, HUD and Audio that remembers every call.
type recorder struct {
	spawned   int
	destroyed int
	live      map[EntityHandle]bool
	next      EntityHandle
	markers   int

	scores     []int
	bests      []int
	countdowns []string
	gameOvers  []int
	newBests   []bool
	feedback   []string
	sounds     []core.Sound
}

func newRecorder() *recorder {
	return &recorder{live: make(map[EntityHandle]bool)}
}

func (r *recorder) SpawnEntity(Kind, int, float64, float64) EntityHandle {
	r.next++
	r.spawned++
	r.live[r.next] = true
	return r.next
}

func (r *recorder) MoveEntity(EntityHandle, float64) {}

func (r *recorder) DestroyEntity(h EntityHandle) {
	r.destroyed++
	delete(r.live, h)
}

func (r *recorder) PositionMarkers(core.Vec2, core.Vec2) { r.markers++ }

func (r *recorder) SetScore(n int)         { r.scores = append(r.scores, n) }
func (r *recorder) SetBest(n int)          { r.bests = append(r.bests, n) }
func (r *recorder) ShowCountdown(t string) { r.countdowns = append(r.countdowns, t) }
func (r *recorder) ShowFeedback(t string, _ core.Vec2) {
	r.feedback = append(r.feedback, t)
}

func (r *recorder) ShowGameOver(final int, newBest bool) {
	r.gameOvers = append(r.gameOvers, final)
	r.newBests = append(r.newBests, newBest)
}

func (r *recorder) Play(s core.Sound) { r.sounds = append(r.sounds, s) }

func (r *recorder) count(s core.Sound) int {
	n := 0
	for _, got := range r.sounds {
		if got == s {
			n++
		}
	}
	return n
}

// memStore is a ScoreStore backed by a map.
type memStore struct {
	mu        sync.Mutex
	best      map[int]int
	submitted []int
	failBest  bool
	failSave  bool
}

func newMemStore() *memStore {
	return &memStore{best: make(map[int]int)}
}

func (m *memStore) Best(_ context.Context, mode int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBest {
		return 0, errors.New("store unavailable")
	}
	return m.best[mode], nil
}

func (m *memStore) Submit(_ context.Context, mode, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, score)
	if m.failSave {
		return errors.New("store unavailable")
	}
	if score > m.best[mode] {
		m.best[mode] = score
	}
	return nil
}

func (m *memStore) submissions() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.submitted...)
}

// gatedStore holds Best calls until release is closed.
type gatedStore struct {
	*memStore
	release chan struct{}
}

func newGatedStore() gatedStore {
	return gatedStore{memStore: newMemStore(), release: make(chan struct{})}
}

func (g gatedStore) Best(ctx context.Context, mode int) (int, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return g.memStore.Best(ctx, mode)
}

// authed is a fixed identity.
type authed bool

func (a authed) IsAuthenticated() bool { return bool(a) }
func (a authed) CurrentUser() string {
	if a {
		return "alice"
	}
	return "Guest"
}

type harness struct {
	s      *Session
	rec    *recorder
	local  *memStore
	scores *memStore
	events []Event
}

func newHarness(t *testing.T, mutate func(*Options)) *harness {
	t.Helper()
	h := &harness{
		rec:    newRecorder(),
		local:  newMemStore(),
		scores: newMemStore(),
	}
	opts := Options{
		Config:   config.DefaultTurnsConfig(),
		ModeID:   1,
		Seed:     7,
		Renderer: h.rec,
		HUD:      h.rec,
		Audio:    h.rec,
		Identity: authed(false),
		Scores:   h.scores,
		Local:    h.local,
		OnEvent:  func(e Event) { h.events = append(h.events, e) },
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	h.s = s
	return h
}

// runQuiet starts the session, lets the best score load, finishes the
// countdown and stops random spawning so tests can place entities by hand.
func (h *harness) runQuiet(t *testing.T) {
	t.Helper()
	h.s.Start()
	h.s.Wait()
	h.s.Advance(4 * time.Second)
	if got := h.s.State(); got != StateRunning {
		t.Fatalf("state after countdown = %v, want running", got)
	}
	h.s.spawner.Stop()
}

// place spawns an entity and moves it to x.
func (h *harness) place(kind Kind, lane int, x float64) *Entity {
	e := h.s.world.spawn(kind, lane, SideRight, 0)
	e.X = x
	h.s.world.lanes.Follow(e)
	return e
}

func (h *harness) frame() {
	h.s.Advance(h.s.FrameInterval())
}

func (h *harness) gameOverEvents() int {
	n := 0
	for _, e := range h.events {
		if _, ok := e.(GameOver); ok {
			n++
		}
	}
	return n
}
