package turns

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
)

// ReferenceRate is the frame rate the per-frame speed and angular
// velocity values are tuned for. Other tick rates are scaled to match.
const ReferenceRate = 60

// DefaultSubmitTimeout bounds one score submission.
const DefaultSubmitTimeout = 5 * time.Second

var (
	startBeats  = []string{"3", "2", "1", "Go!"}
	resumeBeats = []string{"3", "2", "1"}
)

// State is a session phase.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Run is the mutable state of the current play session.
type Run struct {
	Score     int
	Speed     float64
	Direction int // +1 or -1
	Angle     float64
	State     State
}

// Options configures a Session. Zero-valued collaborators are replaced
// with no-ops.
type Options struct {
	Config   config.TurnsConfig
	ModeID   int
	Seed     int64
	TickRate int // Frames per second; 0 means ReferenceRate

	Renderer Renderer
	HUD      HUD
	Audio    core.Audio
	Identity core.Identity
	Scores   core.ScoreStore // Best scores of authenticated players
	Local    core.ScoreStore // Best scores of guests

	OnEvent       func(Event)
	Logger        *log.Logger
	SubmitTimeout time.Duration

	// Strict panics on invariant violations instead of logging them.
	Strict bool
}

// Session is the game state machine. It owns the Run, the entities and
// every timer, and is driven by Advance. A Session is not safe for
// concurrent use; score submission is the only work it hands to another
// goroutine.
type Session struct {
	opts    Options
	cfg     config.TurnsConfig
	log     *log.Logger
	sched   *core.Scheduler
	diff    *Difficulty
	rng     *rand.Rand
	world   *world
	spawner *Spawner

	renderer Renderer
	hud      HUD
	audio    core.Audio

	run   Run
	best  int
	scale float64

	frameTask     *core.Task
	rampTask      *core.Task
	countdownTask *core.Task
	unlockTask    *core.Task
	resultsTask   *core.Task

	locked    bool // Pause control debounce
	resuming  bool
	results   bool
	newBest   bool
	submitted bool

	pending sync.WaitGroup // Best-score loads and submissions
	stored  atomic.Int64   // Highest best score loaded from the store
	settled chan struct{}  // Closed once this run's submission is done
}

// NewSession validates the config and creates an idle session.
func NewSession(opts Options) (*Session, error) {
	diff, err := NewDifficulty(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.TickRate <= 0 {
		opts.TickRate = ReferenceRate
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = DefaultSubmitTimeout
	}

	s := &Session{
		opts:     opts,
		cfg:      opts.Config,
		log:      opts.Logger,
		sched:    core.NewScheduler(),
		diff:     diff,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		renderer: opts.Renderer,
		hud:      opts.HUD,
		audio:    opts.Audio,
		scale:    float64(ReferenceRate) / float64(opts.TickRate),
	}
	if s.log == nil {
		s.log = log.New(io.Discard)
	}
	if s.renderer == nil {
		s.renderer = nopView{}
	}
	if s.hud == nil {
		s.hud = nopView{}
	}
	if s.audio == nil {
		s.audio = core.NopAudio{}
	}

	s.world = newWorld(s.cfg, s.renderer, s.violation)
	s.spawner = newSpawner(s.cfg.Spawn, s.sched, diff, s.world, &s.run, s.rng)
	s.run = s.freshRun(StateIdle)
	return s, nil
}

func (s *Session) freshRun(st State) Run {
	return Run{
		Speed:     s.diff.StartSpeed(),
		Direction: 1,
		State:     st,
	}
}

// Start leaves Idle, begins loading the best score and starts the
// countdown.
func (s *Session) Start() bool {
	if s.run.State != StateIdle {
		return false
	}
	s.reset()
	s.RefreshBest()
	s.audio.Play(core.SoundUIClick)
	s.beginCountdown()
	return true
}

// Pause freezes a running game. Repeated triggers within the debounce
// window, or while already paused, are ignored.
func (s *Session) Pause() bool {
	if s.run.State != StateRunning || s.locked {
		return false
	}
	s.spawner.Stop()
	s.rampTask.Cancel()
	s.setState(StatePaused)
	s.audio.Play(core.SoundPauseWhoosh)
	s.lock()
	return true
}

// Resume starts the short resume countdown. The session stays Paused
// until it finishes.
func (s *Session) Resume() bool {
	if s.run.State != StatePaused || s.resuming || s.locked {
		return false
	}
	s.resuming = true
	s.audio.Play(core.SoundPauseWhoosh)
	s.lock()
	s.countdown(resumeBeats, func() {
		s.resuming = false
		s.beginRunning()
	})
	return true
}

// TogglePause pauses a running game or resumes a paused one.
func (s *Session) TogglePause() bool {
	if s.run.State == StatePaused {
		return s.Resume()
	}
	return s.Pause()
}

// ReverseDirection flips the orbit direction while running.
func (s *Session) ReverseDirection() bool {
	if s.run.State != StateRunning {
		return false
	}
	s.run.Direction = -s.run.Direction
	s.audio.Play(core.SoundMove)
	return true
}

// Restart discards the current run and counts down into a new one.
func (s *Session) Restart() bool {
	if s.run.State == StateIdle {
		return s.Start()
	}
	s.reset()
	s.audio.Play(core.SoundUIClick)
	s.beginCountdown()
	return true
}

// GoHome discards the current run and returns to Idle.
func (s *Session) GoHome() bool {
	if s.run.State == StateIdle {
		return false
	}
	s.reset()
	s.audio.Play(core.SoundUIClick)
	s.setState(StateIdle)
	return true
}

// EndRun finishes a running game and submits its score. The results
// follow after the results delay. Later calls are no-ops.
func (s *Session) EndRun() bool {
	if s.run.State != StateRunning {
		return false
	}
	s.stopTimers()
	s.setState(StateGameOver)
	s.audio.Play(core.SoundExplode)
	final := s.run.Score
	s.applyStored()
	newBest := final > s.best
	if newBest {
		s.best = final
	}
	s.submit(final)
	s.emit(GameOver{FinalScore: final})
	s.resultsTask = s.sched.After(s.cfg.Timing.ResultsDelay(), func() {
		s.showResults(final, newBest)
	})
	return true
}

// Advance moves session time forward, firing frames and timers. A best
// score loaded since the last call is applied first.
func (s *Session) Advance(d time.Duration) {
	s.applyStored()
	s.sched.Advance(d)
}

// FrameInterval returns the time between frames.
func (s *Session) FrameInterval() time.Duration {
	return time.Second / time.Duration(s.opts.TickRate)
}

// Run returns a copy of the current run.
func (s *Session) Run() Run {
	return s.run
}

// State returns the current phase.
func (s *Session) State() State {
	return s.run.State
}

// Best returns the best score known for this mode and player.
func (s *Session) Best() int {
	return s.best
}

// Results reports whether the results are on screen, and whether the
// final score was a new best.
func (s *Session) Results() (shown, newBest bool) {
	return s.results, s.newBest
}

// Resuming reports whether the resume countdown is in progress.
func (s *Session) Resuming() bool {
	return s.resuming
}

// Entities returns copies of the live entities.
func (s *Session) Entities() []Entity {
	all := s.world.entities.All()
	out := make([]Entity, len(all))
	for i, e := range all {
		out[i] = *e
	}
	return out
}

// Markers returns both marker positions for the current angle.
func (s *Session) Markers() (core.Vec2, core.Vec2) {
	return s.world.markers(s.run.Angle)
}

// LaneY returns the arena row of a lane.
func (s *Session) LaneY(lane int) float64 {
	if lane < 0 || lane >= len(s.world.laneY) {
		return s.world.center.Y
	}
	return s.world.laneY[lane]
}

// Resize sets the arena size. Lanes are laid out again on the next
// start or restart.
func (s *Session) Resize(width, height float64) {
	s.world.resize(width, height)
}

// RefreshBest reloads the best score from the player's store off the
// session goroutine. The next Advance applies it. A stored value lower
// than the one already known is ignored, since a submission may still be
// in flight.
func (s *Session) RefreshBest() {
	s.hud.SetBest(s.best)
	store := s.store()
	if store == nil {
		return
	}
	mode, timeout, logger := s.opts.ModeID, s.opts.SubmitTimeout, s.log
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		best, err := store.Best(ctx, mode)
		if err != nil {
			logger.Warn("failed to load best score", "mode", mode, "err", err)
			return
		}
		for {
			cur := s.stored.Load()
			if int64(best) <= cur || s.stored.CompareAndSwap(cur, int64(best)) {
				return
			}
		}
	}()
}

// applyStored raises the best score to the highest loaded value.
func (s *Session) applyStored() {
	if b := int(s.stored.Load()); b > s.best {
		s.best = b
		s.hud.SetBest(b)
	}
}

// Settled returns a channel that is closed once the current run's score
// submission has finished. It is nil before the run is submitted.
func (s *Session) Settled() <-chan struct{} {
	return s.settled
}

// Wait blocks until pending best-score loads and submissions finish.
func (s *Session) Wait() {
	s.pending.Wait()
}

func (s *Session) beginCountdown() {
	s.setState(StateCountdown)
	m1, m2 := s.world.markers(s.run.Angle)
	s.renderer.PositionMarkers(m1, m2)
	s.frameTask = s.sched.Every(s.FrameInterval(), s.frame)
	s.countdown(startBeats, s.beginRunning)
}

func (s *Session) beginRunning() {
	s.setState(StateRunning)
	s.spawner.Start()
	s.rampTask = s.sched.Every(s.cfg.Speed.RampInterval(), s.rampSpeed)
}

// countdown shows beats one per beat interval, then hides the text and
// calls done.
func (s *Session) countdown(beats []string, done func()) {
	s.countdownTask.Cancel()
	i := 0
	s.hud.ShowCountdown(beats[0])
	s.countdownTask = s.sched.Every(s.cfg.Timing.CountdownBeat(), func() {
		i++
		if i < len(beats) {
			s.hud.ShowCountdown(beats[i])
			return
		}
		s.countdownTask.Cancel()
		s.hud.ShowCountdown("")
		done()
	})
}

func (s *Session) lock() {
	s.locked = true
	s.unlockTask.Cancel()
	s.unlockTask = s.sched.After(s.cfg.Timing.PauseDebounce(), func() {
		s.locked = false
	})
}

func (s *Session) rampSpeed() {
	if s.run.State != StateRunning {
		return
	}
	s.run.Speed = s.diff.NextSpeed(s.run.Speed, s.run.Score)
}

// frame advances the orbit, resolves collisions, then scrolls.
func (s *Session) frame() {
	defer s.recoverFrame()
	if s.run.State != StateRunning {
		return
	}

	s.run.Angle += s.diff.AngularVelocity(s.run.Speed) * float64(s.run.Direction) * s.scale
	m1, m2 := s.world.markers(s.run.Angle)
	s.renderer.PositionMarkers(m1, m2)

	hit := s.world.detect(m1, m2, s.cfg.Arena.MarkerRadius)
	if hit.obstacle != nil {
		s.EndRun()
		return
	}
	for _, p := range hit.points {
		s.collect(p)
	}

	s.world.scroll(s.run.Speed, s.scale)
}

// collect consumes a point. A point already consumed scores nothing.
func (s *Session) collect(p *Entity) {
	at := core.Vec2{X: p.X, Y: s.LaneY(p.Lane)}
	if !s.world.destroy(p) {
		return
	}
	s.run.Score++
	s.hud.SetScore(s.run.Score)
	s.hud.ShowFeedback("+1", at)
	s.audio.Play(core.SoundPoint)
	s.emit(ScoreChanged{Score: s.run.Score})
}

func (s *Session) showResults(final int, newBest bool) {
	s.newBest = newBest
	if newBest {
		s.hud.SetBest(final)
		s.audio.Play(core.SoundNewBest)
	}
	s.results = true
	s.hud.ShowGameOver(final, s.newBest)
}

// store picks the leaderboard for authenticated players and the local
// best file for guests.
func (s *Session) store() core.ScoreStore {
	id := s.opts.Identity
	if id != nil && id.IsAuthenticated() && s.opts.Scores != nil {
		return s.opts.Scores
	}
	return s.opts.Local
}

// submit hands the final score to the store once per run, off the
// session goroutine.
func (s *Session) submit(final int) {
	if s.submitted {
		return
	}
	s.submitted = true
	done := make(chan struct{})
	s.settled = done
	store := s.store()
	if store == nil {
		close(done)
		return
	}
	mode, timeout, logger := s.opts.ModeID, s.opts.SubmitTimeout, s.log
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := store.Submit(ctx, mode, final); err != nil {
			logger.Warn("score submission failed", "mode", mode, "score", final, "err", err)
			return
		}
		logger.Debug("score submitted", "mode", mode, "score", final)
	}()
}

// stopTimers cancels every gameplay timer.
func (s *Session) stopTimers() {
	s.spawner.Stop()
	s.frameTask.Cancel()
	s.rampTask.Cancel()
	s.countdownTask.Cancel()
	s.unlockTask.Cancel()
	s.resultsTask.Cancel()
}

// reset cancels all timers and clears the world and run, keeping the
// current state until the caller transitions.
func (s *Session) reset() {
	s.stopTimers()
	s.sched.CancelAll()
	s.world.clear()
	s.world.layout()
	s.run = s.freshRun(s.run.State)
	s.locked, s.resuming = false, false
	s.results, s.newBest, s.submitted = false, false, false
	s.settled = nil
	s.hud.ShowCountdown("")
	s.hud.SetBest(s.best)
	s.hud.SetScore(0)
	s.emit(ScoreChanged{Score: 0})
}

func (s *Session) setState(to State) {
	from := s.run.State
	if from == to {
		return
	}
	s.run.State = to
	s.log.Debug("state changed", "from", from, "to", to)
	s.emit(StateChanged{From: from, To: to})
}

func (s *Session) emit(e Event) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(e)
	}
}

// violation reports a broken invariant.
func (s *Session) violation(msg string, keyvals ...any) {
	if s.opts.Strict {
		panic(fmt.Sprintf("turns: %s %v", msg, keyvals))
	}
	s.log.Error(msg, keyvals...)
}

func (s *Session) recoverFrame() {
	r := recover()
	if r == nil {
		return
	}
	if s.opts.Strict {
		panic(r)
	}
	s.log.Error("frame recovered", "panic", r)
}
