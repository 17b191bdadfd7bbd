package turns

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
)

type spawnRig struct {
	sched   *core.Scheduler
	world   *world
	run     *Run
	spawner *Spawner
}

func newSpawnRig(t *testing.T, cfg config.TurnsConfig, seed int64) *spawnRig {
	t.Helper()
	diff, err := NewDifficulty(cfg)
	if err != nil {
		t.Fatalf("NewDifficulty() failed: %v", err)
	}
	r := &spawnRig{
		sched: core.NewScheduler(),
		run:   &Run{Speed: cfg.Speed.Start, Direction: 1, State: StateRunning},
	}
	r.world = newWorld(cfg, nopView{}, func(msg string, _ ...any) { t.Errorf("violation: %s", msg) })
	r.spawner = newSpawner(cfg.Spawn, r.sched, diff, r.world, r.run, rand.New(rand.NewSource(seed)))
	return r
}

// checkSpacing fails if e sits within the buffer of another live entity in
// its lane, ignoring point pairs in different lanes.
func checkSpacing(t *testing.T, w *world, e *Entity, buffer float64) {
	t.Helper()
	if e == nil {
		return
	}
	for _, o := range w.entities.All() {
		if o.ID == e.ID || o.Lane != e.Lane {
			continue
		}
		if math.Abs(o.X-e.X) < buffer {
			t.Fatalf("%s %d spawned at x=%v in lane %d, %s %d at x=%v is within %v",
				e.Kind, e.ID, e.X, e.Lane, o.Kind, o.ID, o.X, buffer)
		}
	}
}

func TestSpawnerNeverCrowdsALane(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	for seed := int64(1); seed <= 20; seed++ {
		r := newSpawnRig(t, cfg, seed)
		rng := rand.New(rand.NewSource(seed * 31))
		for i := 0; i < 400; i++ {
			p, o := r.spawner.Attempt()
			checkSpacing(t, r.world, p, cfg.Spawn.BufferX)
			checkSpacing(t, r.world, o, cfg.Spawn.BufferX)
			if p != nil && o != nil && p.Lane == o.Lane {
				t.Fatalf("point and obstacle share lane %d in one attempt", p.Lane)
			}
			r.run.Score = rng.Intn(80)
			for f := rng.Intn(40); f > 0; f-- {
				r.world.scroll(r.run.Speed, 1)
			}
		}
	}
}

func TestSpawnerBacksOffWhenNoLaneIsSafe(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	r := newSpawnRig(t, cfg, 3)

	// Obstacles in the middle lane at both entry points block every lane
	for _, x := range []float64{-50, 850} {
		e := r.world.spawn(KindObstacle, 1, SideLeft, 0)
		e.X = x
		r.world.lanes.Follow(e)
	}
	before := r.world.entities.Len()
	for i := 0; i < 50; i++ {
		if p, o := r.spawner.Attempt(); p != nil || o != nil {
			t.Fatalf("attempt %d spawned into a blocked arena", i)
		}
	}
	if r.world.entities.Len() != before {
		t.Error("blocked attempts must not create entities")
	}
}

func TestSpawnerTimerFollowsSpeed(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	cfg.Spawn.RefreshMS = 0
	r := newSpawnRig(t, cfg, 5)
	r.spawner.Start()

	r.sched.Advance(1049 * time.Millisecond)
	if r.world.entities.Len() != 0 {
		t.Fatal("nothing should spawn before the slowest interval minus jitter")
	}
	r.sched.Advance(102 * time.Millisecond)
	if r.world.entities.Len() == 0 {
		t.Fatal("a spawn should happen within the slowest interval plus jitter")
	}
	if r.spawner.LastSpawn() == 0 {
		t.Error("LastSpawn should record the successful attempt")
	}
}

func TestSpawnerRefreshPullsTimerForward(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	cfg.Spawn.IntervalMinMS = 400
	cfg.Spawn.IntervalMaxMS = 5000
	cfg.Spawn.ForcedIntervalMS = 10000
	r := newSpawnRig(t, cfg, 9)
	r.spawner.Start()

	r.run.Speed = cfg.Speed.Max
	r.sched.Advance(time.Second)

	if got := r.spawner.timer.Remaining(); got > 450*time.Millisecond {
		t.Errorf("pending spawn still %v away after refresh at max speed", got)
	}
}

func TestSpawnerWatchdogForcesSpawn(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	cfg.Spawn.IntervalMinMS = 5000
	cfg.Spawn.IntervalMaxMS = 5000
	cfg.Spawn.RefreshMS = 0
	r := newSpawnRig(t, cfg, 11)
	r.spawner.Start()

	r.sched.Advance(1750 * time.Millisecond)
	if r.world.entities.Len() != 0 {
		t.Fatal("watchdog fired before the forced interval elapsed")
	}
	r.sched.Advance(250 * time.Millisecond)
	if r.world.entities.Len() == 0 {
		t.Fatal("watchdog should force a spawn after the forced interval")
	}
	if got := r.spawner.LastSpawn(); got != 2*time.Second {
		t.Errorf("LastSpawn = %v, want 2s", got)
	}
}

func TestSpawnerStopCancelsEverything(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	r := newSpawnRig(t, cfg, 13)
	r.spawner.Start()
	if !r.spawner.Active() {
		t.Fatal("spawner should be active after Start")
	}

	r.spawner.Stop()
	r.sched.Advance(10 * time.Second)

	if r.spawner.Active() {
		t.Error("spawner still active after Stop")
	}
	if r.sched.Pending() != 0 {
		t.Errorf("%d timers left after Stop", r.sched.Pending())
	}
	if r.world.entities.Len() != 0 {
		t.Error("stopped spawner created entities")
	}
}

func TestSpawnerIgnoresFiringsOutsideRunning(t *testing.T) {
	cfg := config.DefaultTurnsConfig()
	r := newSpawnRig(t, cfg, 17)
	r.run.State = StatePaused
	r.spawner.Start()

	r.sched.Advance(5 * time.Second)
	if r.world.entities.Len() != 0 {
		t.Error("spawner created entities while not running")
	}
}
