package turns

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
)

// Spawner injects obstacles and points on a speed-driven timer, with a
// watchdog that forces an attempt after too long without a spawn.
type Spawner struct {
	cfg   config.SpawnConfig
	sched *core.Scheduler
	diff  *Difficulty
	world *world
	run   *Run
	rng   *rand.Rand

	timer     *core.Task
	watchdog  *core.Task
	refresh   *core.Task
	lastSpawn time.Duration
}

func newSpawner(cfg config.SpawnConfig, sched *core.Scheduler, diff *Difficulty, w *world, run *Run, rng *rand.Rand) *Spawner {
	return &Spawner{
		cfg:   cfg,
		sched: sched,
		diff:  diff,
		world: w,
		run:   run,
		rng:   rng,
	}
}

// Start arms the spawn timer, the watchdog and the interval refresh.
// Any previous timers are cancelled first.
func (s *Spawner) Start() {
	s.Stop()
	s.lastSpawn = s.sched.Now()
	s.timer = s.sched.EveryFunc(s.nextDelay, s.fire)
	s.watchdog = s.sched.Every(s.cfg.Watchdog(), s.checkStall)
	if s.cfg.RefreshMS > 0 {
		s.refresh = s.sched.Every(s.cfg.Refresh(), s.refreshDelay)
	}
}

// Stop cancels every spawner timer.
func (s *Spawner) Stop() {
	s.timer.Cancel()
	s.watchdog.Cancel()
	s.refresh.Cancel()
	s.timer, s.watchdog, s.refresh = nil, nil, nil
}

// Active reports whether the spawn timer is armed.
func (s *Spawner) Active() bool {
	return s.timer.Active()
}

// LastSpawn returns the virtual time of the last successful spawn.
func (s *Spawner) LastSpawn() time.Duration {
	return s.lastSpawn
}

func (s *Spawner) nextDelay() time.Duration {
	return s.diff.SpawnInterval(s.run.Speed, s.rng)
}

func (s *Spawner) fire() {
	if s.run.State != StateRunning {
		return
	}
	s.Attempt()
}

func (s *Spawner) checkStall() {
	if s.run.State != StateRunning {
		return
	}
	if s.sched.Now()-s.lastSpawn > s.cfg.ForcedInterval() {
		s.Attempt()
	}
}

// refreshDelay pulls the pending spawn forward when speed has grown since
// it was scheduled.
func (s *Spawner) refreshDelay() {
	want := s.nextDelay()
	if s.timer.Remaining() > want {
		s.timer.Reschedule(want)
	}
}

// Attempt runs one spawn decision: pick a side, maybe place a point in a
// safe lane, then place an obstacle in a different safe lane. Either or
// both may be skipped when no lane is safe.
func (s *Spawner) Attempt() (point, obstacle *Entity) {
	side := Side(s.rng.Intn(2))
	x := s.world.spawnX(side)
	lanes := s.world.lanes
	chance := s.diff.PointChance(s.run.Score)

	pointLane := -1
	if s.rng.Intn(100) < chance {
		var safe []int
		for l := 0; l < lanes.Lanes(); l++ {
			if lanes.SafeForPoint(l, x) {
				safe = append(safe, l)
			}
		}
		if len(safe) > 0 {
			pointLane = safe[s.rng.Intn(len(safe))]
			point = s.world.spawn(KindPoint, pointLane, side, s.run.Speed)
		}
	}

	var safe []int
	for l := 0; l < lanes.Lanes(); l++ {
		if l != pointLane && lanes.SafeForObstacle(l, x) {
			safe = append(safe, l)
		}
	}
	if len(safe) > 0 {
		obstacle = s.world.spawn(KindObstacle, safe[s.rng.Intn(len(safe))], side, s.run.Speed)
	}

	if point != nil || obstacle != nil {
		s.lastSpawn = s.sched.Now()
	}
	return point, obstacle
}
