package turns

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
)

// Difficulty maps score and speed to ramp, point chance and spawn cadence.
// It holds no mutable state.
type Difficulty struct {
	speed  config.SpeedConfig
	spawn  config.SpawnConfig
	points config.PointsConfig
	orbit  config.OrbitConfig
}

// NewDifficulty validates cfg and builds a difficulty model from it.
func NewDifficulty(cfg config.TurnsConfig) (*Difficulty, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("turns: difficulty: %w", err)
	}
	return &Difficulty{
		speed:  cfg.Speed,
		spawn:  cfg.Spawn,
		points: cfg.Points,
		orbit:  cfg.Orbit,
	}, nil
}

// RampStep returns the per-interval speed gain for the given score.
// The first bracket with score < until applies, else the last one.
func (d *Difficulty) RampStep(score int) float64 {
	s := float64(score)
	for _, b := range d.speed.Ramp {
		if s < b.Until {
			return b.PerTick
		}
	}
	return d.speed.Ramp[len(d.speed.Ramp)-1].PerTick
}

// PointChance returns the point spawn probability in percent.
func (d *Difficulty) PointChance(score int) int {
	s := float64(score)
	for _, b := range d.points.Chance {
		if s < b.Until {
			return b.Percent
		}
	}
	return d.points.Chance[len(d.points.Chance)-1].Percent
}

// NextSpeed applies one ramp step, capped at the max speed.
// A fixed-speed config never ramps.
func (d *Difficulty) NextSpeed(speed float64, score int) float64 {
	if d.speed.Fixed {
		return speed
	}
	next := speed + d.RampStep(score)
	if next > d.speed.Max {
		return d.speed.Max
	}
	return next
}

// BaseSpawnInterval interpolates between the slowest and fastest spawn
// interval by how far speed has progressed from the base speed to max.
func (d *Difficulty) BaseSpawnInterval(speed float64) time.Duration {
	span := d.speed.Max - d.spawn.IntervalBaseSpeed
	t := core.ClampF((speed-d.spawn.IntervalBaseSpeed)/span, 0, 1)
	slow := float64(d.spawn.IntervalMaxMS)
	fast := float64(d.spawn.IntervalMinMS)
	ms := slow - t*(slow-fast)
	return time.Duration(ms * float64(time.Millisecond))
}

// SpawnInterval returns BaseSpawnInterval plus symmetric random jitter.
func (d *Difficulty) SpawnInterval(speed float64, rng *rand.Rand) time.Duration {
	return d.BaseSpawnInterval(speed) + d.jitter(rng)
}

func (d *Difficulty) jitter(rng *rand.Rand) time.Duration {
	j := d.spawn.JitterMS
	if j == 0 || rng == nil {
		return 0
	}
	return time.Duration(rng.Intn(2*j+1)-j) * time.Millisecond
}

// AngularVelocity returns radians per frame, before direction is applied.
func (d *Difficulty) AngularVelocity(speed float64) float64 {
	return d.orbit.AngularBase + d.orbit.AngularScale*(speed-d.speed.Start)
}

// StartSpeed returns the speed a fresh run begins at.
func (d *Difficulty) StartSpeed() float64 {
	return d.speed.Start
}

// MaxSpeed returns the speed cap.
func (d *Difficulty) MaxSpeed() float64 {
	return d.speed.Max
}
