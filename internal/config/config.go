// Package config provides YAML-based game configuration loading,
// validation and difficulty presets.
package config

import "time"

// TurnsConfig contains all tunables of the game.
type TurnsConfig struct {
	Arena  ArenaConfig  `yaml:"arena"`
	Orbit  OrbitConfig  `yaml:"orbit"`
	Spawn  SpawnConfig  `yaml:"spawn"`
	Speed  SpeedConfig  `yaml:"speed"`
	Points PointsConfig `yaml:"points"`
	Timing TimingConfig `yaml:"timing"`
}

// ArenaConfig defines the world geometry in pixels.
type ArenaConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	NumLanes        int     `yaml:"num_lanes"`
	EntitySize      float64 `yaml:"entity_size"`      // Side of obstacle and point boxes
	MarkerRadius    float64 `yaml:"marker_radius"`    // Collision radius of each orbit marker
	SpawnMargin     float64 `yaml:"spawn_margin"`     // Entities enter this far outside the edge
	OffscreenMargin float64 `yaml:"offscreen_margin"` // Entities are dropped this far outside the edge
}

// OrbitConfig defines the two orbiting markers.
type OrbitConfig struct {
	Radius       float64 `yaml:"radius"`        // Orbit radius, also the lane spacing
	AngularBase  float64 `yaml:"angular_base"`  // Radians per tick at start speed
	AngularScale float64 `yaml:"angular_scale"` // Extra radians per tick per unit of speed
}

// SpawnConfig defines spawn cadence and lane safety.
type SpawnConfig struct {
	BufferX           float64 `yaml:"buffer_x"`
	IntervalMinMS     int     `yaml:"interval_min_ms"`
	IntervalMaxMS     int     `yaml:"interval_max_ms"`
	IntervalBaseSpeed float64 `yaml:"interval_base_speed"`
	JitterMS          int     `yaml:"jitter_ms"`
	ForcedIntervalMS  int     `yaml:"forced_interval_ms"`
	WatchdogMS        int     `yaml:"watchdog_ms"`
	RefreshMS         int     `yaml:"refresh_ms"`
}

// SpeedConfig defines scroll speed and its score-driven ramp.
type SpeedConfig struct {
	Start          float64       `yaml:"start"`
	Max            float64       `yaml:"max"`
	RampIntervalMS int           `yaml:"ramp_interval_ms"`
	Fixed          bool          `yaml:"fixed"` // Disables the ramp
	Ramp           []RampBracket `yaml:"ramp"`
}

// RampBracket applies PerTick speed gain while score < Until.
type RampBracket struct {
	Until   float64 `yaml:"until"`
	PerTick float64 `yaml:"per_tick"`
}

// PointsConfig defines point spawn probability.
type PointsConfig struct {
	Chance []ChanceBracket `yaml:"chance"`
}

// ChanceBracket applies Percent point-spawn chance while score < Until.
type ChanceBracket struct {
	Until   float64 `yaml:"until"`
	Percent int     `yaml:"percent"`
}

// TimingConfig defines session transition timings.
type TimingConfig struct {
	CountdownBeatMS int `yaml:"countdown_beat_ms"`
	PauseDebounceMS int `yaml:"pause_debounce_ms"`
	ResultsDelayMS  int `yaml:"results_delay_ms"`
}

// Clone returns a copy that shares no bracket slices with c.
func (c TurnsConfig) Clone() TurnsConfig {
	out := c
	out.Speed.Ramp = append([]RampBracket(nil), c.Speed.Ramp...)
	out.Points.Chance = append([]ChanceBracket(nil), c.Points.Chance...)
	return out
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// IntervalMin returns the fastest spawn interval.
func (c SpawnConfig) IntervalMin() time.Duration { return ms(c.IntervalMinMS) }

// IntervalMax returns the slowest spawn interval.
func (c SpawnConfig) IntervalMax() time.Duration { return ms(c.IntervalMaxMS) }

// Jitter returns the symmetric random jitter bound.
func (c SpawnConfig) Jitter() time.Duration { return ms(c.JitterMS) }

// ForcedInterval returns the dead-air limit after which a spawn is forced.
func (c SpawnConfig) ForcedInterval() time.Duration { return ms(c.ForcedIntervalMS) }

// Watchdog returns the forced-spawn check cadence.
func (c SpawnConfig) Watchdog() time.Duration { return ms(c.WatchdogMS) }

// Refresh returns how often a pending spawn delay is re-derived from speed.
func (c SpawnConfig) Refresh() time.Duration { return ms(c.RefreshMS) }

// RampInterval returns how often the speed ramp is applied.
func (c SpeedConfig) RampInterval() time.Duration { return ms(c.RampIntervalMS) }

// CountdownBeat returns the duration of one countdown beat.
func (c TimingConfig) CountdownBeat() time.Duration { return ms(c.CountdownBeatMS) }

// PauseDebounce returns how long the pause control ignores repeat triggers.
func (c TimingConfig) PauseDebounce() time.Duration { return ms(c.PauseDebounceMS) }

// ResultsDelay returns the pause between a crash and the results screen.
func (c TimingConfig) ResultsDelay() time.Duration { return ms(c.ResultsDelayMS) }

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty selects normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch DifficultyPreset(name) {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(name), nil
	default:
		return "", fmtInvalid("difficulty", name)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *TurnsConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.Max = cfg.Speed.Start + (cfg.Speed.Max-cfg.Speed.Start)*0.6
		for i := range cfg.Speed.Ramp {
			cfg.Speed.Ramp[i].PerTick *= 0.5
		}
	case DifficultyHard:
		cfg.Speed.Start *= 2
		cfg.Speed.Max *= 1.1
	case DifficultyFixed:
		cfg.Speed.Fixed = true
	}
}
