package config

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors. Validate wraps one of these with the offending field.
var (
	ErrNoBrackets     = errors.New("config: bracket table is empty")
	ErrBracketOrder   = errors.New("config: bracket until values must strictly increase")
	ErrRampDecreasing = errors.New("config: ramp per_tick must not decrease as score grows")
	ErrPercentRange   = errors.New("config: percent must be within [0, 100]")
	ErrInvalidValue   = errors.New("config: invalid value")
)

func fmtInvalid(field string, v any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidValue, field, v)
}

// Validate checks the config and returns the first problem found.
// Misconfigured brackets must fail here rather than misbehave mid-run.
func Validate(cfg TurnsConfig) error {
	if err := validateRamp(cfg.Speed.Ramp); err != nil {
		return err
	}
	if err := validateChance(cfg.Points.Chance); err != nil {
		return err
	}

	a := cfg.Arena
	switch {
	case a.Width <= 0:
		return fmtInvalid("arena.width", a.Width)
	case a.Height <= 0:
		return fmtInvalid("arena.height", a.Height)
	case a.NumLanes < 1:
		return fmtInvalid("arena.num_lanes", a.NumLanes)
	case a.EntitySize <= 0:
		return fmtInvalid("arena.entity_size", a.EntitySize)
	case a.MarkerRadius <= 0:
		return fmtInvalid("arena.marker_radius", a.MarkerRadius)
	case a.OffscreenMargin < a.SpawnMargin:
		return fmtInvalid("arena.offscreen_margin", a.OffscreenMargin)
	}

	if cfg.Orbit.Radius <= 0 {
		return fmtInvalid("orbit.radius", cfg.Orbit.Radius)
	}

	s := cfg.Spawn
	switch {
	case s.BufferX < 0:
		return fmtInvalid("spawn.buffer_x", s.BufferX)
	case s.IntervalMinMS <= 0:
		return fmtInvalid("spawn.interval_min_ms", s.IntervalMinMS)
	case s.IntervalMaxMS < s.IntervalMinMS:
		return fmtInvalid("spawn.interval_max_ms", s.IntervalMaxMS)
	case s.JitterMS < 0 || s.JitterMS >= s.IntervalMinMS:
		return fmtInvalid("spawn.jitter_ms", s.JitterMS)
	case s.ForcedIntervalMS <= 0:
		return fmtInvalid("spawn.forced_interval_ms", s.ForcedIntervalMS)
	case s.WatchdogMS <= 0:
		return fmtInvalid("spawn.watchdog_ms", s.WatchdogMS)
	case s.RefreshMS < 0:
		return fmtInvalid("spawn.refresh_ms", s.RefreshMS)
	}

	sp := cfg.Speed
	switch {
	case sp.Start <= 0:
		return fmtInvalid("speed.start", sp.Start)
	case sp.Max < sp.Start:
		return fmtInvalid("speed.max", sp.Max)
	case s.IntervalBaseSpeed >= sp.Max:
		return fmtInvalid("spawn.interval_base_speed", s.IntervalBaseSpeed)
	case sp.RampIntervalMS <= 0:
		return fmtInvalid("speed.ramp_interval_ms", sp.RampIntervalMS)
	}

	t := cfg.Timing
	switch {
	case t.CountdownBeatMS <= 0:
		return fmtInvalid("timing.countdown_beat_ms", t.CountdownBeatMS)
	case t.PauseDebounceMS < 0:
		return fmtInvalid("timing.pause_debounce_ms", t.PauseDebounceMS)
	case t.ResultsDelayMS < 0:
		return fmtInvalid("timing.results_delay_ms", t.ResultsDelayMS)
	}

	return nil
}

func validateUntil(field string, untils []float64) error {
	if len(untils) == 0 {
		return fmt.Errorf("%w: %s", ErrNoBrackets, field)
	}
	for i, u := range untils {
		if math.IsNaN(u) {
			return fmtInvalid(fmt.Sprintf("%s[%d].until", field, i), u)
		}
		if i > 0 && u <= untils[i-1] {
			return fmt.Errorf("%w: %s[%d].until %v <= %v", ErrBracketOrder, field, i, u, untils[i-1])
		}
	}
	return nil
}

func validateRamp(ramp []RampBracket) error {
	untils := make([]float64, len(ramp))
	for i, b := range ramp {
		untils[i] = b.Until
	}
	if err := validateUntil("speed.ramp", untils); err != nil {
		return err
	}
	for i, b := range ramp {
		if b.PerTick < 0 {
			return fmtInvalid(fmt.Sprintf("speed.ramp[%d].per_tick", i), b.PerTick)
		}
		if i > 0 && b.PerTick < ramp[i-1].PerTick {
			return fmt.Errorf("%w: speed.ramp[%d].per_tick %v < %v", ErrRampDecreasing, i, b.PerTick, ramp[i-1].PerTick)
		}
	}
	return nil
}

func validateChance(chance []ChanceBracket) error {
	untils := make([]float64, len(chance))
	for i, b := range chance {
		untils[i] = b.Until
	}
	if err := validateUntil("points.chance", untils); err != nil {
		return err
	}
	for i, b := range chance {
		if b.Percent < 0 || b.Percent > 100 {
			return fmt.Errorf("%w: points.chance[%d].percent = %d", ErrPercentRange, i, b.Percent)
		}
	}
	return nil
}
