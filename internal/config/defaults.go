package config

import (
	_ "embed"
	"math"
)

//go:embed defaults/turns.yaml
var defaultTurnsYAML []byte

// DefaultTurnsConfig returns the default game configuration.
func DefaultTurnsConfig() TurnsConfig {
	return TurnsConfig{
		Arena: ArenaConfig{
			Width:           800,
			Height:          600,
			NumLanes:        3,
			EntitySize:      50,
			MarkerRadius:    22.5,
			SpawnMargin:     50,
			OffscreenMargin: 100,
		},
		Orbit: OrbitConfig{
			Radius:       100,
			AngularBase:  0.05,
			AngularScale: 0.005,
		},
		Spawn: SpawnConfig{
			BufferX:           220,
			IntervalMinMS:     350,
			IntervalMaxMS:     1100,
			IntervalBaseSpeed: 3,
			JitterMS:          50,
			ForcedIntervalMS:  1800,
			WatchdogMS:        250,
			RefreshMS:         1000,
		},
		Speed: SpeedConfig{
			Start:          3,
			Max:            20,
			RampIntervalMS: 1000,
			Ramp: []RampBracket{
				{Until: 20, PerTick: 0.05},
				{Until: 50, PerTick: 0.075},
				{Until: math.Inf(1), PerTick: 0.10},
			},
		},
		Points: PointsConfig{
			Chance: []ChanceBracket{
				{Until: 20, Percent: 65},
				{Until: 50, Percent: 50},
				{Until: math.Inf(1), Percent: 35},
			},
		},
		Timing: TimingConfig{
			CountdownBeatMS: 1000,
			PauseDebounceMS: 300,
			ResultsDelayMS:  700,
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultTurnsYAML
}
