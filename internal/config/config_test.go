package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultTurnsConfig()); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestEmbeddedYAMLMatchesDefaults(t *testing.T) {
	var cfg TurnsConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("embedded YAML is not valid: %v", err)
	}

	def := DefaultTurnsConfig()
	if cfg.Spawn != def.Spawn {
		t.Errorf("spawn section differs: yaml %+v, default %+v", cfg.Spawn, def.Spawn)
	}
	if cfg.Arena != def.Arena {
		t.Errorf("arena section differs: yaml %+v, default %+v", cfg.Arena, def.Arena)
	}
	last := cfg.Speed.Ramp[len(cfg.Speed.Ramp)-1]
	if !math.IsInf(last.Until, 1) {
		t.Errorf("last ramp bracket should be unbounded, got until=%v", last.Until)
	}
	if cfg.Points.Chance[0] != (ChanceBracket{Until: 20, Percent: 65}) {
		t.Errorf("first chance bracket = %+v", cfg.Points.Chance[0])
	}
}

func TestValidateBrackets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TurnsConfig)
		wantErr error
	}{
		{
			name:    "empty ramp",
			mutate:  func(c *TurnsConfig) { c.Speed.Ramp = nil },
			wantErr: ErrNoBrackets,
		},
		{
			name: "non-monotonic ramp until",
			mutate: func(c *TurnsConfig) {
				c.Speed.Ramp = []RampBracket{{Until: 50, PerTick: 0.05}, {Until: 20, PerTick: 0.1}}
			},
			wantErr: ErrBracketOrder,
		},
		{
			name: "duplicate chance until",
			mutate: func(c *TurnsConfig) {
				c.Points.Chance = []ChanceBracket{{Until: 20, Percent: 65}, {Until: 20, Percent: 50}}
			},
			wantErr: ErrBracketOrder,
		},
		{
			name: "ramp slows down",
			mutate: func(c *TurnsConfig) {
				c.Speed.Ramp = []RampBracket{{Until: 20, PerTick: 0.75}, {Until: math.Inf(1), PerTick: 0.10}}
			},
			wantErr: ErrRampDecreasing,
		},
		{
			name: "percent above 100",
			mutate: func(c *TurnsConfig) {
				c.Points.Chance = []ChanceBracket{{Until: math.Inf(1), Percent: 120}}
			},
			wantErr: ErrPercentRange,
		},
		{
			name:    "no lanes",
			mutate:  func(c *TurnsConfig) { c.Arena.NumLanes = 0 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "interval min above max",
			mutate:  func(c *TurnsConfig) { c.Spawn.IntervalMinMS = 2000 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "jitter as large as min interval",
			mutate:  func(c *TurnsConfig) { c.Spawn.JitterMS = 350 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "max speed below start",
			mutate:  func(c *TurnsConfig) { c.Speed.Max = 1 },
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTurnsConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "turns.yaml")
	data := []byte(`
speed:
  start: 4
  max: 18
  ramp_interval_ms: 500
  ramp:
    - { until: 10, per_tick: 0.1 }
    - { until: .inf, per_tick: 0.2 }
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Speed.Start != 4 || cfg.Speed.Max != 18 {
		t.Errorf("speed not loaded: %+v", cfg.Speed)
	}
	if cfg.Speed.RampInterval() != 500*time.Millisecond {
		t.Errorf("RampInterval() = %v, want 500ms", cfg.Speed.RampInterval())
	}
	// Sections absent from the file keep defaults
	if cfg.Arena.NumLanes != 3 {
		t.Errorf("arena defaults lost: %+v", cfg.Arena)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	data := []byte(`
points:
  chance:
    - { until: 50, percent: 50 }
    - { until: 20, percent: 65 }
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrBracketOrder) {
		t.Errorf("Load() = %v, want ErrBracketOrder", err)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing explicit path should fail")
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"easy", "normal", "hard", "fixed"} {
		if _, err := ParsePreset(name); err != nil {
			t.Errorf("ParsePreset(%q) failed: %v", name, err)
		}
	}
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v; want normal", p, err)
	}
	if _, err := ParsePreset("nightmare"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ParsePreset(nightmare) = %v, want ErrInvalidValue", err)
	}
}

func TestApplyPresetKeepsConfigValid(t *testing.T) {
	for _, p := range []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed} {
		cfg := DefaultTurnsConfig()
		ApplyPreset(&cfg, p)
		if err := Validate(cfg); err != nil {
			t.Errorf("preset %s produced invalid config: %v", p, err)
		}
	}

	cfg := DefaultTurnsConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	if !cfg.Speed.Fixed {
		t.Error("fixed preset should disable the ramp")
	}

	cfg = DefaultTurnsConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if cfg.Speed.Start <= DefaultTurnsConfig().Speed.Start {
		t.Error("hard preset should start faster")
	}
}

func TestCloneIsolatesPresets(t *testing.T) {
	base := DefaultTurnsConfig()
	easy := base.Clone()
	ApplyPreset(&easy, DifficultyEasy)

	if base.Speed.Ramp[0].PerTick != DefaultTurnsConfig().Speed.Ramp[0].PerTick {
		t.Error("preset on a clone changed the original ramp")
	}
	if easy.Speed.Ramp[0].PerTick >= base.Speed.Ramp[0].PerTick {
		t.Error("easy preset should slow the ramp")
	}
}
