// Package registry maps game modes to game factories.
// Modes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
)

// Game is the interface the platform drives.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns the mode name (e.g., "classic").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset builds a fresh session for the given screen.
	// The RuntimeConfig provides screen dimensions, tick rate and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (Tap, Pause, etc.).
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state.
	State() core.GameState
}

// Resizer is implemented by games that follow terminal resizes in place.
type Resizer interface {
	Resize(screenW, screenH int)
}

// StandingView is implemented by games that show the player's leaderboard
// standing on the results screen.
type StandingView interface {
	ShowStanding(st core.Standing)
}

// Submitter is implemented by games that record scores in the background.
// Settled returns a channel closed once the last run's score is stored,
// or nil when no run has ended.
type Submitter interface {
	Settled() <-chan struct{}
}

// ModeInfo describes a registered game mode.
type ModeInfo struct {
	ID          int    // Mode ID used for best scores and the leaderboard
	Name        string // CLI name, e.g. "classic"
	Title       string
	Description string
	Preset      config.DifficultyPreset
}

// Env carries everything a factory needs besides the mode itself.
type Env struct {
	Config   config.TurnsConfig      // Base config; zero value means defaults
	Preset   config.DifficultyPreset // Overrides the mode preset when set
	Identity core.Identity
	Scores   core.ScoreStore // Best scores of authenticated players
	Local    core.ScoreStore // Best scores of guests
	Audio    core.Audio
	Logger   *log.Logger
	Strict   bool
}

// Factory creates a game for a mode.
type Factory func(mode ModeInfo, env Env) (Game, error)

type entry struct {
	info    ModeInfo
	factory Factory
}

var (
	modes = make(map[int]entry)
	names = make(map[string]int)
	mu    sync.RWMutex
)

// Register adds a mode to the registry.
// Panics if the mode ID or name is already registered.
func Register(info ModeInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	name := strings.ToLower(info.Name)
	if _, exists := modes[info.ID]; exists {
		panic(fmt.Sprintf("registry: mode %d already registered", info.ID))
	}
	if _, exists := names[name]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", info.Name))
	}

	modes[info.ID] = entry{info: info, factory: f}
	names[name] = info.ID
}

// List returns all registered modes, sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ModeInfo, 0, len(modes))
	for _, e := range modes {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup finds a mode by name or numeric ID.
func Lookup(key string) (ModeInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := find(key)
	return e.info, ok
}

func find(key string) (entry, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if id, ok := names[key]; ok {
		return modes[id], true
	}
	if id, err := strconv.Atoi(key); err == nil {
		e, ok := modes[id]
		return e, ok
	}
	return entry{}, false
}

// Create instantiates a game for the mode named by key.
// Returns an error if the mode is not registered or the factory fails.
func Create(key string, env Env) (Game, error) {
	mu.RLock()
	e, ok := find(key)
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", key)
	}

	g, err := e.factory(e.info, env)
	if err != nil {
		return nil, fmt.Errorf("registry: create %s: %w", e.info.Name, err)
	}
	return g, nil
}

// Exists checks if a mode with the given name or ID is registered.
func Exists(key string) bool {
	_, ok := Lookup(key)
	return ok
}
