package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tricky-turns/internal/core"
)

type stubGame struct{ name string }

func (g stubGame) ID() string                           { return g.name }
func (g stubGame) Title() string                        { return g.name }
func (g stubGame) Reset(core.RuntimeConfig)             {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen)                  {}
func (g stubGame) State() core.GameState                { return core.GameState{} }

func stubFactory(mode ModeInfo, _ Env) (Game, error) {
	return stubGame{name: mode.Name}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	Register(ModeInfo{ID: 901, Name: "stub-a", Title: "Stub A"}, stubFactory)
	Register(ModeInfo{ID: 900, Name: "stub-b", Title: "Stub B"}, stubFactory)

	tests := []struct {
		key    string
		wantID int
		wantOK bool
	}{
		{"stub-a", 901, true},
		{"STUB-B", 900, true},
		{"901", 901, true},
		{" 900 ", 900, true},
		{"stub-c", 0, false},
		{"902", 0, false},
	}
	for _, tt := range tests {
		info, ok := Lookup(tt.key)
		if ok != tt.wantOK || info.ID != tt.wantID {
			t.Errorf("Lookup(%q) = %d, %v; want %d, %v", tt.key, info.ID, ok, tt.wantID, tt.wantOK)
		}
	}

	var ids []int
	for _, m := range List() {
		if m.ID == 900 || m.ID == 901 {
			ids = append(ids, m.ID)
		}
	}
	if len(ids) != 2 || ids[0] != 900 {
		t.Errorf("List() should be sorted by ID, got %v", ids)
	}
}

func TestCreate(t *testing.T) {
	Register(ModeInfo{ID: 910, Name: "stub-create"}, stubFactory)

	g, err := Create("910", Env{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "stub-create" {
		t.Errorf("created game ID = %q", g.ID())
	}

	if _, err := Create("nope", Env{}); err == nil {
		t.Error("Create() of an unknown mode should fail")
	}
	if !Exists("stub-create") || Exists("nope") {
		t.Error("Exists() disagrees with the registry")
	}
}

func TestCreateWrapsFactoryError(t *testing.T) {
	boom := errors.New("boom")
	Register(ModeInfo{ID: 920, Name: "stub-broken"}, func(ModeInfo, Env) (Game, error) {
		return nil, boom
	})

	if _, err := Create("stub-broken", Env{}); !errors.Is(err, boom) {
		t.Errorf("Create() = %v, want wrapped factory error", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(ModeInfo{ID: 930, Name: "stub-dup"}, stubFactory)

	for _, info := range []ModeInfo{{ID: 930, Name: "other"}, {ID: 931, Name: "Stub-Dup"}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Register(%+v) should panic", info)
				}
			}()
			Register(info, stubFactory)
		}()
	}
}
