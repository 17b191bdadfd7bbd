package turns

import "github.com/vovakirdan/tricky-turns/internal/core"

// Renderer draws the world. Positions are in arena pixels.
type Renderer interface {
	SpawnEntity(kind Kind, lane int, x, velocity float64) EntityHandle
	MoveEntity(h EntityHandle, x float64)
	DestroyEntity(h EntityHandle)
	PositionMarkers(p1, p2 core.Vec2)
}

// HUD shows score, best score, countdown and results.
type HUD interface {
	SetScore(n int)
	SetBest(n int)
	ShowCountdown(text string) // Empty text hides the countdown
	ShowGameOver(finalScore int, isNewBest bool)
	ShowFeedback(text string, at core.Vec2)
}

// nopView satisfies Renderer and HUD when the caller has no display.
type nopView struct{}

func (nopView) SpawnEntity(Kind, int, float64, float64) EntityHandle { return 0 }
func (nopView) MoveEntity(EntityHandle, float64)                      {}
func (nopView) DestroyEntity(EntityHandle)                            {}
func (nopView) PositionMarkers(core.Vec2, core.Vec2)                  {}
func (nopView) SetScore(int)                                          {}
func (nopView) SetBest(int)                                           {}
func (nopView) ShowCountdown(string)                                  {}
func (nopView) ShowGameOver(int, bool)                                {}
func (nopView) ShowFeedback(string, core.Vec2)                        {}
