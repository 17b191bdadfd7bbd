package turns

import (
	"math"

	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/core"
)

// world owns arena geometry, live entities and lane occupancy.
type world struct {
	arena    config.ArenaConfig
	radius   float64
	center   core.Vec2
	laneY    []float64
	lanes    *LaneTracker
	entities EntitySet
	renderer Renderer
	nextID   EntityID
	report   func(msg string, keyvals ...any)
}

func newWorld(cfg config.TurnsConfig, r Renderer, report func(string, ...any)) *world {
	w := &world{
		arena:    cfg.Arena,
		radius:   cfg.Orbit.Radius,
		lanes:    NewLaneTracker(cfg.Arena.NumLanes, cfg.Spawn.BufferX),
		renderer: r,
		report:   report,
	}
	w.layout()
	return w
}

// layout derives the center and lane rows from the arena. Lanes are spaced
// by the orbit radius around the center row.
func (w *world) layout() {
	w.center = core.Vec2{X: w.arena.Width / 2, Y: w.arena.Height / 2}
	n := w.arena.NumLanes
	w.laneY = make([]float64, n)
	for i := 0; i < n; i++ {
		w.laneY[i] = w.center.Y + float64(i-n/2)*w.radius
	}
}

// resize changes the arena size. Lanes follow on the next layout.
func (w *world) resize(width, height float64) {
	if width > 0 {
		w.arena.Width = width
	}
	if height > 0 {
		w.arena.Height = height
	}
}

// spawnX returns the off-screen entry x for a side.
func (w *world) spawnX(side Side) float64 {
	if side == SideLeft {
		return -w.arena.SpawnMargin
	}
	return w.arena.Width + w.arena.SpawnMargin
}

func (w *world) offscreen(x float64) bool {
	return x < -w.arena.OffscreenMargin || x > w.arena.Width+w.arena.OffscreenMargin
}

// spawn creates an entity, records its lane and hands it to the renderer.
func (w *world) spawn(kind Kind, lane int, side Side, speed float64) *Entity {
	if lane < 0 || lane >= len(w.laneY) {
		w.report("spawn into invalid lane", "kind", kind, "lane", lane)
		return nil
	}
	w.nextID++
	e := &Entity{
		ID:   w.nextID,
		Kind: kind,
		Lane: lane,
		X:    w.spawnX(side),
		Side: side,
	}
	w.lanes.Record(e)
	w.entities.Add(e)
	e.Handle = w.renderer.SpawnEntity(kind, lane, e.X, e.VelocityX(speed))
	return e
}

// destroy removes an entity. It reports false if the entity was already gone.
func (w *world) destroy(e *Entity) bool {
	if !w.entities.Remove(e.ID) {
		return false
	}
	w.lanes.Release(e)
	w.renderer.DestroyEntity(e.Handle)
	return true
}

// scroll moves every entity by its velocity and drops those that left the
// arena. It returns how many were dropped.
func (w *world) scroll(speed, scale float64) int {
	dropped := 0
	for _, e := range w.entities.All() {
		if e.Lane < 0 || e.Lane >= len(w.laneY) {
			w.report("entity without lane", "id", e.ID, "lane", e.Lane)
			w.destroy(e)
			continue
		}
		e.X += e.VelocityX(speed) * scale
		if w.offscreen(e.X) {
			if w.destroy(e) {
				dropped++
			}
			continue
		}
		w.lanes.Follow(e)
		w.renderer.MoveEntity(e.Handle, e.X)
	}
	return dropped
}

// box returns the collision box of an entity.
func (w *world) box(e *Entity) core.Box {
	return core.NewBox(core.Vec2{X: e.X, Y: w.laneY[e.Lane]}, w.arena.EntitySize)
}

// markers returns both marker positions for an orbit angle.
func (w *world) markers(angle float64) (core.Vec2, core.Vec2) {
	return w.center.Polar(w.radius, angle), w.center.Polar(w.radius, angle+math.Pi)
}

// clear destroys every entity and resets lane occupancy.
func (w *world) clear() {
	for _, e := range w.entities.All() {
		w.destroy(e)
	}
	w.lanes.Reset()
}
