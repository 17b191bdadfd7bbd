package turns

import "math"

// LaneTracker records where live entities sit in each lane and gates new
// spawns against them. Positions follow entities as they scroll; a slot is
// released when its entity leaves the arena or is consumed.
// Gating uses each live entity's current x rather than the x of the last
// spawn in the lane, so a lane reopens once every entity in it has
// scrolled buffer away from the spawn point.
type LaneTracker struct {
	buffer    float64
	obstacles []map[EntityID]float64
	points    []map[EntityID]float64
}

// NewLaneTracker creates a tracker for n lanes with the given spawn buffer.
func NewLaneTracker(n int, buffer float64) *LaneTracker {
	t := &LaneTracker{buffer: buffer}
	t.resize(n)
	return t
}

func (t *LaneTracker) resize(n int) {
	t.obstacles = make([]map[EntityID]float64, n)
	t.points = make([]map[EntityID]float64, n)
	for i := 0; i < n; i++ {
		t.obstacles[i] = make(map[EntityID]float64)
		t.points[i] = make(map[EntityID]float64)
	}
}

// Lanes returns the number of lanes.
func (t *LaneTracker) Lanes() int {
	return len(t.obstacles)
}

func (t *LaneTracker) valid(lane int) bool {
	return lane >= 0 && lane < len(t.obstacles)
}

// near reports whether any tracked x in slot is within the buffer of x.
func (t *LaneTracker) near(slot map[EntityID]float64, x float64) bool {
	for _, ox := range slot {
		if math.Abs(ox-x) < t.buffer {
			return true
		}
	}
	return false
}

// SafeForObstacle reports whether an obstacle may spawn at x in lane: no
// obstacle within the buffer in this or an adjacent lane, and no point
// within the buffer in this lane.
func (t *LaneTracker) SafeForObstacle(lane int, x float64) bool {
	return t.clearAt(lane, x)
}

// SafeForPoint reports whether a point may spawn at x in lane. Obstacles
// block it from this and adjacent lanes; points only from this lane, so
// points in neighbouring lanes never block each other.
func (t *LaneTracker) SafeForPoint(lane int, x float64) bool {
	return t.clearAt(lane, x)
}

func (t *LaneTracker) clearAt(lane int, x float64) bool {
	if !t.valid(lane) {
		return false
	}
	for l := lane - 1; l <= lane+1; l++ {
		if t.valid(l) && t.near(t.obstacles[l], x) {
			return false
		}
	}
	return !t.near(t.points[lane], x)
}

func (t *LaneTracker) slot(e *Entity) map[EntityID]float64 {
	if !t.valid(e.Lane) {
		return nil
	}
	if e.Kind == KindPoint {
		return t.points[e.Lane]
	}
	return t.obstacles[e.Lane]
}

// Record starts tracking a freshly spawned entity. It reports false for an
// entity without a valid lane.
func (t *LaneTracker) Record(e *Entity) bool {
	slot := t.slot(e)
	if slot == nil {
		return false
	}
	slot[e.ID] = e.X
	return true
}

// Follow updates the tracked position of a live entity.
func (t *LaneTracker) Follow(e *Entity) {
	slot := t.slot(e)
	if slot == nil {
		return
	}
	if _, ok := slot[e.ID]; ok {
		slot[e.ID] = e.X
	}
}

// Release stops tracking an entity. Releasing twice is a no-op.
func (t *LaneTracker) Release(e *Entity) {
	if slot := t.slot(e); slot != nil {
		delete(slot, e.ID)
	}
}

// Occupied returns how many entities of kind are tracked in lane.
func (t *LaneTracker) Occupied(kind Kind, lane int) int {
	if !t.valid(lane) {
		return 0
	}
	if kind == KindPoint {
		return len(t.points[lane])
	}
	return len(t.obstacles[lane])
}

// Empty reports whether no lane tracks anything.
func (t *LaneTracker) Empty() bool {
	for l := range t.obstacles {
		if len(t.obstacles[l]) > 0 || len(t.points[l]) > 0 {
			return false
		}
	}
	return true
}

// Reset clears every lane.
func (t *LaneTracker) Reset() {
	t.resize(len(t.obstacles))
}
