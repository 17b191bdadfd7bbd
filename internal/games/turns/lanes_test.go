package turns

import "testing"

func TestLaneTrackerEmptyIsSafe(t *testing.T) {
	lt := NewLaneTracker(3, 220)
	for lane := 0; lane < 3; lane++ {
		if !lt.SafeForObstacle(lane, -50) || !lt.SafeForPoint(lane, -50) {
			t.Errorf("lane %d should be safe when empty", lane)
		}
	}
	if lt.SafeForObstacle(-1, 0) || lt.SafeForPoint(3, 0) {
		t.Error("invalid lanes must never be safe")
	}
	if !lt.Empty() {
		t.Error("new tracker should be empty")
	}
}

func TestLaneTrackerObstacleBlocksAdjacentLanes(t *testing.T) {
	lt := NewLaneTracker(3, 220)
	lt.Record(&Entity{ID: 1, Kind: KindObstacle, Lane: 0, X: -50})

	tests := []struct {
		lane         int
		x            float64
		wantObstacle bool
		wantPoint    bool
	}{
		{0, -50, false, false},
		{1, -50, false, false},
		{2, -50, true, true},
		{0, 169, false, false}, // 219 away
		{0, 170, true, true},   // exactly the buffer
		{1, 850, true, true},   // other side of the arena
	}
	for _, tt := range tests {
		if got := lt.SafeForObstacle(tt.lane, tt.x); got != tt.wantObstacle {
			t.Errorf("SafeForObstacle(%d, %v) = %v, want %v", tt.lane, tt.x, got, tt.wantObstacle)
		}
		if got := lt.SafeForPoint(tt.lane, tt.x); got != tt.wantPoint {
			t.Errorf("SafeForPoint(%d, %v) = %v, want %v", tt.lane, tt.x, got, tt.wantPoint)
		}
	}
}

func TestLaneTrackerPointBlocksOnlyItsLane(t *testing.T) {
	lt := NewLaneTracker(3, 220)
	lt.Record(&Entity{ID: 1, Kind: KindPoint, Lane: 1, X: 850})

	if lt.SafeForObstacle(1, 850) {
		t.Error("obstacle must not spawn on a fresh point in the same lane")
	}
	if lt.SafeForPoint(1, 850) {
		t.Error("point must not spawn on a fresh point in the same lane")
	}
	for _, lane := range []int{0, 2} {
		if !lt.SafeForObstacle(lane, 850) {
			t.Errorf("points must not block obstacles in adjacent lane %d", lane)
		}
		if !lt.SafeForPoint(lane, 850) {
			t.Errorf("points must not block points in adjacent lane %d", lane)
		}
	}
}

func TestLaneTrackerFollowAndRelease(t *testing.T) {
	lt := NewLaneTracker(3, 220)
	e := &Entity{ID: 1, Kind: KindObstacle, Lane: 2, X: 850}
	lt.Record(e)

	if lt.SafeForObstacle(2, 850) {
		t.Fatal("lane should be blocked right after spawn")
	}

	e.X = 500
	lt.Follow(e)
	if !lt.SafeForObstacle(2, 850) {
		t.Error("lane should free up once the entity scrolled past the buffer")
	}
	if lt.SafeForObstacle(2, 400) {
		t.Error("tracked position should follow the entity")
	}

	lt.Release(e)
	lt.Release(e)
	if lt.Occupied(KindObstacle, 2) != 0 || !lt.Empty() {
		t.Error("released entity should no longer be tracked")
	}

	// Follow after release must not resurrect the slot
	lt.Follow(e)
	if !lt.Empty() {
		t.Error("Follow re-added a released entity")
	}
}

func TestLaneTrackerRejectsInvalidLane(t *testing.T) {
	lt := NewLaneTracker(3, 220)
	if lt.Record(&Entity{ID: 1, Kind: KindPoint, Lane: 5}) {
		t.Error("Record should refuse an entity without a valid lane")
	}
	if !lt.Empty() {
		t.Error("invalid record must not occupy anything")
	}
}

func TestLaneTrackerReset(t *testing.T) {
	lt := NewLaneTracker(3, 220)
	lt.Record(&Entity{ID: 1, Kind: KindObstacle, Lane: 0, X: 0})
	lt.Record(&Entity{ID: 2, Kind: KindPoint, Lane: 2, X: 0})
	lt.Reset()
	if !lt.Empty() || lt.Lanes() != 3 {
		t.Errorf("Reset should clear every lane and keep the lane count, lanes=%d", lt.Lanes())
	}
}
