package turns

import "github.com/vovakirdan/tricky-turns/internal/core"

// contacts lists what the markers touch this frame.
type contacts struct {
	obstacle *Entity   // First obstacle hit, nil if none
	points   []*Entity // Each touched point once, in spawn order
}

// detect tests both markers against every live entity. A point touched by
// both markers is listed once.
func (w *world) detect(m1, m2 core.Vec2, markerRadius float64) contacts {
	c1 := core.Circle{Center: m1, Radius: markerRadius}
	c2 := core.Circle{Center: m2, Radius: markerRadius}

	var out contacts
	for _, e := range w.entities.All() {
		if e.Lane < 0 || e.Lane >= len(w.laneY) {
			continue
		}
		b := w.box(e)
		if !c1.Intersects(b) && !c2.Intersects(b) {
			continue
		}
		switch e.Kind {
		case KindObstacle:
			if out.obstacle == nil {
				out.obstacle = e
			}
		case KindPoint:
			out.points = append(out.points, e)
		}
	}
	return out
}
