package turns

// Kind distinguishes obstacles from collectible points.
type Kind int

const (
	KindObstacle Kind = iota
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Side is the screen edge an entity enters from.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// EntityID identifies an entity within one session.
type EntityID uint64

// EntityHandle is whatever the renderer returned for a spawned entity.
type EntityHandle uint64

// Entity is a scrolling obstacle or point.
type Entity struct {
	ID     EntityID
	Kind   Kind
	Lane   int
	X      float64
	Side   Side
	Handle EntityHandle
}

// VelocityX returns the horizontal velocity per frame at the given speed.
// Left entries travel right, right entries travel left.
func (e *Entity) VelocityX(speed float64) float64 {
	if e.Side == SideLeft {
		return speed
	}
	return -speed
}

// EntitySet holds live entities in spawn order.
type EntitySet struct {
	items []*Entity
}

// Add appends an entity.
func (s *EntitySet) Add(e *Entity) {
	s.items = append(s.items, e)
}

// Remove deletes the entity with the given ID. It reports whether the
// entity was present, so a second removal is a no-op.
func (s *EntitySet) Remove(id EntityID) bool {
	for i, e := range s.items {
		if e.ID == id {
			copy(s.items[i:], s.items[i+1:])
			s.items[len(s.items)-1] = nil
			s.items = s.items[:len(s.items)-1]
			return true
		}
	}
	return false
}

// Contains reports whether the entity is live.
func (s *EntitySet) Contains(id EntityID) bool {
	for _, e := range s.items {
		if e.ID == id {
			return true
		}
	}
	return false
}

// All returns a copy of the live entities, safe to iterate while removing.
func (s *EntitySet) All() []*Entity {
	out := make([]*Entity, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of live entities.
func (s *EntitySet) Len() int {
	return len(s.items)
}

// Count returns the number of live entities of one kind.
func (s *EntitySet) Count(k Kind) int {
	n := 0
	for _, e := range s.items {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Clear removes every entity.
func (s *EntitySet) Clear() {
	for i := range s.items {
		s.items[i] = nil
	}
	s.items = s.items[:0]
}
