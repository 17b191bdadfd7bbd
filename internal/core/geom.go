// Package core provides fundamental types and utilities for the game.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned cell rectangle on a Screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Vec2 is a point or offset in world (pixel) space.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Polar returns the point at the given radius and angle (radians) around v.
// Angle 0 points right; positive angles rotate towards +Y (screen down).
func (v Vec2) Polar(radius, angle float64) Vec2 {
	return Vec2{
		X: v.X + radius*math.Cos(angle),
		Y: v.Y + radius*math.Sin(angle),
	}
}

// Circle is a collision circle in world space.
type Circle struct {
	Center Vec2
	Radius float64
}

// Box is an axis-aligned collision box in world space, stored by its center.
type Box struct {
	Center Vec2
	Half   float64 // Half of the side length (boxes are square)
}

// NewBox creates a square box of the given side centered on c.
func NewBox(c Vec2, side float64) Box {
	return Box{Center: c, Half: side / 2}
}

// Intersects reports whether the circle overlaps the box.
// Touching edges do not count as overlap.
func (c Circle) Intersects(b Box) bool {
	// Closest point on the box to the circle center
	nx := ClampF(c.Center.X, b.Center.X-b.Half, b.Center.X+b.Half)
	ny := ClampF(c.Center.Y, b.Center.Y-b.Half, b.Center.Y+b.Half)
	dx := c.Center.X - nx
	dy := c.Center.Y - ny
	return dx*dx+dy*dy < c.Radius*c.Radius
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
