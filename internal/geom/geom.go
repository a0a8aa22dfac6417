// Package geom provides the 2D primitives shared by the canvas tree and
// the scenes: points, rectangles, cell grids and AABB helpers.
// It has no external dependencies so layout math stays pure and testable.
package geom

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a degenerate value reaches an
// operation that divides by it.
var ErrInvalidArgument = errors.New("geom: invalid argument")

// Point is a position or size in some coordinate space.
type Point struct {
	X, Y float64
}

// Pt is a convenience constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p offset by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies each axis independently.
func (p Point) Scale(sx, sy float64) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect represents an axis-aligned box.
// Negative extents are tolerated here; operations that divide by the
// extent call Validate first.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the extents as a point.
func (r Rect) Size() Point {
	return Point{X: r.W, Y: r.H}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Validate returns an error wrapping ErrInvalidArgument when w<=0 or h<=0.
func (r Rect) Validate() error {
	if r.Empty() {
		return fmt.Errorf("%w: rect %gx%g must have positive extents", ErrInvalidArgument, r.W, r.H)
	}
	return nil
}

// Intersects returns true if this rectangle overlaps with another.
// Touching edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if p is inside this rectangle (right/bottom exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Offset returns the rectangle moved by d.
func (r Rect) Offset(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Inset shrinks the rectangle by n on every side.
func (r Rect) Inset(n float64) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
}

// Overlap returns the intersection of a and b, or a zero Rect if they do
// not intersect.
func Overlap(a, b Rect) Rect {
	if !a.Intersects(b) {
		return Rect{}
	}
	x := max(a.X, b.X)
	y := max(a.Y, b.Y)
	return Rect{
		X: x,
		Y: y,
		W: min(a.Right(), b.Right()) - x,
		H: min(a.Bottom(), b.Bottom()) - y,
	}
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
