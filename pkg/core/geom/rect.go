// Package geom provides the plain value geometry used by the layout engine:
// axis-aligned rectangles in canvas coordinates and the snapping grid.
package geom

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned rectangle. Y grows downward, as on the canvas.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// R is shorthand for building a Rect.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point.
func (r Rect) Center() (x, y float64) { return r.X + r.Width/2, r.Y + r.Height/2 }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// IsNull reports whether the rectangle has no extent at all. Hosts use a
// null rectangle for a box that is being removed.
func (r Rect) IsNull() bool { return r.Width == 0 && r.Height == 0 }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether the two rectangles share some area. Rectangles
// that only touch along an edge do not intersect, and an empty rectangle
// intersects nothing.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	if r.Left() >= o.Right() || o.Left() >= r.Right() {
		return false
	}
	if r.Top() >= o.Bottom() || o.Top() >= r.Bottom() {
		return false
	}
	return true
}

// Adjusted returns r with dx1/dy1 added to its left/top edges and dx2/dy2
// added to its right/bottom edges.
func (r Rect) Adjusted(dx1, dy1, dx2, dy2 float64) Rect {
	return Rect{
		X:      r.X + dx1,
		Y:      r.Y + dy1,
		Width:  r.Width - dx1 + dx2,
		Height: r.Height - dy1 + dy2,
	}
}

// Grown returns r expanded by h on the left and right and v on the top and
// bottom.
func (r Rect) Grown(h, v float64) Rect { return r.Adjusted(-h, -v, h, v) }

// Translated returns r moved by (dx, dy).
func (r Rect) Translated(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// MovedTo returns r with its top-left corner at (x, y).
func (r Rect) MovedTo(x, y float64) Rect {
	r.X, r.Y = x, y
	return r
}

// Distance returns the Manhattan distance between the top-left corners.
func (r Rect) Distance(o Rect) float64 {
	return math.Abs(r.X-o.X) + math.Abs(r.Y-o.Y)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
