package geom

import "math"

// Grid is the snapping grid of the canvas. Grid lines sit at
// k*Cell + Offset; hosts use half the box spacing as offset so that boxes
// placed on adjacent lines keep their spacing.
type Grid struct {
	CellWidth  float64
	CellHeight float64
	Offset     float64
}

func floorTo(v, cell, offset float64) float64 {
	return cell*math.Floor(v/cell) + offset
}

// PreviousLeft returns the nearest vertical grid line at or left of x.
func (g Grid) PreviousLeft(x float64) float64 {
	ret := floorTo(x, g.CellWidth, g.Offset)
	if ret > x {
		ret -= g.CellWidth
	}
	return ret
}

// NextLeft returns the nearest vertical grid line at or right of x.
func (g Grid) NextLeft(x float64) float64 {
	ret := floorTo(x, g.CellWidth, g.Offset)
	if ret < x {
		ret += g.CellWidth
	}
	return ret
}

// PreviousTop returns the nearest horizontal grid line at or above y.
func (g Grid) PreviousTop(y float64) float64 {
	ret := floorTo(y, g.CellHeight, g.Offset)
	if ret > y {
		ret -= g.CellHeight
	}
	return ret
}

// NextTop returns the nearest horizontal grid line at or below y.
func (g Grid) NextTop(y float64) float64 {
	ret := floorTo(y-1, g.CellHeight, g.Offset)
	if ret < y {
		ret += g.CellHeight
	}
	return ret
}

// Nearest snaps (x, y) to the closest grid intersection.
func (g Grid) Nearest(x, y float64) (float64, float64) {
	rx := floorTo(x, g.CellWidth, g.Offset)
	if x-rx > g.CellWidth/2 {
		rx += g.CellWidth
	}
	ry := floorTo(y, g.CellHeight, g.Offset)
	if y-ry > g.CellHeight/2 {
		ry += g.CellHeight
	}
	return rx, ry
}
