// Package repulse keeps boxes from overlapping on the canvas.
//
// # Overview
//
// When a box moves, resizes, splits or joins, its new rectangle may cover
// other boxes. The boxes whose rectangles are final for this round are
// repulsers: they never move, and every other box standing too close to one
// of them is pushed away. A pushed box becomes a repulser in turn, so the
// push cascades until nothing overlaps.
//
// # Margins
//
// Two boxes are "too close" when one intersects the other grown by the box
// spacing. The side of a box facing an input (or the side of the moving box
// showing outputs) uses the larger horizontal spacing, which leaves room for
// the connection wires between them.
//
// # Directions
//
// A box overlapping its repulser vertically around the centers, and clear of
// it horizontally around the centers, goes left or right. Any other box
// goes up or down. Every candidate remembers the directions it was pushed
// in and never reverses one of them, which rules out ping-pong between two
// repulsers. After a push the rectangle is snapped to the grid, and aligned
// with the repulser edge when it is within the magnet distance.
//
// # Ordering
//
// Pending candidates are processed by direction path, then by a geometric
// key matching the last direction (for a left push the box whose right edge
// is furthest right goes first), then by box key. The scene and the
// repulsers are read in box key order, so the result does not depend on the
// order of the input slices.
//
//	r := repulse.New(repulse.DefaultConfig())
//	moves := r.Resolve(scene, []repulse.Repulser{{Key: moved, Rect: target}}, repulse.DirectionNone)
//	for _, m := range moves {
//	    fmt.Println(m.Key, m.X, m.Y)
//	}
package repulse
