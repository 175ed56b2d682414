package repulse

import (
	"math"
	"slices"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// Config holds the canvas metrics the resolver works with.
type Config struct {
	Grid              geom.Grid // snapping grid
	BoxSpacing        float64   // minimal gap between two boxes
	HorizontalSpacing float64   // gap left for wires between outputs and inputs
	Magnet            float64   // edge distance under which boxes align
	PreventOverlap    bool      // when false every call is a no-op
}

// DefaultConfig returns the metrics of the default canvas theme.
func DefaultConfig() Config {
	return Config{
		Grid:              geom.Grid{CellWidth: 16, CellHeight: 12, Offset: 2},
		BoxSpacing:        4,
		HorizontalSpacing: 24,
		Magnet:            12,
		PreventOverlap:    true,
	}
}

// spacings returns the margins to add left and right of a repulser showing
// fixed for a box showing moving.
func (c Config) spacings(fixed, moving patch.PortMode) (left, right float64) {
	left, right = c.BoxSpacing, c.BoxSpacing
	if fixed.Has(patch.PortModeInput) || moving.Has(patch.PortModeOutput) {
		left = c.HorizontalSpacing
	}
	if fixed.Has(patch.PortModeOutput) || moving.Has(patch.PortModeInput) {
		right = c.HorizontalSpacing
	}
	return left, right
}

// tooClose reports whether rect, shown as moving, stands inside the margins
// of the repulser rectangle fixed. The relation is symmetric.
func (c Config) tooClose(fixed geom.Rect, fixedMode patch.PortMode, rect geom.Rect, mode patch.PortMode) bool {
	if fixed.IsEmpty() || rect.IsEmpty() {
		return false
	}
	left, right := c.spacings(fixedMode, mode)
	return rect.Intersects(fixed.Adjusted(-left, -c.BoxSpacing, right, c.BoxSpacing))
}

// direction chooses where moving goes to get away from fixed. used holds
// the directions the box was already pushed in; none of them is reversed.
func direction(fixed, moving geom.Rect, used []Direction) Direction {
	fcx, fcy := fixed.Center()
	mcx, mcy := moving.Center()

	if (moving.Top() <= fcy && fcy <= moving.Bottom()) || (fixed.Top() <= mcy && mcy <= fixed.Bottom()) {
		if fixed.Right() < mcx && fcx < moving.Left() {
			if slices.Contains(used, DirectionLeft) {
				return DirectionLeft
			}
			return DirectionRight
		}
		if fixed.Left() > mcx && fcx > moving.Right() {
			if slices.Contains(used, DirectionRight) {
				return DirectionRight
			}
			return DirectionLeft
		}
	}

	if fcy <= mcy {
		if slices.Contains(used, DirectionUp) {
			return DirectionUp
		}
		return DirectionDown
	}
	if slices.Contains(used, DirectionDown) {
		return DirectionDown
	}
	return DirectionUp
}

// push places rect against the side of fixed given by dir, snapped to the
// grid. With magnet set, the edges perpendicular to dir align with fixed
// when they are close enough.
func (c Config) push(dir Direction, fixed geom.Rect, fixedMode patch.PortMode, rect geom.Rect, mode patch.PortMode, magnet bool) geom.Rect {
	x, y := rect.X, rect.Y
	left, right := c.spacings(fixedMode, mode)

	switch dir {
	case DirectionLeft:
		x = c.Grid.PreviousLeft(fixed.Left() - rect.Width - left)
	case DirectionRight:
		x = c.Grid.NextLeft(fixed.Right() + right)
	case DirectionUp:
		y = c.Grid.PreviousTop(fixed.Top() - rect.Height - c.BoxSpacing)
	case DirectionDown:
		y = c.Grid.NextTop(fixed.Bottom() + c.BoxSpacing)
	default:
		return rect
	}

	if magnet {
		if dir.IsHorizontal() {
			top := math.Abs(fixed.Top() - rect.Top())
			bottom := math.Abs(fixed.Bottom() - rect.Bottom())
			switch {
			case bottom > top && top <= c.Magnet:
				y = fixed.Top()
			case bottom <= c.Magnet:
				y = fixed.Bottom() - rect.Height
			}
		} else {
			l := math.Abs(fixed.Left() - rect.Left())
			r := math.Abs(fixed.Right() - rect.Right())
			switch {
			case r > l && l <= c.Magnet:
				x = fixed.Left()
			case r <= c.Magnet:
				x = fixed.Right() - rect.Width
			}
		}
	}
	return rect.MovedTo(x, y)
}
