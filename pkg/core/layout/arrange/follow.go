package arrange

import (
	"math"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/layout/columns"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// minColumns matches the smallest layout of the column assigner.
const minColumns = 3

// FollowSignal arranges the boxes of g in columns along the signal flow.
//
// Networks are laid out one after the other. Inside a network, boxes keep
// the row of the previous box while the walk goes on in the same horizontal
// direction, and start a new row below when it turns. Boxes without any
// connection fill the least used middle column. With HardwareOnSides,
// hardware outputs take the first column and hardware inputs the last one,
// and the middle columns are centered vertically against them.
//
// FollowSignal fails only when the column assignment does.
func FollowSignal(g *patch.Graph, sizes Sizes, cfg Config, opts ...Option) (*Result, error) {
	a := newArranger(cfg, opts)

	colOpts := []columns.Option{columns.WithLogger(a.logger)}
	if cfg.HardwareOnSides {
		colOpts = append(colOpts, columns.WithHardwareOnSides())
	}
	asg, err := columns.Assign(g, colOpts...)
	if err != nil {
		return nil, err
	}

	n := max(asg.Count, minColumns)
	side := func(col int) bool { return cfg.HardwareOnSides && (col == 1 || col == n) }
	spacing := cfg.Resolver.BoxSpacing

	bottoms := make([]float64, n+1)
	tops := make(map[patch.BoxKey]float64, len(asg.Columns))
	cols := make(map[patch.BoxKey]int, len(asg.Columns))

	// rows of connected networks
	var lastTop, lastBottom float64
	used := make(map[int]bool)
	for _, network := range asg.Networks {
		if len(network) <= 1 {
			continue
		}

		prev, step := 0, 0
		for _, k := range network {
			col := asg.Columns[k]
			if prev != 0 && step == 0 {
				switch {
				case col > prev:
					step = 1
				case col < prev:
					step = -1
				}
			}

			var y float64
			switch {
			case side(col):
				y = bottoms[col]
				lastTop = lastBottom
			case (step > 0 && col > prev) || (step < 0 && col < prev):
				y = lastTop
			default:
				y = lastBottom
				for c := range used {
					y = min(y, bottoms[c])
				}
				clear(used)
				lastBottom = 0
				step = 0
			}
			y = max(y, bottoms[col])

			cols[k], tops[k] = col, y
			used[col] = true

			bottom := y + sizes.Of(k).Height + spacing
			bottoms[col] = bottom
			if !side(col) {
				lastTop = y
				lastBottom = max(lastBottom, bottom)
			}
			prev = col
		}
	}

	// boxes without connections
	for _, network := range asg.Networks {
		if len(network) != 1 {
			continue
		}
		k := network[0]
		col := asg.Columns[k]
		if node, _ := g.Node(k.Node); !node.IsHardware() || !side(col) {
			col = 2
			for c := 3; c < n; c++ {
				if bottoms[c] < bottoms[col] {
					col = c
				}
			}
		}
		cols[k], tops[k] = col, bottoms[col]
		bottoms[col] += sizes.Of(k).Height + spacing
	}

	widths := make([]float64, n+1)
	for k, col := range cols {
		widths[col] = max(widths[col], sizes.Of(k).Width)
	}

	gap := cfg.ColumnGap
	if cw := cfg.Resolver.Grid.CellWidth; cw > 0 {
		gap = max(gap, cw*math.Ceil(gap/cw))
	}
	gap += spacing

	lefts := make([]float64, n+1)
	var left float64
	for col := 1; col <= n; col++ {
		lefts[col] = left
		left += widths[col] + gap
	}

	var maxSide, maxMiddle float64
	for col := 1; col <= n; col++ {
		if side(col) {
			maxSide = max(maxSide, bottoms[col])
		} else {
			maxMiddle = max(maxMiddle, bottoms[col])
		}
	}
	tallest := max(maxSide, maxMiddle)

	placements := make([]Placement, 0, len(cols))
	for k, col := range cols {
		sz := sizes.Of(k)

		var offset float64
		switch {
		case !cfg.HardwareOnSides:
		case side(col):
			offset = (tallest - bottoms[col]) / 2
		default:
			offset = (tallest - maxMiddle) / 2
		}

		x := lefts[col]
		switch asg.Align[k] {
		case columns.AlignCenter:
			x += (widths[col] - sz.Width) / 2
		case columns.AlignRight:
			x += widths[col] - sz.Width
		}

		x, y := cfg.Resolver.Grid.Nearest(x, tops[k]+offset)
		placements = append(placements, Placement{
			Key:    k,
			Rect:   geom.R(x, y, sz.Width, sz.Height),
			Column: col,
		})
	}

	placements, settled := a.settle(placements)
	a.logger.Debug("arranged boxes along signal",
		"boxes", len(placements),
		"columns", n,
		"settled", settled)
	return &Result{Placements: placements, Assignment: asg, Settled: settled}, nil
}
