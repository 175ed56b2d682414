package arrange

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// FaceToFace shows every node of g as two boxes: outputs are stacked
// right-aligned in a first column, inputs stacked in a second column
// FaceGap further right, both in node id order. The input column is then
// shifted on the grid so that both columns are vertically centered on each
// other.
func FaceToFace(g *patch.Graph, sizes Sizes, cfg Config, opts ...Option) *Result {
	a := newArranger(cfg, opts)
	grid := cfg.Resolver.Grid
	spacing := cfg.Resolver.BoxSpacing

	nodes := g.Nodes()
	slices.SortFunc(nodes, func(x, y patch.Node) int { return cmp.Compare(x.ID, y.ID) })

	var maxOut float64
	for _, n := range nodes {
		if n.Ports.Has(patch.PortModeOutput) {
			maxOut = max(maxOut, sizes.Of(patch.BoxKey{Node: n.ID, Mode: patch.PortModeOutput}).Width)
		}
	}

	outRight := grid.NextLeft(0) + maxOut
	inLeft := grid.NextLeft(outRight + cfg.FaceGap)
	lastOut := grid.NextTop(0)
	lastIn := lastOut

	var placements []Placement
	for _, n := range nodes {
		if n.Ports.Has(patch.PortModeOutput) {
			k := patch.BoxKey{Node: n.ID, Mode: patch.PortModeOutput}
			sz := sizes.Of(k)
			placements = append(placements, Placement{
				Key:    k,
				Rect:   geom.R(math.Trunc(outRight-sz.Width), grid.NextTop(lastOut), sz.Width, sz.Height),
				Column: 1,
			})
			lastOut += sz.Height + spacing
		}
		if n.Ports.Has(patch.PortModeInput) {
			k := patch.BoxKey{Node: n.ID, Mode: patch.PortModeInput}
			sz := sizes.Of(k)
			placements = append(placements, Placement{
				Key:    k,
				Rect:   geom.R(inLeft, grid.NextTop(lastIn), sz.Width, sz.Height),
				Column: 2,
			})
			lastIn += sz.Height + spacing
		}
	}

	var shift float64
	if ch := grid.CellHeight; ch > 0 {
		shift = ch * math.Floor(math.Floor((lastOut-lastIn)/2)/ch)
	}
	for i := range placements {
		if placements[i].Key.Mode == patch.PortModeInput {
			placements[i].Rect = placements[i].Rect.Translated(0, shift)
		}
	}

	placements, settled := a.settle(placements)
	a.logger.Debug("arranged boxes face to face", "boxes", len(placements), "settled", settled)
	return &Result{Placements: placements, Settled: settled}
}
