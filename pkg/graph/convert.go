package graph

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/core/layout/arrange"
	"github.com/matzehuels/patchlayout/pkg/core/layout/columns"
	"github.com/matzehuels/patchlayout/pkg/core/layout/repulse"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
	"github.com/matzehuels/patchlayout/pkg/errors"
)

// =============================================================================
// Snapshot ↔ patch.Graph Conversion
// =============================================================================

// ToPatch converts a snapshot to a graph. Nodes keep their snapshot order.
// Edges naming an unknown node are skipped with a warning on logger, which
// may be nil.
func ToPatch(s Snapshot, logger *log.Logger) (*patch.Graph, error) {
	if logger == nil {
		logger = log.Default()
	}

	g := patch.New()
	for _, n := range s.Nodes {
		if err := errors.ValidateNodeName(n.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", n.ID)
		}
		if err := g.AddNode(patch.Node{ID: n.ID, Name: n.Name, Type: n.Type, Ports: n.Ports}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "add node %d", n.ID)
		}
	}

	skipped := 0
	for _, e := range s.Edges {
		if err := g.AddEdge(patch.Edge{From: e.From, To: e.To}); err != nil {
			logger.Warn("skipping connection", "from", e.From, "to", e.To, "err", err)
			skipped++
		}
	}
	if skipped > 0 {
		logger.Debug("skipped connections", "count", skipped, "kept", g.EdgeCount())
	}
	return g, nil
}

// FromPatch converts a graph to a snapshot without boxes. Nodes are sorted
// by ID and edges by endpoints, so equal graphs give equal snapshots.
func FromPatch(g *patch.Graph) Snapshot {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b patch.Node) int { return cmp.Compare(a.ID, b.ID) })

	out := Snapshot{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, Name: n.Name, Type: n.Type, Ports: n.Ports}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To})
	}
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	return out
}

// =============================================================================
// Boxes
// =============================================================================

// Scene converts boxes to the resolver's scene, validating their geometry.
func Scene(boxes []Box) ([]repulse.Box, error) {
	scene := make([]repulse.Box, len(boxes))
	for i, b := range boxes {
		if err := errors.ValidateRect(b.X, b.Y, b.Width, b.Height); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "box %s", b.Key())
		}
		scene[i] = repulse.Box{Key: b.Key(), Rect: b.Rect()}
	}
	return scene, nil
}

// Repulsers converts boxes to repulsers, validating their geometry.
func Repulsers(boxes []Box) ([]repulse.Repulser, error) {
	reps := make([]repulse.Repulser, len(boxes))
	for i, b := range boxes {
		if err := errors.ValidateRect(b.X, b.Y, b.Width, b.Height); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "repulser %s", b.Key())
		}
		reps[i] = repulse.Repulser{Key: b.Key(), Rect: b.Rect()}
	}
	return reps, nil
}

// Sizes collects the box sizes of a snapshot for the arrangements.
func Sizes(boxes []Box) arrange.Sizes {
	sizes := make(arrange.Sizes, len(boxes))
	for _, b := range boxes {
		sizes[b.Key()] = arrange.Size{Width: b.Width, Height: b.Height}
	}
	return sizes
}

// =============================================================================
// Results
// =============================================================================

// FromAssignment converts a column assignment. Columns are sorted by box key.
func FromAssignment(a *columns.Assignment) ColumnsResult {
	out := ColumnsResult{
		Columns: make([]Column, 0, len(a.Columns)),
		Split:   slices.Clone(a.Split),
		Count:   a.Count,
		Splits:  a.Splits,
	}
	if out.Split == nil {
		out.Split = []int{}
	}
	for _, k := range a.Keys() {
		out.Columns = append(out.Columns, Column{
			Node:   k.Node,
			Mode:   k.Mode,
			Column: a.Columns[k],
			Align:  a.Align[k],
		})
	}
	for _, network := range a.Networks {
		refs := make([]BoxRef, len(network))
		for i, k := range network {
			refs[i] = BoxRef{Node: k.Node, Mode: k.Mode}
		}
		out.Networks = append(out.Networks, refs)
	}
	return out
}

// ToAssignment converts a serialized column assignment back.
func ToAssignment(r ColumnsResult) *columns.Assignment {
	a := &columns.Assignment{
		Columns: make(map[patch.BoxKey]int, len(r.Columns)),
		Align:   make(map[patch.BoxKey]columns.Align, len(r.Columns)),
		Split:   slices.Clone(r.Split),
		Count:   r.Count,
		Splits:  r.Splits,
	}
	for _, c := range r.Columns {
		k := patch.BoxKey{Node: c.Node, Mode: c.Mode}
		a.Columns[k] = c.Column
		a.Align[k] = c.Align
	}
	for _, refs := range r.Networks {
		keys := make([]patch.BoxKey, len(refs))
		for i, ref := range refs {
			keys[i] = patch.BoxKey{Node: ref.Node, Mode: ref.Mode}
		}
		a.Networks = append(a.Networks, keys)
	}
	return a
}

// FromMoves converts resolver moves, keeping their order.
func FromMoves(moves []repulse.Move) ResolveResult {
	out := ResolveResult{Moves: make([]Move, len(moves))}
	for i, m := range moves {
		out.Moves[i] = Move{Node: m.Key.Node, Mode: m.Key.Mode, X: m.X, Y: m.Y, Path: m.Path}
	}
	return out
}

// FromArrange converts an arrangement made in the given mode.
func FromArrange(res *arrange.Result, mode string) ArrangeResult {
	out := ArrangeResult{
		Mode:      mode,
		Positions: make([]Position, len(res.Placements)),
		Settled:   res.Settled,
	}
	for i, p := range res.Placements {
		out.Positions[i] = Position{Box: BoxFrom(p.Key, p.Rect), Column: p.Column}
	}
	if res.Assignment != nil {
		cols := FromAssignment(res.Assignment)
		out.Columns = &cols
	}
	return out
}
