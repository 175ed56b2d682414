package columns

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/core/patch"
	"github.com/matzehuels/patchlayout/pkg/errors"
)

// minColumns is the smallest column count of a layout: one column for
// sources, one for sinks, one in between.
const minColumns = 3

// Assignment is the result of [Assign].
type Assignment struct {
	// Columns maps every box to its 1-based column.
	Columns map[patch.BoxKey]int

	// Align tells how every box sits inside its column.
	Align map[patch.BoxKey]Align

	// Split lists, in ascending order, the nodes shown as two boxes.
	Split []int

	// Count is the highest column in use.
	Count int

	// Networks holds the connected groups of boxes, in discovery order.
	Networks [][]patch.BoxKey

	// Splits is the number of boxes split because of cycles.
	Splits int
}

// Column returns the column of node id: the column of its single box, or of
// its output box when the node is split.
func (a *Assignment) Column(id int) (int, bool) {
	if c, ok := a.Columns[patch.BoxKey{Node: id, Mode: patch.PortModeBoth}]; ok {
		return c, true
	}
	c, ok := a.Columns[patch.BoxKey{Node: id, Mode: patch.PortModeOutput}]
	return c, ok
}

// IsSplit reports whether node id is shown as two boxes.
func (a *Assignment) IsSplit(id int) bool {
	_, found := slices.BinarySearch(a.Split, id)
	return found
}

// Keys returns every box key in ascending order.
func (a *Assignment) Keys() []patch.BoxKey {
	keys := make([]patch.BoxKey, 0, len(a.Columns))
	for k := range a.Columns {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, patch.BoxKey.Compare)
	return keys
}

// Option configures [Assign].
type Option func(*assigner)

// WithHardwareOnSides pins hardware outputs to the first column and
// hardware inputs to the last one.
func WithHardwareOnSides() Option { return func(a *assigner) { a.hardwareOnSides = true } }

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(l *log.Logger) Option {
	return func(a *assigner) {
		if l != nil {
			a.logger = l
		}
	}
}

type assigner struct {
	boxes    []*box
	networks [][]*box
	toSplit  *box

	hardwareOnSides bool
	logger          *log.Logger
}

// Assign computes the column of every box of g.
//
// Assign never modifies g. It returns an error with code LAYOUT_FAILED when
// cycle splitting does not converge within the edge-count bound, which only
// happens on a corrupted graph.
func Assign(g *patch.Graph, opts ...Option) (*Assignment, error) {
	a := &assigner{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(a)
	}
	a.build(g)

	limit := g.EdgeCount() + 4
	splits := 0
	for {
		a.anchor()
		if a.define() {
			break
		}
		if splits >= limit {
			return nil, errors.New(errors.ErrCodeLayoutFailed,
				"cycle splitting did not converge after %d splits", splits)
		}
		if err := a.split(); err != nil {
			return nil, err
		}
		splits++
	}

	res := a.result()
	res.Splits = splits
	a.logger.Debug("assigned columns",
		"boxes", len(res.Columns),
		"columns", res.Count,
		"networks", len(res.Networks),
		"splits", splits)
	return res, nil
}

// build creates the boxes and their neighbor lists.
func (a *assigner) build(g *patch.Graph) {
	for _, n := range g.Nodes() {
		if n.IsHardware() || g.HasSelfLoop(n.ID) {
			a.boxes = append(a.boxes,
				&box{key: patch.BoxKey{Node: n.ID, Mode: patch.PortModeOutput}, kind: n.Type},
				&box{key: patch.BoxKey{Node: n.ID, Mode: patch.PortModeInput}, kind: n.Type})
			continue
		}
		a.boxes = append(a.boxes,
			&box{key: patch.BoxKey{Node: n.ID, Mode: patch.PortModeBoth}, kind: n.Type})
	}

	for _, b := range a.boxes {
		if b.key.Mode.Has(patch.PortModeOutput) {
			for _, child := range g.Children(b.key.Node) {
				if o := a.owner(child, patch.PortModeInput); o != nil {
					b.outs = append(b.outs, o)
				}
			}
		}
		if b.key.Mode.Has(patch.PortModeInput) {
			for _, parent := range g.Parents(b.key.Node) {
				if o := a.owner(parent, patch.PortModeOutput); o != nil {
					b.ins = append(b.ins, o)
				}
			}
		}
	}
	sortNeighbors(a.boxes)
}

// owner returns the first box showing the given side of node id.
func (a *assigner) owner(id int, mode patch.PortMode) *box {
	for _, b := range a.boxes {
		if b.owns(id, mode) {
			return b
		}
	}
	return nil
}

// anchor resets every box and pins hardware to the sides when requested.
func (a *assigner) anchor() {
	for _, b := range a.boxes {
		b.reset()
		if !a.hardwareOnSides || b.kind != patch.BoxTypeHardware {
			continue
		}
		if b.key.Mode.Has(patch.PortModeOutput) {
			b.colLeft = 1
			b.leftFixed = true
		} else {
			b.colRight = -1
			b.rightFixed = true
		}
	}
}

// define runs one leveling pass. It returns false when a box has to be split
// first, leaving that box in a.toSplit.
func (a *assigner) define() bool {
	a.toSplit = nil
	a.networks = a.networks[:0]

	if a.hardwareOnSides {
		for _, b := range a.boxes {
			if b.colLeft == 1 && b.leftFixed && !b.analyzed {
				if !a.discover(b) {
					return false
				}
			}
		}
		for _, b := range a.boxes {
			if b.colRight == -1 && b.rightFixed && !b.analyzed {
				if !a.discover(b) {
					return false
				}
			}
		}
	}
	for _, b := range a.boxes {
		if b.analyzed {
			continue
		}
		if !a.discover(b) {
			return false
		}
	}

	n := a.columnCount()
	for _, b := range a.boxes {
		if b.needed() == n {
			b.leftFixed = true
			b.rightFixed = true
		}
	}

	for _, network := range a.networks {
		a.settle(network)
	}
	return true
}

// discover collects the network reachable from root.
func (a *assigner) discover(root *box) bool {
	var network []*box
	a.parse(root, &network)
	if a.toSplit != nil {
		return false
	}
	a.networks = append(a.networks, network)
	return true
}

// parse counts both sides of b and walks on through its connections,
// collecting every reached box into network.
func (a *assigner) parse(b *box, network *[]*box) {
	if a.toSplit != nil || slices.Contains(*network, b) {
		return
	}
	*network = append(*network, b)

	a.countLeft(b, nil)
	if a.toSplit != nil {
		return
	}
	a.countRight(b, nil)
	if a.toSplit != nil {
		return
	}
	for _, in := range b.ins {
		a.parse(in, network)
	}
	for _, out := range b.outs {
		a.parse(out, network)
	}
	b.analyzed = true
}

// countLeft computes colLeft of b from its upstream boxes. path holds the
// boxes being counted above b; meeting one of them again means a cycle.
func (a *assigner) countLeft(b *box, path []*box) {
	if a.toSplit != nil || b.leftFixed || b.leftCounted {
		return
	}
	if slices.Contains(path, b) {
		a.toSplit = b
		return
	}
	path = append(path[:len(path):len(path)], b)

	for _, in := range b.ins {
		a.countLeft(in, path)
		if a.toSplit != nil {
			return
		}
	}

	left, fixed := b.colLeft, 0
	for _, in := range b.ins {
		left = max(left, in.colLeft+1)
		if in.leftFixed {
			fixed++
		}
	}
	b.colLeft = left
	// Counting never fixes a box already fixed on the other side.
	if fixed > 0 && fixed == len(b.ins) && !b.rightFixed {
		b.leftFixed = true
	}
	b.leftCounted = true
}

// countRight is the mirror of countLeft over downstream boxes.
func (a *assigner) countRight(b *box, path []*box) {
	if a.toSplit != nil || b.rightFixed || b.rightCounted {
		return
	}
	if slices.Contains(path, b) {
		a.toSplit = b
		return
	}
	path = append(path[:len(path):len(path)], b)

	for _, out := range b.outs {
		a.countRight(out, path)
		if a.toSplit != nil {
			return
		}
	}

	right, fixed := b.colRight, 0
	for _, out := range b.outs {
		right = min(right, out.colRight-1)
		if out.rightFixed {
			fixed++
		}
	}
	b.colRight = right
	if fixed > 0 && fixed == len(b.outs) && !b.leftFixed {
		b.rightFixed = true
	}
	b.rightCounted = true
}

// split turns a.toSplit into an output box and hands its upstream
// connections to a new input box.
func (a *assigner) split() error {
	b := a.toSplit
	a.toSplit = nil
	if b == nil {
		return errors.New(errors.ErrCodeInternal, "leveling pass aborted without a box to split")
	}
	if b.key.Mode != patch.PortModeBoth {
		return errors.New(errors.ErrCodeInternal, "box %s is on a cycle but already split", b.key)
	}

	in := &box{
		key:  patch.BoxKey{Node: b.key.Node, Mode: patch.PortModeInput},
		kind: b.kind,
		ins:  b.ins,
	}
	for _, up := range b.ins {
		up.outs = slices.DeleteFunc(up.outs, func(o *box) bool { return o == b })
		up.outs = append(up.outs, in)
	}
	b.ins = nil
	b.key.Mode = patch.PortModeOutput
	a.boxes = append(a.boxes, in)

	a.logger.Debug("split box on cycle", "node", b.key.Node)
	return nil
}

func (a *assigner) columnCount() int {
	n := minColumns
	for _, b := range a.boxes {
		n = max(n, b.needed())
	}
	return n
}

// settle sweeps a network until no sweep pins a new side. Every restart
// follows a new pin, so the loop ends.
func (a *assigner) settle(network []*box) {
	for {
		pinned := false
		for _, b := range network {
			b.leftCounted = false
			b.rightCounted = false
			b.analyzed = false

			if b.leftFixed || b.rightFixed {
				continue
			}
			a.countLeft(b, nil)
			a.countRight(b, nil)
			if b.leftFixed || b.rightFixed {
				pinned = true
				break
			}
		}
		if !pinned {
			return
		}
	}
}

func (a *assigner) result() *Assignment {
	n := a.columnCount()
	lowest := 0
	for i, b := range a.boxes {
		if l := b.level(n); i == 0 || l < lowest {
			lowest = l
		}
	}
	shift := 1 - lowest

	res := &Assignment{
		Columns: make(map[patch.BoxKey]int, len(a.boxes)),
		Align:   make(map[patch.BoxKey]Align, len(a.boxes)),
	}
	split := make(map[int]bool)
	for _, b := range a.boxes {
		col := b.level(n) + shift
		res.Columns[b.key] = col
		res.Align[b.key] = b.align()
		res.Count = max(res.Count, col)
		if b.key.Mode != patch.PortModeBoth {
			split[b.key.Node] = true
		}
	}
	for id := range split {
		res.Split = append(res.Split, id)
	}
	slices.Sort(res.Split)

	for _, network := range a.networks {
		keys := make([]patch.BoxKey, len(network))
		for i, b := range network {
			keys[i] = b.key
		}
		res.Networks = append(res.Networks, keys)
	}
	return res
}
