package columns

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// Align tells how a box sits inside its column.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	}
	return "center"
}

// ParseAlign converts a name produced by [Align.String] back into an
// alignment.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "center", "":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return AlignCenter, fmt.Errorf("invalid alignment %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Align) UnmarshalText(b []byte) error {
	v, err := ParseAlign(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// box is one side (or both sides) of a node during a leveling pass.
//
// colLeft is the minimal column counted from the left; it starts at 2 and
// only grows. colRight is the maximal column counted from the right; it
// starts at -2 and only decreases. Once a side is fixed its value is the
// column.
type box struct {
	key  patch.BoxKey
	kind patch.BoxType

	ins  []*box // boxes feeding this one
	outs []*box // boxes fed by this one

	colLeft      int
	leftFixed    bool
	leftCounted  bool
	colRight     int
	rightFixed   bool
	rightCounted bool

	analyzed bool
}

func (b *box) reset() {
	b.colLeft = 2
	b.leftFixed = false
	b.leftCounted = false
	b.colRight = -2
	b.rightFixed = false
	b.rightCounted = false
	b.analyzed = false
}

// owns reports whether b shows the given side of node id.
func (b *box) owns(id int, mode patch.PortMode) bool {
	return b.key.Node == id && b.key.Mode.Has(mode)
}

// needed returns the number of columns the chain through b spans.
func (b *box) needed() int { return b.colLeft - b.colRight - 1 }

// level returns the 1-based level of b in a layout of n columns.
func (b *box) level(n int) int {
	switch {
	case b.leftFixed:
		return b.colLeft
	case b.rightFixed:
		return n + 1 + b.colRight
	}
	return b.colLeft
}

func (b *box) align() Align {
	switch b.key.Mode {
	case patch.PortModeOutput:
		return AlignRight
	case patch.PortModeInput:
		return AlignLeft
	}
	switch {
	case len(b.outs) > 0 && len(b.ins) > 0:
		return AlignCenter
	case len(b.outs) > 0:
		return AlignRight
	case len(b.ins) > 0:
		return AlignLeft
	}
	return AlignCenter
}

// compareKind puts non-application boxes first, then orders by box type.
func compareKind(a, b *box) int {
	if a.kind == b.kind {
		return 0
	}
	if a.kind == patch.BoxTypeApplication {
		return 1
	}
	if b.kind == patch.BoxTypeApplication {
		return -1
	}
	return cmp.Compare(a.kind, b.kind)
}

// sortNeighbors orders outs by how many boxes feed them and ins by how many
// boxes they feed, busiest first. Ties keep insertion order.
func sortNeighbors(boxes []*box) {
	for _, b := range boxes {
		slices.SortStableFunc(b.outs, func(x, y *box) int {
			if c := compareKind(x, y); c != 0 {
				return c
			}
			return cmp.Compare(len(y.ins), len(x.ins))
		})
	}
	for _, b := range boxes {
		slices.SortStableFunc(b.ins, func(x, y *box) int {
			if c := compareKind(x, y); c != 0 {
				return c
			}
			return cmp.Compare(len(y.outs), len(x.outs))
		})
	}
}
