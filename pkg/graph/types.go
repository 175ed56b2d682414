package graph

import (
	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/layout/columns"
	"github.com/matzehuels/patchlayout/pkg/core/layout/repulse"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// Arrangement modes.
const (
	ModeFollowSignal = "follow"
	ModeFaceToFace   = "face"
)

// =============================================================================
// Snapshot - Routing Graph Serialization
// =============================================================================

// Snapshot is the serialization format of a routing graph and, optionally,
// of its boxes on the canvas.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Boxes []Box  `json:"boxes,omitempty"`
}

// Node is one client.
type Node struct {
	ID    int            `json:"id"`
	Name  string         `json:"name,omitempty"`
	Type  patch.BoxType  `json:"type,omitempty"`
	Ports patch.PortMode `json:"ports,omitempty"`
}

// Edge is a connection from an output of From to an input of To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Box is one box of a client with its rectangle.
type Box struct {
	Node   int            `json:"node"`
	Mode   patch.PortMode `json:"mode"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
}

// Key returns the box key.
func (b Box) Key() patch.BoxKey { return patch.BoxKey{Node: b.Node, Mode: b.Mode} }

// Rect returns the box rectangle.
func (b Box) Rect() geom.Rect { return geom.R(b.X, b.Y, b.Width, b.Height) }

// BoxFrom builds a Box from a key and a rectangle.
func BoxFrom(k patch.BoxKey, r geom.Rect) Box {
	return Box{Node: k.Node, Mode: k.Mode, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// =============================================================================
// Results
// =============================================================================

// ColumnsResult is the serialization of a column assignment.
type ColumnsResult struct {
	Columns  []Column   `json:"columns"`
	Split    []int      `json:"split"`
	Count    int        `json:"count"`
	Networks [][]BoxRef `json:"networks,omitempty"`
	Splits   int        `json:"splits,omitempty"`
}

// Column is the column of one box.
type Column struct {
	Node   int            `json:"node"`
	Mode   patch.PortMode `json:"mode"`
	Column int            `json:"column"`
	Align  columns.Align  `json:"align"`
}

// BoxRef names a box.
type BoxRef struct {
	Node int            `json:"node"`
	Mode patch.PortMode `json:"mode"`
}

// ResolveRequest asks for the moves keeping boxes apart.
//
// With All set, the whole scene is settled and Repulsers is ignored. With
// PullUp set, the boxes below the named box follow its change of height.
// Otherwise the scene boxes are pushed away from Repulsers.
type ResolveRequest struct {
	Boxes     []Box             `json:"boxes"`
	Repulsers []Box             `json:"repulsers,omitempty"`
	Hint      repulse.Direction `json:"hint,omitempty"`
	All       bool              `json:"all,omitempty"`
	PullUp    *PullUp           `json:"pull_up,omitempty"`
}

// PullUp names a box whose height changed, with its rectangle before the
// change. Its current rectangle is the one in the scene.
type PullUp struct {
	Box
}

// ResolveResult lists the moves of a resolve request in processing order.
type ResolveResult struct {
	Moves []Move `json:"moves"`
}

// Move is the destination of one box.
type Move struct {
	Node int                 `json:"node"`
	Mode patch.PortMode      `json:"mode"`
	X    float64             `json:"x"`
	Y    float64             `json:"y"`
	Path []repulse.Direction `json:"path,omitempty"`
}

// Key returns the key of the moved box.
func (m Move) Key() patch.BoxKey { return patch.BoxKey{Node: m.Node, Mode: m.Mode} }

// ArrangeResult is the serialization of an arrangement.
type ArrangeResult struct {
	Mode      string         `json:"mode"`
	Positions []Position     `json:"positions"`
	Columns   *ColumnsResult `json:"columns,omitempty"`
	Settled   int            `json:"settled"`
}

// Position is the destination of one box of an arrangement.
type Position struct {
	Box
	Column int `json:"column"`
}
