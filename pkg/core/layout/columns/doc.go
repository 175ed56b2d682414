// Package columns assigns every box of a routing graph to a column so that
// signal flows from left to right.
//
// # Overview
//
// Each node of a [patch.Graph] becomes one box showing both of its sides,
// except hardware nodes and nodes connected to themselves, which become an
// output box and an input box. [Assign] then computes, for every box, the
// smallest column it can occupy (counted from the left) and the largest
// column it can occupy (counted from the right). Boxes whose chain is as
// long as the widest chain of the graph are pinned, and the pins propagate
// through the connections until every network is stable.
//
// # Cycles
//
// Routing graphs often contain feedback loops. When the left-to-right walk
// meets a box already on its current path, the box is split: it keeps its
// outputs, and a new input-only box takes over its upstream connections.
// The walk then restarts from scratch. Every split removes at least one
// back-edge, so the number of restarts is bounded by the number of edges.
//
//	g := patch.New()
//	_ = g.AddNode(patch.Node{ID: 1, Name: "delay"})
//	_ = g.AddNode(patch.Node{ID: 2, Name: "filter"})
//	_ = g.AddEdge(patch.Edge{From: 1, To: 2})
//	_ = g.AddEdge(patch.Edge{From: 2, To: 1})
//
//	a, err := columns.Assign(g)
//	// a.Split == []int{1}: "delay" is shown as two boxes
//
// # Columns
//
// Reported columns start at 1. Unconnected boxes land on column 1. With
// [WithHardwareOnSides], hardware outputs are pinned to the first column and
// hardware inputs to the last one, and everything else is laid out between
// them.
//
// # Determinism
//
// The result depends only on the graph content and its insertion order.
// Neighbor lists are sorted with a stable sort, so two graphs built in the
// same order always produce the same columns.
//
// [patch.Graph]: github.com/matzehuels/patchlayout/pkg/core/patch.Graph
package columns
