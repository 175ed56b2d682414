// Package patch models the routing graph the layout engine works on.
//
// A [Graph] holds clients ([Node]) and the connections between them
// ([Edge]). Each client is drawn as one box, or as two boxes when its
// output and input sides are shown apart; a [BoxKey] names one of those
// boxes by node ID and [PortMode].
//
// Graphs are snapshots: the layout engine never mutates them, and hosts
// build a fresh one for every structural change.
//
//	g := patch.New()
//	_ = g.AddNode(patch.Node{ID: 1, Name: "system", Type: patch.BoxTypeHardware})
//	_ = g.AddNode(patch.Node{ID: 2, Name: "synth"})
//	_ = g.AddEdge(patch.Edge{From: 2, To: 1})
package patch
