// Package nodelink renders column assignments as node-link diagrams.
//
// # Overview
//
// This package is a debugging aid for the column assigner: every box is
// drawn as a Graphviz node, every column as a rank from left to right, and
// every connection as an arrow. Boxes of nodes split on a cycle are drawn
// dashed, hardware boxes are tinted.
//
// # Usage
//
//	a, _ := columns.Assign(g)
//	dot := nodelink.ToDOT(g, a, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
