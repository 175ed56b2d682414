package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/patchlayout/pkg/core/layout/columns"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the box type and alignment to every label.
	Detailed bool
}

// ToDOT converts a column assignment of g to Graphviz DOT. Every column is
// a rank, left to right; the boxes of split nodes are drawn dashed.
func ToDOT(g *patch.Graph, a *columns.Assignment, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")

	byColumn := make(map[int][]patch.BoxKey)
	for _, k := range a.Keys() {
		c := a.Columns[k]
		byColumn[c] = append(byColumn[c], k)
	}

	for c := 1; c <= a.Count; c++ {
		keys := byColumn[c]
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n  subgraph column_%d {\n    rank=same;\n", c)
		for _, k := range keys {
			n, _ := g.Node(k.Node)
			fmt.Fprintf(&buf, "    %q [%s];\n", nodeID(k), strings.Join(fmtAttrs(n, k, a, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		from, ok1 := side(a, e.From, patch.PortModeOutput)
		to, ok2 := side(a, e.To, patch.PortModeInput)
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(from), nodeID(to))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// side returns the box showing the given side of node id.
func side(a *columns.Assignment, id int, mode patch.PortMode) (patch.BoxKey, bool) {
	k := patch.BoxKey{Node: id, Mode: patch.PortModeBoth}
	if _, ok := a.Columns[k]; ok {
		return k, true
	}
	k.Mode = mode
	_, ok := a.Columns[k]
	return k, ok
}

func nodeID(k patch.BoxKey) string { return k.String() }

func fmtLabel(n patch.Node, k patch.BoxKey, a *columns.Assignment, detailed bool) string {
	name := n.Name
	if name == "" {
		name = strconv.Itoa(k.Node)
	}
	if k.Mode != patch.PortModeBoth {
		name += " (" + k.Mode.String() + ")"
	}
	if !detailed {
		return name
	}
	return fmt.Sprintf("%s\ntype: %s\ncolumn: %d\nalign: %s", name, n.Type, a.Columns[k], a.Align[k])
}

func fmtAttrs(n patch.Node, k patch.BoxKey, a *columns.Assignment, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, k, a, detailed))}
	if n.IsHardware() {
		attrs = append(attrs, "fillcolor=lightsteelblue")
	}
	if k.Mode != patch.PortModeBoth && !n.IsHardware() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
