package patch

import "slices"

// Graph is an id-indexed snapshot of the routing graph. Nodes keep their
// insertion order, which every layout algorithm uses as its iteration order.
//
// The zero value is not usable - use [New].
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    map[int]*Node
	order    []int
	edges    []Edge
	seen     map[Edge]bool
	outgoing map[int][]int
	incoming map[int][]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[int]*Node),
		seen:     make(map[Edge]bool),
		outgoing: make(map[int][]int),
		incoming: make(map[int][]int),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for negative IDs and
// ErrDuplicateNodeID if the ID is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID < 0 {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Ports == PortModeNull {
		n.Ports = PortModeBoth
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge records a connection between two existing nodes. A connection
// already present is silently ignored, so adjacency stays deduplicated.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if g.seen[e] {
		return nil
	}
	g.seen[e] = true
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id int) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// Edges returns the deduplicated edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs of nodes fed by id, in edge insertion order.
// The returned slice should not be modified.
func (g *Graph) Children(id int) []int { return g.outgoing[id] }

// Parents returns the IDs of nodes feeding id, in edge insertion order.
// The returned slice should not be modified.
func (g *Graph) Parents(id int) []int { return g.incoming[id] }

// HasSelfLoop reports whether id is connected to itself.
func (g *Graph) HasSelfLoop(id int) bool { return g.seen[Edge{From: id, To: id}] }

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.order {
		_ = c.AddNode(*g.nodes[id])
	}
	for _, e := range g.edges {
		_ = c.AddEdge(e)
	}
	return c
}
