package patch

import (
	"errors"
	"testing"
)

func TestGraph_AddNode(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{ID: 1}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddNode(Node{ID: 1}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) error = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(Node{ID: -3}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(-3) error = %v, want ErrInvalidNodeID", err)
	}

	n, ok := g.Node(1)
	if !ok {
		t.Fatal("Node(1) not found")
	}
	if n.Ports != PortModeBoth {
		t.Errorf("default Ports = %v, want both", n.Ports)
	}
}

func TestGraph_AddEdgeDeduplicates(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 1})
	g.AddNode(Node{ID: 2})

	for range 3 {
		if err := g.AddEdge(Edge{From: 1, To: 2}); err != nil {
			t.Fatalf("AddEdge() error = %v", err)
		}
	}

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Children(1); len(got) != 1 || got[0] != 2 {
		t.Errorf("Children(1) = %v, want [2]", got)
	}
	if got := g.Parents(2); len(got) != 1 || got[0] != 1 {
		t.Errorf("Parents(2) = %v, want [1]", got)
	}
}

func TestGraph_AddEdgeUnknown(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 1})

	if err := g.AddEdge(Edge{From: 9, To: 1}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("error = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: 1, To: 9}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("error = %v, want ErrUnknownTargetNode", err)
	}
}

func TestGraph_NodesKeepInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []int{5, 2, 9, 1} {
		g.AddNode(Node{ID: id})
	}

	var got []int
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	want := []int{5, 2, 9, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Nodes() order = %v, want %v", got, want)
		}
	}
}

func TestGraph_SelfLoopAndClone(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 1})
	g.AddEdge(Edge{From: 1, To: 1})

	if !g.HasSelfLoop(1) {
		t.Error("HasSelfLoop(1) = false, want true")
	}

	c := g.Clone()
	c.AddNode(Node{ID: 2})
	if g.NodeCount() != 1 {
		t.Errorf("Clone shares state: original NodeCount() = %d", g.NodeCount())
	}
	if !c.HasSelfLoop(1) {
		t.Error("clone lost self loop")
	}
}

func TestParsePortMode(t *testing.T) {
	tests := []struct {
		in   string
		want PortMode
		err  bool
	}{
		{"input", PortModeInput, false},
		{"OUTPUT", PortModeOutput, false},
		{"both", PortModeBoth, false},
		{"", PortModeNull, false},
		{"sideways", PortModeNull, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePortMode(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("ParsePortMode(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePortMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPortMode_Opposite(t *testing.T) {
	if PortModeInput.Opposite() != PortModeOutput {
		t.Error("input.Opposite() != output")
	}
	if PortModeOutput.Opposite() != PortModeInput {
		t.Error("output.Opposite() != input")
	}
	if PortModeBoth.Opposite() != PortModeNull {
		t.Error("both.Opposite() != null")
	}
	if !PortModeBoth.Has(PortModeInput) || PortModeOutput.Has(PortModeInput) {
		t.Error("Has() mismatch")
	}
}

func TestBoxType_RoundTrip(t *testing.T) {
	for bt := BoxTypeApplication; bt <= BoxTypeInternal; bt++ {
		got, err := ParseBoxType(bt.String())
		if err != nil || got != bt {
			t.Errorf("ParseBoxType(%q) = %v, %v", bt.String(), got, err)
		}
	}
	if _, err := ParseBoxType("toaster"); !errors.Is(err, ErrInvalidBoxType) {
		t.Errorf("ParseBoxType(toaster) error = %v", err)
	}
}

func TestBoxKey_Compare(t *testing.T) {
	a := BoxKey{Node: 1, Mode: PortModeOutput}
	b := BoxKey{Node: 1, Mode: PortModeBoth}
	c := BoxKey{Node: 2, Mode: PortModeInput}

	if a.Compare(b) >= 0 || b.Compare(a) <= 0 {
		t.Error("mode ordering broken")
	}
	if b.Compare(c) >= 0 {
		t.Error("node ordering broken")
	}
	if a.Compare(a) != 0 {
		t.Error("Compare(self) != 0")
	}
	if a.String() != "1:output" {
		t.Errorf("String() = %q", a.String())
	}
}
