package columns_test

import (
	"fmt"

	"github.com/matzehuels/patchlayout/pkg/core/layout/columns"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

func ExampleAssign() {
	// capture → compressor → {reverb, delay} → mixer
	g := patch.New()
	_ = g.AddNode(patch.Node{ID: 1, Name: "capture"})
	_ = g.AddNode(patch.Node{ID: 2, Name: "compressor"})
	_ = g.AddNode(patch.Node{ID: 3, Name: "reverb"})
	_ = g.AddNode(patch.Node{ID: 4, Name: "delay"})
	_ = g.AddNode(patch.Node{ID: 5, Name: "mixer"})
	_ = g.AddEdge(patch.Edge{From: 1, To: 2})
	_ = g.AddEdge(patch.Edge{From: 2, To: 3})
	_ = g.AddEdge(patch.Edge{From: 2, To: 4})
	_ = g.AddEdge(patch.Edge{From: 3, To: 5})
	_ = g.AddEdge(patch.Edge{From: 4, To: 5})

	a, err := columns.Assign(g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, n := range g.Nodes() {
		col, _ := a.Column(n.ID)
		fmt.Printf("%-10s column %d\n", n.Name, col)
	}
	// Output:
	// capture    column 1
	// compressor column 2
	// reverb     column 3
	// delay      column 3
	// mixer      column 4
}

func ExampleAssign_feedback() {
	// A feedback loop: the delay output goes back into its own input chain.
	g := patch.New()
	_ = g.AddNode(patch.Node{ID: 1, Name: "delay"})
	_ = g.AddNode(patch.Node{ID: 2, Name: "filter"})
	_ = g.AddEdge(patch.Edge{From: 1, To: 2})
	_ = g.AddEdge(patch.Edge{From: 2, To: 1})

	a, err := columns.Assign(g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("split:", a.Split)
	for _, k := range a.Keys() {
		fmt.Printf("%s -> %d\n", k, a.Columns[k])
	}
	// Output:
	// split: [1]
	// 1:input -> 3
	// 1:output -> 1
	// 2:both -> 2
}
