package arrange_test

import (
	"fmt"

	"github.com/matzehuels/patchlayout/pkg/core/layout/arrange"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

func ExampleFollowSignal() {
	g := patch.New()
	_ = g.AddNode(patch.Node{ID: 1, Name: "synth"})
	_ = g.AddNode(patch.Node{ID: 2, Name: "filter"})
	_ = g.AddNode(patch.Node{ID: 3, Name: "speakers"})
	_ = g.AddEdge(patch.Edge{From: 1, To: 2})
	_ = g.AddEdge(patch.Edge{From: 2, To: 3})

	sizes := arrange.Sizes{}
	for id := 1; id <= 3; id++ {
		sizes[patch.BoxKey{Node: id, Mode: patch.PortModeBoth}] = arrange.Size{Width: 100, Height: 40}
	}

	cfg := arrange.DefaultConfig()
	cfg.HardwareOnSides = false
	res, err := arrange.FollowSignal(g, sizes, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range res.Placements {
		fmt.Printf("%s column %d at (%g,%g)\n", p.Key, p.Column, p.Rect.X, p.Rect.Y)
	}
	// Output:
	// 1:both column 1 at (2,2)
	// 2:both column 2 at (178,2)
	// 3:both column 3 at (370,2)
}
