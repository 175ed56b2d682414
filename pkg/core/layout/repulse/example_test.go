package repulse_test

import (
	"fmt"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/layout/repulse"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

func ExampleResolver_Resolve() {
	mixer := patch.BoxKey{Node: 1, Mode: patch.PortModeBoth}
	reverb := patch.BoxKey{Node: 2, Mode: patch.PortModeBoth}

	scene := []repulse.Box{
		{Key: mixer, Rect: geom.R(400, 300, 100, 40)},
		{Key: reverb, Rect: geom.R(50, 10, 100, 40)},
	}

	// The mixer was dropped on top of the reverb.
	r := repulse.New(repulse.DefaultConfig())
	moves := r.Resolve(scene, []repulse.Repulser{{Key: mixer, Rect: geom.R(0, 0, 100, 40)}}, repulse.DirectionNone)

	for _, m := range moves {
		fmt.Printf("%s -> (%g,%g) via %v\n", m.Key, m.X, m.Y, m.Path)
	}
	// Output:
	// 2:both -> (50,50) via [down down]
}

func ExampleResolver_ResolveAll() {
	scene := []repulse.Box{
		{Key: patch.BoxKey{Node: 1, Mode: patch.PortModeOutput}, Rect: geom.R(0, 0, 100, 40)},
		{Key: patch.BoxKey{Node: 2, Mode: patch.PortModeInput}, Rect: geom.R(90, 0, 100, 40)},
	}

	r := repulse.New(repulse.DefaultConfig())
	for _, m := range r.ResolveAll(scene) {
		fmt.Printf("%s -> (%g,%g)\n", m.Key, m.X, m.Y)
	}
	// Output:
	// 2:input -> (130,0)
}
