package repulse

import (
	"testing"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

var (
	both = patch.PortModeBoth
	out  = patch.PortModeOutput
	in   = patch.PortModeInput
)

func TestDirection(t *testing.T) {
	fixed := geom.R(0, 0, 100, 40)

	tests := []struct {
		name   string
		moving geom.Rect
		used   []Direction
		want   Direction
	}{
		{"clear on the right", geom.R(150, 0, 100, 40), nil, DirectionRight},
		{"clear on the right, already went left", geom.R(150, 0, 100, 40), []Direction{DirectionLeft}, DirectionLeft},
		{"clear on the left", geom.R(-150, 0, 100, 40), nil, DirectionLeft},
		{"clear on the left, already went right", geom.R(-150, 0, 100, 40), []Direction{DirectionRight}, DirectionRight},
		{"centers stacked, below", geom.R(50, 10, 100, 40), nil, DirectionDown},
		{"centers stacked, above", geom.R(50, -10, 100, 40), nil, DirectionUp},
		{"above, already went down", geom.R(50, -10, 100, 40), []Direction{DirectionDown}, DirectionDown},
		{"below, already went up", geom.R(50, 10, 100, 40), []Direction{DirectionUp}, DirectionUp},
		{"far below", geom.R(150, 200, 100, 40), nil, DirectionDown},
		{"hint none", geom.R(150, 0, 100, 40), []Direction{DirectionNone}, DirectionRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := direction(fixed, tt.moving, tt.used); got != tt.want {
				t.Errorf("direction() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConfig_Push(t *testing.T) {
	cfg := DefaultConfig()
	fixed := geom.R(0, 0, 100, 40)

	tests := []struct {
		name      string
		dir       Direction
		fixedMode patch.PortMode
		mode      patch.PortMode
		rect      geom.Rect
		magnet    bool
		want      geom.Rect
	}{
		{"right, wire spacing", DirectionRight, both, both, geom.R(90, 30, 100, 40), false, geom.R(130, 30, 100, 40)},
		{"right, magnet on bottom", DirectionRight, both, both, geom.R(90, 5, 100, 40), true, geom.R(130, 0, 100, 40)},
		{"right, magnet on top", DirectionRight, both, both, geom.R(90, 8, 100, 20), true, geom.R(130, 0, 100, 20)},
		{"right, out of magnet range", DirectionRight, both, both, geom.R(90, 30, 100, 40), true, geom.R(130, 30, 100, 40)},
		{"left, wire spacing", DirectionLeft, both, both, geom.R(-50, 0, 100, 40), false, geom.R(-126, 0, 100, 40)},
		{"left, box spacing", DirectionLeft, out, in, geom.R(-50, 0, 100, 40), false, geom.R(-110, 0, 100, 40)},
		{"up", DirectionUp, both, both, geom.R(5, -10, 100, 40), false, geom.R(5, -46, 100, 40)},
		{"up, magnet", DirectionUp, both, both, geom.R(5, -10, 100, 40), true, geom.R(0, -46, 100, 40)},
		{"down", DirectionDown, both, both, geom.R(50, 10, 100, 40), true, geom.R(50, 50, 100, 40)},
		{"none", DirectionNone, both, both, geom.R(50, 10, 100, 40), true, geom.R(50, 10, 100, 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.push(tt.dir, fixed, tt.fixedMode, tt.rect, tt.mode, tt.magnet)
			if got != tt.want {
				t.Errorf("push() = %v, want %v", got, tt.want)
			}
			if tt.dir != DirectionNone && cfg.tooClose(fixed, tt.fixedMode, got, tt.mode) {
				t.Errorf("push() result %v is still too close to %v", got, fixed)
			}
		})
	}
}

func TestConfig_TooClose(t *testing.T) {
	cfg := DefaultConfig()
	fixed := geom.R(0, 0, 100, 40)

	tests := []struct {
		name      string
		fixedMode patch.PortMode
		rect      geom.Rect
		mode      patch.PortMode
		want      bool
	}{
		{"overlapping", both, geom.R(50, 10, 100, 40), both, true},
		{"inputs on the right of outputs need wire room", out, geom.R(110, 0, 100, 40), in, true},
		{"input box left of an output box keeps box spacing", out, geom.R(-110, 0, 100, 40), in, false},
		{"gap of box spacing below", both, geom.R(0, 44, 100, 40), both, false},
		{"gap smaller than box spacing below", both, geom.R(0, 43, 100, 40), both, true},
		{"far away", both, geom.R(500, 500, 10, 10), both, false},
		{"null rectangle", both, geom.Rect{}, both, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.tooClose(fixed, tt.fixedMode, tt.rect, tt.mode); got != tt.want {
				t.Errorf("tooClose() = %v, want %v", got, tt.want)
			}
			if got := cfg.tooClose(tt.rect, tt.mode, fixed, tt.fixedMode); got != tt.want {
				t.Errorf("tooClose() swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCandidate_Compare(t *testing.T) {
	c := func(node int, rect geom.Rect, path ...Direction) *candidate {
		return &candidate{key: patch.BoxKey{Node: node, Mode: both}, rect: rect, path: path}
	}
	r := geom.R

	tests := []struct {
		name  string
		first *candidate
		then  *candidate
	}{
		{"shorter path first", c(2, r(0, 0, 10, 10), DirectionLeft), c(1, r(0, 0, 10, 10), DirectionLeft, DirectionUp)},
		{"left before down", c(2, r(0, 0, 10, 10), DirectionLeft), c(1, r(0, 0, 10, 10), DirectionDown)},
		{"left: furthest right first", c(2, r(70, 0, 10, 10), DirectionLeft), c(1, r(40, 0, 10, 10), DirectionLeft)},
		{"right: furthest left first", c(2, r(40, 0, 10, 10), DirectionRight), c(1, r(70, 0, 10, 10), DirectionRight)},
		{"up: lowest bottom first", c(2, r(0, 50, 10, 10), DirectionUp), c(1, r(0, 20, 10, 10), DirectionUp)},
		{"down: highest top first", c(2, r(0, 20, 10, 10), DirectionDown), c(1, r(0, 50, 10, 10), DirectionDown)},
		{"tie broken by key", c(1, r(0, 0, 10, 10), DirectionDown), c(2, r(0, 0, 10, 10), DirectionDown)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.first.compare(tt.then) >= 0 {
				t.Error("first candidate does not sort before the second")
			}
			if tt.then.compare(tt.first) <= 0 {
				t.Error("comparison is not antisymmetric")
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{DirectionNone, DirectionLeft, DirectionRight, DirectionUp, DirectionDown} {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if got, err := ParseDirection(""); err != nil || got != DirectionNone {
		t.Errorf("ParseDirection(\"\") = %v, %v", got, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection(sideways) should fail")
	}
}
