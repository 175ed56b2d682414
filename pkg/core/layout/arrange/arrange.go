// Package arrange places every box of a patch at once.
//
// Two arrangements are provided:
//
//   - [FollowSignal] orders boxes in columns along the signal flow using
//     [columns.Assign], then stacks each network row by row.
//   - [FaceToFace] splits every node and faces all outputs, stacked in a
//     left column, to all inputs stacked in a right column.
//
// Both finish with a full overlap pass of [repulse.Resolver.ResolveAll]
// when overlap prevention is enabled, so the returned rectangles never
// stand too close to each other.
package arrange

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/core/geom"
	"github.com/matzehuels/patchlayout/pkg/core/layout/columns"
	"github.com/matzehuels/patchlayout/pkg/core/layout/repulse"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
)

// Size is the extent of a box.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultSize is used for boxes the host gave no size for.
var DefaultSize = Size{Width: 120, Height: 48}

// Sizes holds the extent of the boxes known to the host.
type Sizes map[patch.BoxKey]Size

// Of returns the size of box k. A split box without a size of its own takes
// the size of its node's single box; a single box without a size takes the
// largest extent of its two halves.
func (s Sizes) Of(k patch.BoxKey) Size {
	if sz, ok := s[k]; ok {
		return sz
	}
	if k.Mode != patch.PortModeBoth {
		if sz, ok := s[patch.BoxKey{Node: k.Node, Mode: patch.PortModeBoth}]; ok {
			return sz
		}
		return DefaultSize
	}

	in, hasIn := s[patch.BoxKey{Node: k.Node, Mode: patch.PortModeInput}]
	out, hasOut := s[patch.BoxKey{Node: k.Node, Mode: patch.PortModeOutput}]
	if !hasIn && !hasOut {
		return DefaultSize
	}
	return Size{Width: max(in.Width, out.Width), Height: max(in.Height, out.Height)}
}

// Config holds the metrics of the arrangements.
type Config struct {
	Resolver        repulse.Config // grid, box spacing and the final overlap pass
	ColumnGap       float64        // minimal gap between two columns
	FaceGap         float64        // gap between outputs and inputs in FaceToFace
	HardwareOnSides bool           // keep hardware in the outer columns
}

// DefaultConfig returns the metrics of the default canvas theme.
func DefaultConfig() Config {
	return Config{
		Resolver:        repulse.DefaultConfig(),
		ColumnGap:       80,
		FaceGap:         300,
		HardwareOnSides: true,
	}
}

// Placement is the destination of one box.
type Placement struct {
	Key    patch.BoxKey
	Rect   geom.Rect
	Column int
}

// Result is the outcome of an arrangement.
type Result struct {
	// Placements holds every box in ascending key order.
	Placements []Placement

	// Assignment is the column assignment FollowSignal worked from. It is
	// nil for FaceToFace.
	Assignment *columns.Assignment

	// Settled counts the boxes moved by the final overlap pass.
	Settled int
}

// Rect returns the destination of box k.
func (r *Result) Rect(k patch.BoxKey) (geom.Rect, bool) {
	i, found := slices.BinarySearchFunc(r.Placements, k, func(p Placement, k patch.BoxKey) int {
		return p.Key.Compare(k)
	})
	if !found {
		return geom.Rect{}, false
	}
	return r.Placements[i].Rect, true
}

// Option configures an arrangement.
type Option func(*arranger)

// WithLogger sets the logger used for debug output and warnings.
func WithLogger(l *log.Logger) Option {
	return func(a *arranger) {
		if l != nil {
			a.logger = l
		}
	}
}

type arranger struct {
	cfg    Config
	logger *log.Logger
}

func newArranger(cfg Config, opts []Option) *arranger {
	a := &arranger{cfg: cfg, logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// settle sorts placements and runs the full overlap pass over them. It
// returns the sorted placements and the number of moved boxes.
func (a *arranger) settle(placements []Placement) ([]Placement, int) {
	slices.SortFunc(placements, func(x, y Placement) int { return x.Key.Compare(y.Key) })

	scene := make([]repulse.Box, len(placements))
	index := make(map[patch.BoxKey]int, len(placements))
	for i, p := range placements {
		scene[i] = repulse.Box{Key: p.Key, Rect: p.Rect}
		index[p.Key] = i
	}

	moves := repulse.New(a.cfg.Resolver, repulse.WithLogger(a.logger)).ResolveAll(scene)
	for _, m := range moves {
		i := index[m.Key]
		placements[i].Rect = placements[i].Rect.MovedTo(m.X, m.Y)
	}
	return placements, len(moves)
}
