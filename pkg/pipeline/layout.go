package pipeline

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patchlayout/pkg/core/layout/arrange"
	"github.com/matzehuels/patchlayout/pkg/core/layout/columns"
	"github.com/matzehuels/patchlayout/pkg/core/layout/repulse"
	"github.com/matzehuels/patchlayout/pkg/core/patch"
	"github.com/matzehuels/patchlayout/pkg/errors"
	"github.com/matzehuels/patchlayout/pkg/graph"
)

// =============================================================================
// Columns
// =============================================================================

// AssignColumns computes the column assignment of g without caching.
func AssignColumns(g *patch.Graph, opts Options) (graph.ColumnsResult, error) {
	opts.SetDefaults()
	copts := []columns.Option{columns.WithLogger(opts.Logger)}
	if opts.HardwareOnSides {
		copts = append(copts, columns.WithHardwareOnSides())
	}
	a, err := columns.Assign(g, copts...)
	if err != nil {
		return graph.ColumnsResult{}, err
	}
	return graph.FromAssignment(a), nil
}

// =============================================================================
// Arrange
// =============================================================================

// Arrange places the boxes of g in the mode of opts without caching.
func Arrange(g *patch.Graph, sizes arrange.Sizes, opts Options) (graph.ArrangeResult, error) {
	opts.SetDefaults()
	if err := ValidateMode(opts.Mode); err != nil {
		return graph.ArrangeResult{}, err
	}

	cfg := opts.arrangement()
	var res *arrange.Result
	switch opts.Mode {
	case graph.ModeFaceToFace:
		res = arrange.FaceToFace(g, sizes, cfg, arrange.WithLogger(opts.Logger))
	default:
		var err error
		res, err = arrange.FollowSignal(g, sizes, cfg, arrange.WithLogger(opts.Logger))
		if err != nil {
			return graph.ArrangeResult{}, err
		}
	}
	return graph.FromArrange(res, opts.Mode), nil
}

// =============================================================================
// Resolve
// =============================================================================

// Resolve answers a resolve request: a full pass when req.All is set, a
// pull-up when req.PullUp is set, a repulsion pass otherwise.
func Resolve(req graph.ResolveRequest, cfg repulse.Config, logger *log.Logger) (graph.ResolveResult, error) {
	scene, err := graph.Scene(req.Boxes)
	if err != nil {
		return graph.ResolveResult{}, err
	}
	r := repulse.New(cfg, repulse.WithLogger(logger))

	switch {
	case req.All:
		return graph.FromMoves(r.ResolveAll(scene)), nil

	case req.PullUp != nil:
		key := req.PullUp.Key()
		if !slices.ContainsFunc(req.Boxes, func(b graph.Box) bool { return b.Key() == key }) {
			return graph.ResolveResult{}, errors.New(errors.ErrCodeUnknownNode,
				"pull-up box %s is not in the scene", key)
		}
		before := req.PullUp.Rect()
		if err := errors.ValidateRect(before.X, before.Y, before.Width, before.Height); err != nil {
			return graph.ResolveResult{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "pull-up box %s", key)
		}
		return graph.FromMoves(r.PullUp(scene, key, before)), nil

	default:
		reps, err := graph.Repulsers(req.Repulsers)
		if err != nil {
			return graph.ResolveResult{}, err
		}
		return graph.FromMoves(r.Resolve(scene, reps, req.Hint)), nil
	}
}
